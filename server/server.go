package server

import (
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mycore/engine"
)

// recoveryMiddleware recovers from panics and provides a generic error
// message to the client.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic recovered: %s\n", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// NewRouter builds the HTTP surface over the engine: JSON handlers behind
// recovery, CORS and access-log middleware.
func NewRouter(e *engine.Engine) http.Handler {
	h := &handler{engine: e}

	r := mux.NewRouter()

	r.HandleFunc("/habits", h.getHabits).Methods(http.MethodGet)
	r.HandleFunc("/habits", h.addHabit).Methods(http.MethodPost)
	r.HandleFunc("/instances", h.getInstances).Methods(http.MethodGet)
	r.HandleFunc("/instances/{id}", h.setInstanceCompletion).Methods(http.MethodPut)
	r.HandleFunc("/stats", h.getDayStats).Methods(http.MethodGet)
	r.HandleFunc("/suggestions", h.getSuggestions).Methods(http.MethodPost)
	r.HandleFunc("/onboarding", h.completeOnboarding).Methods(http.MethodPost)
	r.HandleFunc("/tasks", h.getTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", h.addTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id}", h.updateTask).Methods(http.MethodPut)
	r.HandleFunc("/tasks/{id}", h.deleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/projects", h.getProjects).Methods(http.MethodGet)
	r.HandleFunc("/projects", h.addProject).Methods(http.MethodPost)
	r.HandleFunc("/projects/{id}/archive", h.archiveProject).Methods(http.MethodPost)
	r.HandleFunc("/reset", h.reset).Methods(http.MethodPost)

	// Apply the CORS middleware to the router
	corsOrigins := handlers.AllowedOrigins([]string{"*"})
	corsMethods := handlers.AllowedMethods([]string{"GET", "HEAD", "POST", "PUT", "DELETE", "OPTIONS"})
	corsHeaders := handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	corsRouter := handlers.CORS(corsOrigins, corsMethods, corsHeaders)(r)

	// Apply the logging middleware
	return handlers.LoggingHandler(os.Stdout, recoveryMiddleware(corsRouter))
}

// Start runs the HTTP server at the given URL until it fails.
func Start(serverURL string, e *engine.Engine) {
	u, err := url.Parse(serverURL)
	if err != nil {
		panic(err)
	}

	server := &http.Server{
		Handler:      NewRouter(e),
		Addr:         u.Host,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	log.Fatal(server.ListenAndServe())
}
