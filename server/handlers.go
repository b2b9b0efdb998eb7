package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mycore/engine"
	"github.com/mycore/models"
)

// handler holds the engine behind the HTTP surface.
type handler struct {
	engine *engine.Engine
}

// writeJSON serializes the payload with a status code.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			http.Error(w, "Internal server error", http.StatusInternalServerError)
		}
	}
}

// writeError maps engine errors onto HTTP statuses: not-found errors to
// 404, rejected input to 400, everything else to 500.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrHabitNotFound),
		errors.Is(err, engine.ErrInstanceNotFound),
		errors.Is(err, engine.ErrTaskNotFound),
		errors.Is(err, engine.ErrProjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidGoalValue),
		errors.Is(err, engine.ErrUnknownScheduleRule):
		status = http.StatusBadRequest
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// datesParam splits the comma-separated dates query parameter, returning
// nil when it is absent or empty.
func datesParam(r *http.Request) []string {
	raw := r.URL.Query().Get("dates")
	if raw == "" {
		return nil
	}
	var dates []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			dates = append(dates, trimmed)
		}
	}
	return dates
}

func (h *handler) getHabits(w http.ResponseWriter, r *http.Request) {
	habits, err := h.engine.GetHabits(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if habits == nil {
		habits = []models.Habit{}
	}
	writeJSON(w, http.StatusOK, habits)
}

func (h *handler) addHabit(w http.ResponseWriter, r *http.Request) {
	var habit models.Habit
	if err := json.NewDecoder(r.Body).Decode(&habit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid habit payload"})
		return
	}
	created, err := h.engine.AddHabit(r.Context(), habit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) getInstances(w http.ResponseWriter, r *http.Request) {
	dates := datesParam(r)
	if dates == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dates query parameter is required"})
		return
	}
	instances, err := h.engine.GetInstancesForDates(r.Context(), dates)
	if err != nil {
		writeError(w, err)
		return
	}
	if instances == nil {
		instances = []models.HabitInstance{}
	}
	writeJSON(w, http.StatusOK, instances)
}

// completionRequest is the body of a check-in.
type completionRequest struct {
	Completed bool     `json:"completed"`
	Value     *float64 `json:"value,omitempty"`
}

func (h *handler) setInstanceCompletion(w http.ResponseWriter, r *http.Request) {
	var req completionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid completion payload"})
		return
	}
	id := mux.Vars(r)["id"]
	if err := h.engine.SetInstanceCompletion(r.Context(), id, req.Completed, req.Value); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *handler) getDayStats(w http.ResponseWriter, r *http.Request) {
	dates := datesParam(r)
	if dates == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dates query parameter is required"})
		return
	}
	stats, err := h.engine.GetDayStats(r.Context(), dates)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// suggestionsRequest carries the interests picked during onboarding.
type suggestionsRequest struct {
	Interests []string `json:"interests"`
}

func (h *handler) getSuggestions(w http.ResponseWriter, r *http.Request) {
	var req suggestionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid suggestions payload"})
		return
	}
	writeJSON(w, http.StatusOK, engine.Suggestions(req.Interests))
}

// onboardingRequest carries the habits the user committed to.
type onboardingRequest struct {
	Habits []models.Habit `json:"habits"`
}

func (h *handler) completeOnboarding(w http.ResponseWriter, r *http.Request) {
	var req onboardingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid onboarding payload"})
		return
	}
	if err := h.engine.CompleteOnboarding(r.Context(), req.Habits); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *handler) getTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.engine.GetTasks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *handler) addTask(w http.ResponseWriter, r *http.Request) {
	var task models.Task
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task payload"})
		return
	}
	created, err := h.engine.AddTask(r.Context(), task)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var update engine.TaskUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid task payload"})
		return
	}
	task, err := h.engine.UpdateTask(r.Context(), mux.Vars(r)["id"], update)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (h *handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.DeleteTask(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *handler) getProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.engine.GetProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *handler) addProject(w http.ResponseWriter, r *http.Request) {
	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid project payload"})
		return
	}
	created, err := h.engine.AddProject(r.Context(), project)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handler) archiveProject(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ArchiveProject(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (h *handler) reset(w http.ResponseWriter, r *http.Request) {
	if err := h.engine.ResetAll(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
