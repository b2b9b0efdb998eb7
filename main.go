package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mycore/engine"
	"github.com/mycore/server"
	"github.com/mycore/storage"
)

func main() {
	// Load the .env file
	err := godotenv.Load()
	if err != nil {
		fmt.Println("Error loading .env file")
	}

	// Read the environment variables
	dbURI := os.Getenv("MONGODB_URI")
	dbName := os.Getenv("DB_NAME")
	serverURL := os.Getenv("SERVER_URL")

	// Set default values if the environment variables are empty
	if dbName == "" {
		dbName = "mycore"
	}
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	// Without a MongoDB URI, fall back to the in-memory store. Everything
	// works, nothing survives a restart.
	var store storage.StorageInterface
	if dbURI == "" {
		log.Println("MONGODB_URI not set, using in-memory storage")
		store = storage.NewMemoryStorage()
	} else {
		store, err = storage.NewStorage(dbName, dbURI)
		if err != nil {
			log.Fatal("error initializing storage: ", err)
		}
	}
	defer store.Disconnect()

	eng := engine.NewEngine(store, time.Now)

	go server.Start(serverURL, eng)

	// Setting up the signal interrupt handler to gracefully shut down
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs
	fmt.Println()
	fmt.Println(sig)
}
