package storage

import (
	"context"
	"errors"
	"fmt"
)

// Collection names used by the engine. Every record the engine persists
// lives in exactly one of these.
const (
	CollectionHabits    = "habits"
	CollectionInstances = "instances"
	CollectionTasks     = "tasks"
	CollectionProjects  = "projects"
)

// Collections lists every collection, in the order ResetAll clears them.
var Collections = []string{
	CollectionHabits,
	CollectionInstances,
	CollectionTasks,
	CollectionProjects,
}

// ErrNotFound is returned by Get when no record with the requested id
// exists in the collection.
var ErrNotFound = errors.New("record not found")

// StorageInterface defines the set of methods that any persistent storage
// backend needs to implement. It is a small document-store contract: records
// are keyed by id within a named collection, filters are mongo-style bson.M
// documents (equality and $in are the only operators the engine relies on).
//
// Writes must be visible to any read issued after the write returns; no
// implementation may buffer or reorder writes across calls.
type StorageInterface interface {
	// Disconnects from the storage backend.
	Disconnect() error
	// Get decodes the record with the given id into out.
	// Returns ErrNotFound when the id is absent from the collection.
	Get(ctx context.Context, collection, id string, out interface{}) error
	// ListWhere decodes every record matching the filter into out, which
	// must be a pointer to a slice.
	ListWhere(ctx context.Context, collection string, filter interface{}, out interface{}) error
	// Put upserts the record under the given id.
	Put(ctx context.Context, collection, id string, record interface{}) error
	// Delete removes the record with the given id.
	// Returns ErrNotFound when the id is absent from the collection.
	Delete(ctx context.Context, collection, id string) error
	// DeleteAll removes every record from the collection.
	DeleteAll(ctx context.Context, collection string) error
}

// NewStorage creates a new StorageInterface with a MongoDB backend,
// using the provided URI to connect to the MongoDB server.
func NewStorage(dbName, uri string) (StorageInterface, error) {
	store := NewMongoStorage()
	if err := store.Connect(dbName, uri); err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	return store, nil
}
