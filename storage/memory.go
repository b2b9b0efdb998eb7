package storage

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
)

// MemoryStorage is an in-memory implementation of StorageInterface. It keeps
// every collection as a map of bson documents keyed by id, so it honors the
// same record shapes and filters as the MongoDB backend. It backs the test
// suite and the zero-configuration demo mode.
type MemoryStorage struct {
	mu          sync.RWMutex
	collections map[string]map[string]bson.M
}

// NewMemoryStorage creates an empty in-memory store. No Connect step is
// needed; the store is usable immediately.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		collections: make(map[string]map[string]bson.M),
	}
}

// Disconnect is a no-op for the in-memory store.
func (m *MemoryStorage) Disconnect() error {
	return nil
}

// Get decodes the record with the given id into out.
// Returns ErrNotFound when the id is absent from the collection.
func (m *MemoryStorage) Get(ctx context.Context, collection, id string, out interface{}) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}

// ListWhere decodes every record matching the filter into out, which must be
// a pointer to a slice. The filter is a bson.M document supporting equality
// and {"$in": [...]} values, the subset of mongo filters the engine uses.
// Results are ordered by id so repeated calls are deterministic.
func (m *MemoryStorage) ListWhere(ctx context.Context, collection string, filter interface{}, out interface{}) error {
	filterDoc, err := asFilter(filter)
	if err != nil {
		return err
	}

	m.mu.RLock()
	ids := make([]string, 0, len(m.collections[collection]))
	for id := range m.collections[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var matches []bson.M
	for _, id := range ids {
		doc := m.collections[collection][id]
		if matchesFilter(doc, filterDoc) {
			matches = append(matches, doc)
		}
	}
	m.mu.RUnlock()

	return decodeSlice(matches, out)
}

// Put upserts the record under the given id.
func (m *MemoryStorage) Put(ctx context.Context, collection, id string, record interface{}) error {
	raw, err := bson.Marshal(record)
	if err != nil {
		return err
	}
	var doc bson.M
	if err := bson.Unmarshal(raw, &doc); err != nil {
		return err
	}
	doc["_id"] = id

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.collections[collection] == nil {
		m.collections[collection] = make(map[string]bson.M)
	}
	m.collections[collection][id] = doc
	return nil
}

// Delete removes the record with the given id from the collection.
// Returns ErrNotFound when the id is absent.
func (m *MemoryStorage) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(m.collections[collection], id)
	return nil
}

// DeleteAll removes every record from the collection.
func (m *MemoryStorage) DeleteAll(ctx context.Context, collection string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.collections, collection)
	return nil
}

// asFilter validates that the filter is a bson.M document.
func asFilter(filter interface{}) (bson.M, error) {
	if filter == nil {
		return bson.M{}, nil
	}
	doc, ok := filter.(bson.M)
	if !ok {
		return nil, errors.New("filter must be of type bson.M")
	}
	return doc, nil
}

// matchesFilter reports whether doc satisfies every clause of the filter.
func matchesFilter(doc bson.M, filter bson.M) bool {
	for field, want := range filter {
		got, ok := doc[field]
		if !ok {
			return false
		}
		if !matchesValue(got, want) {
			return false
		}
	}
	return true
}

// matchesValue compares one document value against one filter clause,
// handling the {"$in": [...]} operator.
func matchesValue(got, want interface{}) bool {
	if clause, ok := want.(bson.M); ok {
		if in, ok := clause["$in"]; ok {
			list := reflect.ValueOf(in)
			if list.Kind() != reflect.Slice {
				return false
			}
			for i := 0; i < list.Len(); i++ {
				if equalValue(got, list.Index(i).Interface()) {
					return true
				}
			}
			return false
		}
		return false
	}
	return equalValue(got, want)
}

// equalValue compares a stored bson value with a filter value. Stored
// documents have been through a bson round-trip, so strings stay strings but
// numbers normalize; formatting both sides sidesteps the width differences.
func equalValue(got, want interface{}) bool {
	if got == want {
		return true
	}
	return fmt.Sprintf("%v", got) == fmt.Sprintf("%v", want)
}

// decodeSlice marshals every matched document through bson into the caller's
// typed slice, mirroring what cursor.All does for the MongoDB backend.
func decodeSlice(matches []bson.M, out interface{}) error {
	ptr := reflect.ValueOf(out)
	if ptr.Kind() != reflect.Ptr || ptr.Elem().Kind() != reflect.Slice {
		return errors.New("out must be a pointer to a slice")
	}

	slice := ptr.Elem()
	result := reflect.MakeSlice(slice.Type(), 0, len(matches))
	elemType := slice.Type().Elem()

	for _, doc := range matches {
		raw, err := bson.Marshal(doc)
		if err != nil {
			return err
		}
		elem := reflect.New(elemType)
		if err := bson.Unmarshal(raw, elem.Interface()); err != nil {
			return err
		}
		result = reflect.Append(result, elem.Elem())
	}

	slice.Set(result)
	return nil
}
