package storage

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStorage is a struct representing a MongoDB storage.
// It provides a generic document-store interface over the collections used
// by the engine.
type MongoStorage struct {
	client *mongo.Client
	dbName string
}

// NewMongoStorage creates a new instance of MongoStorage.
// This function doesn't establish a connection to the MongoDB server.
// To connect to the server, use the Connect method of the returned instance.
func NewMongoStorage() *MongoStorage {
	return &MongoStorage{}
}

// Connect establishes a connection to the MongoDB server at the given URI
// and database name, and sets up indexes and unique constraints.
// Returns an error if any issues are encountered.
func (m *MongoStorage) Connect(dbName, uri string) error {

	// Set a timeout for the connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("error connecting to MongoDB: %v", err)
	}

	m.client = client
	m.dbName = dbName

	// Initializing the instances collection.
	instancesCollection := m.client.Database(m.dbName).Collection(CollectionInstances)

	// Create a compound unique index on the "habit_id" and "date" fields.
	// This enforces the at-most-one-instance-per-(habit, date) invariant at
	// the store level, on top of the deterministic instance ids.
	habitIDDateIndexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "habit_id", Value: 1}, // 1 for ascending order
			{Key: "date", Value: 1},     // 1 for ascending order
		},
		Options: options.Index().SetUnique(true),
	}

	_, err = instancesCollection.Indexes().CreateOne(ctx, habitIDDateIndexModel)
	if err != nil {
		return fmt.Errorf("error creating habit_id and date index: %v", err)
	}

	// Create an index on the "date" field. The week view queries instances
	// by date window, so this speeds up the hot read path.
	dateIndexModel := mongo.IndexModel{
		Keys: bson.M{
			"date": 1,
		},
		Options: options.Index(),
	}

	_, err = instancesCollection.Indexes().CreateOne(ctx, dateIndexModel)
	if err != nil {
		return fmt.Errorf("error creating date index: %v", err)
	}

	// Initializing the tasks collection.
	tasksCollection := m.client.Database(m.dbName).Collection(CollectionTasks)

	// Create an index on the "project_id" field. Project rollup lists all
	// tasks linked to one project after every task mutation.
	projectIDIndexModel := mongo.IndexModel{
		Keys: bson.M{
			"project_id": 1,
		},
		Options: options.Index(),
	}

	_, err = tasksCollection.Indexes().CreateOne(ctx, projectIDIndexModel)
	if err != nil {
		return fmt.Errorf("error creating project_id index: %v", err)
	}

	return nil
}

// Disconnect closes the connection to the MongoDB server.
// It should be called when the MongoStorage instance is no longer needed.
// Returns an error if the disconnection process fails.
func (m *MongoStorage) Disconnect() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := m.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("error disconnecting from MongoDB: %v", err)
	}

	return nil
}

// Get finds the record with the given id in the collection and decodes it
// into out. Returns ErrNotFound when no record matches.
func (m *MongoStorage) Get(ctx context.Context, collection, id string, out interface{}) error {
	coll := m.client.Database(m.dbName).Collection(collection)
	result := coll.FindOne(ctx, bson.M{"_id": id})
	if err := result.Err(); err != nil {
		if err == mongo.ErrNoDocuments {
			return ErrNotFound
		}
		return err
	}
	return result.Decode(out)
}

// ListWhere finds every record in the collection matching the filter and
// decodes the result set into out, which must be a pointer to a slice.
func (m *MongoStorage) ListWhere(ctx context.Context, collection string, filter interface{}, out interface{}) error {
	coll := m.client.Database(m.dbName).Collection(collection)
	cursor, err := coll.Find(ctx, filter)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	return cursor.All(ctx, out)
}

// Put upserts the record under the given id. An existing record with the
// same id is replaced wholesale; a missing one is inserted.
func (m *MongoStorage) Put(ctx context.Context, collection, id string, record interface{}) error {
	coll := m.client.Database(m.dbName).Collection(collection)
	opts := options.Replace().SetUpsert(true)
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, record, opts)
	return err
}

// Delete removes the record with the given id from the collection.
// Returns ErrNotFound when no record matches.
func (m *MongoStorage) Delete(ctx context.Context, collection, id string) error {
	coll := m.client.Database(m.dbName).Collection(collection)
	result, err := coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAll removes every record from the collection. Used only by the
// full-reset operation.
func (m *MongoStorage) DeleteAll(ctx context.Context, collection string) error {
	coll := m.client.Database(m.dbName).Collection(collection)
	_, err := coll.DeleteMany(ctx, bson.M{})
	return err
}
