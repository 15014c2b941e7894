//go:build integration

package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"schoolclasses/internal/classes/repository"
	"schoolclasses/pkg/config"
)

const ConnectionTimeout = 10 * time.Second

// MongoHelper reads the catalog collection behind the running service.
type MongoHelper struct {
	Client   *mongo.Client
	Database *mongo.Database
}

func NewMongoHelper(t *testing.T) *MongoHelper {
	t.Helper()

	uri := os.Getenv(config.EnvMongoURI)
	if uri == "" {
		uri = config.DefaultMongoURI
	}
	dbName := os.Getenv(config.EnvMongoDatabaseName)
	if dbName == "" {
		dbName = config.DefaultMongoDatabaseName
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	m := &MongoHelper{Client: client, Database: client.Database(dbName)}
	t.Cleanup(func() { m.Close(t) })
	return m
}

func (m *MongoHelper) Close(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		t.Logf("warning: failed to disconnect from MongoDB: %v", err)
	}
}

// Seats returns the stored seat count for a class id.
func (m *MongoHelper) Seats(t *testing.T, id string) int {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		t.Fatalf("invalid class id %q: %v", id, err)
	}

	var doc struct {
		Seats int `bson:"seats"`
	}
	if err := m.Database.Collection(repository.CollectionName).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		t.Fatalf("failed to load class %s: %v", id, err)
	}
	return doc.Seats
}

// DeleteClass removes a class created by a test.
func (m *MongoHelper) DeleteClass(t *testing.T, id string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return
	}
	if _, err := m.Database.Collection(repository.CollectionName).DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		t.Logf("warning: failed to delete class %s: %v", id, err)
	}
}
