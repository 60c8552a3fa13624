package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections holds the handles every repository works against.
type Collections struct {
	Users         *mongo.Collection
	Organizations *mongo.Collection
	Projects      *mongo.Collection
	Tasks         *mongo.Collection
}

// Connect opens a Mongo client, verifies the connection, and returns the
// collection handles for the given database.
func Connect(uri, dbName string) (*mongo.Client, *Collections, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(dbName)
	cols := &Collections{
		Users:         db.Collection("users"),
		Organizations: db.Collection("organizations"),
		Projects:      db.Collection("projects"),
		Tasks:         db.Collection("tasks"),
	}

	return client, cols, nil
}

// EnsureIndexes creates the unique and tenant-scoped compound indexes.
func EnsureIndexes(ctx context.Context, cols *Collections) error {
	_, err := cols.Users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users.email index: %w", err)
	}

	_, err = cols.Organizations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create organizations.slug index: %w", err)
	}

	// Every project/task query filters by organizationId first.
	_, err = cols.Projects.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "organizationId", Value: 1}, {Key: "status", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create projects index: %w", err)
	}

	_, err = cols.Tasks.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "organizationId", Value: 1}, {Key: "projectId", Value: 1}}},
		{Keys: bson.D{{Key: "organizationId", Value: 1}, {Key: "status", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create tasks indexes: %w", err)
	}

	return nil
}
