package repository

import (
	"context"
	"errors"
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoProjectRepository is a MongoDB implementation of ProjectRepository
type MongoProjectRepository struct {
	collection *mongo.Collection
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(collection *mongo.Collection) ProjectRepository {
	return &MongoProjectRepository{collection: collection}
}

// Create creates a new project
func (r *MongoProjectRepository) Create(ctx context.Context, project *models.Project) error {
	now := time.Now()
	project.CreatedAt = now
	project.UpdatedAt = now
	if project.Status == "" {
		project.Status = models.ProjectStatusActive
	}
	if project.Members == nil {
		project.Members = []primitive.ObjectID{}
	}

	result, err := r.collection.InsertOne(ctx, project)
	if err != nil {
		return err
	}

	project.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a project by ID within the organization. The lookup filters
// by both _id and organizationId, so another tenant's project behaves exactly
// like a missing one.
func (r *MongoProjectRepository) FindByID(ctx context.Context, orgID, id primitive.ObjectID) (*models.Project, error) {
	var project models.Project
	filter := bson.M{"_id": id, "organizationId": orgID}
	err := r.collection.FindOne(ctx, filter).Decode(&project)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// List retrieves the organization's projects, newest first
func (r *MongoProjectRepository) List(ctx context.Context, orgID primitive.ObjectID, filter ProjectFilter) ([]models.Project, error) {
	query := bson.M{"organizationId": orgID}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	projects := []models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Update replaces a project document, scoped to its organization
func (r *MongoProjectRepository) Update(ctx context.Context, project *models.Project) error {
	project.UpdatedAt = time.Now()
	filter := bson.M{"_id": project.ID, "organizationId": project.OrganizationID}
	result, err := r.collection.ReplaceOne(ctx, filter, project)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a project by ID within the organization
func (r *MongoProjectRepository) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "organizationId": orgID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
