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

// MongoTaskRepository is a MongoDB implementation of TaskRepository
type MongoTaskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(collection *mongo.Collection) TaskRepository {
	return &MongoTaskRepository{collection: collection}
}

// Create creates a new task
func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now
	if task.Status == "" {
		task.Status = models.TaskStatusTodo
	}
	if task.Priority == "" {
		task.Priority = models.TaskPriorityMedium
	}

	result, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return err
	}

	task.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds a task by ID within the organization
func (r *MongoTaskRepository) FindByID(ctx context.Context, orgID, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	filter := bson.M{"_id": id, "organizationId": orgID}
	err := r.collection.FindOne(ctx, filter).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &task, nil
}

// List retrieves the organization's tasks, newest first. Caller filters are
// ANDed onto the organization filter.
func (r *MongoTaskRepository) List(ctx context.Context, orgID primitive.ObjectID, filter TaskFilter) ([]models.Task, error) {
	query := bson.M{"organizationId": orgID}
	if filter.ProjectID != nil {
		query["projectId"] = *filter.ProjectID
	}
	if filter.Status != nil {
		query["status"] = *filter.Status
	}
	if filter.AssignedTo != nil {
		query["assignedTo"] = *filter.AssignedTo
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update replaces a task document, scoped to its organization
func (r *MongoTaskRepository) Update(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now()
	filter := bson.M{"_id": task.ID, "organizationId": task.OrganizationID}
	result, err := r.collection.ReplaceOne(ctx, filter, task)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a task by ID within the organization
func (r *MongoTaskRepository) Delete(ctx context.Context, orgID, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "organizationId": orgID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteByProject removes all tasks of a project within the organization
func (r *MongoTaskRepository) DeleteByProject(ctx context.Context, orgID, projectID primitive.ObjectID) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"organizationId": orgID, "projectId": projectID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
