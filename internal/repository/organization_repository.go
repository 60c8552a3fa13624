package repository

import (
	"context"
	"errors"
	"time"

	"github.com/taskboard/taskboard-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoOrganizationRepository is a MongoDB implementation of OrganizationRepository
type MongoOrganizationRepository struct {
	collection *mongo.Collection
}

// NewOrganizationRepository creates a new OrganizationRepository
func NewOrganizationRepository(collection *mongo.Collection) OrganizationRepository {
	return &MongoOrganizationRepository{collection: collection}
}

// Create creates a new organization
func (r *MongoOrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	now := time.Now()
	org.CreatedAt = now
	org.UpdatedAt = now
	if org.Members == nil {
		org.Members = []primitive.ObjectID{}
	}
	if org.Settings == nil {
		org.Settings = map[string]string{"theme": "blue"}
	}

	result, err := r.collection.InsertOne(ctx, org)
	if err != nil {
		return err
	}

	org.ID = result.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds an organization by ID
func (r *MongoOrganizationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Organization, error) {
	var org models.Organization
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&org)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// FindByIDs finds all organizations matching the given IDs
func (r *MongoOrganizationRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Organization, error) {
	if len(ids) == 0 {
		return []models.Organization{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orgs := []models.Organization{}
	if err := cursor.All(ctx, &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// Update replaces an organization document
func (r *MongoOrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	org.UpdatedAt = time.Now()
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": org.ID}, org)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember adds a user id to the organization's members set
func (r *MongoOrganizationRepository) AddMember(ctx context.Context, orgID, userID primitive.ObjectID) error {
	update := bson.M{
		"$addToSet": bson.M{"members": userID},
		"$set":      bson.M{"updatedAt": time.Now()},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": orgID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
