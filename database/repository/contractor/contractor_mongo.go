package contractorRepo

import (
	"context"
	"fmt"
	"time"

	"pawhaven/database"
	"pawhaven/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContractorRepo implements ContractorRepository using MongoDB.
type MongoContractorRepo struct {
	coll *mongo.Collection
}

// NewMongoContractorRepo creates a new instance of ContractorRepository using MongoDB.
func NewMongoContractorRepo() ContractorRepository {
	coll := database.MongoClient.Database(database.DatabaseName).Collection("contractors")
	repo := &MongoContractorRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoContractorRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves a contractor by their unique ID.
func (r *MongoContractorRepo) GetByID(id string) (*models.Contractor, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var contractor models.Contractor
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&contractor); err != nil {
		return nil, fmt.Errorf("failed to fetch contractor with id %s: %w", id, err)
	}
	return &contractor, nil
}

// GetByEmail retrieves a contractor by their email.
func (r *MongoContractorRepo) GetByEmail(email string) (*models.Contractor, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var contractor models.Contractor
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&contractor); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch contractor with email %s: %w", email, err)
	}
	return &contractor, nil
}

// Create inserts a new contractor document.
func (r *MongoContractorRepo) Create(contractor *models.Contractor) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	contractor.CreatedAt = now
	contractor.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, contractor)
	if err != nil {
		return fmt.Errorf("failed to create contractor: %w", err)
	}
	return nil
}

// Update modifies an existing contractor document.
func (r *MongoContractorRepo) Update(contractor *models.Contractor) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	contractor.UpdatedAt = time.Now()
	filter := bson.M{"id": contractor.ID}
	update := bson.M{"$set": contractor}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update contractor with id %s: %w", contractor.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("contractor with id %s not found", contractor.ID)
	}
	return nil
}

// UpdateSetDocument applies a $set update by id.
func (r *MongoContractorRepo) UpdateSetDocument(id string, updateDoc bson.M) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	updateDoc["updatedAt"] = time.Now()
	update := bson.M{"$set": updateDoc}

	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update contractor with id %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("contractor with id %s not found", id)
	}
	return nil
}

// Delete removes a contractor document by its ID.
func (r *MongoContractorRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete contractor with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("contractor with id %s not found", id)
	}
	return nil
}

// List returns all contractors.
func (r *MongoContractorRepo) List() ([]models.Contractor, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list contractors: %w", err)
	}
	defer cursor.Close(ctx)

	var contractors []models.Contractor
	if err := cursor.All(ctx, &contractors); err != nil {
		return nil, fmt.Errorf("failed to decode contractors: %w", err)
	}
	return contractors, nil
}
