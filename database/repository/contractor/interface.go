package contractorRepo

import (
	"pawhaven/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ContractorRepository defines methods for contractor data access.
type ContractorRepository interface {
	// GetByID retrieves a contractor by their unique ID.
	GetByID(id string) (*models.Contractor, error)
	// GetByEmail retrieves a contractor by their email. Returns (nil, nil) when absent.
	GetByEmail(email string) (*models.Contractor, error)
	// Create inserts a new contractor record.
	Create(contractor *models.Contractor) error
	// Update modifies an existing contractor record.
	Update(contractor *models.Contractor) error
	// UpdateSetDocument applies a $set update by id.
	UpdateSetDocument(id string, updateDoc bson.M) error
	// Delete removes a contractor record by its ID.
	Delete(id string) error
	// List returns all contractors (admin use).
	List() ([]models.Contractor, error)
}
