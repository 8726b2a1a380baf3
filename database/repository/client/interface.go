package clientRepo

import (
	"pawhaven/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ClientRepository defines methods for client (pet owner) data access.
type ClientRepository interface {
	// GetByID retrieves a client by their unique ID.
	GetByID(id string) (*models.Client, error)
	// GetByEmail retrieves a client by their email. Returns (nil, nil) when absent.
	GetByEmail(email string) (*models.Client, error)
	// Create inserts a new client record.
	Create(client *models.Client) error
	// Update modifies an existing client record.
	Update(client *models.Client) error
	// UpdateSetDocument applies a $set update by id.
	UpdateSetDocument(id string, updateDoc bson.M) error
	// Delete removes a client record by its ID.
	Delete(id string) error
	// List returns all clients (admin use).
	List() ([]models.Client, error)
}
