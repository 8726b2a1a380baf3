package client

import (
	clientRepo "pawhaven/database/repository/client"
	"pawhaven/models"
)

// ClientService defines account and profile operations for pet owners.
type ClientService interface {
	// Registration and authentication
	SignUp(req models.Client) (*AuthResponse, error)
	SignIn(email, password string) (*AuthResponse, error)
	SignOut(clientID string) error

	// Profile management
	GetClientByID(clientID string) (*models.Client, error)
	UpdateClient(clientID string, updates models.ClientUpdateRequest) (*models.Client, error)
	DeleteClient(clientID string) error
	UpdateFCMToken(clientID, token string) error

	// Pet management
	AddPet(clientID string, pet models.Pet) (*models.Client, error)
	UpdatePet(clientID string, pet models.Pet) (*models.Client, error)
	RemovePet(clientID, petID string) (*models.Client, error)
}

// DefaultClientService is the production implementation.
type DefaultClientService struct {
	Repo clientRepo.ClientRepository
}

// AuthResponse contains the client's ID, token, and profile summary.
type AuthResponse struct {
	ID          string `json:"id"`
	Token       string `json:"token"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
