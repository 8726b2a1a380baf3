package contractor

import (
	"context"

	contractorRepo "pawhaven/database/repository/contractor"
	"pawhaven/models"
	"pawhaven/services/payment"
)

// ContractorService defines account, catalogue and payout operations for
// care providers.
type ContractorService interface {
	// Registration and authentication
	SignUp(req models.Contractor) (*AuthResponse, error)
	SignIn(email, password string) (*AuthResponse, error)
	SignOut(contractorID string) error

	// Profile management
	GetContractorByID(contractorID string) (*models.Contractor, error)
	UpdateContractor(contractorID string, updates models.ContractorUpdateRequest) (*models.Contractor, error)
	DeleteContractor(contractorID string) error
	UpdateFCMToken(contractorID, token string) error

	// Catalogue management
	SetOffering(contractorID string, offering models.ServiceOffering) (*models.Contractor, error)
	RemoveOffering(contractorID, serviceType string) (*models.Contractor, error)

	// Payout onboarding
	StartPayoutOnboarding(ctx context.Context, contractorID, refreshURL, returnURL string) (*models.PayoutOnboarding, error)
	PayoutStatus(ctx context.Context, contractorID string) (*models.PayoutOnboarding, error)
}

// DefaultContractorService is the production implementation.
type DefaultContractorService struct {
	Repo    contractorRepo.ContractorRepository
	Gateway payment.Gateway
	Env     string // "test" or "live", must match the gateway's key
}

// AuthResponse contains the contractor's ID, token, and profile summary.
type AuthResponse struct {
	ID          string `json:"id"`
	Token       string `json:"token"`
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}
