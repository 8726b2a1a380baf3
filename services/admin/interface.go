package admin

import (
	"context"

	bookingRepo "pawhaven/database/repository/booking"
	clientRepo "pawhaven/database/repository/client"
	contractorRepo "pawhaven/database/repository/contractor"
	"pawhaven/models"
)

// AdminService is the back-office surface: account moderation, platform
// earnings and legal documents.
type AdminService interface {
	ListClients() ([]models.Client, error)
	ListContractors() ([]models.Contractor, error)
	BanClient(ctx context.Context, clientID string) (*BanResult, error)
	BanContractor(ctx context.Context, contractorID string) (*BanResult, error)
	PlatformEarnings() (*EarningsSummary, error)
	GetLegalSections() []models.LegalSection
	GetLegalSectionsFor(role string) []models.LegalSection
}

// DefaultAdminService is the production implementation.
type DefaultAdminService struct {
	Clients     clientRepo.ClientRepository
	Contractors contractorRepo.ContractorRepository
	Bookings    bookingRepo.BookingRepository
}

// BanResult reports a moderation action. Warning is set when the local ban
// succeeded but identity-provider cleanup did not; the ban still stands.
type BanResult struct {
	ID      string `json:"id"`
	Banned  bool   `json:"banned"`
	Warning string `json:"warning,omitempty"`
}

// EarningsSummary aggregates captured bookings.
type EarningsSummary struct {
	CompletedBookings int     `json:"completedBookings"`
	GrossVolume       float64 `json:"grossVolume"`
	PlatformFees      float64 `json:"platformFees"`
	ProcessorFees     float64 `json:"processorFees"`
	ContractorPayouts float64 `json:"contractorPayouts"`
}
