package admin

import (
	"context"
	"fmt"
	"math"
	"time"

	"pawhaven/models"
	"pawhaven/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ListClients returns all client accounts.
func (a *DefaultAdminService) ListClients() ([]models.Client, error) {
	return a.Clients.List()
}

// ListContractors returns all contractor accounts.
func (a *DefaultAdminService) ListContractors() ([]models.Contractor, error) {
	return a.Contractors.List()
}

// BanClient suspends a client account and best-effort removes the linked
// identity-provider user. IdP failures do not undo the ban.
func (a *DefaultAdminService) BanClient(ctx context.Context, clientID string) (*BanResult, error) {
	rec, err := a.Clients.GetByID(clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch client %s: %w", clientID, err)
	}

	set := bson.M{"banned": true, "tokenHash": "", "updatedAt": time.Now()}
	if err := a.Clients.UpdateSetDocument(clientID, set); err != nil {
		return nil, fmt.Errorf("failed to ban client %s: %w", clientID, err)
	}

	result := &BanResult{ID: clientID, Banned: true}
	if warn := deleteIdentity(ctx, rec.FirebaseUID); warn != "" {
		result.Warning = warn
	}
	return result, nil
}

// BanContractor suspends a contractor account and best-effort removes the
// linked identity-provider user.
func (a *DefaultAdminService) BanContractor(ctx context.Context, contractorID string) (*BanResult, error) {
	rec, err := a.Contractors.GetByID(contractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contractor %s: %w", contractorID, err)
	}

	set := bson.M{"banned": true, "tokenHash": "", "updatedAt": time.Now()}
	if err := a.Contractors.UpdateSetDocument(contractorID, set); err != nil {
		return nil, fmt.Errorf("failed to ban contractor %s: %w", contractorID, err)
	}

	result := &BanResult{ID: contractorID, Banned: true}
	if warn := deleteIdentity(ctx, rec.FirebaseUID); warn != "" {
		result.Warning = warn
	}
	return result, nil
}

func deleteIdentity(ctx context.Context, firebaseUID string) string {
	if firebaseUID == "" || utils.FirebaseAuth == nil {
		return ""
	}
	if err := utils.FirebaseAuth.DeleteUser(ctx, firebaseUID); err != nil {
		utils.GetLogger().Warn("failed to delete identity-provider user", zap.String("uid", firebaseUID), zap.Error(err))
		return "account banned, but identity-provider cleanup failed"
	}
	return ""
}

// PlatformEarnings aggregates all completed bookings into a revenue summary.
func (a *DefaultAdminService) PlatformEarnings() (*EarningsSummary, error) {
	completed, err := a.Bookings.ListByStatus(models.BookingStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list completed bookings: %w", err)
	}

	sum := &EarningsSummary{CompletedBookings: len(completed)}
	for _, b := range completed {
		sum.GrossVolume += b.PaymentAmount
		sum.PlatformFees += b.PlatformFee
		sum.ProcessorFees += b.StripeFee
		sum.ContractorPayouts += b.NetPayout
	}
	sum.GrossVolume = round2(sum.GrossVolume)
	sum.PlatformFees = round2(sum.PlatformFees)
	sum.ProcessorFees = round2(sum.ProcessorFees)
	sum.ContractorPayouts = round2(sum.ContractorPayouts)
	return sum, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
