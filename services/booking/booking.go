package booking

import (
	"context"
	"fmt"
	"time"

	"pawhaven/config"
	"pawhaven/models"
	"pawhaven/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestBooking opens an engagement: it prices the request against the
// contractor's catalogue, places a payment authorization and persists the
// booking in pending state. The contractor still has to approve it.
func (s *DefaultBookingService) RequestBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error) {
	logger := utils.GetLogger()

	if req.ClientID == "" {
		return nil, newValidationError("clientId is required")
	}
	if len(req.PetIDs) == 0 {
		return nil, newValidationError("at least one pet is required")
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, newValidationError("endDate must be after startDate")
	}
	if req.StartDate.Before(time.Now()) {
		return nil, newValidationError("startDate must be in the future")
	}

	ct, err := s.Contractors.GetByID(req.ContractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contractor %s: %w", req.ContractorID, err)
	}
	if ct.Banned {
		return nil, newValidationError("contractor is not accepting bookings")
	}

	quote, err := s.priceEngagement(ct, req)
	if err != nil {
		return nil, err
	}

	bookingID := uuid.New().String()
	currency := config.AppConfig.DefaultCurrency

	intent, err := s.Payments.CreatePaymentIntent(ctx, models.CreateIntentRequest{
		Amount:            quote.Total,
		Currency:          currency,
		ClientID:          req.ClientID,
		ContractorID:      req.ContractorID,
		BaseServiceAmount: quote.Base,
		BookingID:         bookingID,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	b := &models.Booking{
		ID:                bookingID,
		ClientID:          req.ClientID,
		ContractorID:      req.ContractorID,
		ServiceType:       req.ServiceType,
		PetIDs:            req.PetIDs,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Notes:             req.Notes,
		PaymentAmount:     quote.Total,
		BaseServiceAmount: quote.Base,
		Currency:          currency,
		PaymentIntentID:   intent.IntentID,
		PaymentStatus:     models.PaymentStatusPending,
		Status:            models.BookingStatusPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Repo.Create(b); err != nil {
		// The authorization is orphaned; cancel it so the hold releases.
		if _, cErr := s.Payments.CancelPaymentIntent(ctx, intent.IntentID); cErr != nil {
			logger.Error("failed to cancel orphaned intent", zap.String("intentId", intent.IntentID), zap.Error(cErr))
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.notifyContractor(ctx, b, "New booking request",
		fmt.Sprintf("You have a new %s request for %s.", b.ServiceType, b.StartDate.Format("Jan 2")))

	return &models.BookingResponse{Booking: b, ClientSecret: intent.ClientSecret}, nil
}

func (s *DefaultBookingService) notifyContractor(ctx context.Context, b *models.Booking, title, body string) {
	if s.NotificationSvc == nil {
		return
	}
	data := map[string]string{"bookingId": b.ID}
	if err := s.NotificationSvc.SendContractorPush(ctx, b.ContractorID, title, body, data); err != nil {
		utils.GetLogger().Warn("contractor push failed", zap.String("bookingId", b.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) notifyClient(ctx context.Context, b *models.Booking, title, body string) {
	if s.NotificationSvc == nil {
		return
	}
	data := map[string]string{"bookingId": b.ID}
	if err := s.NotificationSvc.SendClientPush(ctx, b.ClientID, title, body, data); err != nil {
		utils.GetLogger().Warn("client push failed", zap.String("bookingId", b.ID), zap.Error(err))
	}
}
