package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "pawhaven/database/repository/booking"
	"pawhaven/models"
	"pawhaven/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// ApproveBooking is the contractor accepting a pending request. Approval
// schedules visit reminders for both parties.
func (s *DefaultBookingService) ApproveBooking(ctx context.Context, bookingID, contractorID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if b.ContractorID != contractorID {
		return nil, newForbiddenError("booking belongs to another contractor")
	}
	if b.Status != models.BookingStatusPending {
		return nil, newStateError(fmt.Sprintf("cannot approve a booking in status %q", b.Status))
	}

	set := bson.M{
		"status":    models.BookingStatusApproved,
		"updatedAt": time.Now(),
	}
	if err := s.Repo.UpdateConditional(bookingID, b.Version, set); err != nil {
		if errors.Is(err, bookingRepo.ErrConflict) {
			return nil, newStateError("booking was modified concurrently, retry")
		}
		return nil, err
	}
	b.Status = models.BookingStatusApproved
	b.Version++

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleVisitReminder(b); err != nil {
			utils.GetLogger().Warn("failed to schedule visit reminder", zap.String("bookingId", b.ID), zap.Error(err))
		}
	}

	s.notifyClient(ctx, b, "Booking approved",
		fmt.Sprintf("Your %s booking for %s was approved.", b.ServiceType, b.StartDate.Format("Jan 2")))
	return b, nil
}

// EditBooking changes the dates or unit count of a booking before funds are
// captured. The payment authorization follows: it is amended in place when
// possible, otherwise cancelled and replaced, in which case the client must
// authorize the new amount again.
func (s *DefaultBookingService) EditBooking(ctx context.Context, bookingID, clientID string, req models.BookingEditRequest) (*models.BookingResponse, error) {
	b, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if b.ClientID != clientID {
		return nil, newForbiddenError("booking belongs to another client")
	}
	if b.Status != models.BookingStatusPending && b.Status != models.BookingStatusApproved {
		return nil, newStateError(fmt.Sprintf("cannot edit a booking in status %q", b.Status))
	}
	if b.PaymentStatus == models.PaymentStatusPaid {
		return nil, newStateError("funds already captured")
	}

	start, end := b.StartDate, b.EndDate
	if !req.StartDate.IsZero() {
		start = req.StartDate
	}
	if !req.EndDate.IsZero() {
		end = req.EndDate
	}
	if !end.After(start) {
		return nil, newValidationError("endDate must be after startDate")
	}

	ct, err := s.Contractors.GetByID(b.ContractorID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch contractor %s: %w", b.ContractorID, err)
	}
	quote, err := s.priceEngagement(ct, models.BookingRequest{
		ContractorID: b.ContractorID,
		ServiceType:  b.ServiceType,
		StartDate:    start,
		EndDate:      end,
		Units:        req.Units,
	})
	if err != nil {
		return nil, err
	}

	intent, err := s.Payments.UpdatePaymentIntent(ctx, models.UpdateIntentRequest{
		IntentID:          b.PaymentIntentID,
		NewAmount:         quote.Total,
		ContractorID:      b.ContractorID,
		BaseServiceAmount: quote.Base,
	})
	if err != nil {
		return nil, err
	}

	set := bson.M{
		"startDate":         start,
		"endDate":           end,
		"paymentAmount":     quote.Total,
		"baseServiceAmount": quote.Base,
		"updatedAt":         time.Now(),
	}
	if req.Notes != "" {
		set["notes"] = req.Notes
	}

	if intent.Replaced {
		// The old authorization is gone; only this edit may install the
		// replacement intent id.
		err = s.Repo.SwapPaymentIntent(bookingID, b.PaymentIntentID, intent.IntentID, set)
		if err != nil {
			// A concurrent writer got there first and the booking no longer
			// points at the predecessor. Release the replacement so no stray
			// authorization is left holding the client's funds.
			if _, cerr := s.Payments.CancelPaymentIntent(ctx, intent.IntentID); cerr != nil {
				utils.GetLogger().Warn("failed to cancel orphaned replacement intent",
					zap.String("bookingId", bookingID), zap.String("intentId", intent.IntentID), zap.Error(cerr))
			}
		}
	} else {
		err = s.Repo.UpdateConditional(bookingID, b.Version, set)
	}
	if err != nil {
		if errors.Is(err, bookingRepo.ErrConflict) {
			return nil, newStateError("booking was modified concurrently, retry")
		}
		return nil, err
	}

	b.StartDate, b.EndDate = start, end
	b.PaymentAmount, b.BaseServiceAmount = quote.Total, quote.Base
	b.PaymentIntentID = intent.IntentID
	b.Version++
	if req.Notes != "" {
		b.Notes = req.Notes
	}

	s.notifyContractor(ctx, b, "Booking updated",
		fmt.Sprintf("The %s booking for %s was changed.", b.ServiceType, b.StartDate.Format("Jan 2")))

	return &models.BookingResponse{Booking: b, ClientSecret: intent.ClientSecret, Replaced: intent.Replaced}, nil
}

// CancelBooking releases the payment hold and closes the booking. Either
// party may cancel before completion.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, actorID, role string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkParty(b, actorID, role); err != nil {
		return nil, err
	}
	if b.Status == models.BookingStatusCompleted || b.Status == models.BookingStatusCancelled {
		return nil, newStateError(fmt.Sprintf("cannot cancel a booking in status %q", b.Status))
	}
	if b.PaymentStatus == models.PaymentStatusPaid {
		return nil, newStateError("funds already captured")
	}

	if b.PaymentIntentID != "" {
		if _, err := s.Payments.CancelPaymentIntent(ctx, b.PaymentIntentID); err != nil {
			return nil, err
		}
	}

	set := bson.M{
		"status":        models.BookingStatusCancelled,
		"paymentStatus": models.PaymentStatusCancelled,
		"updatedAt":     time.Now(),
	}
	if err := s.Repo.UpdateConditional(bookingID, b.Version, set); err != nil {
		if errors.Is(err, bookingRepo.ErrConflict) {
			return nil, newStateError("booking was modified concurrently, retry")
		}
		return nil, err
	}
	b.Status = models.BookingStatusCancelled
	b.PaymentStatus = models.PaymentStatusCancelled
	b.Version++

	if role == "client" {
		s.notifyContractor(ctx, b, "Booking cancelled",
			fmt.Sprintf("The %s booking for %s was cancelled.", b.ServiceType, b.StartDate.Format("Jan 2")))
	} else {
		s.notifyClient(ctx, b, "Booking cancelled",
			fmt.Sprintf("Your %s booking for %s was cancelled by the contractor.", b.ServiceType, b.StartDate.Format("Jan 2")))
	}
	return b, nil
}

func checkParty(b *models.Booking, actorID, role string) error {
	switch role {
	case "client":
		if b.ClientID != actorID {
			return newForbiddenError("booking belongs to another client")
		}
	case "contractor":
		if b.ContractorID != actorID {
			return newForbiddenError("booking belongs to another contractor")
		}
	default:
		return newForbiddenError("unknown role")
	}
	return nil
}
