package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "pawhaven/database/repository/booking"
	"pawhaven/models"
	"pawhaven/services/payment"
	"pawhaven/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// MarkCompleted records one party's confirmation that the service happened.
// When the second confirmation lands the payment is captured and the payout
// recorded; a single confirmation alone never moves money.
func (s *DefaultBookingService) MarkCompleted(ctx context.Context, bookingID, actorID, role string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(bookingID)
	if err != nil {
		return nil, err
	}
	if err := checkParty(b, actorID, role); err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusApproved {
		return nil, newStateError(fmt.Sprintf("cannot complete a booking in status %q", b.Status))
	}

	// A repeat confirmation writes nothing but still falls through to the
	// capture check, so a capture that failed transiently after both flags
	// landed is retried on the next call from either party.
	var flag string
	switch role {
	case "client":
		if !b.ClientCompleted {
			flag = "clientCompleted"
		}
	case "contractor":
		if !b.ContractorCompleted {
			flag = "contractorCompleted"
		}
	}

	if flag != "" {
		set := bson.M{flag: true, "updatedAt": time.Now()}
		if err := s.Repo.UpdateConditional(bookingID, b.Version, set); err != nil {
			if !errors.Is(err, bookingRepo.ErrConflict) {
				return nil, err
			}
			// The other party likely confirmed in parallel; re-read and retry once.
			b, err = s.Repo.GetByID(bookingID)
			if err != nil {
				return nil, err
			}
			if err := s.Repo.UpdateConditional(bookingID, b.Version, set); err != nil {
				return nil, err
			}
		}

		b, err = s.Repo.GetByID(bookingID)
		if err != nil {
			return nil, err
		}
	}

	if !b.ClientCompleted || !b.ContractorCompleted {
		return b, nil
	}
	if b.PaymentStatus == models.PaymentStatusPaid {
		return b, nil
	}

	result, err := s.Payments.CaptureBookingPayment(ctx, bookingID)
	if err != nil {
		if payment.IsAlreadyPaid(err) {
			// A concurrent confirmation already captured; report the stored state.
			return s.Repo.GetByID(bookingID)
		}
		return nil, err
	}

	s.recordCompletion(b.ContractorID)

	s.notifyContractor(ctx, b, "Payout on the way",
		fmt.Sprintf("You earned %.2f %s for the %s booking.", result.NetPayout, b.Currency, b.ServiceType))
	s.notifyClient(ctx, b, "Booking completed",
		fmt.Sprintf("Your %s booking is complete. %.2f %s was charged.", b.ServiceType, result.TotalAmount, b.Currency))

	return s.Repo.GetByID(bookingID)
}

// recordCompletion bumps the contractor's completed-booking counter. Losing
// the count to a race only skews a display statistic.
func (s *DefaultBookingService) recordCompletion(contractorID string) {
	ct, err := s.Contractors.GetByID(contractorID)
	if err != nil {
		utils.GetLogger().Warn("failed to fetch contractor for completion count", zap.String("contractorId", contractorID), zap.Error(err))
		return
	}
	set := bson.M{"completedBookings": ct.CompletedBookings + 1}
	if err := s.Contractors.UpdateSetDocument(contractorID, set); err != nil {
		utils.GetLogger().Warn("failed to bump completion count", zap.String("contractorId", contractorID), zap.Error(err))
	}
}
