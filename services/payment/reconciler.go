package payment

import (
	"context"
	"errors"

	bookingRepo "pawhaven/database/repository/booking"
	"pawhaven/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Reconciler finalizes a booking's payment once both parties have confirmed
// completion: it captures the held authorization, reads the actual processor
// fee from the settled transaction, and persists the final financial fields.
type Reconciler struct {
	gateway  Gateway
	fees     FeeConfig
	bookings bookingRepo.BookingRepository
	logger   *zap.Logger
}

// NewReconciler builds a Reconciler.
func NewReconciler(gateway Gateway, fees FeeConfig, bookings bookingRepo.BookingRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		gateway:  gateway,
		fees:     fees,
		bookings: bookings,
		logger:   logger,
	}
}

// CaptureBookingPayment captures the booking's held authorization and settles
// the payout bookkeeping. Preconditions: both completion flags set, booking
// not already paid, intent in requires_capture (or already succeeded, in
// which case only the bookkeeping is finished). Any processor failure leaves
// the booking record untouched so the call is safely retryable.
func (r *Reconciler) CaptureBookingPayment(ctx context.Context, bookingID string) (*models.CaptureResult, error) {
	if bookingID == "" {
		return nil, &ValidationError{Field: "bookingId", Message: "is required"}
	}

	booking, err := r.bookings.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrNotFound) {
			return nil, &NotFoundError{Kind: "booking", ID: bookingID}
		}
		return nil, &ExternalServiceError{Op: "fetch booking", Err: err}
	}

	if booking.PaymentStatus == models.PaymentStatusPaid {
		return nil, &AlreadyPaidError{BookingID: bookingID}
	}
	if !booking.ClientCompleted || !booking.ContractorCompleted {
		return nil, &NotReadyError{BookingID: bookingID, Reason: "both parties must confirm completion"}
	}
	if booking.PaymentIntentID == "" {
		return nil, &NotReadyError{BookingID: bookingID, Reason: "booking has no payment authorization"}
	}

	intent, err := r.gateway.GetIntent(ctx, booking.PaymentIntentID)
	if err != nil {
		return nil, err
	}

	var captured *Intent
	switch intent.Status {
	case IntentStatusRequiresCapture:
		captured, err = r.gateway.CaptureIntent(ctx, booking.PaymentIntentID)
		if err != nil {
			// The processor rejects a second capture of the same intent;
			// detect that race instead of reporting a generic failure.
			if current, gerr := r.gateway.GetIntent(ctx, booking.PaymentIntentID); gerr == nil && current.Status == IntentStatusSucceeded {
				return nil, &AlreadyPaidError{BookingID: bookingID}
			}
			return nil, err
		}
	case IntentStatusSucceeded:
		// The funds were already captured but the booking still says pending:
		// an earlier attempt failed after the capture, or a concurrent request
		// captured first. Settle the bookkeeping from the existing charge. A
		// concurrent writer that persists first turns our write into a
		// conflict below, which resolves to AlreadyPaid.
		captured = intent
	default:
		return nil, &NotReadyError{BookingID: bookingID, IntentStatus: intent.Status, Reason: "authorization is not capturable"}
	}

	platformFee := booking.PlatformFee
	if platformFee == 0 {
		platformFee = r.fees.PlatformFee(transferBase(booking))
	}

	stripeFee, actual := r.settledFee(ctx, captured)
	if !actual {
		// Settlement record unavailable; fall back to the estimate.
		stripeFee = r.fees.EstimateProcessorFee(booking.PaymentAmount)
		r.logger.Warn("actual processor fee unavailable, using estimate",
			zap.String("bookingId", bookingID),
			zap.String("intentId", captured.ID))
	}

	netPayout := roundCents(booking.PaymentAmount - platformFee - stripeFee)

	set := bson.M{
		"paymentStatus": models.PaymentStatusPaid,
		"status":        models.BookingStatusCompleted,
		"platformFee":   platformFee,
		"stripeFee":     stripeFee,
		"netPayout":     netPayout,
	}
	if err := r.bookings.UpdateConditional(bookingID, booking.Version, set); err != nil {
		if errors.Is(err, bookingRepo.ErrConflict) {
			// Someone touched the booking between our read and write. The
			// funds are captured, so the financial result must still land.
			fresh, ferr := r.bookings.GetByID(bookingID)
			if ferr != nil {
				return nil, &ExternalServiceError{Op: "persist capture result", Err: ferr}
			}
			if fresh.PaymentStatus == models.PaymentStatusPaid {
				return nil, &AlreadyPaidError{BookingID: bookingID}
			}
			if err := r.bookings.UpdateConditional(bookingID, fresh.Version, set); err != nil {
				return nil, &ExternalServiceError{Op: "persist capture result", Err: err}
			}
		} else {
			return nil, &ExternalServiceError{Op: "persist capture result", Err: err}
		}
	}

	r.logger.Info("booking payment captured",
		zap.String("bookingId", bookingID),
		zap.String("intentId", captured.ID),
		zap.Float64("stripeFee", stripeFee),
		zap.Float64("netPayout", netPayout))

	return &models.CaptureResult{
		TotalAmount: booking.PaymentAmount,
		PlatformFee: platformFee,
		StripeFee:   stripeFee,
		NetPayout:   netPayout,
	}, nil
}

// settledFee fetches the actual processor fee from the captured intent's
// charge and balance transaction. The second return value reports whether the
// settled fee was available.
func (r *Reconciler) settledFee(ctx context.Context, captured *Intent) (float64, bool) {
	if captured.LatestChargeID == "" {
		return 0, false
	}
	charge, err := r.gateway.GetCharge(ctx, captured.LatestChargeID)
	if err != nil || charge.BalanceTransactionID == "" {
		return 0, false
	}
	bt, err := r.gateway.GetBalanceTransaction(ctx, charge.BalanceTransactionID)
	if err != nil {
		return 0, false
	}
	return bt.Fee, true
}

// transferBase is the amount platform fees are computed against: the base
// service amount under the current fee structure, the full total for legacy
// bookings.
func transferBase(b *models.Booking) float64 {
	if b.BaseServiceAmount > 0 {
		return b.BaseServiceAmount
	}
	return b.PaymentAmount
}
