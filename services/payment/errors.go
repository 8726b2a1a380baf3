package payment

import (
	"errors"
	"fmt"
)

// ValidationError rejects a malformed request before any external call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError signals an absent booking, contractor or client record.
type NotFoundError struct {
	Kind string // "booking", "contractor", "client"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NoPayoutAccountError signals a contractor who has not completed payout onboarding.
type NoPayoutAccountError struct {
	ContractorID string
}

func (e *NoPayoutAccountError) Error() string {
	return fmt.Sprintf("contractor %s has no payout account", e.ContractorID)
}

// ComputationError signals fee math yielding a non-positive transfer amount.
// No processor call is made when this is returned.
type ComputationError struct {
	Amount   float64
	Transfer float64
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("fee computation for amount %.2f yields non-positive transfer %.2f", e.Amount, e.Transfer)
}

// NotReadyError rejects a capture attempt against a booking or intent that is
// not in a capturable state. IntentStatus carries the actual processor-side
// status when known, so the caller can see why.
type NotReadyError struct {
	BookingID    string
	IntentStatus string
	Reason       string
}

func (e *NotReadyError) Error() string {
	if e.IntentStatus != "" {
		return fmt.Sprintf("booking %s not ready for capture: %s (intent status %s)", e.BookingID, e.Reason, e.IntentStatus)
	}
	return fmt.Sprintf("booking %s not ready for capture: %s", e.BookingID, e.Reason)
}

// AlreadyPaidError rejects a second capture of an already-paid booking.
type AlreadyPaidError struct {
	BookingID string
}

func (e *AlreadyPaidError) Error() string {
	return fmt.Sprintf("booking %s has already been paid", e.BookingID)
}

// ExternalServiceError wraps a processor or persistence failure. The
// underlying status and message are surfaced verbatim for diagnostics; no
// automatic retry happens here.
type ExternalServiceError struct {
	Op  string
	Err error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

// IsAlreadyPaid reports whether err is an AlreadyPaidError.
func IsAlreadyPaid(err error) bool {
	var target *AlreadyPaidError
	return errors.As(err, &target)
}
