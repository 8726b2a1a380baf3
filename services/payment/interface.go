package payment

import (
	"context"

	"pawhaven/models"
)

// PaymentService is the surface exposed to request handlers: intent lifecycle
// plus booking capture.
type PaymentService interface {
	CreatePaymentIntent(ctx context.Context, req models.CreateIntentRequest) (*models.IntentResult, error)
	UpdatePaymentIntent(ctx context.Context, req models.UpdateIntentRequest) (*models.IntentResult, error)
	CancelPaymentIntent(ctx context.Context, intentID string) (*models.CancelResult, error)
	CaptureBookingPayment(ctx context.Context, bookingID string) (*models.CaptureResult, error)
}

// DefaultPaymentService is the production implementation, delegating intent
// lifecycle to the Orchestrator and capture to the Reconciler.
type DefaultPaymentService struct {
	Orchestrator *Orchestrator
	Reconciler   *Reconciler
}

func (s *DefaultPaymentService) CreatePaymentIntent(ctx context.Context, req models.CreateIntentRequest) (*models.IntentResult, error) {
	return s.Orchestrator.CreateIntent(ctx, req)
}

func (s *DefaultPaymentService) UpdatePaymentIntent(ctx context.Context, req models.UpdateIntentRequest) (*models.IntentResult, error) {
	return s.Orchestrator.UpdateIntent(ctx, req)
}

func (s *DefaultPaymentService) CancelPaymentIntent(ctx context.Context, intentID string) (*models.CancelResult, error) {
	return s.Orchestrator.CancelIntent(ctx, intentID)
}

func (s *DefaultPaymentService) CaptureBookingPayment(ctx context.Context, bookingID string) (*models.CaptureResult, error) {
	return s.Reconciler.CaptureBookingPayment(ctx, bookingID)
}
