package booking

import (
	"context"

	bookingRepo "pawhaven/database/repository/booking"
	contractorRepo "pawhaven/database/repository/contractor"
	"pawhaven/models"
	"pawhaven/services/notification"
	"pawhaven/services/payment"
)

// BookingService defines the booking lifecycle: request, approval, edits,
// per-party completion and cancellation.
type BookingService interface {
	RequestBooking(ctx context.Context, req models.BookingRequest) (*models.BookingResponse, error)
	ApproveBooking(ctx context.Context, bookingID, contractorID string) (*models.Booking, error)
	EditBooking(ctx context.Context, bookingID, clientID string, req models.BookingEditRequest) (*models.BookingResponse, error)
	MarkCompleted(ctx context.Context, bookingID, actorID, role string) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, actorID, role string) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListForClient(ctx context.Context, clientID string) ([]models.Booking, error)
	ListForContractor(ctx context.Context, contractorID string) ([]models.Booking, error)
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo            bookingRepo.BookingRepository
	Contractors     contractorRepo.ContractorRepository
	Payments        payment.PaymentService
	Fees            payment.FeeConfig
	NotificationSvc notification.NotificationService
	Reminders       ReminderScheduler
}

// ReminderScheduler abstracts the queue that delivers visit reminders, so the
// service can be tested without Redis.
type ReminderScheduler interface {
	ScheduleVisitReminder(booking *models.Booking) error
}
