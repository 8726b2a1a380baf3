package booking

import (
	"context"

	"pawhaven/models"
)

// GetBooking fetches a single booking by id.
func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.Repo.GetByID(bookingID)
}

// ListForClient returns the client's bookings, newest first.
func (s *DefaultBookingService) ListForClient(ctx context.Context, clientID string) ([]models.Booking, error) {
	return s.Repo.ListByClient(clientID)
}

// ListForContractor returns the contractor's bookings, newest first.
func (s *DefaultBookingService) ListForContractor(ctx context.Context, contractorID string) ([]models.Booking, error) {
	return s.Repo.ListByContractor(contractorID)
}
