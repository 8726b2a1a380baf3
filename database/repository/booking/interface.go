package bookingRepo

import (
	"errors"

	"pawhaven/models"

	"go.mongodb.org/mongo-driver/bson"
)

// ErrNotFound is returned when no booking matches the given id.
var ErrNotFound = errors.New("booking not found")

// ErrConflict is returned when a conditional update loses a race: the stored
// version (or payment intent id) no longer matches what the caller read.
// Callers should re-read the booking and retry.
var ErrConflict = errors.New("booking was modified concurrently")

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking record.
	Create(booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(id string) (*models.Booking, error)
	// ListByClient returns all bookings made by a client, newest first.
	ListByClient(clientID string) ([]models.Booking, error)
	// ListByContractor returns all bookings assigned to a contractor, newest first.
	ListByContractor(contractorID string) ([]models.Booking, error)
	// ListByStatus returns all bookings in the given lifecycle status.
	ListByStatus(status string) ([]models.Booking, error)
	// UpdateConditional applies the $set document only if the stored version
	// still equals expectedVersion, bumping the version on success. Returns
	// ErrConflict on a version mismatch and ErrNotFound when the id is absent.
	UpdateConditional(id string, expectedVersion int64, set bson.M) error
	// SwapPaymentIntent atomically replaces the stored payment intent id, but
	// only if it still equals expectedIntentID. Returns ErrConflict when
	// another request already swapped it.
	SwapPaymentIntent(id, expectedIntentID, newIntentID string, set bson.M) error
	// Delete removes a booking record by its ID.
	Delete(id string) error
}
