package handlers

import (
	"errors"
	"net/http"

	bookingRepo "pawhaven/database/repository/booking"
	"pawhaven/models"
	"pawhaven/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingHandler exposes the booking lifecycle endpoints.
type BookingHandler struct {
	Service booking.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// RequestBookingHandler opens an engagement on behalf of the signed-in client.
func (bh *BookingHandler) RequestBookingHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req.ClientID = c.GetString("clientID")

	resp, err := bh.Service.RequestBooking(c.Request.Context(), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ApproveBookingHandler lets the contractor accept a pending request.
func (bh *BookingHandler) ApproveBookingHandler(c *gin.Context) {
	b, err := bh.Service.ApproveBooking(c.Request.Context(), c.Param("bookingID"), c.GetString("contractorID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// EditBookingHandler changes dates or units before capture.
func (bh *BookingHandler) EditBookingHandler(c *gin.Context) {
	var req models.BookingEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	resp, err := bh.Service.EditBooking(c.Request.Context(), c.Param("bookingID"), c.GetString("clientID"), req)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CompleteBookingHandler records the calling party's completion confirmation.
func (bh *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	actorID, role := actor(c)
	b, err := bh.Service.MarkCompleted(c.Request.Context(), c.Param("bookingID"), actorID, role)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBookingHandler closes the booking and releases the payment hold.
func (bh *BookingHandler) CancelBookingHandler(c *gin.Context) {
	actorID, role := actor(c)
	b, err := bh.Service.CancelBooking(c.Request.Context(), c.Param("bookingID"), actorID, role)
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// GetBookingHandler returns one booking, restricted to its participants.
func (bh *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := bh.Service.GetBooking(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	actorID, _ := actor(c)
	if b.ClientID != actorID && b.ContractorID != actorID {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this booking"})
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListClientBookingsHandler returns the signed-in client's bookings.
func (bh *BookingHandler) ListClientBookingsHandler(c *gin.Context) {
	list, err := bh.Service.ListForClient(c.Request.Context(), c.GetString("clientID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// ListContractorBookingsHandler returns the signed-in contractor's bookings.
func (bh *BookingHandler) ListContractorBookingsHandler(c *gin.Context) {
	list, err := bh.Service.ListForContractor(c.Request.Context(), c.GetString("contractorID"))
	if err != nil {
		respondBookingError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// actor resolves the calling party from whichever auth middleware ran.
func actor(c *gin.Context) (string, string) {
	if id := c.GetString("clientID"); id != "" {
		return id, "client"
	}
	return c.GetString("contractorID"), "contractor"
}

func respondBookingError(c *gin.Context, err error) {
	var be *booking.BookingError
	if errors.As(err, &be) {
		switch be.Code {
		case "validationError":
			c.JSON(http.StatusBadRequest, gin.H{"error": be.Message})
		case "forbidden":
			c.JSON(http.StatusForbidden, gin.H{"error": be.Message})
		case "stateError":
			c.JSON(http.StatusConflict, gin.H{"error": be.Message})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": be.Message})
		}
		return
	}
	if errors.Is(err, bookingRepo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}
	// Payment-core errors bubble through booking operations unchanged.
	respondPaymentError(c, err)
}
