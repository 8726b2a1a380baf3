package handlers

import (
	"errors"
	"net/http"

	"pawhaven/models"
	"pawhaven/services/payment"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler exposes the intent lifecycle and capture endpoints.
type PaymentHandler struct {
	Service payment.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(svc payment.PaymentService) *PaymentHandler {
	return &PaymentHandler{Service: svc}
}

// CreateIntentHandler places a manual-capture authorization.
func (ph *PaymentHandler) CreateIntentHandler(c *gin.Context) {
	var req models.CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	result, err := ph.Service.CreatePaymentIntent(c.Request.Context(), req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// UpdateIntentHandler changes the authorized amount, replacing the intent when
// it can no longer be amended in place.
func (ph *PaymentHandler) UpdateIntentHandler(c *gin.Context) {
	var req models.UpdateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	req.IntentID = c.Param("intentID")
	result, err := ph.Service.UpdatePaymentIntent(c.Request.Context(), req)
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CancelIntentHandler releases an authorization. Cancelling an already
// cancelled intent succeeds.
func (ph *PaymentHandler) CancelIntentHandler(c *gin.Context) {
	result, err := ph.Service.CancelPaymentIntent(c.Request.Context(), c.Param("intentID"))
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// CaptureHandler settles the booking's payment after dual confirmation.
func (ph *PaymentHandler) CaptureHandler(c *gin.Context) {
	result, err := ph.Service.CaptureBookingPayment(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		respondPaymentError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondPaymentError maps the payment error taxonomy onto HTTP statuses.
func respondPaymentError(c *gin.Context, err error) {
	var (
		validationErr  *payment.ValidationError
		notFoundErr    *payment.NotFoundError
		noPayoutErr    *payment.NoPayoutAccountError
		computationErr *payment.ComputationError
		notReadyErr    *payment.NotReadyError
		alreadyPaidErr *payment.AlreadyPaidError
		externalErr    *payment.ExternalServiceError
	)
	switch {
	case errors.As(err, &validationErr), errors.As(err, &computationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &noPayoutErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &notReadyErr), errors.As(err, &alreadyPaidErr):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &externalErr):
		zap.L().Error("payment processor failure", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "payment processor error"})
	default:
		zap.L().Error("payment operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "payment operation failed"})
	}
}
