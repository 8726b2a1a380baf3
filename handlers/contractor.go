package handlers

import (
	"net/http"

	"pawhaven/models"
	"pawhaven/services/contractor"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ContractorHandler exposes care-provider account and payout endpoints.
type ContractorHandler struct {
	Service contractor.ContractorService
}

// NewContractorHandler creates a new ContractorHandler.
func NewContractorHandler(svc contractor.ContractorService) *ContractorHandler {
	return &ContractorHandler{Service: svc}
}

// RegisterContractorHandler creates a care-provider account.
func (ch *ContractorHandler) RegisterContractorHandler(c *gin.Context) {
	var req models.Contractor
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	resp, err := ch.Service.SignUp(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// AuthenticateContractorHandler verifies credentials and returns a fresh token.
func (ch *ContractorHandler) AuthenticateContractorHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	resp, err := ch.Service.SignIn(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SignOutContractorHandler invalidates the current token.
func (ch *ContractorHandler) SignOutContractorHandler(c *gin.Context) {
	if err := ch.Service.SignOut(c.GetString("contractorID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign out failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

// GetContractorHandler returns the signed-in contractor's profile.
func (ch *ContractorHandler) GetContractorHandler(c *gin.Context) {
	rec, err := ch.Service.GetContractorByID(c.GetString("contractorID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contractor not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetContractorProfileHandler returns a contractor's public profile by id,
// for clients browsing providers.
func (ch *ContractorHandler) GetContractorProfileHandler(c *gin.Context) {
	rec, err := ch.Service.GetContractorByID(c.Param("contractorID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contractor not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdateContractorHandler updates profile fields.
func (ch *ContractorHandler) UpdateContractorHandler(c *gin.Context) {
	var req models.ContractorUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	rec, err := ch.Service.UpdateContractor(c.GetString("contractorID"), req)
	if err != nil {
		zap.L().Error("failed to update contractor", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteContractorHandler removes the account.
func (ch *ContractorHandler) DeleteContractorHandler(c *gin.Context) {
	if err := ch.Service.DeleteContractor(c.GetString("contractorID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// UpdateContractorFCMTokenHandler stores the device's push token.
func (ch *ContractorHandler) UpdateContractorFCMTokenHandler(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := ch.Service.UpdateFCMToken(c.GetString("contractorID"), req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update push token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// SetOfferingHandler adds or replaces a catalogue entry.
func (ch *ContractorHandler) SetOfferingHandler(c *gin.Context) {
	var offering models.ServiceOffering
	if err := c.ShouldBindJSON(&offering); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	rec, err := ch.Service.SetOffering(c.GetString("contractorID"), offering)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// RemoveOfferingHandler deletes a catalogue entry.
func (ch *ContractorHandler) RemoveOfferingHandler(c *gin.Context) {
	rec, err := ch.Service.RemoveOffering(c.GetString("contractorID"), c.Param("serviceType"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// StartPayoutOnboardingHandler creates the payout account and returns the
// hosted onboarding link.
func (ch *ContractorHandler) StartPayoutOnboardingHandler(c *gin.Context) {
	var req struct {
		RefreshURL string `json:"refreshUrl" binding:"required"`
		ReturnURL  string `json:"returnUrl" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	resp, err := ch.Service.StartPayoutOnboarding(c.Request.Context(), c.GetString("contractorID"), req.RefreshURL, req.ReturnURL)
	if err != nil {
		zap.L().Error("payout onboarding failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "payout onboarding failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PayoutStatusHandler returns the live payout-account status.
func (ch *ContractorHandler) PayoutStatusHandler(c *gin.Context) {
	resp, err := ch.Service.PayoutStatus(c.Request.Context(), c.GetString("contractorID"))
	if err != nil {
		zap.L().Error("payout status check failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "payout status check failed"})
		return
	}
	c.JSON(http.StatusOK, resp)
}
