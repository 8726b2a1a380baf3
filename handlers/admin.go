package handlers

import (
	"net/http"

	"pawhaven/services/admin"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated back-office operations.
type AdminHandler struct {
	Service admin.AdminService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(svc admin.AdminService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

// GetAllClientsHandler returns all clients.
func (ah *AdminHandler) GetAllClientsHandler(c *gin.Context) {
	clients, err := ah.Service.ListClients()
	if err != nil {
		zap.L().Error("Failed to fetch all clients", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch clients"})
		return
	}
	c.JSON(http.StatusOK, clients)
}

// GetAllContractorsHandler returns all contractors.
func (ah *AdminHandler) GetAllContractorsHandler(c *gin.Context) {
	contractors, err := ah.Service.ListContractors()
	if err != nil {
		zap.L().Error("Failed to fetch all contractors", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch contractors"})
		return
	}
	c.JSON(http.StatusOK, contractors)
}

// BanClientHandler suspends a client account.
func (ah *AdminHandler) BanClientHandler(c *gin.Context) {
	result, err := ah.Service.BanClient(c.Request.Context(), c.Param("clientID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// BanContractorHandler suspends a contractor account.
func (ah *AdminHandler) BanContractorHandler(c *gin.Context) {
	result, err := ah.Service.BanContractor(c.Request.Context(), c.Param("contractorID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// PlatformEarningsHandler returns aggregated revenue for completed bookings.
func (ah *AdminHandler) PlatformEarningsHandler(c *gin.Context) {
	summary, err := ah.Service.PlatformEarnings()
	if err != nil {
		zap.L().Error("Failed to compute platform earnings", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute earnings"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetLegalSectionsHandler returns legal documents, optionally filtered by role.
func (ah *AdminHandler) GetLegalSectionsHandler(c *gin.Context) {
	if role := c.Query("role"); role != "" {
		c.JSON(http.StatusOK, ah.Service.GetLegalSectionsFor(role))
		return
	}
	c.JSON(http.StatusOK, ah.Service.GetLegalSections())
}
