package handlers

import (
	"net/http"

	"pawhaven/models"
	"pawhaven/services/client"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientHandler exposes pet-owner account endpoints.
type ClientHandler struct {
	Service client.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(svc client.ClientService) *ClientHandler {
	return &ClientHandler{Service: svc}
}

// RegisterClientHandler creates a pet-owner account.
func (ch *ClientHandler) RegisterClientHandler(c *gin.Context) {
	var req models.Client
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

// AuthenticateClientHandler verifies credentials and returns a fresh token.
func (ch *ClientHandler) AuthenticateClientHandler(c *gin.Context) {
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

// SignOutClientHandler invalidates the current token.
func (ch *ClientHandler) SignOutClientHandler(c *gin.Context) {
	if err := ch.Service.SignOut(c.GetString("clientID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "sign out failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed out"})
}

// GetClientHandler returns the signed-in client's profile.
func (ch *ClientHandler) GetClientHandler(c *gin.Context) {
	rec, err := ch.Service.GetClientByID(c.GetString("clientID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// UpdateClientHandler updates profile fields.
func (ch *ClientHandler) UpdateClientHandler(c *gin.Context) {
	var req models.ClientUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	rec, err := ch.Service.UpdateClient(c.GetString("clientID"), req)
	if err != nil {
		zap.L().Error("failed to update client", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// DeleteClientHandler removes the account.
func (ch *ClientHandler) DeleteClientHandler(c *gin.Context) {
	if err := ch.Service.DeleteClient(c.GetString("clientID")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete account"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// UpdateClientFCMTokenHandler stores the device's push token.
func (ch *ClientHandler) UpdateClientFCMTokenHandler(c *gin.Context) {
	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := ch.Service.UpdateFCMToken(c.GetString("clientID"), req.Token); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update push token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

// AddPetHandler appends a pet to the profile.
func (ch *ClientHandler) AddPetHandler(c *gin.Context) {
	var pet models.Pet
	if err := c.ShouldBindJSON(&pet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	rec, err := ch.Service.AddPet(c.GetString("clientID"), pet)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// UpdatePetHandler replaces a pet entry.
func (ch *ClientHandler) UpdatePetHandler(c *gin.Context) {
	var pet models.Pet
	if err := c.ShouldBindJSON(&pet); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	pet.ID = c.Param("petID")
	rec, err := ch.Service.UpdatePet(c.GetString("clientID"), pet)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// RemovePetHandler deletes a pet entry.
func (ch *ClientHandler) RemovePetHandler(c *gin.Context) {
	rec, err := ch.Service.RemovePet(c.GetString("clientID"), c.Param("petID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}
