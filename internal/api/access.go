package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/themobileprof/paintrack-be/internal/access"
	"github.com/themobileprof/paintrack-be/internal/api/middleware"
)

// AccessHandler handles provider data-sharing endpoints
type AccessHandler struct {
	manager *access.Manager
}

// NewAccessHandler creates a new access handler
func NewAccessHandler(manager *access.Manager) *AccessHandler {
	return &AccessHandler{manager: manager}
}

// GrantAccessRequest represents a request to share logs with a provider
type GrantAccessRequest struct {
	ProviderEmail string `json:"provider_email" binding:"required,email"`
}

// GrantAccess shares the caller's pain logs with a registered provider
func (h *AccessHandler) GrantAccess(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req GrantAccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	grant, err := h.manager.GrantByEmail(c.Request.Context(), userID, req.ProviderEmail)
	if err != nil {
		switch {
		case errors.Is(err, access.ErrProviderNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No account with that email"})
		case errors.Is(err, access.ErrNotAProvider):
			c.JSON(http.StatusBadRequest, gin.H{"error": "That account is not a care provider"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant access"})
		}
		return
	}

	c.JSON(http.StatusCreated, grant)
}

// RevokeAccess withdraws a provider's access to the caller's logs
func (h *AccessHandler) RevokeAccess(c *gin.Context) {
	userID := middleware.GetUserID(c)
	providerID := c.Param("providerId")

	if err := h.manager.Revoke(c.Request.Context(), userID, providerID); err != nil {
		if errors.Is(err, access.ErrLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active share with that provider"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to revoke access"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Access revoked"})
}

// ListGrants returns who the caller has shared logs with, including
// revoked shares for the audit trail
func (h *AccessHandler) ListGrants(c *gin.Context) {
	userID := middleware.GetUserID(c)

	grants, err := h.manager.ListGrants(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list shares"})
		return
	}
	if grants == nil {
		grants = []access.Grant{}
	}

	c.JSON(http.StatusOK, gin.H{"grants": grants})
}

// ListPatients returns the patients currently sharing logs with the
// calling provider
func (h *AccessHandler) ListPatients(c *gin.Context) {
	providerID := middleware.GetUserID(c)

	if !middleware.IsProvider(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Provider account required"})
		return
	}

	patients, err := h.manager.ListPatients(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list patients"})
		return
	}
	if patients == nil {
		patients = []access.Patient{}
	}

	c.JSON(http.StatusOK, gin.H{"patients": patients})
}
