package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AccessChecker interface {
	HasAccess(ctx context.Context, patientID string, providerID string) (bool, error)
}

// RequirePatientAccess guards routes that expose one patient's data to
// another user. The patient ID comes from the named route parameter.
// Patients always pass for their own records; anyone else needs an
// active sharing grant.
func RequirePatientAccess(checker AccessChecker, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user id"})
			return
		}

		patientID := c.Param(param)
		if patientID == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing patient id"})
			return
		}

		if patientID == userID {
			c.Next()
			return
		}

		allowed, err := checker.HasAccess(c.Request.Context(), patientID, userID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "access check failed"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no access to this patient"})
			return
		}
		c.Next()
	}
}
