package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// JWTClaims carries the authenticated identity through a request
type JWTClaims struct {
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	IsProvider bool   `json:"is_provider"`
	jwt.RegisteredClaims
}

// JWTAuth validates the bearer token and stores the claims on the context
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("is_provider", claims.IsProvider)
		c.Next()
	}
}

// GetUserID returns the authenticated user ID, or "" when unauthenticated
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// IsProvider reports whether the authenticated user is a care provider
func IsProvider(c *gin.Context) bool {
	if v, ok := c.Get("is_provider"); ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return false
}
