package api

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/themobileprof/paintrack-be/internal/api/middleware"
	"github.com/themobileprof/paintrack-be/internal/db"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// GoogleUserInfo represents user data from Google OAuth
type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// OAuthHandler handles OAuth authentication flows
type OAuthHandler struct {
	db           *db.DB
	googleConfig *oauth2.Config
	jwtSecret    string
}

// NewOAuthHandler creates a new OAuth handler
func NewOAuthHandler(database *db.DB, jwtSecret string) *OAuthHandler {
	// Web OAuth client for redirect flow
	googleConfig := &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_WEB_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectURL:  os.Getenv("GOOGLE_REDIRECT_URL"),
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.email",
			"https://www.googleapis.com/auth/userinfo.profile",
		},
		Endpoint: google.Endpoint,
	}

	return &OAuthHandler{
		db:           database,
		googleConfig: googleConfig,
		jwtSecret:    jwtSecret,
	}
}

// GoogleLogin initiates Google OAuth flow
func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	// Random state for CSRF protection, round-tripped via cookie
	state := generateRandomState()
	c.SetCookie("oauth_state", state, 600, "/", "", false, true)

	url := h.googleConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// GoogleCallback handles Google OAuth callback
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	stateCookie, err := c.Cookie("oauth_state")
	if err != nil || c.Query("state") != stateCookie {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid state parameter"})
		return
	}
	c.SetCookie("oauth_state", "", -1, "/", "", false, true)

	code := c.Query("code")
	token, err := h.googleConfig.Exchange(context.Background(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to exchange token"})
		return
	}

	userInfo, err := h.getGoogleUserInfo(token.AccessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get user info"})
		return
	}

	if !userInfo.VerifiedEmail {
		c.JSON(http.StatusForbidden, gin.H{"error": "Email not verified with Google"})
		return
	}

	h.finishLogin(c, userInfo)
}

// GoogleTokenAuth handles Google ID token authentication from mobile apps.
// Mobile sign-in yields an ID token rather than an authorization code, so
// the token is verified directly and exchanged for our JWT.
func (h *OAuthHandler) GoogleTokenAuth(c *gin.Context) {
	var req struct {
		IDToken string `json:"id_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID token is required"})
		return
	}

	userInfo, err := h.verifyGoogleIDToken(req.IDToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid ID token"})
		return
	}

	if !userInfo.VerifiedEmail {
		c.JSON(http.StatusForbidden, gin.H{"error": "Email not verified with Google"})
		return
	}

	h.finishLogin(c, userInfo)
}

// finishLogin resolves the Google identity to a local user and issues a JWT
func (h *OAuthHandler) finishLogin(c *gin.Context, userInfo *GoogleUserInfo) {
	user, err := h.findOrCreateUserByEmail(c.Request.Context(), userInfo.Email, "google", userInfo.ID, userInfo.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to authenticate user"})
		return
	}

	jwtToken, err := h.generateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token: jwtToken,
		User:  userToUserInfo(user),
	})
}

// getGoogleUserInfo fetches user information from Google
func (h *OAuthHandler) getGoogleUserInfo(accessToken string) (*GoogleUserInfo, error) {
	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var userInfo GoogleUserInfo
	if err := json.Unmarshal(body, &userInfo); err != nil {
		return nil, fmt.Errorf("failed to parse user info: %w", err)
	}

	return &userInfo, nil
}

// findOrCreateUserByEmail finds an existing user by email or creates a new
// one. Email is the canonical identifier, so signing in with Google on a
// second device links to the same account.
func (h *OAuthHandler) findOrCreateUserByEmail(ctx context.Context, email, provider, providerUserID, name string) (*db.User, error) {
	tx, err := h.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	var user db.User
	err = tx.QueryRowContext(ctx, `
		SELECT id, email, display_name, is_provider
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.Email, &user.Name, &user.IsProvider)

	if err == sql.ErrNoRows {
		err = tx.QueryRowContext(ctx, `
			INSERT INTO users (email, password_hash, display_name, created_at, updated_at)
			VALUES ($1, '', $2, NOW(), NOW())
			RETURNING id, email, display_name, is_provider
		`, email, name).Scan(&user.ID, &user.Email, &user.Name, &user.IsProvider)
		if err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	// Record the identity so future logins with this provider resolve fast
	_, err = tx.ExecContext(ctx, `
		INSERT INTO oauth_identities (user_id, provider, provider_user_id, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (provider, provider_user_id) DO UPDATE
		SET updated_at = NOW()
	`, user.ID, provider, providerUserID, email)
	if err != nil {
		return nil, fmt.Errorf("failed to link OAuth identity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &user, nil
}

// generateJWT creates a JWT token for an authenticated user
func (h *OAuthHandler) generateJWT(user *db.User) (string, error) {
	if h.jwtSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	claims := &middleware.JWTClaims{
		UserID:     user.ID,
		Email:      user.Email,
		IsProvider: user.IsProvider,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour * 7)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.jwtSecret))
}

// generateRandomState generates a random state string for CSRF protection
func generateRandomState() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}

// verifyGoogleIDToken validates a Google ID token against the tokeninfo
// endpoint. Tokens from any of the configured client IDs are accepted
// (web, Android, iOS).
func (h *OAuthHandler) verifyGoogleIDToken(idToken string) (*GoogleUserInfo, error) {
	allowedClientIDs := os.Getenv("GOOGLE_ALLOWED_CLIENT_IDS")
	if allowedClientIDs == "" {
		return nil, fmt.Errorf("GOOGLE_ALLOWED_CLIENT_IDS not configured")
	}

	resp, err := http.Get("https://oauth2.googleapis.com/tokeninfo?id_token=" + idToken)
	if err != nil {
		return nil, fmt.Errorf("failed to verify token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token verification failed with status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var tokenInfo struct {
		Aud           string `json:"aud"`
		Sub           string `json:"sub"`
		Email         string `json:"email"`
		EmailVerified string `json:"email_verified"` // "true" or "false" as string
		Name          string `json:"name"`
		Picture       string `json:"picture"`
	}

	if err := json.Unmarshal(body, &tokenInfo); err != nil {
		return nil, fmt.Errorf("failed to parse token info: %w", err)
	}

	if !isAllowedClientID(tokenInfo.Aud, allowedClientIDs) {
		return nil, fmt.Errorf("token audience mismatch: got %s", tokenInfo.Aud)
	}

	return &GoogleUserInfo{
		ID:            tokenInfo.Sub,
		Email:         tokenInfo.Email,
		VerifiedEmail: tokenInfo.EmailVerified == "true",
		Name:          tokenInfo.Name,
		Picture:       tokenInfo.Picture,
	}, nil
}

// isAllowedClientID checks if a client ID is in the comma-separated allow list
func isAllowedClientID(clientID, allowedList string) bool {
	for _, allowed := range strings.Split(allowedList, ",") {
		if allowed = strings.TrimSpace(allowed); allowed != "" && clientID == allowed {
			return true
		}
	}
	return false
}
