package api

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/themobileprof/paintrack-be/internal/api/middleware"
	"github.com/themobileprof/paintrack-be/internal/painlog"
)

// PainLogHandler handles pain log CRUD endpoints
type PainLogHandler struct {
	repo painlog.Repository
}

// NewPainLogHandler creates a new pain log handler
func NewPainLogHandler(repo painlog.Repository) *PainLogHandler {
	return &PainLogHandler{repo: repo}
}

// CreateLogRequest represents a pain log creation request
type CreateLogRequest struct {
	Date        string   `json:"date" binding:"required"`
	Time        string   `json:"time" binding:"required"`
	BodyPart    string   `json:"body_part" binding:"required"`
	Severity    int      `json:"severity" binding:"required"`
	PainType    string   `json:"pain_type" binding:"required"`
	Cause       string   `json:"cause" binding:"required"`
	Activity    string   `json:"activity"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Photos      []string `json:"photos"`
}

// targetUserID resolves which user's logs a request addresses. Provider
// routes carry an explicit patient ID, guarded upstream by the access
// gate; everything else operates on the caller's own logs.
func targetUserID(c *gin.Context) string {
	if patientID := c.Param("patientId"); patientID != "" {
		return patientID
	}
	return middleware.GetUserID(c)
}

// ListLogs returns all pain logs for the target user, oldest first
func (h *PainLogHandler) ListLogs(c *gin.Context) {
	userID := targetUserID(c)

	entries, err := h.repo.ListEntries(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pain logs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"logs":  painlog.SortChronological(entries),
		"count": len(entries),
	})
}

// GetLog returns a single pain log by ID
func (h *PainLogHandler) GetLog(c *gin.Context) {
	userID := targetUserID(c)

	entry, err := h.repo.GetEntry(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, painlog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pain log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pain log"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// CreateLog records a new pain log entry
func (h *PainLogHandler) CreateLog(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := painlog.Entry{
		ID:          uuid.NewString(),
		Date:        req.Date,
		Time:        req.Time,
		BodyPart:    req.BodyPart,
		Severity:    req.Severity,
		PainType:    painlog.PainType(req.PainType),
		Cause:       painlog.Cause(req.Cause),
		Activity:    req.Activity,
		Description: req.Description,
		Tags:        req.Tags,
		Photos:      req.Photos,
	}

	if err := entry.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.AppendEntry(c.Request.Context(), userID, entry); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save pain log"})
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// UpdateLog replaces an existing pain log entry
func (h *PainLogHandler) UpdateLog(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req CreateLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := painlog.Entry{
		ID:          c.Param("id"),
		Date:        req.Date,
		Time:        req.Time,
		BodyPart:    req.BodyPart,
		Severity:    req.Severity,
		PainType:    painlog.PainType(req.PainType),
		Cause:       painlog.Cause(req.Cause),
		Activity:    req.Activity,
		Description: req.Description,
		Tags:        req.Tags,
		Photos:      req.Photos,
	}

	if err := entry.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.repo.ReplaceEntry(c.Request.Context(), userID, entry); err != nil {
		if errors.Is(err, painlog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pain log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update pain log"})
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteLog removes a pain log entry
func (h *PainLogHandler) DeleteLog(c *gin.Context) {
	userID := middleware.GetUserID(c)

	if err := h.repo.DeleteEntry(c.Request.Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, painlog.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Pain log not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete pain log"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Pain log deleted successfully"})
}

// BodyParts returns the catalog of body parts accepted by validation,
// grouped by region
func (h *PainLogHandler) BodyParts(c *gin.Context) {
	regions := []painlog.Region{painlog.RegionHead, painlog.RegionTorso, painlog.RegionArms, painlog.RegionLegs}

	catalog := make(map[painlog.Region][]string, len(regions))
	for _, region := range regions {
		parts := painlog.BodyParts(region)
		sort.Strings(parts)
		catalog[region] = parts
	}

	c.JSON(http.StatusOK, gin.H{"body_parts": catalog})
}
