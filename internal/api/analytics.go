package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/themobileprof/paintrack-be/internal/analytics"
	"github.com/themobileprof/paintrack-be/internal/painlog"
	"github.com/themobileprof/paintrack-be/internal/symptoms"
	"github.com/themobileprof/paintrack-be/internal/urgency"
)

// AnalyticsHandler handles pain analytics endpoints
type AnalyticsHandler struct {
	repo     painlog.Repository
	flagger  *symptoms.Flagger
	assessor *urgency.Assessor
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(repo painlog.Repository) *AnalyticsHandler {
	return &AnalyticsHandler{
		repo:     repo,
		flagger:  symptoms.NewFlagger(),
		assessor: urgency.NewAssessor(),
	}
}

// StatsResponse represents the aggregate statistics response
type StatsResponse struct {
	TotalEntries       int             `json:"total_entries"`
	AverageSeverity    float64         `json:"average_severity"`
	MostAffectedArea   string          `json:"most_affected_area"`
	MostCommonPainType string          `json:"most_common_pain_type"`
	MostCommonCause    string          `json:"most_common_cause"`
	Trend              analytics.Trend `json:"trend"`
	RangeStart         string          `json:"range_start,omitempty"`
	RangeEnd           string          `json:"range_end,omitempty"`
}

// GetStats returns aggregate statistics over the target user's logs
func (h *AnalyticsHandler) GetStats(c *gin.Context) {
	entries, ok := h.loadEntries(c)
	if !ok {
		return
	}

	sorted := painlog.SortChronological(entries)
	resp := StatsResponse{
		TotalEntries:       len(sorted),
		AverageSeverity:    analytics.AverageSeverity(sorted),
		MostAffectedArea:   analytics.MostFrequent(sorted, analytics.FieldBodyPart),
		MostCommonPainType: analytics.MostFrequent(sorted, analytics.FieldPainType),
		MostCommonCause:    analytics.MostFrequent(sorted, analytics.FieldCause),
		Trend:              analytics.ClassifyTrend(sorted),
	}
	if len(sorted) > 0 {
		resp.RangeStart = sorted[0].Date
		resp.RangeEnd = sorted[len(sorted)-1].Date
	}

	c.JSON(http.StatusOK, resp)
}

// GetFlareUps returns detected severity spikes and high-pain periods
func (h *AnalyticsHandler) GetFlareUps(c *gin.Context) {
	entries, ok := h.loadEntries(c)
	if !ok {
		return
	}

	flareUps := analytics.DetectFlareUps(entries)
	peakPeriods := analytics.DetectPeakPeriods(entries)

	c.JSON(http.StatusOK, gin.H{
		"flare_ups":    emptyIfNilFlareUps(flareUps),
		"peak_periods": emptyIfNilPeaks(peakPeriods),
	})
}

// GetUrgency returns the deterministic urgency assessment with its
// contributing flags and recommendations
func (h *AnalyticsHandler) GetUrgency(c *gin.Context) {
	entries, ok := h.loadEntries(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, h.assessor.Assess(entries, time.Now()))
}

// GetSymptomFlags returns keyword matches against the concerning-symptom
// lexicon across the target user's log text
func (h *AnalyticsHandler) GetSymptomFlags(c *gin.Context) {
	entries, ok := h.loadEntries(c)
	if !ok {
		return
	}

	flags := h.flagger.FlagEntries(painlog.SortChronological(entries))
	if flags == nil {
		flags = []symptoms.Flag{}
	}

	c.JSON(http.StatusOK, gin.H{"symptom_flags": flags})
}

// loadEntries fetches the target user's entries, writing the error
// response itself on failure
func (h *AnalyticsHandler) loadEntries(c *gin.Context) ([]painlog.Entry, bool) {
	entries, err := h.repo.ListEntries(c.Request.Context(), targetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pain logs"})
		return nil, false
	}
	return entries, true
}

// JSON arrays beat null for empty collections on the wire

func emptyIfNilFlareUps(v []analytics.FlareUp) []analytics.FlareUp {
	if v == nil {
		return []analytics.FlareUp{}
	}
	return v
}

func emptyIfNilPeaks(v []analytics.PeakPeriod) []analytics.PeakPeriod {
	if v == nil {
		return []analytics.PeakPeriod{}
	}
	return v
}
