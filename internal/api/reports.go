package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/themobileprof/paintrack-be/internal/db"
	"github.com/themobileprof/paintrack-be/internal/narrative"
	"github.com/themobileprof/paintrack-be/internal/painlog"
	"github.com/themobileprof/paintrack-be/internal/report"
)

// ReportHandler handles clinician report endpoints
type ReportHandler struct {
	repo      painlog.Repository
	db        *db.DB
	builder   *report.Builder
	generator *narrative.Generator
}

// NewReportHandler creates a new report handler. The narrative generator
// may be nil, in which case the summary endpoint falls back to the
// deterministic text format.
func NewReportHandler(repo painlog.Repository, database *db.DB, generator *narrative.Generator) *ReportHandler {
	return &ReportHandler{
		repo:      repo,
		db:        database,
		builder:   report.NewBuilder(),
		generator: generator,
	}
}

// GetReport builds the full doctor report for the target user.
// format=json returns the structured report, format=text the printable
// plain-text rendering, format=emr the EMR-shaped document.
func (h *ReportHandler) GetReport(c *gin.Context) {
	doctorReport, ok := h.buildReport(c)
	if !ok {
		return
	}

	switch c.DefaultQuery("format", "json") {
	case "json":
		c.JSON(http.StatusOK, doctorReport)
	case "text":
		c.String(http.StatusOK, report.FormatText(doctorReport))
	case "emr":
		c.JSON(http.StatusOK, report.FormatEMR(doctorReport))
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be json, text, or emr"})
	}
}

// GetSummary returns a short narrative summary of the report. The
// assistant writes it when available; otherwise the deterministic text
// report stands in.
func (h *ReportHandler) GetSummary(c *gin.Context) {
	doctorReport, ok := h.buildReport(c)
	if !ok {
		return
	}

	if h.generator == nil {
		c.JSON(http.StatusOK, gin.H{
			"summary": report.FormatText(doctorReport),
			"source":  narrative.SourceFallback,
		})
		return
	}

	result := h.generator.Generate(c.Request.Context(), doctorReport)
	c.JSON(http.StatusOK, gin.H{
		"summary": result.Content,
		"source":  result.Source,
	})
}

// buildReport assembles the report for the target user, writing the
// error response itself on failure
func (h *ReportHandler) buildReport(c *gin.Context) (report.DoctorReport, bool) {
	userID := targetUserID(c)

	entries, err := h.repo.ListEntries(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch pain logs"})
		return report.DoctorReport{}, false
	}

	patient := report.PatientInfo{}
	if user, err := h.db.GetUserByID(c.Request.Context(), userID); err == nil && user != nil {
		patient.Email = user.Email
		if user.Name != nil {
			patient.Name = *user.Name
		}
	}

	opts := report.Options{
		GeneratedAt:   time.Now(),
		ClinicalNotes: c.Query("notes"),
		IncludeRaw:    c.Query("include_raw") == "true",
	}

	return h.builder.Build(patient, entries, opts), true
}
