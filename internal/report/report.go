package report

import (
	"time"

	"github.com/themobileprof/paintrack-be/internal/analytics"
	"github.com/themobileprof/paintrack-be/internal/painlog"
	"github.com/themobileprof/paintrack-be/internal/symptoms"
	"github.com/themobileprof/paintrack-be/internal/urgency"
)

// PatientInfo is the header block identifying whose data the report covers
type PatientInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Options controls report assembly. GeneratedAt is part of the input so
// the builder stays a pure function; it also anchors the urgency
// assessment's recency window.
type Options struct {
	GeneratedAt   time.Time
	ClinicalNotes string
	IncludeRaw    bool
}

// DoctorReport is the structured clinician-facing aggregate. Everything
// in it derives deterministically from the entry collection and options.
type DoctorReport struct {
	GeneratedAt        time.Time               `json:"generated_at"`
	Patient            PatientInfo             `json:"patient"`
	RangeStart         string                  `json:"range_start"`
	RangeEnd           string                  `json:"range_end"`
	TotalEntries       int                     `json:"total_entries"`
	AveragePain        float64                 `json:"average_pain"`
	MostAffectedArea   string                  `json:"most_affected_area"`
	MostCommonPainType string                  `json:"most_common_pain_type"`
	MostCommonCause    string                  `json:"most_common_cause"`
	Trend              analytics.Trend         `json:"trend"`
	FlareUps           []analytics.FlareUp     `json:"flare_ups"`
	PeakPeriods        []analytics.PeakPeriod  `json:"peak_periods"`
	SymptomFlags       []symptoms.Flag         `json:"symptom_flags"`
	Urgency            urgency.Assessment      `json:"urgency"`
	ClinicalNotes      string                  `json:"clinical_notes,omitempty"`
	Entries            []painlog.Entry         `json:"entries,omitempty"`
}

// Builder assembles DoctorReports from a log collection
type Builder struct {
	flagger  *symptoms.Flagger
	assessor *urgency.Assessor
}

// NewBuilder creates a report builder
func NewBuilder() *Builder {
	return &Builder{
		flagger:  symptoms.NewFlagger(),
		assessor: urgency.NewAssessor(),
	}
}

// Build runs the full analytics pipeline over entries. Entries may arrive
// in any order; chronological sorting happens here. Empty input produces a
// well-formed report with zero counts, "None" categories, and a low-urgency
// assessment rather than an error.
func (b *Builder) Build(patient PatientInfo, entries []painlog.Entry, opts Options) DoctorReport {
	sorted := painlog.SortChronological(entries)

	r := DoctorReport{
		GeneratedAt:        opts.GeneratedAt,
		Patient:            patient,
		TotalEntries:       len(sorted),
		AveragePain:        analytics.AverageSeverity(sorted),
		MostAffectedArea:   analytics.MostFrequent(sorted, analytics.FieldBodyPart),
		MostCommonPainType: analytics.MostFrequent(sorted, analytics.FieldPainType),
		MostCommonCause:    analytics.MostFrequent(sorted, analytics.FieldCause),
		Trend:              analytics.ClassifyTrend(sorted),
		FlareUps:           analytics.DetectFlareUps(sorted),
		PeakPeriods:        analytics.DetectPeakPeriods(sorted),
		SymptomFlags:       b.flagger.FlagEntries(sorted),
		Urgency:            b.assessor.Assess(sorted, opts.GeneratedAt),
		ClinicalNotes:      opts.ClinicalNotes,
	}

	if len(sorted) > 0 {
		r.RangeStart = sorted[0].Date
		r.RangeEnd = sorted[len(sorted)-1].Date
	}
	if opts.IncludeRaw {
		r.Entries = sorted
	}
	return r
}
