package report

import (
	"github.com/themobileprof/paintrack-be/internal/analytics"
	"github.com/themobileprof/paintrack-be/internal/painlog"
	"github.com/themobileprof/paintrack-be/internal/symptoms"
	"github.com/themobileprof/paintrack-be/internal/urgency"
)

// EMRDocument mirrors the report's fields as a structured key/value tree
// for downstream export. Numeric fields are identical to the text output.
type EMRDocument struct {
	Patient   EMRPatient   `json:"patient"`
	Encounter EMREncounter `json:"encounter"`
	Summary   EMRSummary   `json:"summary"`
	Findings  EMRFindings  `json:"findings"`
	Plan      EMRPlan      `json:"plan"`
}

type EMRPatient struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type EMREncounter struct {
	GeneratedAt string `json:"generated_at"`
	RangeStart  string `json:"range_start,omitempty"`
	RangeEnd    string `json:"range_end,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type EMRSummary struct {
	TotalEntries       int             `json:"total_entries"`
	AveragePain        float64         `json:"average_pain"`
	MostAffectedArea   string          `json:"most_affected_area"`
	MostCommonPainType string          `json:"most_common_pain_type"`
	MostCommonCause    string          `json:"most_common_cause"`
	Trend              analytics.Trend `json:"trend"`
}

type EMRFindings struct {
	Urgency      urgency.Assessment     `json:"urgency"`
	FlareUps     []analytics.FlareUp    `json:"flare_ups"`
	PeakPeriods  []analytics.PeakPeriod `json:"peak_periods"`
	SymptomFlags []symptoms.Flag        `json:"symptom_flags"`
}

type EMRPlan struct {
	Recommendations []string        `json:"recommendations"`
	RawEntries      []painlog.Entry `json:"raw_entries,omitempty"`
}

// FormatEMR renders the report as the structured EMR-style document
func FormatEMR(r DoctorReport) EMRDocument {
	return EMRDocument{
		Patient: EMRPatient{
			Name:  r.Patient.Name,
			Email: r.Patient.Email,
		},
		Encounter: EMREncounter{
			GeneratedAt: r.GeneratedAt.Format("2006-01-02 15:04:05"),
			RangeStart:  r.RangeStart,
			RangeEnd:    r.RangeEnd,
			Notes:       r.ClinicalNotes,
		},
		Summary: EMRSummary{
			TotalEntries:       r.TotalEntries,
			AveragePain:        r.AveragePain,
			MostAffectedArea:   r.MostAffectedArea,
			MostCommonPainType: r.MostCommonPainType,
			MostCommonCause:    r.MostCommonCause,
			Trend:              r.Trend,
		},
		Findings: EMRFindings{
			Urgency:      r.Urgency,
			FlareUps:     r.FlareUps,
			PeakPeriods:  r.PeakPeriods,
			SymptomFlags: r.SymptomFlags,
		},
		Plan: EMRPlan{
			Recommendations: r.Urgency.Recommendations,
			RawEntries:      r.Entries,
		},
	}
}
