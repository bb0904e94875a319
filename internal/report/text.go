package report

import (
	"fmt"
	"strings"

	"github.com/themobileprof/paintrack-be/internal/urgency"
)

const disclaimer = "This report was generated from patient-entered data and " +
	"is intended to support, not replace, clinical judgment."

// FormatText renders the report as a plain-text clinician narrative.
// Section order is fixed; output is byte-identical for identical input.
func FormatText(r DoctorReport) string {
	var sb strings.Builder
	sb.Grow(2048)

	// Header / patient block
	sb.WriteString("PAIN SUMMARY REPORT\n")
	sb.WriteString("===================\n\n")
	fmt.Fprintf(&sb, "Patient: %s\n", valueOr(r.Patient.Name, "Not provided"))
	if r.Patient.Email != "" {
		fmt.Fprintf(&sb, "Contact: %s\n", r.Patient.Email)
	}
	fmt.Fprintf(&sb, "Report generated at: %s\n", r.GeneratedAt.Format("2006-01-02 15:04:05"))
	if r.RangeStart != "" {
		fmt.Fprintf(&sb, "Covers: %s to %s\n", r.RangeStart, r.RangeEnd)
	}
	sb.WriteString("\n")

	// Chief complaint
	sb.WriteString("CHIEF COMPLAINT\n")
	if r.TotalEntries == 0 {
		sb.WriteString("No pain entries logged for this period.\n\n")
	} else {
		fmt.Fprintf(&sb, "%s pain, most often described as %s, most commonly attributed to %s.\n\n",
			titleCase(r.MostAffectedArea), r.MostCommonPainType, humanCause(r.MostCommonCause))
	}

	// Assessment
	sb.WriteString("ASSESSMENT\n")
	fmt.Fprintf(&sb, "Total entries: %d\n", r.TotalEntries)
	fmt.Fprintf(&sb, "Average pain: %.1f/10\n", r.AveragePain)
	fmt.Fprintf(&sb, "Trend: %s\n", r.Trend)
	sb.WriteString("\n")

	// Urgency (only when elevated)
	if r.Urgency.Level != urgency.LevelLow {
		sb.WriteString("URGENCY\n")
		fmt.Fprintf(&sb, "Level: %s (score %d)\n", strings.ToUpper(string(r.Urgency.Level)), r.Urgency.Score)
		for _, f := range r.Urgency.Flags {
			fmt.Fprintf(&sb, "- [%s] %s: %s\n", f.Severity, f.Message, f.Details)
		}
		sb.WriteString("\n")
	}

	// Timeline
	sb.WriteString("TIMELINE\n")
	if len(r.FlareUps) == 0 && len(r.PeakPeriods) == 0 {
		sb.WriteString("No flare-ups or peak periods detected.\n")
	}
	for _, fu := range r.FlareUps {
		fmt.Fprintf(&sb, "Flare-up on %s: %s at severity %d (baseline %.1f)\n",
			fu.Entry.Date, fu.Entry.BodyPart, fu.Entry.Severity, fu.Baseline)
	}
	for _, p := range r.PeakPeriods {
		fmt.Fprintf(&sb, "Peak period %s to %s: %s (avg %.1f)\n",
			p.StartDate, p.EndDate, p.Description, p.AverageSeverity)
	}
	if len(r.SymptomFlags) > 0 {
		sb.WriteString("Flagged symptom mentions:\n")
		for _, flag := range r.SymptomFlags {
			fmt.Fprintf(&sb, "- %q (%s) mentioned %d time(s), first on %s\n",
				flag.Keyword, flag.Severity, flag.Count, flag.Dates[0])
		}
	}
	sb.WriteString("\n")

	// Clinical notes
	if r.ClinicalNotes != "" {
		sb.WriteString("CLINICAL NOTES\n")
		sb.WriteString(r.ClinicalNotes)
		sb.WriteString("\n\n")
	}

	// Plan / recommendations
	sb.WriteString("PLAN\n")
	for _, rec := range r.Urgency.Recommendations {
		fmt.Fprintf(&sb, "- %s\n", rec)
	}
	sb.WriteString("\n")

	// Raw-data appendix
	if len(r.Entries) > 0 {
		sb.WriteString("APPENDIX: LOGGED ENTRIES\n")
		for _, e := range r.Entries {
			fmt.Fprintf(&sb, "%s %s | %s | severity %d | %s | %s",
				e.Date, e.Time, e.BodyPart, e.Severity, e.PainType, humanCause(string(e.Cause)))
			if e.Description != "" {
				fmt.Fprintf(&sb, " | %s", e.Description)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	// Footer
	sb.WriteString(disclaimer)
	sb.WriteString("\n")
	return sb.String()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// humanCause renders a cause tag in readable form
func humanCause(cause string) string {
	return strings.ReplaceAll(cause, "_", " ")
}

// titleCase capitalizes the first rune of a body part tag for prose
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
