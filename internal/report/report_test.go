package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/themobileprof/paintrack-be/internal/analytics"
	"github.com/themobileprof/paintrack-be/internal/painlog"
	"github.com/themobileprof/paintrack-be/internal/urgency"
)

func reportFixture() ([]painlog.Entry, Options) {
	entries := []painlog.Entry{
		{ID: "e1", Date: "2024-01-01", Time: "08:00:00", BodyPart: "lower_back", Severity: 3, PainType: painlog.PainAching, Cause: painlog.CauseOveruse},
		{ID: "e2", Date: "2024-01-02", Time: "08:00:00", BodyPart: "lower_back", Severity: 4, PainType: painlog.PainAching, Cause: painlog.CauseOveruse, Description: "sore after sitting"},
		{ID: "e3", Date: "2024-01-03", Time: "08:00:00", BodyPart: "neck", Severity: 8, PainType: painlog.PainSharp, Cause: painlog.CauseUnknown},
		{ID: "e4", Date: "2024-01-04", Time: "08:00:00", BodyPart: "lower_back", Severity: 8, PainType: painlog.PainAching, Cause: painlog.CauseOveruse},
	}
	opts := Options{
		GeneratedAt: time.Date(2024, 1, 5, 9, 30, 0, 0, time.UTC),
	}
	return entries, opts
}

func TestBuild(t *testing.T) {
	builder := NewBuilder()
	entries, opts := reportFixture()

	r := builder.Build(PatientInfo{Name: "Jo Adeyemi"}, entries, opts)

	if r.TotalEntries != 4 {
		t.Errorf("Expected 4 entries, got %d", r.TotalEntries)
	}
	if r.AveragePain != 5.8 {
		t.Errorf("Expected average 5.8, got %.1f", r.AveragePain)
	}
	if r.MostAffectedArea != "lower_back" {
		t.Errorf("Expected lower_back, got %s", r.MostAffectedArea)
	}
	if r.MostCommonPainType != "aching" {
		t.Errorf("Expected aching, got %s", r.MostCommonPainType)
	}
	if r.Trend != analytics.TrendWorsening {
		t.Errorf("Expected worsening trend, got %s", r.Trend)
	}
	if r.RangeStart != "2024-01-01" || r.RangeEnd != "2024-01-04" {
		t.Errorf("Range wrong: %s to %s", r.RangeStart, r.RangeEnd)
	}
	if len(r.Entries) != 0 {
		t.Error("Raw entries included without IncludeRaw")
	}
}

func TestBuildEmptyCollection(t *testing.T) {
	builder := NewBuilder()

	r := builder.Build(PatientInfo{Name: "Jo"}, nil, Options{GeneratedAt: time.Now()})

	if r.TotalEntries != 0 || r.AveragePain != 0 {
		t.Error("Expected zero totals for empty input")
	}
	if r.MostAffectedArea != analytics.NoValue {
		t.Errorf("Expected %q, got %q", analytics.NoValue, r.MostAffectedArea)
	}
	if r.Trend != analytics.TrendStable {
		t.Errorf("Expected stable trend, got %s", r.Trend)
	}
	if r.Urgency.Level != urgency.LevelLow {
		t.Errorf("Expected low urgency, got %s", r.Urgency.Level)
	}

	// Formatting an empty report must not panic and still has all sections
	text := FormatText(r)
	if !strings.Contains(text, "No pain entries logged") {
		t.Error("Empty report missing chief complaint placeholder")
	}
}

func TestBuildSortsUnorderedInput(t *testing.T) {
	builder := NewBuilder()
	entries, opts := reportFixture()
	shuffled := []painlog.Entry{entries[2], entries[0], entries[3], entries[1]}

	r := builder.Build(PatientInfo{}, shuffled, opts)
	if r.RangeStart != "2024-01-01" || r.RangeEnd != "2024-01-04" {
		t.Errorf("Builder did not sort input: %s to %s", r.RangeStart, r.RangeEnd)
	}
}

func TestBuildIdempotent(t *testing.T) {
	builder := NewBuilder()
	entries, opts := reportFixture()
	patient := PatientInfo{Name: "Jo Adeyemi", Email: "jo@example.com"}

	first := builder.Build(patient, entries, opts)
	second := builder.Build(patient, entries, opts)

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(a) != string(b) {
		t.Error("Two builds over identical input differ")
	}

	if FormatText(first) != FormatText(second) {
		t.Error("Text output differs across identical builds")
	}
}

func TestFormatTextSections(t *testing.T) {
	builder := NewBuilder()
	entries, opts := reportFixture()
	opts.ClinicalNotes = "Patient reports desk work aggravates symptoms."
	opts.IncludeRaw = true

	r := builder.Build(PatientInfo{Name: "Jo Adeyemi", Email: "jo@example.com"}, entries, opts)
	text := FormatText(r)

	sections := []string{
		"PAIN SUMMARY REPORT",
		"Patient: Jo Adeyemi",
		"CHIEF COMPLAINT",
		"ASSESSMENT",
		"TIMELINE",
		"CLINICAL NOTES",
		"PLAN",
		"APPENDIX: LOGGED ENTRIES",
	}
	pos := 0
	for _, section := range sections {
		idx := strings.Index(text[pos:], section)
		if idx < 0 {
			t.Fatalf("Section %q missing or out of order", section)
		}
		pos += idx
	}

	if !strings.Contains(text, "Report generated at: 2024-01-05 09:30:00") {
		t.Error("Missing generated-at line")
	}
	if !strings.Contains(text, disclaimer) {
		t.Error("Missing disclaimer footer")
	}
}

func TestFormatTextUrgencySectionConditional(t *testing.T) {
	builder := NewBuilder()

	// A calm history: urgency stays low, so the section is omitted
	calm := []painlog.Entry{
		{ID: "a", Date: "2024-01-01", Time: "08:00:00", BodyPart: "knee", Severity: 2, PainType: painlog.PainDull, Cause: painlog.CauseUnknown},
	}
	r := builder.Build(PatientInfo{}, calm, Options{GeneratedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)})
	if r.Urgency.Level != urgency.LevelLow {
		t.Fatalf("Fixture should be low urgency, got %s", r.Urgency.Level)
	}
	if strings.Contains(FormatText(r), "URGENCY") {
		t.Error("Urgency section rendered for low level")
	}

	// An alarming history renders the section
	alarming := []painlog.Entry{
		{ID: "b", Date: "2024-01-02", Time: "08:00:00", BodyPart: "chest", Severity: 9, PainType: painlog.PainStabbing, Cause: painlog.CauseUnknown},
	}
	elevated := builder.Build(PatientInfo{}, alarming, Options{GeneratedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)})
	if elevated.Urgency.Level == urgency.LevelLow {
		t.Fatalf("Fixture should be elevated, got %s", elevated.Urgency.Level)
	}
	if !strings.Contains(FormatText(elevated), "URGENCY") {
		t.Error("Urgency section missing for elevated level")
	}
}

func TestFormatEMRMirrorsNumericFields(t *testing.T) {
	builder := NewBuilder()
	entries, opts := reportFixture()
	r := builder.Build(PatientInfo{Name: "Jo"}, entries, opts)

	doc := FormatEMR(r)

	if doc.Summary.TotalEntries != r.TotalEntries {
		t.Errorf("TotalEntries mismatch: %d vs %d", doc.Summary.TotalEntries, r.TotalEntries)
	}
	if doc.Summary.AveragePain != r.AveragePain {
		t.Errorf("AveragePain mismatch: %.1f vs %.1f", doc.Summary.AveragePain, r.AveragePain)
	}
	if doc.Findings.Urgency.Score != r.Urgency.Score {
		t.Errorf("Urgency score mismatch: %d vs %d", doc.Findings.Urgency.Score, r.Urgency.Score)
	}
	if doc.Summary.Trend != r.Trend {
		t.Errorf("Trend mismatch: %s vs %s", doc.Summary.Trend, r.Trend)
	}

	// The numeric fields must also survive the text rendering
	text := FormatText(r)
	if !strings.Contains(text, "Total entries: 4") || !strings.Contains(text, "Average pain: 5.8/10") {
		t.Error("Text output disagrees with structured output")
	}
}
