package symptoms

import (
	"testing"

	"github.com/themobileprof/paintrack-be/internal/painlog"
)

func textEntry(date, bodyPart, description string, tags ...string) painlog.Entry {
	return painlog.Entry{
		Date:        date,
		Time:        "09:00:00",
		BodyPart:    bodyPart,
		Severity:    5,
		Description: description,
		Tags:        tags,
	}
}

func TestFlagEntries(t *testing.T) {
	flagger := NewFlagger()

	tests := []struct {
		name         string
		entries      []painlog.Entry
		wantKeywords []string
		wantSeverity map[string]Severity
	}{
		{
			name: "critical keyword in description",
			entries: []painlog.Entry{
				textEntry("2024-01-01", "chest", "sudden chest pain while resting"),
			},
			wantKeywords: []string{"chest pain"},
			wantSeverity: map[string]Severity{"chest pain": SeveritySevere},
		},
		{
			name: "multiple tiers in one entry",
			entries: []painlog.Entry{
				textEntry("2024-01-01", "lower_back", "burning, aching pain all day"),
			},
			wantKeywords: []string{"burning", "aching"},
			wantSeverity: map[string]Severity{
				"burning": SeverityModerate,
				"aching":  SeverityMild,
			},
		},
		{
			name: "matches in tags",
			entries: []painlog.Entry{
				textEntry("2024-01-01", "knee", "", "stiff", "morning"),
			},
			wantKeywords: []string{"stiff"},
			wantSeverity: map[string]Severity{"stiff": SeverityMild},
		},
		{
			name: "case insensitive",
			entries: []painlog.Entry{
				textEntry("2024-01-01", "neck", "UNBEARABLE at night"),
			},
			wantKeywords: []string{"unbearable"},
			wantSeverity: map[string]Severity{"unbearable": SeverityModerate},
		},
		{
			name:         "no matches",
			entries:      []painlog.Entry{textEntry("2024-01-01", "neck", "feeling fine")},
			wantKeywords: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags := flagger.FlagEntries(tt.entries)

			if len(flags) != len(tt.wantKeywords) {
				t.Fatalf("Expected %d flags, got %d", len(tt.wantKeywords), len(flags))
			}
			got := make(map[string]Flag)
			for _, f := range flags {
				got[f.Keyword] = f
			}
			for _, keyword := range tt.wantKeywords {
				flag, ok := got[keyword]
				if !ok {
					t.Errorf("Expected keyword %q to be flagged", keyword)
					continue
				}
				if want := tt.wantSeverity[keyword]; flag.Severity != want {
					t.Errorf("Keyword %q: expected severity %s, got %s", keyword, want, flag.Severity)
				}
			}
		})
	}
}

func TestFlagEntriesAccumulatesEvidence(t *testing.T) {
	flagger := NewFlagger()
	entries := []painlog.Entry{
		textEntry("2024-01-01", "lower_back", "sore after lifting"),
		textEntry("2024-01-03", "lower_back", ""),
		textEntry("2024-01-05", "hip", "still sore"),
	}
	entries[1].Activity = "woke up sore"

	flags := flagger.FlagEntries(entries)
	if len(flags) != 1 {
		t.Fatalf("Expected 1 flag, got %d", len(flags))
	}

	flag := flags[0]
	if flag.Keyword != "sore" {
		t.Fatalf("Expected keyword sore, got %s", flag.Keyword)
	}
	if flag.Count != 3 {
		t.Errorf("Expected count 3, got %d", flag.Count)
	}
	if len(flag.Dates) != 3 || flag.Dates[0] != "2024-01-01" {
		t.Errorf("Dates wrong: %v", flag.Dates)
	}

	// Context is "<bodyPart>: <description or 'No description'>"
	if flag.Context[0] != "lower_back: sore after lifting" {
		t.Errorf("Context[0] wrong: %q", flag.Context[0])
	}
	if flag.Context[1] != "lower_back: No description" {
		t.Errorf("Context[1] wrong: %q", flag.Context[1])
	}
	if flag.Context[2] != "hip: still sore" {
		t.Errorf("Context[2] wrong: %q", flag.Context[2])
	}
}

func TestFlagEntriesOrdering(t *testing.T) {
	flagger := NewFlagger()
	entries := []painlog.Entry{
		textEntry("2024-01-01", "neck", "stiff and sore"),
		textEntry("2024-01-02", "neck", "stiff again, some numbness"),
		textEntry("2024-01-03", "neck", "burning feeling"),
	}

	flags := flagger.FlagEntries(entries)

	// severe > moderate > mild, then count descending
	wantOrder := []string{"numbness", "burning", "stiff", "sore"}
	if len(flags) != len(wantOrder) {
		t.Fatalf("Expected %d flags, got %d", len(wantOrder), len(flags))
	}
	for i, want := range wantOrder {
		if flags[i].Keyword != want {
			t.Errorf("Position %d: expected %s, got %s", i, want, flags[i].Keyword)
		}
	}
}

func TestMatchText(t *testing.T) {
	matched := MatchText("Sharp CHEST PAIN with some swelling", TierCritical)
	if len(matched) != 1 || matched[0] != "chest pain" {
		t.Errorf("Expected [chest pain], got %v", matched)
	}

	urgent := MatchText("sharp chest pain with some swelling", TierHigh)
	if len(urgent) != 1 || urgent[0] != "swelling" {
		t.Errorf("Expected [swelling], got %v", urgent)
	}

	if got := MatchText("", TierCritical); len(got) != 0 {
		t.Errorf("Expected no matches on empty text, got %v", got)
	}
}
