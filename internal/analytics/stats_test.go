package analytics

import (
	"testing"

	"github.com/themobileprof/paintrack-be/internal/painlog"
)

// entriesWithSeverities builds a chronological run of entries, one per day
func entriesWithSeverities(severities ...int) []painlog.Entry {
	entries := make([]painlog.Entry, len(severities))
	for i, s := range severities {
		entries[i] = painlog.Entry{
			ID:       string(rune('a' + i)),
			Date:     dateForIndex(i),
			Time:     "12:00:00",
			BodyPart: "lower_back",
			Severity: s,
			PainType: painlog.PainAching,
			Cause:    painlog.CauseUnknown,
		}
	}
	return entries
}

func dateForIndex(i int) string {
	day := i + 1
	if day < 10 {
		return "2024-01-0" + string(rune('0'+day))
	}
	return "2024-01-" + string(rune('0'+day/10)) + string(rune('0'+day%10))
}

func TestAverageSeverity(t *testing.T) {
	tests := []struct {
		name       string
		severities []int
		want       float64
	}{
		{"empty collection", nil, 0},
		{"single entry", []int{7}, 7},
		{"simple mean", []int{4, 6}, 5},
		{"rounds to one decimal", []int{1, 2, 2}, 1.7},
		{"rounds half away from zero", []int{1, 2, 2, 2}, 1.8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AverageSeverity(entriesWithSeverities(tt.severities...))
			if got != tt.want {
				t.Errorf("Expected %.1f, got %.1f", tt.want, got)
			}
		})
	}
}

func TestAverageSeverityWithinBounds(t *testing.T) {
	// For any non-empty collection the mean stays inside [1,10]
	collections := [][]int{
		{1}, {10}, {1, 10}, {3, 3, 3, 3}, {1, 1, 1, 10, 10, 10},
	}
	for _, severities := range collections {
		avg := AverageSeverity(entriesWithSeverities(severities...))
		if avg < 1 || avg > 10 {
			t.Errorf("Average %.1f out of bounds for %v", avg, severities)
		}
	}
}

func TestMostFrequent(t *testing.T) {
	entries := []painlog.Entry{
		{BodyPart: "neck", PainType: painlog.PainSharp, Cause: painlog.CauseInjury},
		{BodyPart: "knee", PainType: painlog.PainDull, Cause: painlog.CauseOveruse},
		{BodyPart: "knee", PainType: painlog.PainSharp, Cause: painlog.CauseOveruse},
	}

	tests := []struct {
		field Field
		want  string
	}{
		{FieldBodyPart, "knee"},
		{FieldPainType, "sharp"},
		{FieldCause, "overuse"},
	}

	for _, tt := range tests {
		t.Run(string(tt.field), func(t *testing.T) {
			if got := MostFrequent(entries, tt.field); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMostFrequentEmpty(t *testing.T) {
	if got := MostFrequent(nil, FieldBodyPart); got != NoValue {
		t.Errorf("Expected %q for empty collection, got %q", NoValue, got)
	}
}

func TestMostFrequentTieBreaksFirstSeen(t *testing.T) {
	entries := []painlog.Entry{
		{BodyPart: "neck"},
		{BodyPart: "knee"},
		{BodyPart: "neck"},
		{BodyPart: "knee"},
	}
	if got := MostFrequent(entries, FieldBodyPart); got != "neck" {
		t.Errorf("Expected first-seen value neck on tie, got %s", got)
	}
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name       string
		severities []int
		want       Trend
	}{
		{"too few entries", []int{10, 1, 10}, TrendStable},
		{"clearly worsening", []int{2, 3, 6, 7}, TrendWorsening},
		{"clearly improving", []int{7, 6, 3, 2}, TrendImproving},
		{"flat", []int{5, 5, 5, 5}, TrendStable},
		{"small perturbation stays stable", []int{5, 5, 5, 6}, TrendStable},
		{"odd count splits at floor", []int{2, 2, 8, 8, 8}, TrendWorsening},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTrend(entriesWithSeverities(tt.severities...))
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyTrendSymmetry(t *testing.T) {
	// Reversing time flips improving and worsening
	severities := []int{2, 3, 7, 8}
	forward := ClassifyTrend(entriesWithSeverities(severities...))

	reversed := make([]int, len(severities))
	for i, s := range severities {
		reversed[len(severities)-1-i] = s
	}
	backward := ClassifyTrend(entriesWithSeverities(reversed...))

	if forward != TrendWorsening || backward != TrendImproving {
		t.Errorf("Expected worsening/improving pair, got %s/%s", forward, backward)
	}
}

func TestClassifyTrendSortsItsInput(t *testing.T) {
	// Entries arrive newest-first; classification must still see time order
	entries := entriesWithSeverities(2, 3, 7, 8)
	shuffled := []painlog.Entry{entries[3], entries[0], entries[2], entries[1]}

	if got := ClassifyTrend(shuffled); got != TrendWorsening {
		t.Errorf("Expected worsening on unsorted input, got %s", got)
	}
}
