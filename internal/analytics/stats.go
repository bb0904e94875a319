package analytics

import (
	"math"

	"github.com/themobileprof/paintrack-be/internal/painlog"
)

// NoValue is the sentinel returned by MostFrequent for an empty collection
const NoValue = "None"

// Field selects which categorical attribute MostFrequent counts
type Field string

const (
	FieldBodyPart Field = "body_part"
	FieldPainType Field = "pain_type"
	FieldCause    Field = "cause"
)

// Trend classifies the direction of severity over time
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// trendWindowMin is the minimum entry count before a trend can be called
const trendWindowMin = 4

// trendDelta is how far apart the half-means must be to leave "stable"
const trendDelta = 0.5

// Round1 rounds to one decimal place, half away from zero. All averages
// shown to users go through this so output is reproducible.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// AverageSeverity returns the mean severity rounded to one decimal.
// Empty input yields 0.
func AverageSeverity(entries []painlog.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Severity
	}
	return Round1(float64(sum) / float64(len(entries)))
}

// MostFrequent returns the most common value of the given field. Ties go
// to the value seen first in the provided order, so callers should supply
// entries in a consistent order for reproducible results.
func MostFrequent(entries []painlog.Entry, field Field) string {
	if len(entries) == 0 {
		return NoValue
	}

	counts := make(map[string]int)
	best := ""
	bestCount := 0
	for _, e := range entries {
		var value string
		switch field {
		case FieldBodyPart:
			value = e.BodyPart
		case FieldPainType:
			value = string(e.PainType)
		case FieldCause:
			value = string(e.Cause)
		default:
			return NoValue
		}

		counts[value]++
		// Strictly-greater keeps the first-seen value on ties
		if counts[value] > bestCount {
			best = value
			bestCount = counts[value]
		}
	}
	return best
}

// ClassifyTrend compares the mean severity of the chronologically earlier
// half against the later half. Fewer than four entries is stable by
// definition; a half-mean difference within ±0.5 is also stable.
func ClassifyTrend(entries []painlog.Entry) Trend {
	if len(entries) < trendWindowMin {
		return TrendStable
	}

	sorted := painlog.SortChronological(entries)
	mid := len(sorted) / 2
	earlier := meanSeverity(sorted[:mid])
	later := meanSeverity(sorted[mid:])

	diff := later - earlier
	switch {
	case diff < -trendDelta:
		return TrendImproving
	case diff > trendDelta:
		return TrendWorsening
	default:
		return TrendStable
	}
}

// meanSeverity is the unrounded mean used for internal comparisons
func meanSeverity(entries []painlog.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Severity
	}
	return float64(sum) / float64(len(entries))
}
