package urgency

import (
	"fmt"
	"strings"
	"time"

	"github.com/themobileprof/paintrack-be/internal/painlog"
	"github.com/themobileprof/paintrack-be/internal/symptoms"
)

// Level is the discrete urgency bucket derived from the score
type Level string

const (
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// FlagType names the rule family that triggered a flag
type FlagType string

const (
	FlagSeverity  FlagType = "severity"
	FlagFrequency FlagType = "frequency"
	FlagDuration  FlagType = "duration"
	FlagSymptoms  FlagType = "symptoms"
	FlagTrend     FlagType = "trend"
)

// FlagSeverityLevel grades an individual triggered rule
type FlagSeverityLevel string

const (
	FlagMedium   FlagSeverityLevel = "medium"
	FlagHigh     FlagSeverityLevel = "high"
	FlagCritical FlagSeverityLevel = "critical"
)

// Flag is one triggered rule with its human-readable explanation
type Flag struct {
	Type     FlagType          `json:"type"`
	Severity FlagSeverityLevel `json:"severity"`
	Message  string            `json:"message"`
	Details  string            `json:"details"`
}

// Assessment is the combined urgency result. It is a pure function of the
// entry collection and reference time, recomputed on every call.
type Assessment struct {
	Level           Level    `json:"level"`
	Score           int      `json:"score"`
	Flags           []Flag   `json:"flags"`
	Recommendations []string `json:"recommendations"`
}

// Rule thresholds. The numeric constants are heuristic and carried over
// unchanged for behavioral parity; they have no documented clinical basis.
const (
	recentWindow = 10 // most-recent entries evaluated by the rule set
	recencyDays  = 7  // lookback for the logging-frequency rules

	scoreExtremeSeverity = 25
	scoreHighAverage     = 15
	scoreFrequentSevere  = 10
	scoreDailyLogging    = 12
	scoreFrequentLogging = 8
	scoreRapidWorsening  = 18
	scoreWorsening       = 10
	scoreCriticalKeyword = 30
	scoreManyUrgent      = 15
	scoreOneUrgent       = 8
	scoreChronicPattern  = 8

	levelCriticalAt = 25
	levelHighAt     = 15
	levelMediumAt   = 8
)

// Assessor evaluates the fixed urgency rule set
type Assessor struct{}

// NewAssessor creates a new urgency assessor
func NewAssessor() *Assessor {
	return &Assessor{}
}

// Assess scores the collection against the rule table. now anchors the
// 7-day recency window; it is injected so results are reproducible.
// Empty input never fails: it yields a low/zero assessment.
func (a *Assessor) Assess(entries []painlog.Entry, now time.Time) Assessment {
	if len(entries) == 0 {
		return Assessment{
			Level:           LevelLow,
			Score:           0,
			Flags:           []Flag{},
			Recommendations: []string{"No recent pain data available"},
		}
	}

	sorted := painlog.SortChronological(entries)
	recent := sorted
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}

	score := 0
	var flags []Flag
	addFlag := func(points int, f Flag) {
		score += points
		flags = append(flags, f)
	}

	// Severity rules (else-if chain)
	maxSeverity := 0
	severeCount := 0
	sum := 0
	for _, e := range recent {
		if e.Severity > maxSeverity {
			maxSeverity = e.Severity
		}
		if e.Severity >= 8 {
			severeCount++
		}
		sum += e.Severity
	}
	recentMean := float64(sum) / float64(len(recent))

	switch {
	case maxSeverity >= 9:
		addFlag(scoreExtremeSeverity, Flag{
			Type:     FlagSeverity,
			Severity: FlagCritical,
			Message:  "Extreme pain levels reported",
			Details:  fmt.Sprintf("Maximum severity of %d in recent entries", maxSeverity),
		})
	case recentMean >= 7:
		addFlag(scoreHighAverage, Flag{
			Type:     FlagSeverity,
			Severity: FlagHigh,
			Message:  "Consistently high pain levels",
			Details:  fmt.Sprintf("Average severity of %.1f over the last %d entries", recentMean, len(recent)),
		})
	case severeCount >= 3:
		addFlag(scoreFrequentSevere, Flag{
			Type:     FlagSeverity,
			Severity: FlagMedium,
			Message:  "Multiple severe pain episodes",
			Details:  fmt.Sprintf("%d recent entries at severity 8 or above", severeCount),
		})
	}

	// Logging-frequency rules (else-if chain, 7-day window)
	lastWeek := countSince(sorted, now.AddDate(0, 0, -recencyDays))
	switch {
	case lastWeek >= 7:
		addFlag(scoreDailyLogging, Flag{
			Type:     FlagFrequency,
			Severity: FlagHigh,
			Message:  "Pain logged daily over the past week",
			Details:  fmt.Sprintf("%d entries in the last %d days", lastWeek, recencyDays),
		})
	case lastWeek >= 5:
		addFlag(scoreFrequentLogging, Flag{
			Type:     FlagFrequency,
			Severity: FlagMedium,
			Message:  "Frequent pain logging",
			Details:  fmt.Sprintf("%d entries in the last %d days", lastWeek, recencyDays),
		})
	}

	// Worsening rules (else-if chain, needs at least 5 recent entries)
	if len(recent) >= 5 {
		mid := len(recent) / 2
		diff := unroundedMean(recent[mid:]) - unroundedMean(recent[:mid])
		switch {
		case diff >= 2:
			addFlag(scoreRapidWorsening, Flag{
				Type:     FlagTrend,
				Severity: FlagHigh,
				Message:  "Pain is rapidly worsening",
				Details:  fmt.Sprintf("Recent severity up %.1f points over the window", diff),
			})
		case diff >= 1:
			addFlag(scoreWorsening, Flag{
				Type:     FlagTrend,
				Severity: FlagMedium,
				Message:  "Pain is worsening",
				Details:  fmt.Sprintf("Recent severity up %.1f points over the window", diff),
			})
		}
	}

	// Keyword rules (else-if chain over recent free text)
	text := recentText(recent)
	critical := symptoms.MatchText(text, symptoms.TierCritical)
	urgent := symptoms.MatchText(text, symptoms.TierHigh)
	switch {
	case len(critical) > 0:
		addFlag(scoreCriticalKeyword, Flag{
			Type:     FlagSymptoms,
			Severity: FlagCritical,
			Message:  "Critical symptom keywords mentioned",
			Details:  "Matched: " + strings.Join(critical, ", "),
		})
	case len(urgent) >= 3:
		addFlag(scoreManyUrgent, Flag{
			Type:     FlagSymptoms,
			Severity: FlagHigh,
			Message:  "Multiple urgent symptom keywords mentioned",
			Details:  "Matched: " + strings.Join(urgent, ", "),
		})
	case len(urgent) >= 1:
		addFlag(scoreOneUrgent, Flag{
			Type:     FlagSymptoms,
			Severity: FlagMedium,
			Message:  "Urgent symptom keyword mentioned",
			Details:  "Matched: " + strings.Join(urgent, ", "),
		})
	}

	// Chronic pattern: span over the full history, mean over the recent window
	if spanDays(sorted) >= 30 && recentMean >= 5 {
		addFlag(scoreChronicPattern, Flag{
			Type:     FlagDuration,
			Severity: FlagMedium,
			Message:  "Chronic pain pattern",
			Details:  fmt.Sprintf("History spans %d days with an elevated average severity", spanDays(sorted)),
		})
	}

	if flags == nil {
		flags = []Flag{}
	}

	return Assessment{
		Level:           levelFor(score),
		Score:           score,
		Flags:           flags,
		Recommendations: recommendationsFor(levelFor(score), flags),
	}
}

// levelFor maps a score to its discrete level. The level thresholds are a
// separate scale from the per-rule trigger thresholds above.
func levelFor(score int) Level {
	switch {
	case score >= levelCriticalAt:
		return LevelCritical
	case score >= levelHighAt:
		return LevelHigh
	case score >= levelMediumAt:
		return LevelMedium
	default:
		return LevelLow
	}
}

// countSince counts entries dated on or after cutoff. Entries with an
// unparseable date are skipped rather than failing the assessment.
func countSince(entries []painlog.Entry, cutoff time.Time) int {
	cutoffDate := cutoff.Format("2006-01-02")
	count := 0
	for _, e := range entries {
		if e.Date >= cutoffDate {
			count++
		}
	}
	return count
}

// spanDays is the calendar-day distance between the oldest and newest entry
func spanDays(sorted []painlog.Entry) int {
	if len(sorted) < 2 {
		return 0
	}
	first, err := sorted[0].ParseDate()
	if err != nil {
		return 0
	}
	last, err := sorted[len(sorted)-1].ParseDate()
	if err != nil {
		return 0
	}
	return int(last.Sub(first).Hours() / 24)
}

func unroundedMean(entries []painlog.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, e := range entries {
		sum += e.Severity
	}
	return float64(sum) / float64(len(entries))
}

// recentText concatenates the free-text fields urgency keyword rules scan
func recentText(entries []painlog.Entry) string {
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(e.Description)
		sb.WriteString(" ")
		sb.WriteString(e.Activity)
		sb.WriteString(" ")
		sb.WriteString(strings.Join(e.Tags, " "))
		sb.WriteString(" ")
	}
	return sb.String()
}
