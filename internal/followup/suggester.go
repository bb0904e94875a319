package followup

import (
	"fmt"
	"time"

	"github.com/themobileprof/paintrack-be/internal/classifier"
	"github.com/themobileprof/paintrack-be/internal/symptoms"
	"github.com/themobileprof/paintrack-be/internal/urgency"
)

// SuggestionResult represents the decision on whether to suggest a check-in
type SuggestionResult struct {
	ShouldSuggest bool
	Priority      string // "urgent", "high", "medium", "low"
}

// Suggestion represents a follow-up check-in suggestion
type Suggestion struct {
	Type          string    `json:"type"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	SuggestedTime time.Time `json:"suggested_time"`
}

// Suggester decides when a pain report warrants a follow-up check-in
type Suggester struct{}

// NewSuggester creates a new follow-up suggester
func NewSuggester() *Suggester {
	return &Suggester{}
}

// ShouldSuggest determines if a follow-up check-in should be suggested
// for a chat message
func (s *Suggester) ShouldSuggest(intent classifier.Intent, message string) SuggestionResult {
	if intent != classifier.IntentPainReport {
		return SuggestionResult{}
	}

	if len(symptoms.MatchText(message, symptoms.TierCritical)) > 0 {
		return SuggestionResult{ShouldSuggest: true, Priority: "urgent"}
	}
	if len(symptoms.MatchText(message, symptoms.TierHigh)) > 0 {
		return SuggestionResult{ShouldSuggest: true, Priority: "high"}
	}

	return SuggestionResult{ShouldSuggest: true, Priority: "medium"}
}

// BuildSuggestion creates a check-in suggestion for a reported symptom.
// Urgent reports get a same-day check-in, everything else next day.
func (s *Suggester) BuildSuggestion(result SuggestionResult, message string) Suggestion {
	now := time.Now()

	delay := 24 * time.Hour
	if result.Priority == "urgent" {
		delay = 4 * time.Hour
	}

	return Suggestion{
		Type:          "symptom_followup",
		Title:         "Check in on your pain",
		Description:   "Log how it feels now so your history stays accurate",
		SuggestedTime: now.Add(delay),
	}
}

// ForAssessment maps an urgency assessment to a follow-up suggestion.
// Low urgency yields no suggestion.
func (s *Suggester) ForAssessment(assessment urgency.Assessment) (Suggestion, bool) {
	now := time.Now()

	var delay time.Duration
	switch assessment.Level {
	case urgency.LevelCritical:
		delay = 4 * time.Hour
	case urgency.LevelHigh:
		delay = 24 * time.Hour
	case urgency.LevelMedium:
		delay = 72 * time.Hour
	default:
		return Suggestion{}, false
	}

	return Suggestion{
		Type:          "urgency_followup",
		Title:         "Follow up on recent pain",
		Description:   fmt.Sprintf("Your recent logs scored %s urgency. Log an update or contact your provider.", assessment.Level),
		SuggestedTime: now.Add(delay),
	}, true
}
