package classifier

import (
	"regexp"
	"strings"
)

// Intent represents the classified intent of a user message
type Intent string

const (
	IntentSmallTalk     Intent = "small_talk"
	IntentGratitude     Intent = "gratitude"
	IntentPainReport    Intent = "pain_report"
	IntentPainQuestion  Intent = "pain_question"
	IntentReportRequest Intent = "report_request"
	IntentUnclear       Intent = "unclear"
)

// ClassifierResult contains the classification result
type ClassifierResult struct {
	Intent     Intent  `json:"intent"`
	Confidence float64 `json:"confidence"`
}

// Classifier performs rule-based intent classification
type Classifier struct {
	greetingPatterns []*regexp.Regexp
	goodbyePatterns  []*regexp.Regexp
	thanksPatterns   []*regexp.Regexp
	reportPatterns   []*regexp.Regexp
	painPatterns     []*regexp.Regexp
	questionPatterns []*regexp.Regexp
	spaceNormalizer  *regexp.Regexp
}

// NewClassifier creates a new intent classifier
func NewClassifier() *Classifier {
	return &Classifier{
		spaceNormalizer: regexp.MustCompile(`\s+`),
		greetingPatterns: compilePatterns([]string{
			`\b(hi|hello|hey|good morning|good afternoon|good evening)\b`,
			`\bhow are you\b`,
			`\bwhat's up\b`,
			`\bhow's it going\b`,
		}),
		goodbyePatterns: compilePatterns([]string{
			`\b(bye|goodbye|see you|farewell)\b`,
			`\btalk to you later\b`,
			`\bcatch you later\b`,
		}),
		thanksPatterns: compilePatterns([]string{
			`\b(thanks|thank you|thx)\b`,
			`\bappreciate it\b`,
			`\bthanks a lot\b`,
		}),
		reportPatterns: compilePatterns([]string{
			`\b(report|summary|overview)\b`,
			`\b(export|print|pdf)\b`,
			`\bfor my (doctor|physician|appointment|visit)\b`,
			`\bshow me my (history|logs|entries|stats|statistics)\b`,
			`\bhow (has|have) my pain (been|changed)\b`,
		}),
		painPatterns: compilePatterns([]string{
			`\b(pain|hurt|hurting|hurts|ache|aching|aches|sore|soreness)\b`,
			`\b(sharp|dull|burning|throbbing|stabbing|shooting|radiating)\b`,
			`\b(headache|migraine|backache|cramping|cramps)\b`,
			`\b(swelling|swollen|stiff|stiffness|tender)\b`,
			`\b(numb|numbness|tingling)\b`,
			`\bmy (back|neck|knee|shoulder|hip|head|chest|stomach|wrist|ankle|elbow)\b`,
			`\b(severity|scale) (of )?\d{1,2}\b`,
			`\b\d{1,2} out of (ten|10)\b`,
			`\bI('m| am| have| was).*\b(experiencing|feeling|having|noticing|noticed)\b`,
			`\bflare[- ]?up\b`,
			`\b(woke up|can't sleep|kept me up)\b`,
		}),
		questionPatterns: compilePatterns([]string{
			`\b(why|what causes|what could|what is|what are)\b`,
			`\b(should I|do I need|is it normal|is this normal)\b`,
			`\b(how (do|can|long|often))\b`,
			`\b(help|advice|suggest|recommend)\b`,
			`\b(stretches|exercises|ice|heat|medication|painkillers|ibuprofen)\b`,
			`\bwhen (should|will)\b`,
		}),
	}
}

// Classify determines the intent of the input message. Pain reports
// win over pain questions when both sets of patterns match, since a
// message that describes a symptom should be logged first.
func (c *Classifier) Classify(input string) ClassifierResult {
	normalized := c.normalizeText(input)

	if normalized == "" {
		return ClassifierResult{
			Intent:     IntentUnclear,
			Confidence: 0.1,
		}
	}

	if c.matchesPatterns(normalized, c.greetingPatterns) {
		return ClassifierResult{
			Intent:     IntentSmallTalk,
			Confidence: 0.9,
		}
	}

	if c.matchesPatterns(normalized, c.goodbyePatterns) {
		return ClassifierResult{
			Intent:     IntentSmallTalk,
			Confidence: 0.9,
		}
	}

	if c.matchesPatterns(normalized, c.thanksPatterns) {
		return ClassifierResult{
			Intent:     IntentGratitude,
			Confidence: 0.9,
		}
	}

	if c.matchesPatterns(normalized, c.reportPatterns) {
		return ClassifierResult{
			Intent:     IntentReportRequest,
			Confidence: 0.85,
		}
	}

	painMatches := c.countMatches(normalized, c.painPatterns)
	questionMatches := c.countMatches(normalized, c.questionPatterns)

	if painMatches > 0 && painMatches >= questionMatches {
		confidence := 0.75 + float64(painMatches)*0.05
		if confidence > 0.95 {
			confidence = 0.95
		}
		return ClassifierResult{
			Intent:     IntentPainReport,
			Confidence: confidence,
		}
	}

	if questionMatches > 0 {
		confidence := 0.7 + float64(questionMatches)*0.05
		if confidence > 0.95 {
			confidence = 0.95
		}
		return ClassifierResult{
			Intent:     IntentPainQuestion,
			Confidence: confidence,
		}
	}

	return ClassifierResult{
		Intent:     IntentUnclear,
		Confidence: 0.3,
	}
}

// normalizeText preprocesses input text for classification
func (c *Classifier) normalizeText(input string) string {
	text := strings.ToLower(input)
	text = strings.TrimSpace(text)
	text = c.spaceNormalizer.ReplaceAllString(text, " ")
	text = strings.TrimRight(text, "!?.,;:")

	return text
}

func (c *Classifier) matchesPatterns(text string, patterns []*regexp.Regexp) bool {
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			return true
		}
	}
	return false
}

func (c *Classifier) countMatches(text string, patterns []*regexp.Regexp) int {
	count := 0
	for _, pattern := range patterns {
		if pattern.MatchString(text) {
			count++
		}
	}
	return count
}

func compilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}
