package privacy

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
)

var (
	// Email pattern
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	// Phone patterns (US, international, 7-digit local)
	// Matches: 555-123-4567, (555) 123-4567, 555.123.4567, +1-555-123-4567, 555-1234
	phoneRegex = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]\d{4}|\b\d{3}[-.\s]\d{4}\b`)

	// SSN pattern (US)
	ssnRegex = regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)

	// Credit card pattern (basic) - must have 4 groups
	creditCardRegex = regexp.MustCompile(`\b\d{4}[-\s]\d{4}[-\s]\d{4}[-\s]\d{4}\b`)

	// Medical record number patterns
	medicalIDRegex = regexp.MustCompile(`\b(MRN|Medical Record|Patient ID)[-:\s]*[A-Z0-9]{6,}\b`)
)

// RedactSensitiveData removes PII from text before it leaves the service
func RedactSensitiveData(text string) string {
	text = emailRegex.ReplaceAllString(text, "[EMAIL]")
	text = phoneRegex.ReplaceAllString(text, "[PHONE]")
	text = ssnRegex.ReplaceAllString(text, "[SSN]")
	text = creditCardRegex.ReplaceAllString(text, "[CARD]")

	text = medicalIDRegex.ReplaceAllStringFunc(text, func(s string) string {
		lower := strings.ToLower(s)
		if strings.Contains(lower, "mrn") ||
			strings.Contains(lower, "medical") ||
			strings.Contains(lower, "patient") {
			return "[MEDICAL_ID]"
		}
		return s
	})

	return text
}

// SanitizeForLogging prepares text for safe logging
func SanitizeForLogging(text string) string {
	redacted := RedactSensitiveData(text)

	if len(redacted) > 200 {
		return redacted[:197] + "..."
	}

	return redacted
}

// SanitizeForAPI removes PII before sending text to the LLM provider.
// Pain measurements (severity numbers, dates) are deliberately preserved.
func SanitizeForAPI(text string) string {
	return RedactSensitiveData(text)
}

// ContainsPII checks if text contains potential PII
func ContainsPII(text string) bool {
	return emailRegex.MatchString(text) ||
		phoneRegex.MatchString(text) ||
		ssnRegex.MatchString(text) ||
		creditCardRegex.MatchString(text) ||
		medicalIDRegex.MatchString(text)
}

// RedactUserInfo replaces user-identifying fields with a stable
// non-reversible placeholder so logs stay correlatable per user
func RedactUserInfo(email, name string) (string, string) {
	redactedEmail := "[USER_" + hashString(email) + "]"
	redactedName := "[USER]"

	return redactedEmail, redactedName
}

func hashString(s string) string {
	h := fnv.New32a()
	h.Write([]byte(s))
	return fmt.Sprintf("%08x", h.Sum32())
}
