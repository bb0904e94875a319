package fallback

import (
	"github.com/themobileprof/paintrack-be/internal/classifier"
)

// Response represents a canned response used when the assistant
// backend cannot answer
type Response struct {
	Content string
	Action  string // "retry", "contact_support", "emergency"
}

var intentFallbacks = map[classifier.Intent]Response{
	classifier.IntentPainReport: {
		Content: "I'm having trouble processing your message right now, but your pain log has been saved. If you're experiencing severe symptoms like chest pain, trouble breathing, or sudden numbness, please contact your healthcare provider immediately or call emergency services.",
		Action:  "emergency",
	},
	classifier.IntentPainQuestion: {
		Content: "I'm having a brief connection issue. Let me try again in a moment. In the meantime, if your question is urgent, please reach out to your healthcare provider.",
		Action:  "retry",
	},
	classifier.IntentReportRequest: {
		Content: "I can't generate a narrative summary right now, but your logged entries and statistics are still available from the reports page.",
		Action:  "retry",
	},
	classifier.IntentSmallTalk: {
		Content: "I'm here! Having a small technical hiccup. How can I help you today?",
		Action:  "retry",
	},
	classifier.IntentGratitude: {
		Content: "You're welcome! I'm having a small technical hiccup, but I'm still here if you need anything.",
		Action:  "retry",
	},
	classifier.IntentUnclear: {
		Content: "I'm having trouble understanding right now. Could you try rephrasing your question?",
		Action:  "retry",
	},
}

var timeoutFallback = Response{
	Content: "I'm taking longer than usual to respond. This might be a temporary issue. If your question is urgent, please contact your healthcare provider.",
	Action:  "retry",
}

var circuitOpenFallback = Response{
	Content: "I'm temporarily unavailable due to technical difficulties. I'll be back shortly. Your pain logs are still being recorded, and for urgent matters please contact your healthcare provider directly.",
	Action:  "contact_support",
}

// GetFallbackResponse returns the canned response for an intent
func GetFallbackResponse(intent classifier.Intent) Response {
	if response, ok := intentFallbacks[intent]; ok {
		return response
	}

	return Response{
		Content: "I'm sorry, I'm having technical difficulties. Please try again.",
		Action:  "retry",
	}
}

// GetTimeoutResponse returns the timeout-specific fallback
func GetTimeoutResponse() Response {
	return timeoutFallback
}

// GetCircuitOpenResponse returns the fallback used while the circuit
// breaker is open
func GetCircuitOpenResponse() Response {
	return circuitOpenFallback
}

// IsEmergencyIntent checks if intent requires emergency handling
func IsEmergencyIntent(intent classifier.Intent) bool {
	return intent == classifier.IntentPainReport
}
