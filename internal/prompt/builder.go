package prompt

import (
	"fmt"
	"strings"

	"github.com/themobileprof/paintrack-be/internal/memory"
	"github.com/themobileprof/paintrack-be/pkg/llm"
)

// PromptRequest contains all information needed to build a prompt
type PromptRequest struct {
	UserID          string
	UserMessage     string
	IsSmallTalk     bool
	RecentSummary   string // short digest of the user's recent pain logs
	ShortTermMemory []memory.Message
	Facts           []memory.Fact
}

// Builder constructs prompts for the LLM provider
type Builder struct{}

// NewBuilder creates a new prompt builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildPrompt constructs the message list from the request
func (b *Builder) BuildPrompt(req PromptRequest) []llm.ChatMessage {
	capacity := 2 + len(req.ShortTermMemory)
	messages := make([]llm.ChatMessage, 0, capacity)

	// Small talk gets a minimal prompt without health context
	if req.IsSmallTalk {
		messages = append(messages, llm.ChatMessage{
			Role:    "system",
			Content: "You are a friendly pain-tracking assistant. Keep responses brief and warm.",
		})
		messages = append(messages, llm.ChatMessage{
			Role:    "user",
			Content: req.UserMessage,
		})
		return messages
	}

	messages = append(messages, llm.ChatMessage{
		Role:    "system",
		Content: b.buildSystemPrompt(req),
	})

	// Replay substantive conversation history, skipping small talk
	for _, msg := range req.ShortTermMemory {
		if !isLikelySmallTalk(msg.Content) {
			messages = append(messages, llm.ChatMessage{
				Role:    msg.Role,
				Content: msg.Content,
			})
		}
	}

	messages = append(messages, llm.ChatMessage{
		Role:    "user",
		Content: req.UserMessage,
	})

	return messages
}

// buildSystemPrompt creates the system prompt with user context
func (b *Builder) buildSystemPrompt(req PromptRequest) string {
	var sb strings.Builder
	sb.Grow(1024)

	sb.WriteString("You are a knowledgeable and empathetic assistant for people tracking chronic and acute pain. ")
	sb.WriteString("Your role is to help users describe their pain accurately, understand their own patterns, and prepare for conversations with their healthcare providers. ")
	sb.WriteString("You never diagnose and you never prescribe.")
	sb.WriteString("\n\n")

	sb.WriteString("RESPONSE STYLE:\n")
	sb.WriteString("- Keep responses brief and conversational (2-4 sentences maximum)\n")
	sb.WriteString("- Speak like a caring friend, not a medical textbook\n")
	sb.WriteString("- When new pain is mentioned, ask 1-2 specific follow-up questions before anything else\n")
	sb.WriteString("- Ask about: location, severity on a 0-10 scale, when it started, what makes it better or worse\n")
	sb.WriteString("- Examples: 'Where exactly does it hurt?', 'How would you rate it out of 10?', 'Did anything trigger it?'\n")
	sb.WriteString("\n")

	if req.RecentSummary != "" {
		sb.WriteString("Recent pain history:\n")
		sb.WriteString(req.RecentSummary)
		sb.WriteString("\n\n")
	}

	if len(req.Facts) > 0 {
		sb.WriteString("User Context:\n")

		bodyPart := getFactValue(req.Facts, "primary_body_part")
		if bodyPart != "" {
			sb.WriteString(fmt.Sprintf("- Primary body part: %s\n", bodyPart))
		}

		condition := getFactValue(req.Facts, "chronic_condition")
		if condition != "" {
			sb.WriteString(fmt.Sprintf("- Chronic condition: %s\n", condition))
		}

		medication := getFactValue(req.Facts, "current_medication")
		if medication != "" {
			sb.WriteString(fmt.Sprintf("- Current medication: %s\n", medication))
		}

		for _, fact := range req.Facts {
			switch fact.Key {
			case "primary_body_part", "chronic_condition", "current_medication":
			default:
				sb.WriteString(fmt.Sprintf("- %s: %s\n", fact.Key, fact.Value))
			}
		}

		sb.WriteString("\n")
	}

	sb.WriteString("CONVERSATION GUIDELINES:\n")
	sb.WriteString("1. First response to new pain: ask clarifying questions (location, severity, onset)\n")
	sb.WriteString("2. After getting details: acknowledge, relate to their logged history when relevant\n")
	sb.WriteString("3. For worsening or alarming symptoms: gently but clearly suggest seeing a healthcare provider\n")
	sb.WriteString("4. Encourage consistent logging so their reports stay useful\n")
	sb.WriteString("5. Avoid medical jargon - use simple, everyday language\n")

	return sb.String()
}

func getFactValue(facts []memory.Fact, key string) string {
	for _, fact := range facts {
		if fact.Key == key {
			return fact.Value
		}
	}
	return ""
}

// isLikelySmallTalk checks if a message is likely small talk
func isLikelySmallTalk(content string) bool {
	content = strings.ToLower(content)

	smallTalkPatterns := []string{
		"hello", "hi", "hey",
		"goodbye", "bye", "see you",
		"thanks", "thank you",
		"how are you", "what's up",
	}

	// Very short messages are likely small talk
	if len(content) < 15 {
		for _, pattern := range smallTalkPatterns {
			if strings.Contains(content, pattern) {
				return true
			}
		}
	}

	return false
}
