package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/themobileprof/paintrack-be/internal/memory"
)

func TestBuilder_BuildPrompt(t *testing.T) {
	builder := NewBuilder()

	req := PromptRequest{
		UserID:      "user123",
		UserMessage: "Why does my back hurt more in the mornings?",
		ShortTermMemory: []memory.Message{
			{Role: "user", Content: "My lower back has been sore for about a week", Timestamp: time.Now()},
			{Role: "assistant", Content: "Sorry to hear that. How would you rate it out of 10?", Timestamp: time.Now()},
		},
		Facts: []memory.Fact{
			{Key: "primary_body_part", Value: "lower back", Confidence: 0.9},
			{Key: "current_medication", Value: "ibuprofen", Confidence: 0.8},
		},
	}

	messages := builder.BuildPrompt(req)

	if len(messages) == 0 {
		t.Fatal("Expected messages, got empty slice")
	}

	if messages[0].Role != "system" {
		t.Errorf("Expected first message role 'system', got %q", messages[0].Role)
	}

	if !strings.Contains(messages[0].Content, "lower back") {
		t.Error("System prompt should include the primary body part")
	}
	if !strings.Contains(messages[0].Content, "ibuprofen") {
		t.Error("System prompt should include current medication")
	}

	lastMsg := messages[len(messages)-1]
	if lastMsg.Role != "user" {
		t.Errorf("Expected last message role 'user', got %q", lastMsg.Role)
	}
	if lastMsg.Content != req.UserMessage {
		t.Errorf("Expected last message content %q, got %q", req.UserMessage, lastMsg.Content)
	}
}

func TestBuilder_BuildPromptRecentSummary(t *testing.T) {
	builder := NewBuilder()

	req := PromptRequest{
		UserID:        "user123",
		UserMessage:   "Is this getting worse?",
		RecentSummary: "12 entries in the last 30 days, average severity 6.4, trend worsening",
	}

	messages := builder.BuildPrompt(req)

	if len(messages) == 0 {
		t.Fatal("Expected messages, got empty slice")
	}

	if !strings.Contains(messages[0].Content, "average severity 6.4") {
		t.Error("System prompt should embed the recent pain summary")
	}
}

func TestBuilder_BuildPromptSmallTalk(t *testing.T) {
	builder := NewBuilder()

	req := PromptRequest{
		UserID:      "user123",
		UserMessage: "hello",
		IsSmallTalk: true,
		Facts: []memory.Fact{
			{Key: "chronic_condition", Value: "sciatica", Confidence: 0.9},
		},
	}

	messages := builder.BuildPrompt(req)

	if len(messages) != 2 {
		t.Fatalf("Small talk should have minimal prompt, got %d messages", len(messages))
	}

	if strings.Contains(messages[0].Content, "sciatica") {
		t.Error("Small talk prompt should not leak health context")
	}
}

func TestBuilder_SkipsSmallTalkHistory(t *testing.T) {
	builder := NewBuilder()

	req := PromptRequest{
		UserID:      "user123",
		UserMessage: "My knee is acting up again",
		ShortTermMemory: []memory.Message{
			{Role: "user", Content: "hi", Timestamp: time.Now()},
			{Role: "assistant", Content: "Hello!", Timestamp: time.Now()},
			{Role: "user", Content: "My knee hurt badly after yesterday's run", Timestamp: time.Now()},
		},
	}

	messages := builder.BuildPrompt(req)

	// system + 1 substantive history message + current message
	if len(messages) != 3 {
		t.Fatalf("Expected 3 messages, got %d", len(messages))
	}

	if messages[1].Content != "My knee hurt badly after yesterday's run" {
		t.Errorf("Expected substantive history kept, got %q", messages[1].Content)
	}
}
