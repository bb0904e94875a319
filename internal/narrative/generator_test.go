package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/themobileprof/paintrack-be/internal/report"
	"github.com/themobileprof/paintrack-be/pkg/deepseek"
	"github.com/themobileprof/paintrack-be/pkg/llm"
)

func sampleReport() report.DoctorReport {
	return report.DoctorReport{
		GeneratedAt:  time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Patient:      report.PatientInfo{Name: "Jane Doe", Email: "jane@example.com"},
		TotalEntries: 4,
		AveragePain:  5.8,
	}
}

func chatResponse(content string) *llm.ChatResponse {
	return &llm.ChatResponse{
		Choices: []llm.ResponseChoice{
			{Message: llm.ChatMessage{Role: "assistant", Content: content}},
		},
	}
}

func TestGenerateUsesAssistantSummary(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return chatResponse(`{"summary": "Patient logged 4 entries with moderate average pain."}`), nil
	}

	gen := NewGenerator(mock)
	result := gen.Generate(context.Background(), sampleReport())

	if result.Source != SourceAssistant {
		t.Fatalf("expected assistant source, got %s", result.Source)
	}
	if result.Content != "Patient logged 4 entries with moderate average pain." {
		t.Errorf("unexpected content: %q", result.Content)
	}
}

func TestGenerateFallsBackOnError(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return nil, errors.New("provider down")
	}

	gen := NewGenerator(mock)
	result := gen.Generate(context.Background(), sampleReport())

	if result.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", result.Source)
	}
	if !strings.Contains(result.Content, "PAIN SUMMARY REPORT") {
		t.Errorf("fallback should be the deterministic report, got %q", result.Content)
	}
}

func TestGenerateFallsBackWithoutClient(t *testing.T) {
	gen := NewGenerator(nil)
	result := gen.Generate(context.Background(), sampleReport())

	if result.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", result.Source)
	}
	if result.Content == "" {
		t.Error("fallback content should not be empty")
	}
}

func TestGenerateRedactsPatientIdentity(t *testing.T) {
	mock := deepseek.NewMockClient()

	var captured llm.ChatRequest
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		captured = req
		return chatResponse(`{"summary": "ok"}`), nil
	}

	gen := NewGenerator(mock)
	gen.Generate(context.Background(), sampleReport())

	for _, msg := range captured.Messages {
		if strings.Contains(msg.Content, "Jane Doe") || strings.Contains(msg.Content, "jane@example.com") {
			t.Errorf("prompt leaks patient identity: %q", msg.Content)
		}
	}
	if captured.ResponseFormat == nil || captured.ResponseFormat.Type != "json_object" {
		t.Error("expected json_object response format")
	}
}

func TestGenerateOpensCircuitAfterRepeatedFailures(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return nil, errors.New("provider down")
	}

	gen := NewGenerator(mock)
	for i := 0; i < 5; i++ {
		gen.Generate(context.Background(), sampleReport())
	}

	calls := mock.ChatCallCount()
	if calls >= 5 {
		t.Errorf("expected breaker to stop calls after 3 failures, provider saw %d", calls)
	}

	// Calls with an open circuit still return usable content
	result := gen.Generate(context.Background(), sampleReport())
	if result.Source != SourceFallback || result.Content == "" {
		t.Error("open circuit should still yield fallback content")
	}
}

func TestParseNarrative(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "plain json",
			content: `{"summary": "All good."}`,
			want:    "All good.",
		},
		{
			name:    "fenced json",
			content: "```json\n{\"summary\": \"Fenced.\"}\n```",
			want:    "Fenced.",
		},
		{
			name:    "raw text passthrough",
			content: "The patient reports improving pain.",
			want:    "The patient reports improving pain.",
		},
		{
			name:    "json without summary key",
			content: `{"other": "x"}`,
			want:    `{"other": "x"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseNarrative(tt.content); got != tt.want {
				t.Errorf("parseNarrative() = %q, want %q", got, tt.want)
			}
		})
	}
}
