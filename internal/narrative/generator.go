package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/themobileprof/paintrack-be/internal/circuitbreaker"
	"github.com/themobileprof/paintrack-be/internal/privacy"
	"github.com/themobileprof/paintrack-be/internal/report"
	"github.com/themobileprof/paintrack-be/pkg/llm"
)

// Source tells the caller where the narrative content came from
type Source string

const (
	SourceAssistant Source = "assistant"
	SourceFallback  Source = "fallback"
)

// Result is a generated clinician narrative
type Result struct {
	Content string `json:"content"`
	Source  Source `json:"source"`
}

// Generator turns a structured doctor report into prose. The LLM call
// is best-effort; on any failure the deterministic text rendering is
// returned instead, so report generation never fails outright.
type Generator struct {
	client  llm.Client
	breaker *circuitbreaker.CircuitBreaker
	model   string
	timeout time.Duration
}

// Option configures a Generator
type Option func(*Generator)

// WithModel overrides the provider default model
func WithModel(model string) Option {
	return func(g *Generator) { g.model = model }
}

// WithTimeout bounds the LLM call
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) { g.timeout = d }
}

// NewGenerator creates a narrative generator around an LLM client
func NewGenerator(client llm.Client, opts ...Option) *Generator {
	g := &Generator{
		client:  client,
		breaker: circuitbreaker.NewCircuitBreaker(3, 60*time.Second),
		timeout: 20 * time.Second,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// narrativePayload is the JSON shape requested from the provider
type narrativePayload struct {
	Summary string `json:"summary"`
}

// Generate produces a narrative for the report. The returned Result
// always carries usable content.
func (g *Generator) Generate(ctx context.Context, r report.DoctorReport) Result {
	fallbackText := report.FormatText(r)

	if g.client == nil {
		return Result{Content: fallbackText, Source: SourceFallback}
	}

	var content string
	err := g.breaker.Call(func() error {
		callCtx, cancel := context.WithTimeout(ctx, g.timeout)
		defer cancel()

		resp, err := g.client.ChatCompletion(callCtx, llm.ChatRequest{
			Model:          g.model,
			Messages:       g.buildMessages(r),
			Temperature:    0.3,
			MaxTokens:      800,
			ResponseFormat: &llm.ResponseFormat{Type: "json_object"},
		})
		if err != nil {
			return err
		}

		content = strings.TrimSpace(resp.Content())
		if content == "" {
			return errors.New("empty completion")
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
			log.Printf("narrative: circuit open, using deterministic report")
		} else {
			log.Printf("narrative: generation failed, using deterministic report: %v", err)
		}
		return Result{Content: fallbackText, Source: SourceFallback}
	}

	return Result{Content: parseNarrative(content), Source: SourceAssistant}
}

// buildMessages assembles the prompt. Patient identifiers are redacted
// before the report leaves the service.
func (g *Generator) buildMessages(r report.DoctorReport) []llm.ChatMessage {
	sanitized := r
	sanitized.Patient.Name = ""
	sanitized.Patient.Email = ""
	sanitized.ClinicalNotes = privacy.SanitizeForAPI(r.ClinicalNotes)

	data, err := json.Marshal(sanitized)
	if err != nil {
		data = []byte("{}")
	}

	system := "You are a clinical documentation assistant. You receive a JSON pain report " +
		"computed from a patient's self-logged entries. Write a concise narrative summary " +
		"(3-6 sentences) a clinician can read in under a minute. Stick strictly to the data: " +
		"no diagnoses, no treatment recommendations beyond what the report already lists. " +
		`Respond with a JSON object: {"summary": "<narrative>"}.`

	return []llm.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: fmt.Sprintf("Pain report data:\n%s", privacy.SanitizeForAPI(string(data)))},
	}
}

// parseNarrative extracts the summary from the model output. Providers
// sometimes wrap JSON in code fences or ignore the format request, so
// parsing degrades gracefully to the raw text.
func parseNarrative(content string) string {
	trimmed := strings.TrimSpace(content)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}

	var payload narrativePayload
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil && strings.TrimSpace(payload.Summary) != "" {
		return strings.TrimSpace(payload.Summary)
	}

	return trimmed
}
