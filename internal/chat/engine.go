package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/themobileprof/paintrack-be/internal/circuitbreaker"
	"github.com/themobileprof/paintrack-be/internal/classifier"
	"github.com/themobileprof/paintrack-be/internal/db"
	"github.com/themobileprof/paintrack-be/internal/fallback"
	"github.com/themobileprof/paintrack-be/internal/followup"
	"github.com/themobileprof/paintrack-be/internal/memory"
	"github.com/themobileprof/paintrack-be/internal/privacy"
	"github.com/themobileprof/paintrack-be/internal/prompt"
	"github.com/themobileprof/paintrack-be/pkg/llm"
)

// Responder defines the interface for sending responses to any transport
type Responder interface {
	SendMessage(content string) error
	SendFollowUpSuggestion(suggestion followup.Suggestion) error
	SendError(message string) error
	SendDone() error
}

// ProcessRequest contains all data needed to process a message
type ProcessRequest struct {
	UserID    string
	Message   string
	Responder Responder
}

// Interfaces for dependencies
type ClassifierInterface interface {
	Classify(text string) classifier.ClassifierResult
}

type MemoryInterface interface {
	AddMessage(userID string, msg memory.Message)
	History(userID string) []memory.Message
}

type PromptInterface interface {
	BuildPrompt(req prompt.PromptRequest) []llm.ChatMessage
}

type FollowUpInterface interface {
	ShouldSuggest(intent classifier.Intent, message string) followup.SuggestionResult
	BuildSuggestion(result followup.SuggestionResult, message string) followup.Suggestion
}

// SummaryDigest produces a short text digest of the user's recent pain
// logs for prompt context
type SummaryDigest interface {
	RecentSummary(ctx context.Context, userID string) (string, error)
}

type DBInterface interface {
	SaveMessage(ctx context.Context, userID, role, content string) (*db.Message, error)
	GetUserFacts(ctx context.Context, userID string) ([]db.UserFact, error)
	SaveOrUpdateFact(ctx context.Context, userID, key, value string, confidence float64) (*db.UserFact, error)
}

// HistoryLoader rehydrates short-term memory from persisted messages
// after a process restart
type HistoryLoader interface {
	GetRecentMessages(ctx context.Context, userID string, limit int) ([]memory.Message, error)
}

// Engine handles core conversation logic independent of transport
type Engine struct {
	classifier     ClassifierInterface
	memoryManager  MemoryInterface
	promptBuilder  PromptInterface
	llmClient      llm.Client
	suggester      FollowUpInterface
	digest         SummaryDigest
	db             DBInterface
	historyLoader  HistoryLoader
	circuitBreaker *circuitbreaker.CircuitBreaker
	aiTimeout      time.Duration
}

// NewEngine creates a new transport-agnostic chat engine
func NewEngine(
	cls ClassifierInterface,
	mem MemoryInterface,
	pb PromptInterface,
	client llm.Client,
	suggester FollowUpInterface,
	digest SummaryDigest,
	database DBInterface,
) *Engine {
	return &Engine{
		classifier:     cls,
		memoryManager:  mem,
		promptBuilder:  pb,
		llmClient:      client,
		suggester:      suggester,
		digest:         digest,
		db:             database,
		circuitBreaker: circuitbreaker.NewCircuitBreaker(5, 5*time.Minute),
		aiTimeout:      30 * time.Second,
	}
}

// SetHistoryLoader enables short-term memory rehydration from storage
func (e *Engine) SetHistoryLoader(loader HistoryLoader) {
	e.historyLoader = loader
}

// ProcessMessage processes a chat message and sends responses via the
// provided responder
func (e *Engine) ProcessMessage(ctx context.Context, req ProcessRequest) error {
	log.Printf("Processing message: userID=%s, length=%d", req.UserID, len(req.Message))

	if privacy.ContainsPII(req.Message) {
		log.Printf("Warning: Potential PII detected in message from user=%s", req.UserID)
	}

	result := e.classifier.Classify(req.Message)
	log.Printf("Intent classified: %s (confidence: %.2f)", result.Intent, result.Confidence)

	if _, err := e.db.SaveMessage(ctx, req.UserID, "user", req.Message); err != nil {
		return fmt.Errorf("failed to save message: %w", err)
	}

	// First message since startup: reload recent context from storage
	if e.historyLoader != nil && len(e.memoryManager.History(req.UserID)) == 0 {
		if persisted, err := e.historyLoader.GetRecentMessages(ctx, req.UserID, 10); err == nil {
			for _, msg := range persisted {
				e.memoryManager.AddMessage(req.UserID, msg)
			}
		}
	}

	e.memoryManager.AddMessage(req.UserID, memory.Message{
		Role:      "user",
		Content:   req.Message,
		Timestamp: time.Now(),
	})

	// Canned replies avoid an LLM round trip
	switch result.Intent {
	case classifier.IntentSmallTalk:
		return e.respondCanned(ctx, req, "I'm here with you. How is your pain today?")
	case classifier.IntentGratitude:
		return e.respondCanned(ctx, req, "You're welcome! Keep logging, it all adds up to a clearer picture.")
	}

	// Symptom reports get a follow-up check-in suggestion alongside
	// the assistant reply
	if suggest := e.suggester.ShouldSuggest(result.Intent, req.Message); suggest.ShouldSuggest {
		suggestion := e.suggester.BuildSuggestion(suggest, req.Message)
		if err := req.Responder.SendFollowUpSuggestion(suggestion); err != nil {
			return err
		}
	}

	if e.llmClient == nil {
		fbResp := fallback.GetFallbackResponse(result.Intent)
		req.Responder.SendMessage(fbResp.Content)
		return req.Responder.SendDone()
	}

	if e.circuitBreaker.State() == circuitbreaker.StateOpen {
		log.Printf("Circuit breaker open, using fallback response")
		fbResp := fallback.GetCircuitOpenResponse()
		req.Responder.SendMessage(fbResp.Content)
		return req.Responder.SendDone()
	}

	// Fetch facts, history digest, and short-term memory concurrently
	var (
		facts         []db.UserFact
		recentSummary string
		shortTermMsgs []memory.Message
		wg            sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		facts, _ = e.db.GetUserFacts(ctx, req.UserID)
	}()
	go func() {
		defer wg.Done()
		if e.digest != nil {
			recentSummary, _ = e.digest.RecentSummary(ctx, req.UserID)
		}
	}()
	go func() {
		defer wg.Done()
		shortTermMsgs = e.memoryManager.History(req.UserID)
	}()
	wg.Wait()

	sanitizedContent := privacy.SanitizeForAPI(req.Message)

	promptReq := prompt.PromptRequest{
		UserID:          req.UserID,
		UserMessage:     sanitizedContent,
		IsSmallTalk:     false,
		RecentSummary:   recentSummary,
		ShortTermMemory: shortTermMsgs,
		Facts:           convertDBFacts(facts),
	}
	messages := e.promptBuilder.BuildPrompt(promptReq)

	ctxWithTimeout, cancel := context.WithTimeout(ctx, e.aiTimeout)
	defer cancel()

	chatReq := llm.ChatRequest{
		Messages:    messages,
		Temperature: 0.7,
		MaxTokens:   200,
	}

	log.Printf("Calling LLM API for user=%s with %d messages", req.UserID, len(messages))
	var assistantMsg string
	err := e.circuitBreaker.Call(func() error {
		response, err := e.llmClient.ChatCompletion(ctxWithTimeout, chatReq)
		if err != nil {
			log.Printf("LLM API error: %v", err)
			return err
		}

		assistantMsg = response.Content()
		if assistantMsg == "" {
			return fmt.Errorf("no response from LLM")
		}
		return nil
	})

	if err != nil {
		log.Printf("AI call failed: %v", err)

		var fbResp fallback.Response
		if errors.Is(err, context.DeadlineExceeded) {
			fbResp = fallback.GetTimeoutResponse()
		} else {
			fbResp = fallback.GetFallbackResponse(result.Intent)
		}

		req.Responder.SendMessage(fbResp.Content)
		return req.Responder.SendDone()
	}

	if err := req.Responder.SendMessage(assistantMsg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}

	if _, err := e.db.SaveMessage(ctx, req.UserID, "assistant", assistantMsg); err != nil {
		log.Printf("Failed to save assistant message: %v", err)
	}
	e.memoryManager.AddMessage(req.UserID, memory.Message{
		Role:      "assistant",
		Content:   assistantMsg,
		Timestamp: time.Now(),
	})

	e.extractAndSaveFacts(ctx, req.UserID, req.Message)

	return req.Responder.SendDone()
}

func (e *Engine) respondCanned(ctx context.Context, req ProcessRequest, response string) error {
	if err := req.Responder.SendMessage(response); err != nil {
		return err
	}
	if _, err := e.db.SaveMessage(ctx, req.UserID, "assistant", response); err != nil {
		log.Printf("Failed to save assistant message: %v", err)
	}
	e.memoryManager.AddMessage(req.UserID, memory.Message{
		Role:      "assistant",
		Content:   response,
		Timestamp: time.Now(),
	})
	return req.Responder.SendDone()
}

func convertDBFacts(dbFacts []db.UserFact) []memory.Fact {
	memFacts := make([]memory.Fact, len(dbFacts))
	for i, f := range dbFacts {
		memFacts[i] = memory.Fact{
			Key:        f.Key,
			Value:      f.Value,
			Confidence: f.Confidence,
			UpdatedAt:  f.UpdatedAt,
		}
	}
	return memFacts
}

// extractAndSaveFacts pulls durable details out of the user message.
// Cheap heuristics only; anything subtler belongs to the model.
func (e *Engine) extractAndSaveFacts(ctx context.Context, userID, userMsg string) {
	normalized := strings.ToLower(userMsg)

	for i := 0; i <= 10; i++ {
		severityStr := fmt.Sprintf("%d out of 10", i)
		if strings.Contains(normalized, severityStr) {
			e.db.SaveOrUpdateFact(ctx, userID, "last_reported_severity", fmt.Sprintf("%d", i), 0.8)
			break
		}
	}

	bodyParts := []string{
		"lower back", "upper back", "neck", "shoulder", "knee",
		"hip", "wrist", "ankle", "elbow", "head",
	}
	for _, part := range bodyParts {
		if strings.Contains(normalized, part) {
			e.db.SaveOrUpdateFact(ctx, userID, "primary_body_part", part, 0.7)
			break
		}
	}
}
