package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/themobileprof/paintrack-be/internal/classifier"
	"github.com/themobileprof/paintrack-be/internal/db"
	"github.com/themobileprof/paintrack-be/internal/followup"
	"github.com/themobileprof/paintrack-be/internal/memory"
	"github.com/themobileprof/paintrack-be/internal/prompt"
	"github.com/themobileprof/paintrack-be/pkg/deepseek"
	"github.com/themobileprof/paintrack-be/pkg/llm"
)

// fakeResponder records everything sent through it
type fakeResponder struct {
	messages    []string
	suggestions []followup.Suggestion
	errorsSent  []string
	doneCalls   int
}

func (r *fakeResponder) SendMessage(content string) error {
	r.messages = append(r.messages, content)
	return nil
}

func (r *fakeResponder) SendFollowUpSuggestion(s followup.Suggestion) error {
	r.suggestions = append(r.suggestions, s)
	return nil
}

func (r *fakeResponder) SendError(message string) error {
	r.errorsSent = append(r.errorsSent, message)
	return nil
}

func (r *fakeResponder) SendDone() error {
	r.doneCalls++
	return nil
}

// fakeDB keeps saved messages and facts in memory
type fakeDB struct {
	saved []db.Message
	facts map[string]db.UserFact
}

func newFakeDB() *fakeDB {
	return &fakeDB{facts: make(map[string]db.UserFact)}
}

func (f *fakeDB) SaveMessage(ctx context.Context, userID, role, content string) (*db.Message, error) {
	msg := db.Message{ID: "m1", UserID: userID, Role: role, Content: content, CreatedAt: time.Now()}
	f.saved = append(f.saved, msg)
	return &msg, nil
}

func (f *fakeDB) GetUserFacts(ctx context.Context, userID string) ([]db.UserFact, error) {
	facts := make([]db.UserFact, 0, len(f.facts))
	for _, fact := range f.facts {
		facts = append(facts, fact)
	}
	return facts, nil
}

func (f *fakeDB) SaveOrUpdateFact(ctx context.Context, userID, key, value string, confidence float64) (*db.UserFact, error) {
	fact := db.UserFact{UserID: userID, Key: key, Value: value, Confidence: confidence}
	f.facts[key] = fact
	return &fact, nil
}

type fakeDigest struct {
	summary string
}

func (d *fakeDigest) RecentSummary(ctx context.Context, userID string) (string, error) {
	return d.summary, nil
}

func newTestEngine(client llm.Client, database DBInterface) *Engine {
	return NewEngine(
		classifier.NewClassifier(),
		memory.NewManager(10),
		prompt.NewBuilder(),
		client,
		followup.NewSuggester(),
		&fakeDigest{summary: "5 entries this month, average severity 4.2"},
		database,
	)
}

func TestProcessMessage_SmallTalkSkipsLLM(t *testing.T) {
	mock := deepseek.NewMockClient()
	database := newFakeDB()
	engine := newTestEngine(mock, database)

	responder := &fakeResponder{}
	err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID:    "user-1",
		Message:   "hello!",
		Responder: responder,
	})
	if err != nil {
		t.Fatalf("ProcessMessage error: %v", err)
	}

	if mock.ChatCallCount() != 0 {
		t.Errorf("small talk should not call the LLM, got %d calls", mock.ChatCallCount())
	}
	if len(responder.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(responder.messages))
	}
	if responder.doneCalls != 1 {
		t.Errorf("expected SendDone once, got %d", responder.doneCalls)
	}

	// Both sides of the exchange are persisted
	if len(database.saved) != 2 {
		t.Errorf("expected user+assistant messages saved, got %d", len(database.saved))
	}
}

func TestProcessMessage_PainReportCallsLLMAndSuggests(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return &llm.ChatResponse{
			Choices: []llm.ResponseChoice{
				{Message: llm.ChatMessage{Role: "assistant", Content: "That sounds rough. Where exactly does it hurt?"}},
			},
		}, nil
	}

	database := newFakeDB()
	engine := newTestEngine(mock, database)

	responder := &fakeResponder{}
	err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID:    "user-1",
		Message:   "my lower back hurts, about 6 out of 10",
		Responder: responder,
	})
	if err != nil {
		t.Fatalf("ProcessMessage error: %v", err)
	}

	if mock.ChatCallCount() != 1 {
		t.Errorf("expected 1 LLM call, got %d", mock.ChatCallCount())
	}
	if len(responder.suggestions) != 1 {
		t.Errorf("pain report should trigger a follow-up suggestion, got %d", len(responder.suggestions))
	}
	if len(responder.messages) != 1 || !strings.Contains(responder.messages[0], "Where exactly") {
		t.Errorf("unexpected messages: %v", responder.messages)
	}

	// Heuristic fact extraction picked up severity and body part
	if fact, ok := database.facts["last_reported_severity"]; !ok || fact.Value != "6" {
		t.Errorf("expected severity fact 6, got %+v", database.facts)
	}
	if fact, ok := database.facts["primary_body_part"]; !ok || fact.Value != "lower back" {
		t.Errorf("expected body part fact, got %+v", database.facts)
	}
}

func TestProcessMessage_PromptCarriesRecentSummary(t *testing.T) {
	mock := deepseek.NewMockClient()

	var captured llm.ChatRequest
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		captured = req
		return &llm.ChatResponse{
			Choices: []llm.ResponseChoice{
				{Message: llm.ChatMessage{Role: "assistant", Content: "ok"}},
			},
		}, nil
	}

	engine := newTestEngine(mock, newFakeDB())
	responder := &fakeResponder{}
	err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID:    "user-1",
		Message:   "is my knee pain getting worse?",
		Responder: responder,
	})
	if err != nil {
		t.Fatalf("ProcessMessage error: %v", err)
	}

	if len(captured.Messages) == 0 {
		t.Fatal("no prompt captured")
	}
	if !strings.Contains(captured.Messages[0].Content, "average severity 4.2") {
		t.Error("system prompt should include the recent history digest")
	}
}

func TestProcessMessage_FallbackOnLLMFailure(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return nil, errors.New("provider down")
	}

	engine := newTestEngine(mock, newFakeDB())
	responder := &fakeResponder{}
	err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID:    "user-1",
		Message:   "my shoulder aches today",
		Responder: responder,
	})
	if err != nil {
		t.Fatalf("ProcessMessage should not fail when LLM is down: %v", err)
	}

	if len(responder.messages) != 1 {
		t.Fatalf("expected fallback message, got %v", responder.messages)
	}
	if !strings.Contains(responder.messages[0], "healthcare provider") {
		t.Errorf("fallback for a pain report should point to care: %q", responder.messages[0])
	}
	if responder.doneCalls != 1 {
		t.Errorf("expected SendDone once, got %d", responder.doneCalls)
	}
}

func TestProcessMessage_CircuitOpenShortCircuits(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return nil, errors.New("provider down")
	}

	engine := newTestEngine(mock, newFakeDB())

	// Exhaust the breaker
	for i := 0; i < 6; i++ {
		engine.ProcessMessage(context.Background(), ProcessRequest{
			UserID:    "user-1",
			Message:   "knee pain again",
			Responder: &fakeResponder{},
		})
	}

	callsBefore := mock.ChatCallCount()
	responder := &fakeResponder{}
	err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID:    "user-1",
		Message:   "knee pain again",
		Responder: responder,
	})
	if err != nil {
		t.Fatalf("ProcessMessage error: %v", err)
	}

	if mock.ChatCallCount() != callsBefore {
		t.Error("open circuit should skip the LLM entirely")
	}
	if len(responder.messages) != 1 || !strings.Contains(responder.messages[0], "temporarily unavailable") {
		t.Errorf("expected circuit-open fallback, got %v", responder.messages)
	}
}

type fakeHistoryLoader struct {
	messages []memory.Message
	calls    int
}

func (f *fakeHistoryLoader) GetRecentMessages(ctx context.Context, userID string, limit int) ([]memory.Message, error) {
	f.calls++
	return f.messages, nil
}

func TestProcessMessage_RehydratesMemoryOnFirstMessage(t *testing.T) {
	mock := deepseek.NewMockClient()
	database := newFakeDB()
	engine := newTestEngine(mock, database)

	loader := &fakeHistoryLoader{messages: []memory.Message{
		{Role: "user", Content: "my knee has been aching", Timestamp: time.Now().Add(-time.Hour)},
		{Role: "assistant", Content: "Sorry to hear that. How bad is it on a 0-10 scale?", Timestamp: time.Now().Add(-time.Hour)},
	}}
	engine.SetHistoryLoader(loader)

	responder := &fakeResponder{}
	err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID:    "user-1",
		Message:   "it's about a 5 today",
		Responder: responder,
	})
	if err != nil {
		t.Fatalf("ProcessMessage error: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("loader calls = %d, want 1", loader.calls)
	}

	// Persisted context should reach the prompt
	if mock.ChatCallCount() != 1 {
		t.Fatalf("expected 1 LLM call, got %d", mock.ChatCallCount())
	}
	found := false
	for _, msg := range mock.ChatCalls[0].Messages {
		if strings.Contains(msg.Content, "my knee has been aching") {
			found = true
		}
	}
	if !found {
		t.Error("rehydrated history missing from prompt")
	}

	// Second message must not reload
	responder2 := &fakeResponder{}
	if err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID:    "user-1",
		Message:   "still around a 5",
		Responder: responder2,
	}); err != nil {
		t.Fatalf("second ProcessMessage error: %v", err)
	}
	if loader.calls != 1 {
		t.Errorf("loader calls = %d after second message, want 1", loader.calls)
	}
}

func TestProcessMessage_NilClientFallsBack(t *testing.T) {
	database := newFakeDB()
	engine := newTestEngine(nil, database)

	responder := &fakeResponder{}
	err := engine.ProcessMessage(context.Background(), ProcessRequest{
		UserID:    "user-1",
		Message:   "my shoulder hurts a lot today",
		Responder: responder,
	})
	if err != nil {
		t.Fatalf("ProcessMessage error: %v", err)
	}

	if len(responder.messages) != 1 {
		t.Fatalf("expected 1 fallback message, got %d", len(responder.messages))
	}
	if responder.doneCalls != 1 {
		t.Errorf("expected SendDone once, got %d", responder.doneCalls)
	}
}
