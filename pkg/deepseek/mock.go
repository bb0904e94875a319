package deepseek

import (
	"context"
	"sync"

	"github.com/themobileprof/paintrack-be/pkg/llm"
)

// MockClient implements llm.Client for testing
type MockClient struct {
	mu sync.Mutex

	// StreamFunc allows customizing the streaming behavior
	StreamFunc func(context.Context, llm.ChatRequest) (<-chan llm.ChatChunk, error)

	// ChatFunc allows customizing the non-streaming behavior
	ChatFunc func(context.Context, llm.ChatRequest) (*llm.ChatResponse, error)

	// Tracking for assertions
	StreamCalls []llm.ChatRequest
	ChatCalls   []llm.ChatRequest
}

var _ llm.Client = (*MockClient)(nil)

// NewMockClient creates a new mock client with default behavior
func NewMockClient() *MockClient {
	return &MockClient{
		StreamCalls: make([]llm.ChatRequest, 0),
		ChatCalls:   make([]llm.ChatRequest, 0),
	}
}

// StreamChatCompletion implements llm.Client.StreamChatCompletion
func (m *MockClient) StreamChatCompletion(ctx context.Context, req llm.ChatRequest) (<-chan llm.ChatChunk, error) {
	m.mu.Lock()
	m.StreamCalls = append(m.StreamCalls, req)
	m.mu.Unlock()

	if m.StreamFunc != nil {
		return m.StreamFunc(ctx, req)
	}

	// Default mock behavior - a two-chunk response followed by a stop
	ch := make(chan llm.ChatChunk, 3)
	go func() {
		defer close(ch)

		ch <- chunkWithContent(req.Model, "This is ")
		ch <- chunkWithContent(req.Model, "a mock response.")

		finishReason := "stop"
		ch <- llm.ChatChunk{
			ID:      "mock-chunk-final",
			Object:  "chat.completion.chunk",
			Created: 1234567890,
			Model:   req.Model,
			Choices: []llm.ChunkChoice{{FinishReason: &finishReason}},
		}
	}()

	return ch, nil
}

// ChatCompletion implements llm.Client.ChatCompletion
func (m *MockClient) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, req)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}

	return &llm.ChatResponse{
		ID:      "mock-response-1",
		Object:  "chat.completion",
		Created: 1234567890,
		Model:   req.Model,
		Choices: []llm.ResponseChoice{{
			Message: llm.ChatMessage{
				Role:    "assistant",
				Content: "This is a mock response.",
			},
			FinishReason: "stop",
		}},
		Usage: llm.Usage{
			PromptTokens:     10,
			CompletionTokens: 5,
			TotalTokens:      15,
		},
	}, nil
}

// Reset clears the call history
func (m *MockClient) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StreamCalls = make([]llm.ChatRequest, 0)
	m.ChatCalls = make([]llm.ChatRequest, 0)
}

// StreamCallCount returns the number of stream calls made
func (m *MockClient) StreamCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.StreamCalls)
}

// ChatCallCount returns the number of non-streaming calls made
func (m *MockClient) ChatCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ChatCalls)
}

func chunkWithContent(model, content string) llm.ChatChunk {
	return llm.ChatChunk{
		ID:      "mock-chunk",
		Object:  "chat.completion.chunk",
		Created: 1234567890,
		Model:   model,
		Choices: []llm.ChunkChoice{{Delta: llm.Delta{Content: content}}},
	}
}
