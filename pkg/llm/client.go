package llm

import (
	"context"
)

// Client interface for LLM API interactions. The deterministic analytics
// pipeline never depends on this succeeding; callers fall back to
// rule-based output when it fails.
type Client interface {
	// StreamChatCompletion sends a streaming chat completion request
	StreamChatCompletion(ctx context.Context, req ChatRequest) (<-chan ChatChunk, error)

	// ChatCompletion sends a non-streaming chat completion request
	ChatCompletion(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}
