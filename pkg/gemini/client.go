package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/themobileprof/paintrack-be/pkg/llm"
)

// HTTPClient implements the llm.Client interface for Gemini using REST API
type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// Ensure HTTPClient implements llm.Client
var _ llm.Client = (*HTTPClient)(nil)

// Config holds configuration for the Gemini client
type Config struct {
	APIKey  string
	Model   string        // Default: gemini-2.0-flash
	Timeout time.Duration // Default: 30s
}

// NewHTTPClient creates a new Gemini HTTP client
func NewHTTPClient(config Config) *HTTPClient {
	if config.Model == "" {
		config.Model = "gemini-2.0-flash"
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	return &HTTPClient{
		apiKey:  config.APIKey,
		baseURL: "https://generativelanguage.googleapis.com/v1beta/models",
		model:   config.Model,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: transport,
		},
	}
}

// Internal Gemini wire types
type geminiRequest struct {
	Contents         []geminiContent  `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Role  string       `json:"role"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature      float64 `json:"temperature,omitempty"`
	MaxOutputTokens  int     `json:"maxOutputTokens,omitempty"`
	ResponseMimeType string  `json:"responseMimeType,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	UsageMetadata struct {
		PromptTokenCount     int `json:"promptTokenCount"`
		CandidatesTokenCount int `json:"candidatesTokenCount"`
		TotalTokenCount      int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

// toGeminiRequest converts the generic chat request into Gemini's shape.
// Gemini uses "model" instead of "assistant" and has no portable system
// role in contents, so system messages are coerced to user turns.
func (c *HTTPClient) toGeminiRequest(req llm.ChatRequest) geminiRequest {
	contents := make([]geminiContent, len(req.Messages))
	for i, msg := range req.Messages {
		role := msg.Role
		switch role {
		case "assistant":
			role = "model"
		case "system":
			role = "user"
		}
		contents[i] = geminiContent{
			Role:  role,
			Parts: []geminiPart{{Text: msg.Content}},
		}
	}

	cfg := generationConfig{
		Temperature:     req.Temperature,
		MaxOutputTokens: req.MaxTokens,
	}
	if req.ResponseFormat != nil && req.ResponseFormat.Type == "json_object" {
		cfg.ResponseMimeType = "application/json"
	}

	return geminiRequest{Contents: contents, GenerationConfig: cfg}
}

// StreamChatCompletion implements llm.Client.StreamChatCompletion
func (c *HTTPClient) StreamChatCompletion(ctx context.Context, req llm.ChatRequest) (<-chan llm.ChatChunk, error) {
	url := fmt.Sprintf("%s/%s:streamGenerateContent?key=%s&alt=sse", c.baseURL, c.model, c.apiKey)

	resp, err := c.post(ctx, url, c.toGeminiRequest(req))
	if err != nil {
		return nil, err
	}

	ch := make(chan llm.ChatChunk, 32)

	go func() {
		defer close(ch)
		defer resp.Body.Close()

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				break
			}

			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "data: ") {
				continue
			}
			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var gResp geminiResponse
			if err := json.Unmarshal([]byte(data), &gResp); err != nil {
				continue
			}

			if len(gResp.Candidates) == 0 {
				continue
			}
			content := ""
			if len(gResp.Candidates[0].Content.Parts) > 0 {
				content = gResp.Candidates[0].Content.Parts[0].Text
			}

			chunk := llm.ChatChunk{
				Model:   c.model,
				Choices: []llm.ChunkChoice{{Delta: llm.Delta{Content: content}}},
			}

			select {
			case ch <- chunk:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, nil
}

// ChatCompletion implements llm.Client.ChatCompletion
func (c *HTTPClient) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	resp, err := c.post(ctx, url, c.toGeminiRequest(req))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	content := ""
	finishReason := ""
	if len(gResp.Candidates) > 0 {
		if len(gResp.Candidates[0].Content.Parts) > 0 {
			content = gResp.Candidates[0].Content.Parts[0].Text
		}
		finishReason = gResp.Candidates[0].FinishReason
	}

	return &llm.ChatResponse{
		Model: c.model,
		Choices: []llm.ResponseChoice{{
			Message: llm.ChatMessage{
				Role:    "assistant",
				Content: content,
			},
			FinishReason: finishReason,
		}},
		Usage: llm.Usage{
			PromptTokens:     gResp.UsageMetadata.PromptTokenCount,
			CompletionTokens: gResp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      gResp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

// post sends a JSON request and verifies the status code
func (c *HTTPClient) post(ctx context.Context, url string, payload interface{}) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	return resp, nil
}
