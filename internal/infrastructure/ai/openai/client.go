// Package openai implements outbound.GenerativeModel against the OpenAI
// chat-completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alchemorsel/cookbook/internal/ports/outbound"
)

// Client calls the OpenAI (or any OpenAI-compatible) chat-completions
// endpoint. Grounded on the chat-completion request/response shape used
// for recipe generation, generalized to the orchestrator's
// PromptParts/ResponseSchema contract (§6.3) instead of a fixed
// system/user pair.
type Client struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

// Config configures the client from §6.5's llm.* options.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("openai-client"),
	}
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Temperature    float64         `json:"temperature"`
	TopP           float64         `json:"top_p"`
	MaxTokens      int             `json:"max_tokens"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []choice `json:"choices"`
	Usage   usage    `json:"usage"`
}

type choice struct {
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Generate implements outbound.GenerativeModel. PromptParts are folded
// into a single user message after the assembled system instruction
// (the orchestrator's first PromptParts entry, per §4.4).
func (c *Client) Generate(ctx context.Context, req outbound.GenerateRequest) (outbound.GenerateResult, error) {
	if len(req.PromptParts) == 0 {
		return outbound.GenerateResult{}, fmt.Errorf("openai: empty prompt")
	}

	system := req.PromptParts[0]
	user := strings.Join(req.PromptParts[1:], "\n\n---\n\n")

	body := chatCompletionRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature:    req.Temperature,
		TopP:           req.TopP,
		MaxTokens:      req.MaxOutputTokens,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return outbound.GenerateResult{}, fmt.Errorf("openai: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(raw))
	if err != nil {
		return outbound.GenerateResult{}, fmt.Errorf("openai: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return outbound.GenerateResult{}, fmt.Errorf("openai: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return outbound.GenerateResult{}, fmt.Errorf("openai: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("openai call returned non-200",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", respBytes))
		return outbound.GenerateResult{}, fmt.Errorf("openai: status %d", resp.StatusCode)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return outbound.GenerateResult{}, fmt.Errorf("openai: unmarshal response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return outbound.GenerateResult{}, fmt.Errorf("openai: no choices returned")
	}

	c.logger.Debug("openai call succeeded",
		zap.Int("prompt_tokens", parsed.Usage.PromptTokens),
		zap.Int("completion_tokens", parsed.Usage.CompletionTokens))

	return outbound.GenerateResult{
		Text:             parsed.Choices[0].Message.Content,
		RawBytes:         respBytes,
		PromptTokens:     parsed.Usage.PromptTokens,
		CompletionTokens: parsed.Usage.CompletionTokens,
	}, nil
}
