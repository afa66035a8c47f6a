// Package local implements outbound.GenerativeModel against a
// self-hosted Ollama-compatible chat endpoint, used when llm.provider
// selects a local inference server instead of a hosted vendor.
package local

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

// Client calls Ollama's /api/chat endpoint. Grounded on the chat
// request/response shape of a self-hosted inference server, generalized
// to the orchestrator's PromptParts contract the same way the OpenAI
// adapter is.
type Client struct {
	baseURL string
	model   string
	client  *http.Client
	logger  *zap.Logger
}

type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.2:3b"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger.Named("local-model-client"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string                 `json:"model"`
	Messages []chatMessage          `json:"messages"`
	Stream   bool                   `json:"stream"`
	Format   string                 `json:"format,omitempty"`
	Options  map[string]interface{} `json:"options,omitempty"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

// Generate implements outbound.GenerativeModel against the local chat API.
func (c *Client) Generate(ctx context.Context, req outbound.GenerateRequest) (outbound.GenerateResult, error) {
	if len(req.PromptParts) == 0 {
		return outbound.GenerateResult{}, fmt.Errorf("local: empty prompt")
	}

	system := req.PromptParts[0]
	user := strings.Join(req.PromptParts[1:], "\n\n---\n\n")

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Stream: false,
		Format: "json",
		Options: map[string]interface{}{
			"temperature": req.Temperature,
			"top_p":       req.TopP,
			"num_predict": req.MaxOutputTokens,
		},
	}

	raw, err := json.Marshal(body)
	if err != nil {
		return outbound.GenerateResult{}, fmt.Errorf("local: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/chat", bytes.NewReader(raw))
	if err != nil {
		return outbound.GenerateResult{}, fmt.Errorf("local: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return outbound.GenerateResult{}, fmt.Errorf("local: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return outbound.GenerateResult{}, fmt.Errorf("local: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("local model call returned non-200",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", respBytes))
		return outbound.GenerateResult{}, fmt.Errorf("local: status %d", resp.StatusCode)
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBytes, &parsed); err != nil {
		return outbound.GenerateResult{}, fmt.Errorf("local: unmarshal response: %w", err)
	}

	return outbound.GenerateResult{
		Text:     parsed.Message.Content,
		RawBytes: respBytes,
	}, nil
}
