// Package ai provides a thin liveness check over the configured
// generative-model adapter, used by the HTTP surface's health endpoint.
package ai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Pinger is implemented by adapters that can report reachability without
// spending a full generation call.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthChecker reports whether the configured model endpoint is reachable.
type HealthChecker struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHealthChecker(baseURL string, logger *zap.Logger) *HealthChecker {
	return &HealthChecker{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
		logger:  logger.Named("ai-health"),
	}
}

// Check performs a cheap reachability probe against the model's base URL.
func (h *HealthChecker) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL, nil)
	if err != nil {
		return fmt.Errorf("ai health: build request: %w", err)
	}
	resp, err := h.client.Do(req)
	if err != nil {
		h.logger.Warn("model endpoint unreachable", zap.String("base_url", h.baseURL), zap.Error(err))
		return err
	}
	defer resp.Body.Close()
	return nil
}
