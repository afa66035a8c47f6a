// Package fetch implements outbound.HTMLFetcher: the outbound HTML
// acquisition step of §4.5/§5 — user-agent set, bounded connection
// pool, strict timeouts.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/alchemorsel/cookbook/internal/ports/outbound"
)

const userAgent = "cookbook-extractor/1.0 (+https://example.com/bot)"

// Client fetches a page over HTTP with the connection-pool posture
// mandated by §5: per-host ≤20 connections, connect 2s, response 30s.
// The total of 200 bounds idle connections only; net/http has no
// ceiling on concurrent connections across hosts.
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	transport := &http.Transport{
		DialContext:         (&net.Dialer{Timeout: outbound.DefaultConnectTimeout}).DialContext,
		MaxConnsPerHost:     outbound.MaxConnsPerHost,
		MaxIdleConns:        outbound.MaxConnsTotal,
		MaxIdleConnsPerHost: outbound.MaxConnsPerHost,
	}
	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   outbound.DefaultResponseTimeout,
		},
	}
}

// Fetch implements outbound.HTMLFetcher.
func (c *Client) Fetch(ctx context.Context, url string) (outbound.FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return outbound.FetchResult{}, fmt.Errorf("fetch: build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return outbound.FetchResult{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20)) // 10MiB cap
	if err != nil {
		return outbound.FetchResult{}, fmt.Errorf("fetch: read body: %w", err)
	}

	return outbound.FetchResult{HTML: string(body), StatusCode: resp.StatusCode}, nil
}
