// Package client is the Go SDK for knowd's retrieval surface, used by
// test-generation and chat consumers that inject knowledge context into
// prompts.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config configures a Client.
type Config struct {
	// BaseURL is the knowd server root, e.g. "http://localhost:8080".
	BaseURL string
	// APIKey is the bearer token for protected routes.
	APIKey string
	// Timeout bounds each HTTP call. Defaults to 10s.
	Timeout time.Duration
}

// Client talks to a knowd server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client. BaseURL is required.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("BaseURL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// RetrieveParams narrows a retrieval query.
type RetrieveParams struct {
	Query string   `json:"query"`
	Types []string `json:"types,omitempty"`
	Tags  []string `json:"tags,omitempty"`
	Scope string   `json:"scope,omitempty"`
	TopK  int      `json:"top_k,omitempty"`
}

// Retrieve returns ranked knowledge entries for the query.
func (c *Client) Retrieve(ctx context.Context, params RetrieveParams) ([]ScoredEntry, error) {
	var resp struct {
		Results []ScoredEntry `json:"results"`
	}
	if err := c.post(ctx, "/api/v1/knowledge/retrieve", params, &resp); err != nil {
		return nil, err
	}
	return resp.Results, nil
}

// ContextParams narrows a context build request.
type ContextParams struct {
	RetrieveParams
	Budget int `json:"budget,omitempty"`
}

// BuildContext returns a budgeted context block for prompt injection.
func (c *Client) BuildContext(ctx context.Context, params ContextParams) (string, error) {
	var resp struct {
		Context string `json:"context"`
	}
	if err := c.post(ctx, "/api/v1/knowledge/context", params, &resp); err != nil {
		return "", err
	}
	return resp.Context, nil
}

// RecordUsage reports that an entry was applied and returns the usage id
// for later feedback.
func (c *Client) RecordUsage(ctx context.Context, event UsageEvent) (int64, error) {
	var resp struct {
		ID int64 `json:"id"`
	}
	if err := c.post(ctx, "/api/v1/knowledge/usage", event, &resp); err != nil {
		return 0, err
	}
	return resp.ID, nil
}

// Feedback backfills the helpful signal (-1, 0, or 1) on a usage event.
func (c *Client) Feedback(ctx context.Context, usageID int64, helpful int) error {
	body := map[string]int{"helpful": helpful}
	path := fmt.Sprintf("/api/v1/knowledge/usage/%d", usageID)
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, detail)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
