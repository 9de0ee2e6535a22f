// Package mcpserver exposes the transaction firewall to LLM agents as MCP
// tools, implemented as a pure HTTP client against the running API.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Config holds the configuration for connecting to the firewall API.
type Config struct {
	APIURL string // Base URL, e.g. "http://localhost:8080"
}

// FirewallClient is a pure HTTP client for the firewall API.
type FirewallClient struct {
	cfg        Config
	httpClient *http.Client
}

// NewFirewallClient creates a new client for the firewall API.
// The timeout is generous because a predict call may itself wait out the
// scorer's timeout tiers before falling back.
func NewFirewallClient(cfg Config) *FirewallClient {
	return &FirewallClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// doRequest makes an HTTP request to the API and returns the response body.
// The firewall reports application errors as 200 bodies with an "error"
// field, so callers inspect the JSON rather than the status code.
func (c *FirewallClient) doRequest(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u, err := url.Parse(c.cfg.APIURL + path)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	return json.RawMessage(respBody), nil
}

// AnalyzeTransaction runs a transaction through the prediction endpoint.
func (c *FirewallClient) AnalyzeTransaction(ctx context.Context, tx map[string]any) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodPost, "/api/predict", nil, tx)
}

// GetWalletHistory fetches recent transactions and analytics for an address.
func (c *FirewallClient) GetWalletHistory(ctx context.Context, address string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("address", address)
	return c.doRequest(ctx, http.MethodGet, "/api/wallet", q, nil)
}

// ServiceStatus fetches the service metadata endpoint.
func (c *FirewallClient) ServiceStatus(ctx context.Context) (json.RawMessage, error) {
	return c.doRequest(ctx, http.MethodGet, "/", nil, nil)
}
