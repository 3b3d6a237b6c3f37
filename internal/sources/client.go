package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla-devs/ferium-sub000/internal/config"
)

const userAgent = "ferium (github.com/gorilla-devs/ferium)"

// apiClient is the JSON-over-HTTP plumbing shared by the platform clients.
type apiClient struct {
	platform   config.Platform
	baseURL    string
	httpClient *http.Client
	limiter    *RateLimiter
	headers    map[string]string
}

func newAPIClient(platform config.Platform, baseURL string, limiter *RateLimiter) apiClient {
	return apiClient{
		platform: platform,
		baseURL:  strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		limiter: limiter,
		headers: map[string]string{},
	}
}

func (c *apiClient) do(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	return c.httpClient.Do(req)
}

// getJSON sends a GET request and decodes the response into out.
func (c *apiClient) getJSON(ctx context.Context, endpoint string, out interface{}) error {
	return c.sendJSON(ctx, http.MethodGet, endpoint, nil, out)
}

// postJSON sends body as JSON and decodes the response into out.
func (c *apiClient) postJSON(ctx context.Context, endpoint string, body, out interface{}) error {
	return c.sendJSON(ctx, http.MethodPost, endpoint, body, out)
}

func (c *apiClient) sendJSON(ctx context.Context, method, endpoint string, body, out interface{}) error {
	resp, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: %w", c.platform, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s: %w", c.platform, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Platform: c.platform, StatusCode: resp.StatusCode, URL: c.baseURL + endpoint}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: failed to decode response: %w", c.platform, err)
	}
	return nil
}
