package base

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// HTTPClient provides common HTTP functionality for upstream calls
type HTTPClient struct {
	client  *http.Client
	baseURL string
	name    string // service name for logging
}

// NewHTTPClient creates a new HTTP client with default settings
func NewHTTPClient(name string, timeoutSec int) *HTTPClient {
	if timeoutSec == 0 {
		timeoutSec = 30
	}

	return &HTTPClient{
		client: &http.Client{
			Timeout: time.Duration(timeoutSec) * time.Second,
		},
		name: name,
	}
}

// SetBaseURL sets the base URL for all requests
func (c *HTTPClient) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// BaseURL returns the configured base URL.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Get makes a GET request. Empty query values are left out.
func (c *HTTPClient) Get(ctx context.Context, endpoint string, query url.Values, token string) (*HTTPResponse, error) {
	target := c.baseURL + endpoint
	if q := compact(query).Encode(); q != "" {
		target += "?" + q
	}
	return c.do(ctx, http.MethodGet, target, nil, token)
}

// PostJSON makes a POST request with JSON payload
func (c *HTTPClient) PostJSON(ctx context.Context, endpoint string, payload any, token string) (*HTTPResponse, error) {
	return c.sendJSON(ctx, http.MethodPost, endpoint, payload, token)
}

// PutJSON makes a PUT request with JSON payload
func (c *HTTPClient) PutJSON(ctx context.Context, endpoint string, payload any, token string) (*HTTPResponse, error) {
	return c.sendJSON(ctx, http.MethodPut, endpoint, payload, token)
}

func (c *HTTPClient) sendJSON(ctx context.Context, method, endpoint string, payload any, token string) (*HTTPResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
	}
	return c.do(ctx, method, c.baseURL+endpoint, body, token)
}

func (c *HTTPClient) do(ctx context.Context, method, target string, body []byte, token string) (*HTTPResponse, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("AdminConsole/%s", c.name))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	log.Debug().
		Str("upstream", c.name).
		Str("method", method).
		Str("url", target).
		Msg("making HTTP request")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Error().
			Str("upstream", c.name).
			Str("url", target).
			Err(err).
			Msg("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	return c.handleResponse(resp)
}

// handleResponse reads the body and turns non-2xx statuses into *APIError.
func (c *HTTPClient) handleResponse(resp *http.Response) (*HTTPResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	httpResp := &HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	log.Debug().
		Str("upstream", c.name).
		Int("status_code", resp.StatusCode).
		Int("body_length", len(body)).
		Msg("received HTTP response")

	if !httpResp.IsSuccess() {
		return httpResp, NewAPIError(resp.StatusCode, body)
	}
	return httpResp, nil
}

func compact(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		for _, v := range vs {
			if v != "" {
				out.Add(k, v)
			}
		}
	}
	return out
}

// HTTPResponse represents an HTTP response
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// IsSuccess checks if the response indicates success (2xx status code)
func (r *HTTPResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// UnmarshalJSON unmarshals the response body into the provided struct
func (r *HTTPResponse) UnmarshalJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// String returns the response body as a string
func (r *HTTPResponse) String() string {
	return string(r.Body)
}
