// Package api is the HTTP client of the provisioning backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/lmsenv/internal/logger"
	"github.com/mark3labs/lmsenv/internal/request"
	"golang.org/x/time/rate"
)

// DefaultRateLimit is the request rate used when none is configured.
const DefaultRateLimit = 5.0

// maxBody bounds how much of a response is read.
const maxBody = 4 << 20

// Client talks to the provisioning backend. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRateLimit spaces requests to at most rps per second with a burst of
// the same size. A non-positive rate disables limiting.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		burst := max(int(rps), 1)
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// New returns a client for the backend at baseURL. Requests carry no
// timeout of their own; callers bound them through the context.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	WithRateLimit(DefaultRateLimit)(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encoding request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	id := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", id)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("%s %s %s (request %s)", op, method, path, id)
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("%s: status %d (request %s)", op, resp.StatusCode, id)
		return newServerError(op, resp.StatusCode, data)
	}

	switch v := out.(type) {
	case nil:
	case *json.RawMessage:
		*v = append((*v)[:0], data...)
	default:
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%s: decoding response: %w", op, err)
		}
	}
	return nil
}

// SubmitRequest posts a request payload. The response body is returned as
// is; its shape is not part of the contract.
func (c *Client) SubmitRequest(ctx context.Context, payload request.Payload) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.do(ctx, "submit request", http.MethodPost, "/api/submit-request", payload, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListRequests returns the stored request records in backend order.
func (c *Client) ListRequests(ctx context.Context) ([]RequestRecord, error) {
	var out []RequestRecord
	if err := c.do(ctx, "list requests", http.MethodGet, "/api/requests", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CleanupRequest deletes what the request with the given id created.
func (c *Client) CleanupRequest(ctx context.Context, id string) (*CleanupResult, error) {
	var out CleanupResult
	path := "/api/requests/" + url.PathEscape(id) + "/cleanup"
	if err := c.do(ctx, "cleanup request", http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Environments returns the configured environments keyed by name.
func (c *Client) Environments(ctx context.Context) (map[string]string, error) {
	out := map[string]string{}
	if err := c.do(ctx, "list environments", http.MethodGet, "/api/environments", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnvironmentStatus returns the usage summary of env.
func (c *Client) EnvironmentStatus(ctx context.Context, env string) (*EnvironmentStatus, error) {
	var out EnvironmentStatus
	path := "/api/environments/" + url.PathEscape(env) + "/status"
	if err := c.do(ctx, "environment status", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	if out.Environment == "" {
		out.Environment = env
	}
	return &out, nil
}

// Setup creates subaccounts and courses directly.
func (c *Client) Setup(ctx context.Context, req SetupRequest) (*SetupResult, error) {
	if req.Subaccounts == nil {
		req.Subaccounts = []SetupSubaccount{}
	}
	if req.Courses == nil {
		req.Courses = []SetupCourse{}
	}
	var out SetupResult
	if err := c.do(ctx, "setup", http.MethodPost, "/api/setup", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health returns the status string reported by the backend.
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, "health", http.MethodGet, "/api/health", nil, &out); err != nil {
		return "", err
	}
	return out.Status, nil
}
