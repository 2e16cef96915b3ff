// Package promort is a client for the ProMort review server REST API.
//
// [Client] implements every capability the workflow orchestrator needs
// (lifecycle.Backend). Requests are paced by a [RateLimiter] and are never
// retried: a failed call surfaces to the orchestrator, which decides what the
// user sees.
//
// Server statuses map onto the orchestrator's errors:
//
//	404 → lifecycle.ErrNotFound
//	403 → lifecycle.ErrForbidden
//	409 → lifecycle.ErrConflict
//
// Any other non-2xx status is returned as a [*StatusError].
package promort

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"promortctl/internal/lifecycle"
)

// ErrInvalidBaseURL is returned by [New] when the base URL is not an absolute
// http(s) URL.
var ErrInvalidBaseURL = errors.New("invalid base URL")

// maxErrorBody bounds how much of an error response is kept in a StatusError.
const maxErrorBody = 512

// Config configures the client.
type Config struct {
	// BaseURL is the server root, e.g. "https://promort.example.org/".
	BaseURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// RateLimit is the maximum sustained requests per second.
	RateLimit float64

	// Burst is the maximum burst of requests.
	Burst int

	// UserAgent is sent with every request.
	UserAgent string

	// SessionID is an optional Django session cookie value.
	SessionID string
}

// StatusError reports a non-2xx response the orchestrator has no specific
// handling for.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: server returned status %d", e.Method, e.Path, e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Client talks to a ProMort server. It is safe for concurrent use.
type Client struct {
	base        *url.URL
	httpClient  *http.Client
	rateLimiter *RateLimiter
	config      Config
}

// New creates a Client. Zero fields in cfg take defaults.
func New(cfg Config) (*Client, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RateLimit == 0 {
		cfg.RateLimit = 10
	}
	if cfg.Burst == 0 {
		cfg.Burst = 5
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "promortctl"
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	return &Client{
		base:        base,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: NewRateLimiter(cfg.RateLimit, cfg.Burst),
		config:      cfg,
	}, nil
}

// do sends a request and decodes a JSON response into out, if out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	ref, err := url.Parse(path)
	if err != nil {
		return fmt.Errorf("build request path: %w", err)
	}
	if len(query) > 0 {
		ref.RawQuery = query.Encode()
	}
	u := c.base.ResolveReference(ref)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.config.UserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.SessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: c.config.SessionID})
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(method, path, resp); err != nil {
		return err
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func checkStatus(method, path string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var sentinel error
	switch resp.StatusCode {
	case http.StatusNotFound:
		sentinel = lifecycle.ErrNotFound
	case http.StatusForbidden:
		sentinel = lifecycle.ErrForbidden
	case http.StatusConflict:
		sentinel = lifecycle.ErrConflict
	}
	if sentinel != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%s %s: %w", method, path, sentinel)
	}

	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(data)),
	}
}
