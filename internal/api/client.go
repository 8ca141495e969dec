// Package api is the single outbound pathway to the storefront backend. Every
// request is shaped here: bearer credential, request ID, JSON codec, and a
// uniform error taxonomy for the callers to branch on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"

	"github.com/gmzseverr/bazaarx-client/internal/errs"
)

// TokenSource yields the current bearer credential, or "" when anonymous.
// The session store implements it.
type TokenSource interface {
	Token() string
}

// Client talks JSON over HTTP to the backend. Transport and 5xx failures on
// reads are retried a bounded number of times; mutations are sent exactly
// once, so a write the backend already committed is never re-applied — the
// user decides whether to retry those.
type Client struct {
	baseURL    string
	readClient *http.Client // bounded retries, GET only
	mutClient  *http.Client // single attempt
	tokens     TokenSource
	log        *zap.Logger

	// onUnauthorized fires once per 401 response so the session store can
	// drop the stale credential. Never used to re-send the request.
	onUnauthorized func()
}

// Option customizes the Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.readClient.Timeout = d
		c.mutClient.Timeout = d
	}
}

// WithUnauthorizedHook registers the 401 callback.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// NewClient constructs the gateway for the given backend base URL.
func NewClient(baseURL string, tokens TokenSource, log *zap.Logger, opts ...Option) *Client {
	if log == nil {
		log = zap.NewNop()
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.Logger = nil
	// Keep the final response after exhausted retries so 5xx maps to the
	// server-error kind instead of disappearing into a transport failure.
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler

	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}

	c := &Client{
		baseURL:    base,
		readClient: rc.StandardClient(),
		mutClient:  &http.Client{},
		tokens:     tokens,
		log:        log,
	}
	c.readClient.Timeout = 15 * time.Second
	c.mutClient.Timeout = 15 * time.Second
	for _, o := range opts {
		o(c)
	}
	return c
}

// APIError is the uniform failure shape for HTTP-level errors: the status,
// the backend's structured message when it sent one, and a taxonomy sentinel
// reachable via errors.Is.
type APIError struct {
	Status  int
	Message string

	kind error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("backend: %v (status %d)", e.kind, e.Status)
}

func (e *APIError) Unwrap() error { return e.kind }

// errorBody is the backend's structured error payload.
type errorBody struct {
	Message string `json:"message"`
}

// do issues one request and decodes the response into out (when non-nil).
// Any non-2xx status becomes an *APIError; a failure to reach the backend at
// all wraps errs.ErrTransport.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if id, err := uuid.NewV4(); err == nil {
		req.Header.Set("X-Request-ID", id.String())
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	// Only idempotent reads may be re-sent automatically; a POST or DELETE
	// the backend may have committed must not go out twice.
	hc := c.mutClient
	if method == http.MethodGet {
		hc = c.readClient
	}

	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w: %v", method, path, errs.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.fail(method, path, resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// fail maps an error status to the taxonomy and fires the 401 hook.
func (c *Client) fail(method, path string, resp *http.Response) error {
	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &eb)

	apiErr := &APIError{
		Status:  resp.StatusCode,
		Message: eb.Message,
		kind:    kindOf(resp.StatusCode),
	}

	c.log.Debug("backend error",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("message", eb.Message),
	)

	if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
		c.onUnauthorized()
	}
	return apiErr
}

func kindOf(status int) error {
	switch status {
	case http.StatusUnauthorized:
		return errs.ErrUnauthorized
	case http.StatusBadRequest:
		return errs.ErrValidation
	case http.StatusNotFound:
		return errs.ErrNotFound
	case http.StatusConflict:
		return errs.ErrConflict
	default:
		return errs.ErrServer
	}
}

// Retryable reports whether the failure is worth re-attempting as-is: only
// transport and backend-side failures qualify.
func Retryable(err error) bool {
	return errors.Is(err, errs.ErrTransport) || errors.Is(err, errs.ErrServer)
}
