// Package api talks to the QazZerep backend over HTTP.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/qazzerep/internal/logger"
	"github.com/existflow/qazzerep/internal/storage"
	"github.com/google/uuid"
)

// maxErrorBody caps how much of a failed response is read for its message
const maxErrorBody = 1 << 20

// TokenStore is where the bearer token lives between calls
type TokenStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
}

// Client is the backend API client. The token is read from the store on
// every request, so a login or logout elsewhere takes effect immediately.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenStore
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// NewClient creates a client for the backend at baseURL
func NewClient(baseURL string, tokens TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		tokens:     tokens,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend origin requests are sent to
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one call
type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, payload interface{}) (request, error) {
	req := request{method: method, path: path}
	if payload == nil {
		return req, nil
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return req, fmt.Errorf("failed to encode request: %w", err)
	}
	req.body = bytes.NewReader(body)
	req.contentType = "application/json"
	return req, nil
}

// do sends r and decodes a 2xx JSON body into out when out is non-nil
func (c *Client) do(ctx context.Context, r request, out interface{}) error {
	url := c.baseURL + r.path

	req, err := http.NewRequestWithContext(ctx, r.method, url, r.body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	if c.tokens != nil {
		token, ok, err := c.tokens.Get(ctx, storage.KeyToken)
		if err != nil {
			logger.Warn("Failed to read token", logger.F("error", err))
		} else if ok && token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.Debug("HTTP Request",
		logger.F("method", r.method),
		logger.F("path", r.path),
		logger.F("request_id", requestID),
		logger.F("auth", req.Header.Get("Authorization") != ""))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("HTTP request failed",
			logger.F("error", err),
			logger.F("path", r.path),
			logger.F("request_id", requestID))
		return fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	logger.Debug("HTTP Response",
		logger.F("path", r.path),
		logger.F("status", resp.StatusCode),
		logger.F("duration", time.Since(start).String()),
		logger.F("request_id", requestID))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Method:     r.method,
			Path:       r.path,
			Message:    errorMessage(body),
		}
		logger.Warn("API error",
			logger.F("path", r.path),
			logger.F("status", resp.StatusCode),
			logger.F("message", apiErr.Message))
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("failed to decode %s response: %w", r.path, err)
	}
	return nil
}
