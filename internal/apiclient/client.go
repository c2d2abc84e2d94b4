// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apiclient is the single gateway to the blog REST API. Every call
// sends and receives JSON, fails uniformly on non-2xx statuses, and updates a
// shared busy flag and last-error message that any caller can inspect.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRoot is the path segment every API request is prefixed with.
const DefaultRoot = "/api"

// RequestError is returned when the API answers with a non-2xx status.
// 4xx and 5xx are not distinguished.
type RequestError struct {
	Status int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("API Error: %d", e.Status)
}

// NetworkError wraps a transport failure (connection refused, reset, ...).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// ParseError wraps a failure to decode a response body as JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string { return "parse error: " + e.Err.Error() }
func (e *ParseError) Unwrap() error { return e.Err }

// CallOptions customizes a single call. A nil *CallOptions means GET with
// no body.
type CallOptions struct {
	Method string // defaults to GET
	Body   any    // serialized to JSON when non-nil
}

// Client issues JSON requests against a fixed API root. It has no cache,
// no retry and no de-duplication: each call is independent.
// All methods are safe for concurrent use.
type Client struct {
	baseURL string
	root    string
	http    *http.Client

	inFlight atomic.Int64

	mu      sync.RWMutex
	lastErr string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRoot overrides the API root segment (default "/api").
func WithRoot(root string) Option {
	return func(c *Client) { c.root = root }
}

// WithTimeout sets a per-request timeout. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a Client for the API served at baseURL (scheme and host, e.g.
// "http://localhost:5000").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		root:    DefaultRoot,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.root = "/" + strings.Trim(c.root, "/")
	if c.root == "/" {
		c.root = ""
	}
	return c
}

// Loading reports whether at least one call is currently in flight.
func (c *Client) Loading() bool {
	return c.inFlight.Load() > 0
}

// LastError returns the message of the most recent failure. Starting a new
// call clears it.
func (c *Client) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

func (c *Client) setLastError(msg string) {
	c.mu.Lock()
	c.lastErr = msg
	c.mu.Unlock()
}

// Call sends a request to path (relative to the API root) and returns the
// response body as raw JSON. An empty body decodes to a nil RawMessage.
func (c *Client) Call(ctx context.Context, path string, opts *CallOptions) (json.RawMessage, error) {
	return c.track(func() (json.RawMessage, error) {
		return c.do(ctx, path, opts)
	})
}

// CallInto is Call followed by decoding the response body into out. An empty
// body or one that does not fit out is a *ParseError, recorded as the last
// error like any other failure of the call.
func (c *Client) CallInto(ctx context.Context, path string, opts *CallOptions, out any) error {
	_, err := c.track(func() (json.RawMessage, error) {
		data, err := c.do(ctx, path, opts)
		if err != nil {
			return nil, err
		}
		return data, decodeInto(data, out)
	})
	return err
}

// track runs one call with the loading counter held and records its failure
// as the last error.
func (c *Client) track(fn func() (json.RawMessage, error)) (json.RawMessage, error) {
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	c.setLastError("")

	data, err := fn()
	if err != nil {
		c.setLastError(err.Error())
		return nil, err
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, path string, opts *CallOptions) (json.RawMessage, error) {
	method := http.MethodGet
	var body io.Reader
	if opts != nil {
		if opts.Method != "" {
			method = opts.Method
		}
		if opts.Body != nil {
			payload, err := json.Marshal(opts.Body)
			if err != nil {
				return nil, fmt.Errorf("apiclient marshal: %w", err)
			}
			body = bytes.NewReader(payload)
		}
	}

	url := c.baseURL + c.root + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("apiclient request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	slog.Debug("api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start).String(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		return nil, &RequestError{Status: resp.StatusCode}
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	if len(bytes.TrimSpace(respBody)) == 0 {
		return nil, nil
	}
	if !json.Valid(respBody) {
		var v any
		return nil, &ParseError{Err: json.Unmarshal(respBody, &v)}
	}
	return json.RawMessage(respBody), nil
}

// decodeInto unmarshals a response body into out, reporting failures as
// *ParseError.
func decodeInto(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return &ParseError{Err: io.ErrUnexpectedEOF}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}
