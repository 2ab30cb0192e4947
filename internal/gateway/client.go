// Package gateway is the single door to the restaurant REST backend. Every call goes
// out once, carries the operator's bearer token when one is cached, and comes back
// either decoded or as a *RequestError holding the backend's message verbatim.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/JovanPapi/krusevska-odaja-internal-work/internal/notify"
)

// TokenSource returns the bearer token for the current operator. An empty token
// with a nil error means "send the request unauthenticated".
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// Token implements TokenSource.
func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

// RequestError is returned for every failed call.
type RequestError struct {
	Method  string
	Path    string
	Status  int // 0 when the request never got a response
	Message string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *RequestError) Unwrap() error { return e.Err }

// StatusOf returns the HTTP status carried by a *RequestError in err's chain, or 0.
func StatusOf(err error) int {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Status
	}
	return 0
}

// MessageOf returns the backend message carried by err, or err.Error().
func MessageOf(err error) string {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	return err.Error()
}

// Client calls the backend. It is safe for concurrent use.
type Client struct {
	baseURL  string
	http     *http.Client
	tokens   TokenSource
	notifier notify.Notifier
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource sets where bearer tokens come from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithNotifier sets who is told about failures.
func WithNotifier(n notify.Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

// New creates a Client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     http.DefaultClient,
		notifier: notify.Discard,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Notifier returns the notifier failures are reported to.
func (c *Client) Notifier() notify.Notifier { return c.notifier }

// Call sends one request. body, when not nil, is sent as JSON. out may be nil,
// a *string (the raw text body is stored) or any JSON-decodable pointer.
func (c *Client) Call(ctx context.Context, method, path string, body, out any) error {
	err := c.do(ctx, method, path, body, out)
	if err != nil {
		notify.Error(ctx, c.notifier, MessageOf(err))
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return &RequestError{Method: method, Path: path, Message: "cannot encode request", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &RequestError{Method: method, Path: path, Message: err.Error(), Err: err}
	}
	req.Header.Set("Accept", "application/json, text/plain")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return &RequestError{Method: method, Path: path, Message: "cannot read session token", Err: err}
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &RequestError{Method: method, Path: path, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode, Message: err.Error(), Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := strings.TrimSpace(string(raw))
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode, Message: unquote(msg)}
	}

	if err := decodeBody(raw, out); err != nil {
		return &RequestError{Method: method, Path: path, Status: resp.StatusCode, Message: "cannot decode response", Err: err}
	}
	return nil
}

func decodeBody(raw []byte, out any) error {
	switch dst := out.(type) {
	case nil:
		return nil
	case *string:
		*dst = unquote(strings.TrimSpace(string(raw)))
		return nil
	default:
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil
		}
		return json.Unmarshal(raw, out)
	}
}

// unquote turns a JSON string literal into its value and leaves anything else as is.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var v string
		if err := json.Unmarshal([]byte(s), &v); err == nil {
			return v
		}
	}
	return s
}
