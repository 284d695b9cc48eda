package client

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

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/matheus3301/sentinel/internal/bus"
	"go.uber.org/zap"
)

// DefaultRetryDelay is the pause before a failed read is retried.
const DefaultRetryDelay = 300 * time.Millisecond

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds each request attempt. Zero means no timeout.
	Timeout time.Duration
	// ReadRetries is how many extra attempts a GET gets after a network error or 5xx.
	// Mutations are never retried.
	ReadRetries int
	RetryDelay  time.Duration
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Client talks to the REST backend. Every request carries the stored bearer
// token; any 401 clears it and publishes bus.SessionInvalidated.
type Client struct {
	baseURL     string
	http        *http.Client
	tokens      TokenStore
	bus         *bus.Bus
	log         *zap.Logger
	readRetries int
	retryDelay  time.Duration

	Auth     *AuthService
	Users    *UserService
	Chats    *ChatService
	Messages *MessageService
	Tasks    *TaskService
	Orders   *OrderService
	SOS      *SOSService
}

// New creates a client for the backend at opts.BaseURL.
func New(opts Options, tokens TokenStore, b *bus.Bus, log *zap.Logger) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	delay := opts.RetryDelay
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	c := &Client{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		http:        hc,
		tokens:      tokens,
		bus:         b,
		log:         log,
		readRetries: max(opts.ReadRetries, 0),
		retryDelay:  delay,
	}
	c.Auth = &AuthService{c: c}
	c.Users = &UserService{c: c}
	c.Chats = &ChatService{c: c}
	c.Messages = &MessageService{c: c}
	c.Tasks = &TaskService{c: c}
	c.Orders = &OrderService{c: c}
	c.SOS = &SOSService{c: c}
	return c
}

// BaseURL returns the backend root without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveURL makes a backend-relative URL such as "/api/files/x" absolute.
// Absolute and empty URLs are returned unchanged.
func (c *Client) ResolveURL(u string) string {
	if u == "" || strings.Contains(u, "://") {
		return u
	}
	if !strings.HasPrefix(u, "/") {
		u = "/" + u
	}
	return c.baseURL + u
}

// do sends a JSON request and decodes a JSON response into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	contentType := ""
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		contentType = "application/json"
	}
	return c.send(ctx, method, path, query, body, contentType, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, out any) error {
	if method != http.MethodGet || c.readRetries == 0 {
		return c.roundTrip(ctx, method, path, query, body, contentType, out)
	}

	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		err := c.roundTrip(ctx, method, path, query, body, contentType, out)
		if err == nil {
			return struct{}{}, nil
		}
		if !retryable(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		c.log.Debug("read failed, retrying", zap.String("path", path), zap.Int("attempt", attempt), zap.Error(err))
		return struct{}{}, err
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(c.retryDelay)),
		backoff.WithMaxTries(uint(c.readRetries+1)),
	)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body []byte, contentType string, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	token, err := c.tokens.Token()
	if err != nil {
		return fmt.Errorf("read token: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}
	c.log.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(data),
		}
		if resp.StatusCode == http.StatusUnauthorized {
			c.invalidate(path)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) invalidate(path string) {
	if err := c.tokens.ClearToken(); err != nil {
		c.log.Error("clear token after 401", zap.Error(err))
	}
	c.log.Warn("session invalidated", zap.String("path", path))
	c.bus.Emit(bus.SessionInvalidated, path)
}

// retryable reports transport failures and 5xx responses. Cancellation is final.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return true
}
