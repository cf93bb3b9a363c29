// Package client is the HTTP adapter for the signal bot backend.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/newthinker/signaldeck/internal/core"
	"go.uber.org/zap"
)

// DefaultTimeout is applied when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config holds client configuration
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Observer receives one call per completed backend request. Status is 0
// when no response was received.
type Observer interface {
	ObserveBackendRequest(method, path string, status int, seconds float64)
}

// Client issues JSON requests against the backend and unwraps the
// `{ "data": ... }` envelope.
type Client struct {
	http     *resty.Client
	logger   *zap.Logger
	observer Observer
}

// New creates a client. A missing base URL is a configuration error.
func New(cfg Config, logger *zap.Logger) (*Client, error) {
	baseURL := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("api base url is not set"))
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, logger: logger}, nil
}

// SetObserver installs a request observer, typically the metrics registry.
func (c *Client) SetObserver(o Observer) {
	c.observer = o
}

// BaseURL returns the configured backend URL.
func (c *Client) BaseURL() string {
	return c.http.BaseURL
}

// Get fetches path and decodes the envelope's data into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post sends body as JSON to path and decodes the envelope's data into out.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	req := c.http.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	start := time.Now()
	resp, err := req.Execute(method, path)
	status := 0
	if resp != nil && resp.RawResponse != nil {
		status = resp.StatusCode()
	}
	if c.observer != nil {
		c.observer.ObserveBackendRequest(method, path, status, time.Since(start).Seconds())
	}

	if err != nil {
		c.logger.Debug("backend request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return core.WrapError(core.ErrTransport, err)
	}

	if !resp.IsSuccess() {
		msg := errorMessage(resp.Body())
		if msg == "" {
			msg = fmt.Sprintf("Request failed with status code %d", status)
		}
		return core.BackendError(msg, fmt.Errorf("%s %s: status %d", method, path, status))
	}

	return decodeEnvelope(resp.Body(), out)
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

// decodeEnvelope requires a "data" member. A null data leaves out untouched.
func decodeEnvelope(body []byte, out any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return core.WrapError(core.ErrDecode, err)
	}
	if env.Data == nil {
		return core.WrapError(core.ErrDecode, fmt.Errorf("response has no data field"))
	}
	if out == nil || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return core.WrapError(core.ErrDecode, err)
	}
	return nil
}

// errorMessage extracts a message from the common backend error payloads:
// {"message": "..."}, {"error": "..."} and {"error": {"message": "..."}}.
func errorMessage(body []byte) string {
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	if len(payload.Error) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Error, &s); err == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}
