// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package transport

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Configuration constants for the chat service.
const (
	// DefaultBaseURL is where the service listens in local development.
	DefaultBaseURL = "http://127.0.0.1:5000"

	// DefaultChatPath is the turn endpoint.
	DefaultChatPath = "/chat"

	// MaxResponseSize is the maximum allowed response body size.
	// SECURITY: Response size limit prevents memory exhaustion attacks.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit

	// RequestIDHeader carries the per-request correlation id.
	RequestIDHeader = "X-Request-ID"
)

// Version is reported in the User-Agent header. Set by the cli package.
var Version = "dev"

// Client talks to the chat service over HTTP.
// A Client is safe for concurrent use; it holds no session data.
type Client struct {
	baseURL    string
	chatPath   string
	httpClient *http.Client
	logger     zerolog.Logger
	newID      func() string
}

// NewClient creates a client for the service at baseURL.
// The underlying http.Client has no timeout; bound requests with the context.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		chatPath:   DefaultChatPath,
		httpClient: &http.Client{},
		logger:     zerolog.Nop(),
		newID:      func() string { return uuid.NewString() },
	}
}

// WithChatPath sets the path of the turn endpoint.
func (c *Client) WithChatPath(path string) *Client {
	if path != "" {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		c.chatPath = path
	}
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithLogger sets the logger used for request/response lines.
func (c *Client) WithLogger(logger zerolog.Logger) *Client {
	c.logger = logger.With().Str("component", "transport").Logger()
	return c
}

// WithRequestIDFunc overrides request id generation.
func (c *Client) WithRequestIDFunc(fn func() string) *Client {
	if fn != nil {
		c.newID = fn
	}
	return c
}

// BaseURL returns the service base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Fingerprint returns a short SHA-256 fingerprint of a secret for logs.
// SECURITY: Never log the token itself.
func Fingerprint(secret string) string {
	if secret == "" {
		return "none"
	}
	h := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(h[:4])
}

// =============================================================================
// CHAT
// =============================================================================

// Send performs one turn exchange.
//
// Every failure is a *RequestFailedError. The request is attempted exactly
// once.
func (c *Client) Send(ctx context.Context, payload Payload) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal chat payload")
	}

	req, reqID, err := c.newRequest(ctx, http.MethodPost, c.chatPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debug().
		Str("request_id", reqID).
		Bool("has_session", payload.SessionID != "").
		Str("token_fp", Fingerprint(payload.Token)).
		Msg("sending turn")

	status, respBody, err := c.do(req, reqID)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, statusError(status, respBody)
	}

	return decodeResponse(status, respBody)
}

func decodeResponse(status int, body []byte) (*Response, error) {
	var wire wireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, malformedError(status, errors.Wrap(err, "failed to decode chat response"))
	}
	if wire.Message == nil {
		return nil, malformedError(status, errors.New("chat response has no message field"))
	}
	return &Response{
		Message:   *wire.Message,
		SessionID: wire.SessionID,
		Token:     wire.Token,
		Status:    wire.Status,
	}, nil
}

// =============================================================================
// SESSION ENDPOINTS
// =============================================================================

// History fetches the service-side transcript for a session.
func (c *Client) History(ctx context.Context, sessionID string) (*History, error) {
	if sessionID == "" {
		return nil, errors.New("session id is required")
	}
	var h History
	if err := c.getJSON(ctx, http.MethodGet, "/chat/history/"+url.PathEscape(sessionID), &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// ClearSession asks the service to forget a session and returns its confirmation text.
func (c *Client) ClearSession(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", errors.New("session id is required")
	}
	var cr clearResponse
	if err := c.getJSON(ctx, http.MethodDelete, "/chat/session/"+url.PathEscape(sessionID), &cr); err != nil {
		return "", err
	}
	return cr.Message, nil
}

// ListTools returns the capabilities the service advertises.
func (c *Client) ListTools(ctx context.Context) ([]Tool, error) {
	var tr toolsResponse
	if err := c.getJSON(ctx, http.MethodGet, "/tools", &tr); err != nil {
		return nil, err
	}
	return tr.Tools, nil
}

func (c *Client) getJSON(ctx context.Context, method, path string, out interface{}) error {
	req, reqID, err := c.newRequest(ctx, method, path, nil)
	if err != nil {
		return err
	}
	status, body, err := c.do(req, reqID)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return statusError(status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return malformedError(status, errors.Wrapf(err, "failed to decode %s response", path))
	}
	return nil
}

// =============================================================================
// HTTP PLUMBING
// =============================================================================

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, string, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, "", errors.Wrap(err, "failed to create request")
	}
	reqID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "chatline/"+Version)
	req.Header.Set(RequestIDHeader, reqID)
	return req, reqID, nil
}

// do sends req and reads the body. Only failures to get a response are
// returned as errors; any status code is passed back to the caller.
func (c *Client) do(req *http.Request, reqID string) (int, []byte, error) {
	start := time.Now()
	c.logger.Debug().
		Str("request_id", reqID).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Msg("request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn().
			Err(err).
			Str("request_id", reqID).
			Str("path", req.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("no response from chat service")
		return 0, nil, networkError(err)
	}
	defer resp.Body.Close()

	body, err := readResponse(resp)
	c.logger.Info().
		Str("request_id", reqID).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("response")
	if err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return 0, nil, statusError(resp.StatusCode, nil)
		}
		return 0, nil, malformedError(resp.StatusCode, err)
	}
	return resp.StatusCode, body, nil
}

// readResponse reads the response body with a size limit.
// SECURITY: Prevents memory exhaustion from oversized responses.
func readResponse(resp *http.Response) ([]byte, error) {
	limited := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limited)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read response")
	}
	if len(body) > MaxResponseSize {
		return nil, errors.Errorf("response exceeds %d bytes", MaxResponseSize)
	}
	return body, nil
}
