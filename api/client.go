// Package api implements the chat and code-execution transports over the
// assistant server's HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fwojciec/tdd"
	tddjson "github.com/fwojciec/tdd/json"
	"github.com/fwojciec/tdd/wire"
)

const (
	chatPath = "/api/v1/chat"
	codePath = "/api/v1/code"

	// maxErrorBody bounds how much of a failed response is read into the
	// error message.
	maxErrorBody = 4 << 10
)

// Interface compliance checks.
var (
	_ tdd.Transport = (*Client)(nil)
	_ tdd.Executor  = (*Client)(nil)
)

// Client talks to the assistant server. It implements tdd.Transport for
// chat turns and tdd.Executor for test runs.
type Client struct {
	baseURL    string
	httpClient *http.Client
	framing    wire.Framing
	logger     *slog.Logger
}

// Option configures a [Client].
type Option func(*Client)

// WithBaseURL sets the server base URL. Useful for testing with httptest.
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithFraming sets how the chat response body is delimited.
func WithFraming(f wire.Framing) Option {
	return func(c *Client) { c.framing = f }
}

// WithLogger sets the logger handed to record readers.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a [Client] with the given options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    tdd.DefaultBaseURL,
		httpClient: http.DefaultClient,
		framing:    wire.FramingNDJSON,
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Open sends one chat request and returns the streamed response body. The
// caller must close it. Cancelling ctx aborts the request and the body.
func (c *Client) Open(ctx context.Context, req tdd.ChatRequest) (io.ReadCloser, error) {
	body, err := tddjson.MarshalChatRequest(req)
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	resp, err := c.post(ctx, chatPath, body)
	if err != nil {
		return nil, err
	}
	if resp.Body == nil || resp.Body == http.NoBody || resp.ContentLength == 0 {
		if resp.Body != nil {
			resp.Body.Close()
		}
		return nil, fmt.Errorf("api: chat response has no body: %w", tdd.ErrProtocol)
	}
	return resp.Body, nil
}

// Chat opens a chat request and decodes its body into records.
func (c *Client) Chat(ctx context.Context, req tdd.ChatRequest) (tdd.RecordStream, error) {
	body, err := c.Open(ctx, req)
	if err != nil {
		return nil, err
	}
	return wire.NewReader(body, c.framing, wire.WithLogger(c.logger)), nil
}

// Execute runs the test code against the implementation on the server. A
// failing test run is a result, not an error.
func (c *Client) Execute(ctx context.Context, req tdd.ExecutionRequest) (tdd.ExecutionResult, error) {
	if err := req.Validate(); err != nil {
		return tdd.ExecutionResult{}, fmt.Errorf("api: %w", err)
	}
	body, err := tddjson.MarshalExecutionRequest(req)
	if err != nil {
		return tdd.ExecutionResult{}, fmt.Errorf("api: %w", err)
	}
	resp, err := c.post(ctx, codePath, body)
	if err != nil {
		return tdd.ExecutionResult{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return tdd.ExecutionResult{}, fmt.Errorf("api: read execution result: %w: %w", tdd.ErrNetwork, err)
	}
	res, err := tddjson.UnmarshalExecutionResult(data)
	if err != nil {
		return tdd.ExecutionResult{}, fmt.Errorf("api: %w", err)
	}
	return res, nil
}

// post sends a JSON body and returns the response of a 2xx status. Any
// other outcome is an error wrapping tdd.ErrNetwork.
func (c *Client) post(ctx context.Context, path string, body []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("api: %w: %w", tdd.ErrNetwork, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, parseHTTPError(resp)
	}
	return resp, nil
}

// apiErrorResponse is the error body shape of the server framework.
type apiErrorResponse struct {
	Detail json.RawMessage `json:"detail"`
}

func parseHTTPError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return fmt.Errorf("api: HTTP %d (failed to read body: %v): %w", resp.StatusCode, err, tdd.ErrNetwork)
	}
	msg := strings.TrimSpace(string(body))
	var apiErr apiErrorResponse
	if json.Unmarshal(body, &apiErr) == nil && len(apiErr.Detail) > 0 {
		var detail string
		if json.Unmarshal(apiErr.Detail, &detail) == nil {
			msg = detail
		} else {
			msg = string(apiErr.Detail)
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("api: HTTP %d: %s: %w", resp.StatusCode, msg, tdd.ErrNetwork)
}
