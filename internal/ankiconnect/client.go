// Package ankiconnect talks to a running Anki through the AnkiConnect add-on.
package ankiconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultURL is where AnkiConnect listens by default.
	DefaultURL = "http://localhost:8765"

	// APIVersion is the AnkiConnect protocol version sent with every request.
	APIVersion = 6

	defaultTimeout = 30 * time.Second
)

// Client is the AnkiConnect API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new AnkiConnect client. An empty URL selects DefaultURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

// BaseURL returns the AnkiConnect endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Request is the JSON document sent to AnkiConnect.
type Request struct {
	Action  string `json:"action"`
	Params  any    `json:"params"`
	Version int    `json:"version"`
}

// NewRequest creates a request for the given action. Nil params are sent as an empty object.
func NewRequest(action string, params any) Request {
	if params == nil {
		params = map[string]any{}
	}
	return Request{
		Action:  action,
		Params:  params,
		Version: APIVersion,
	}
}

// Envelope is the JSON document returned by AnkiConnect.
type Envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

// do executes a request and returns the response body.
func (c *Client) do(ctx context.Context, request Request) ([]byte, error) {
	jsonBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	return respBody, nil
}

// Invoke calls an action and decodes its result into result (ignored when nil).
//
// The response must contain exactly the two fields "result" and "error".
// Any failure is returned as an *ExternalServiceError.
func (c *Client) Invoke(ctx context.Context, action string, params any, result any) error {
	body, err := c.do(ctx, NewRequest(action, params))
	if err != nil {
		return &ExternalServiceError{Action: action, Err: err}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return &ExternalServiceError{Action: action, Err: fmt.Errorf("malformed response: %w", err)}
	}
	if len(fields) != 2 {
		return &ExternalServiceError{Action: action, Err: ErrUnexpectedFieldCount}
	}
	rawError, ok := fields["error"]
	if !ok {
		return &ExternalServiceError{Action: action, Err: ErrMissingErrorField}
	}
	rawResult, ok := fields["result"]
	if !ok {
		return &ExternalServiceError{Action: action, Err: ErrMissingResultField}
	}

	var message *string
	if err := json.Unmarshal(rawError, &message); err != nil {
		return &ExternalServiceError{Action: action, Err: fmt.Errorf("malformed error field: %w", err)}
	}
	if message != nil {
		return &ExternalServiceError{Action: action, Message: *message}
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(rawResult, result); err != nil {
		return &ExternalServiceError{Action: action, Err: fmt.Errorf("malformed result: %w", err)}
	}
	return nil
}

// InvokeRaw calls an action and returns the decoded envelope without checking it.
// Only transport and decoding failures are reported.
func (c *Client) InvokeRaw(ctx context.Context, action string, params any) (*Envelope, error) {
	body, err := c.do(ctx, NewRequest(action, params))
	if err != nil {
		return nil, &ExternalServiceError{Action: action, Err: err}
	}
	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &ExternalServiceError{Action: action, Err: fmt.Errorf("malformed response: %w", err)}
	}
	return &envelope, nil
}
