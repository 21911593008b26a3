// Package api implements the HTTP transport for the payments API.
//
// It owns request construction and response parsing only: a Request
// descriptor goes in, a parsed attribute map (or a typed transport
// error) comes out. Classification into the public error taxonomy
// happens in the root package.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the HTTP client timeout used when none is configured.
const DefaultTimeout = 30 * time.Second

// Client is the HTTP API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures the API client.
type Option func(*Client)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a new API client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: "https://api.stripe.com/v1",
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetHTTPClient sets a custom HTTP client.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Request describes one API call. Body holds form-encoded parameters
// for mutating methods; Query holds URL parameters for GET requests.
type Request struct {
	Method  string
	Path    string
	Key     string // bearer key resolved by the caller
	Account string // connected-account routing header, optional
	Body    string // form-encoded body, optional
	Query   string // form-encoded query string, optional
}

// Do issues the request and parses the JSON response into a string-keyed
// attribute map. Non-2xx responses yield an *Error carrying the server's
// structured error payload; failures to obtain any response yield a
// *NetworkError. A 2xx response whose body is not a JSON object is
// reported as an *Error with the response status, since the caller can
// do nothing useful with it.
func (c *Client) Do(ctx context.Context, req *Request) (map[string]any, error) {
	fullURL := c.baseURL + req.Path
	if req.Query != "" {
		fullURL += "?" + req.Query
	}

	var bodyReader io.Reader
	if req.Body != "" {
		bodyReader = strings.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+req.Key)
	httpReq.Header.Set("Accept", "application/json")
	if req.Body != "" {
		httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if req.Account != "" {
		httpReq.Header.Set("Stripe-Account", req.Account)
	}
	if req.Method != http.MethodGet {
		// One key per invocation; the server suppresses duplicates if
		// the same request is ever replayed by an outer layer.
		httpReq.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &NetworkError{Err: err, URL: fullURL}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Err: err, URL: fullURL}
	}

	if resp.StatusCode >= 400 {
		return nil, parseErrorResponse(resp.StatusCode, data)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &Error{
			StatusCode: resp.StatusCode,
			Message:    "malformed response body: " + err.Error(),
		}
	}

	return m, nil
}

// parseErrorResponse extracts the API's structured error payload:
//
//	{"error": {"type": ..., "message": ..., "param": ..., "code": ...}}
//
// Bodies that do not match fall back to the raw text as the message.
func parseErrorResponse(statusCode int, body []byte) error {
	var errResp struct {
		Error struct {
			Type    string `json:"type"`
			Message string `json:"message"`
			Param   string `json:"param"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &errResp); err == nil && (errResp.Error.Type != "" || errResp.Error.Message != "") {
		return &Error{
			StatusCode: statusCode,
			Type:       errResp.Error.Type,
			Message:    errResp.Error.Message,
			Param:      errResp.Error.Param,
			Code:       errResp.Error.Code,
		}
	}

	return &Error{
		StatusCode: statusCode,
		Message:    string(body),
	}
}

// PathEscape escapes a path segment such as a resource id.
func PathEscape(s string) string {
	return url.PathEscape(s)
}
