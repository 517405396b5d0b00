// Package http provides the authenticated HTTP wrapper used by the fl33t
// resource clients. Every request is attempted exactly once; the service's
// status-code contract is mapped here for the statuses whose meaning does
// not depend on the endpoint (401/403 and 5xx), while 400/404/409 are left
// for the calling operation to interpret in its own domain context.
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/fl33t/fl33t-go/internal/constants"
	"github.com/fl33t/fl33t-go/pkg/fl33t"
)

// Client is an HTTP client bound to a base URL and a bearer session token.
type Client struct {
	baseURL    string
	token      string
	httpClient *nethttp.Client
	logger     fl33t.Logger
	debug      bool
	userAgent  string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the structured logger used for debug logging.
func WithLogger(logger fl33t.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response logging through the logger.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *nethttp.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a new client. The token may be empty, in which case no
// Authorization header is sent; callers wanting unauthenticated requests
// (e.g. pre-signed uploads) should use Upload instead.
func NewClient(baseURL, token string, opts ...Option) *Client {
	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &nethttp.Client{Timeout: constants.DefaultHTTPTimeout},
		logger:     fl33t.NoopLogger{},
		userAgent:  constants.DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Request represents an HTTP request to the fl33t API.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response represents an HTTP response from the fl33t API.
type Response struct {
	StatusCode int
	Headers    nethttp.Header
	Body       []byte
}

// Do executes a single request. The bearer token and JSON content headers
// are injected unless the request explicitly sets them. 401/403 responses
// return an UnprivilegedTokenError and >=500 an APIError, each alongside
// the raw response; every other status is returned for the caller to
// interpret. There are no retries.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader

	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}

		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	// Caller-supplied headers take precedence.
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    fullURL,
		})
	}

	switch {
	case resp.StatusCode == nethttp.StatusUnauthorized || resp.StatusCode == nethttp.StatusForbidden:
		return resp, &fl33t.UnprivilegedTokenError{URL: fullURL}
	case resp.StatusCode >= nethttp.StatusInternalServerError:
		return resp, &fl33t.APIError{
			URL:        fullURL,
			StatusCode: resp.StatusCode,
			Message:    string(body),
		}
	}

	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodGet, Path: path, Query: query})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPost, Path: path, Body: body})
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodPut, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: nethttp.MethodDelete, Path: path})
}

// Upload PUTs raw bytes to a pre-signed URL. The URL is self-authenticating,
// so no bearer token or API headers are sent; the Content-Disposition header
// is what sets the stored filename. Success is strictly HTTP 200.
func (c *Client) Upload(ctx context.Context, uploadURL, filename string, body io.Reader) error {
	httpReq, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPut, uploadURL, body)
	if err != nil {
		return fmt.Errorf("building upload request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/octet-stream")
	httpReq.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("uploading build file: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode != nethttp.StatusOK {
		return fmt.Errorf("%w: status %d", fl33t.ErrUploadFailed, httpResp.StatusCode)
	}

	return nil
}
