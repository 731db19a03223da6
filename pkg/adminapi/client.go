// Package adminapi is a client for the ProStore admin HTTP API. Every request
// carries single-use credentials derived from the configured user id and
// private token, so a Client is safe to share across goroutines.
package adminapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 15 * time.Second

// Config holds what the client needs to reach one ProStore deployment.
type Config struct {
	// URL is the deployment root, with or without a trailing slash.
	URL string
	// UserID identifies the admin account.
	UserID string
	// PrivateToken is the account secret used to sign each request.
	PrivateToken string
	// Timeout bounds each request end to end. Zero means defaultTimeout.
	Timeout time.Duration
}

// Client talks to a single ProStore deployment.
type Client struct {
	baseURL      string
	userID       string
	privateToken string
	http         *resty.Client
}

// New validates cfg and builds a Client. Trailing slashes on cfg.URL are
// dropped so BuildURL never produces "//api".
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.URL), "/")
	if base == "" {
		return nil, fmt.Errorf("admin api client: url is empty")
	}
	if cfg.UserID == "" {
		return nil, fmt.Errorf("admin api client: user id is empty")
	}
	if cfg.PrivateToken == "" {
		return nil, fmt.Errorf("admin api client: private token is empty")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:      base,
		userID:       cfg.UserID,
		privateToken: cfg.PrivateToken,
		http:         resty.New().SetTimeout(timeout),
	}, nil
}

// BuildURL joins an endpoint onto the deployment's /api prefix. A leading
// slash on endpoint is tolerated.
func (c *Client) BuildURL(endpoint string) string {
	return c.baseURL + "/api/" + strings.TrimPrefix(endpoint, "/")
}

// HTTPClient exposes the underlying resty client for transport tuning.
func (c *Client) HTTPClient() *resty.Client {
	return c.http
}

// RequestOptions carries the optional parts of a request. The zero value and
// a nil pointer behave the same.
type RequestOptions struct {
	// Query is appended to the request URL.
	Query url.Values
	// Body is JSON-encoded as the request body when non-nil.
	Body any
	// Headers are set after the credential headers and may override them.
	Headers map[string]string
}

// Get issues a GET to endpoint and decodes a successful JSON response into
// out when out is non-nil.
func (c *Client) Get(ctx context.Context, endpoint string, opts *RequestOptions, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, opts, out)
}

// Post issues a POST to endpoint.
func (c *Client) Post(ctx context.Context, endpoint string, opts *RequestOptions, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, opts, out)
}

// Put issues a PUT to endpoint.
func (c *Client) Put(ctx context.Context, endpoint string, opts *RequestOptions, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, opts, out)
}

// Delete issues a DELETE to endpoint.
func (c *Client) Delete(ctx context.Context, endpoint string, opts *RequestOptions, out any) error {
	return c.do(ctx, http.MethodDelete, endpoint, opts, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, opts *RequestOptions, out any) error {
	tmpl, err := c.PrepareRequest(ctx, method, endpoint)
	if err != nil {
		return err
	}

	if opts != nil {
		req := tmpl.Request()
		if len(opts.Query) > 0 {
			req.SetQueryParamsFromValues(opts.Query)
		}
		if opts.Body != nil {
			req.SetHeader("Content-Type", "application/json")
			req.SetBody(opts.Body)
		}
		if len(opts.Headers) > 0 {
			req.SetHeaders(opts.Headers)
		}
	}

	resp, err := tmpl.Send()
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

// RequestTemplate is a prepared request: resolved URL, normalized method and
// freshly derived credentials. Callers may adjust the underlying request
// before Send.
type RequestTemplate struct {
	Method string
	URL    string
	Auth   AuthHeaders

	req *resty.Request
}

// Request returns the underlying resty request for further customization.
func (t *RequestTemplate) Request() *resty.Request {
	return t.req
}

// Send executes the prepared request. Transport failures are wrapped with %w
// so callers can still match the cause with errors.Is.
func (t *RequestTemplate) Send() (*resty.Response, error) {
	resp, err := t.req.Execute(t.Method, t.URL)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	return resp, nil
}

// PrepareRequest derives fresh credentials and builds a request template for
// method and endpoint. Each call draws a new nonce.
func (c *Client) PrepareRequest(ctx context.Context, method, endpoint string) (*RequestTemplate, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, fmt.Errorf("prepare request: endpoint is empty")
	}
	if strings.TrimSpace(method) == "" {
		return nil, fmt.Errorf("prepare request: method is empty")
	}

	auth, err := DeriveHeaders(c.userID, c.privateToken)
	if err != nil {
		return nil, err
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeaders(auth.Map()).
		SetHeader("Accept", "application/json")

	return &RequestTemplate{
		Method: strings.ToUpper(method),
		URL:    c.BuildURL(endpoint),
		Auth:   auth,
		req:    req,
	}, nil
}

// UploadFile posts r as a multipart file field to endpoint. filename is the
// name reported to the server, not a local path.
func (c *Client) UploadFile(ctx context.Context, endpoint, field, filename string, r io.Reader, out any) error {
	if field == "" {
		return fmt.Errorf("upload file: field is empty")
	}
	if filename == "" {
		return fmt.Errorf("upload file: filename is empty")
	}

	tmpl, err := c.PrepareRequest(ctx, http.MethodPost, endpoint)
	if err != nil {
		return err
	}
	tmpl.Request().SetFileReader(field, filename, r)

	resp, err := tmpl.Send()
	if err != nil {
		return err
	}
	return decodeResponse(resp, out)
}

// decodeResponse maps status >= 400 to a StatusError and otherwise decodes
// the JSON body into out when requested.
func decodeResponse(resp *resty.Response, out any) error {
	if resp.IsError() {
		return &StatusError{
			Status:  resp.StatusCode(),
			Snippet: strings.TrimSpace(bodySnippet(resp.Body())),
		}
	}
	if out == nil {
		return nil
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
