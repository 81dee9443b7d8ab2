// Package api is the HTTP client for the generation service's read-only
// endpoints used by the CLI and the MCP tools.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"
)

// DefaultTimeout bounds every request unless WithTimeout says otherwise.
const DefaultTimeout = 30 * time.Second

const (
	pathCodegenList     = "/api/codegen/mcp/codegen-list"
	pathCodegenDetail   = "/api/codegen/mcp/codegen-detail"
	pathComponentList   = "/api/codegen/mcp/component-list"
	pathComponentDetail = "/api/codegen/mcp/component-detail"
	pathHealth          = "/api/health"
)

// Client talks to the generation service. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *expirable.LRU[string, []byte]
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithCache keeps up to size successful responses for ttl, keyed by URL.
// The MCP server uses it since tool calls repeat the same lookups.
func WithCache(size int, ttl time.Duration) Option {
	return func(c *Client) {
		if size > 0 {
			c.cache = expirable.NewLRU[string, []byte](size, nil, ttl)
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the service root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// CodegenList returns every codegen known to the service.
func (c *Client) CodegenList(ctx context.Context) (*CodegenListResponse, error) {
	var out CodegenListResponse
	if err := c.get(ctx, pathCodegenList, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CodegenDetail returns the rules and metadata of one codegen.
func (c *Client) CodegenDetail(ctx context.Context, codegenName string) (*CodegenDetail, error) {
	var out CodegenDetail
	q := url.Values{"codegenName": {codegenName}}
	if err := c.get(ctx, pathCodegenDetail, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ComponentList returns the private components available to a codegen.
func (c *Client) ComponentList(ctx context.Context, codegenName string) (*ComponentListResponse, error) {
	var out ComponentListResponse
	q := url.Values{"codegenName": {codegenName}}
	if err := c.get(ctx, pathComponentList, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ComponentDetail returns the docs of the named components of one library.
func (c *Client) ComponentDetail(ctx context.Context, codegenName, libraryName string, componentNames []string) (*ComponentDetailResponse, error) {
	var out ComponentDetailResponse
	q := url.Values{
		"codegenName":    {codegenName},
		"libraryName":    {libraryName},
		"componentNames": {strings.Join(componentNames, ",")},
	}
	if err := c.get(ctx, pathComponentDetail, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// HealthCheck reports whether the service answers its health endpoint.
func (c *Client) HealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+pathHealth, nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("health check failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	if c.cache != nil {
		if body, ok := c.cache.Get(u); ok {
			c.log.Debug("api cache hit", zap.String("url", u))
			return decode(body, out)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return requestError(err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug("api request failed", zap.String("url", u), zap.Error(err))
		return networkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}
	c.log.Debug("api request",
		zap.String("url", u),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp.StatusCode, failureReason(resp.StatusCode, body))
	}
	if err := decode(body, out); err != nil {
		return err
	}
	if c.cache != nil {
		c.cache.Add(u, body)
	}
	return nil
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return requestError(fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// failureReason prefers the service's {"error": "..."} body over the status
// text.
func failureReason(status int, body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("status %d", status)
}

// AsError returns the *Error in err's chain, if any.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
