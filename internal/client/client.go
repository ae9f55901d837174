// Package client is the HTTP client the scheduled jobs use to reach the CRM API.
package client

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

	"crm/internal/domain"
	"crm/internal/service"
	"crm/internal/transport"

	"github.com/sethvargo/go-retry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 3
	DefaultBackoff = 500 * time.Millisecond
)

// StatusError is returned for responses outside the 2xx range
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client calls the CRM API. Each attempt has its own timeout; network
// failures and 5xx responses are retried with a constant backoff.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	retries    uint64
	backoff    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-attempt timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetries sets how many times a failed attempt is repeated
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = uint64(n)
		}
	}
}

// WithBackoff sets the pause between attempts
func WithBackoff(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.backoff = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// New creates a Client for the API rooted at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(&http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			}),
		},
		timeout: DefaultTimeout,
		retries: DefaultRetries,
		backoff: DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OrderQuery selects orders by order date. Zero values are omitted.
type OrderQuery struct {
	OrderDateGte string
	OrderDateLte string
	OrderBy      string
}

func (q OrderQuery) values() url.Values {
	v := url.Values{}
	if q.OrderDateGte != "" {
		v.Set("orderDateGte", q.OrderDateGte)
	}
	if q.OrderDateLte != "" {
		v.Set("orderDateLte", q.OrderDateLte)
	}
	if q.OrderBy != "" {
		v.Set("orderBy", q.OrderBy)
	}
	return v
}

// Hello returns the API liveness greeting
func (c *Client) Hello(ctx context.Context) (string, error) {
	var resp transport.HelloResponse
	if err := c.do(ctx, http.MethodGet, "/api/hello", nil, &resp); err != nil {
		return "", err
	}
	return resp.Hello, nil
}

// UpdateLowStockProducts triggers the restock sweep
func (c *Client) UpdateLowStockProducts(ctx context.Context) (*service.RestockResult, error) {
	var result service.RestockResult
	if err := c.do(ctx, http.MethodPost, "/api/products/restock", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListOrders returns the orders matching q
func (c *Client) ListOrders(ctx context.Context, q OrderQuery) ([]*domain.Order, error) {
	var resp transport.OrdersResponse
	if err := c.do(ctx, http.MethodGet, "/api/orders", q.values(), &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

// ListCustomers returns every customer
func (c *Client) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	var resp transport.CustomersResponse
	if err := c.do(ctx, http.MethodGet, "/api/customers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Customers, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, out interface{}) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	backoff := retry.WithMaxRetries(c.retries, retry.NewConstant(c.backoff))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := c.attempt(ctx, method, target, out)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return err
		}

		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			if statusErr.StatusCode >= http.StatusInternalServerError {
				return retry.RetryableError(err)
			}
			return err
		}

		var decodeErr *decodeError
		if errors.As(err, &decodeErr) {
			return err
		}
		return retry.RetryableError(err)
	})
}

type decodeError struct {
	err error
}

func (e *decodeError) Error() string { return "failed to decode response: " + e.err.Error() }
func (e *decodeError) Unwrap() error { return e.err }

func (c *Client) attempt(ctx context.Context, method, target string, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &decodeError{err: err}
	}
	return nil
}
