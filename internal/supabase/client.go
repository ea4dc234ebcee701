// Package supabase is a thin REST client for the hosted data service backing
// the storefront: table CRUD, password auth, file storage and edge functions.
// Every table named here (Products, Reviews, Orders, OrderItems, profiles) is
// owned by the remote service; the client never caches rows.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Config struct {
	ProjectURL string
	APIKey     string
	// JWTSecret verifies user access tokens locally. Optional for anonymous
	// read paths.
	JWTSecret string
	// Timeout applies per request; zero means 30s.
	Timeout time.Duration
}

type Client struct {
	cfg     Config
	restURL string
	authURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[apiResult]
}

type apiResult struct {
	status int
	body   []byte
}

func New(cfg Config) (*Client, error) {
	if cfg.ProjectURL == "" {
		return nil, fmt.Errorf("supabase: project URL is required")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("supabase: API key is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	base := strings.TrimRight(cfg.ProjectURL, "/")

	breaker := gobreaker.NewCircuitBreaker[apiResult](gobreaker.Settings{
		Name:     "supabase",
		Interval: time.Minute,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	})

	return &Client{
		cfg:     cfg,
		restURL: base + "/rest/v1",
		authURL: base + "/auth/v1",
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: breaker,
	}, nil
}

// Select fetches rows from a table. query is a PostgREST query string, already
// encoded (e.g. "product_id=eq.42&order=created_at.desc"). dest receives the
// decoded JSON array.
func (c *Client) Select(ctx context.Context, table, query string, dest any) error {
	u := c.tableURL(table)
	if query != "" {
		u += "?" + query
	}
	return c.do(ctx, http.MethodGet, u, nil, nil, dest)
}

// Insert writes one row (or a slice of rows) into a table. When dest is
// non-nil the inserted representation is requested back and decoded into it.
func (c *Client) Insert(ctx context.Context, table string, body, dest any) error {
	headers := map[string]string{}
	if dest != nil {
		headers["Prefer"] = "return=representation"
	}
	return c.do(ctx, http.MethodPost, c.tableURL(table), headers, body, dest)
}

// Update patches rows matched by query.
func (c *Client) Update(ctx context.Context, table, query string, body, dest any) error {
	u := c.tableURL(table)
	if query != "" {
		u += "?" + query
	}
	headers := map[string]string{}
	if dest != nil {
		headers["Prefer"] = "return=representation"
	}
	return c.do(ctx, http.MethodPatch, u, headers, body, dest)
}

// Delete removes rows matched by query. An unfiltered delete is refused.
func (c *Client) Delete(ctx context.Context, table, query string) error {
	if query == "" {
		return fmt.Errorf("supabase: refusing delete without a filter on %s", table)
	}
	return c.do(ctx, http.MethodDelete, c.tableURL(table)+"?"+query, nil, nil, nil)
}

func (c *Client) tableURL(table string) string {
	return c.restURL + "/" + url.PathEscape(table)
}

func (c *Client) do(ctx context.Context, method, rawURL string, headers map[string]string, body, dest any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("supabase: marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("supabase: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	c.authorize(req)

	res, err := c.roundTrip(req)
	if err != nil {
		return err
	}

	if res.status < 200 || res.status > 299 {
		return decodeAPIError(res.status, res.body)
	}
	if dest != nil && len(res.body) > 0 {
		if err := json.Unmarshal(res.body, dest); err != nil {
			return fmt.Errorf("supabase: decode response: %w", err)
		}
	}
	return nil
}

// roundTrip runs the request through the circuit breaker. Only transport
// failures and 5xx responses count against the breaker; 4xx responses are
// caller errors and come back as results.
func (c *Client) roundTrip(req *http.Request) (apiResult, error) {
	res, err := c.breaker.Execute(func() (apiResult, error) {
		httpRes, err := c.http.Do(req)
		if err != nil {
			return apiResult{}, fmt.Errorf("supabase: request failed: %w", err)
		}
		defer httpRes.Body.Close()

		payload, err := io.ReadAll(io.LimitReader(httpRes.Body, 10<<20))
		if err != nil {
			return apiResult{}, fmt.Errorf("supabase: read response: %w", err)
		}
		out := apiResult{status: httpRes.StatusCode, body: payload}
		if httpRes.StatusCode >= 500 {
			return out, decodeAPIError(httpRes.StatusCode, payload)
		}
		return out, nil
	})
	if err != nil {
		return apiResult{}, err
	}
	return res, nil
}

// authorize attaches the project key. A user access token in the context
// overrides the key as bearer so row-level security applies to that user.
func (c *Client) authorize(req *http.Request) {
	req.Header.Set("apikey", c.cfg.APIKey)
	token := AccessTokenFromContext(req.Context())
	if token == "" {
		token = c.cfg.APIKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
}

func decodeAPIError(status int, body []byte) error {
	apiErr := &APIError{StatusCode: status}
	if len(body) > 0 {
		if err := json.Unmarshal(body, apiErr); err != nil {
			apiErr.Message = strings.TrimSpace(string(body))
		}
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}
