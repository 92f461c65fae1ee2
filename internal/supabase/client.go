// Package supabase is a small client for the PostgREST API of a hosted Supabase project.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	maxResponseBytes  = 8 << 20
	maxErrorBodyBytes = 32 << 10
)

// Client talks to {URL}/rest/v1. It is safe for concurrent use and is meant to be
// created once per process.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type Config struct {
	URL        string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, errors.New("supabase URL is required")
	}

	if cfg.APIKey == "" {
		return nil, errors.New("supabase API key is required")
	}

	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid supabase URL %q", cfg.URL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}

		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: httpClient,
	}, nil
}

type accessTokenKey struct{}

// WithAccessToken makes requests issued with ctx act as the signed-in user instead of
// the anonymous API key, so row level security applies to that user.
func WithAccessToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, accessTokenKey{}, token)
}

// AccessToken returns the token set by WithAccessToken, or "".
func AccessToken(ctx context.Context) string {
	token, _ := ctx.Value(accessTokenKey{}).(string)
	return token
}

// Insert stores rows in table and returns the inserted rows as the server represents them.
func (c *Client) Insert(ctx context.Context, table string, rows []map[string]any) ([]map[string]any, error) {
	return c.From(table).Insert(ctx, rows)
}

// List returns the rows of table whose date column falls within [from, to]. A zero bound
// is left open.
func (c *Client) List(ctx context.Context, table string, from, to time.Time) ([]map[string]any, error) {
	q := c.From(table).Order("date", true)

	if !from.IsZero() {
		q = q.Gte("date", from.Format(time.DateOnly))
	}

	if !to.IsZero() {
		q = q.Lte("date", to.Format(time.DateOnly))
	}

	return q.Execute(ctx)
}

func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, url.PathEscape(table))
}

func (c *Client) setHeaders(ctx context.Context, req *http.Request) {
	bearer := c.apiKey
	if token := AccessToken(ctx); token != "" {
		bearer = token
	}

	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) do(req *http.Request) ([]map[string]any, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, newAPIError(resp.StatusCode, body)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if len(body) > maxResponseBytes {
		return nil, fmt.Errorf("response exceeds %d bytes", maxResponseBytes)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return rows, nil
}
