// Package rest implements the Resource Store over a PostgREST (Supabase) HTTP API.
package rest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/segmentio/encoding/json"

	"library-borrowing/internal/domain/errs"
	"library-borrowing/internal/domain/store"
)

const (
	DefaultTimeout = 30 * time.Second
	maxBodyBytes   = 8 << 20
)

type Config struct {
	BaseURL string
	// AnonKey signs reads; ServiceKey signs writes and falls back to AnonKey.
	AnonKey    string
	ServiceKey string
	Timeout    time.Duration
}

// Client is one shared HTTP client for every table.
type Client struct {
	base    string
	anon    string
	service string
	hc      *http.Client
	log     *slog.Logger
}

func NewClient(cfg Config, l *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	svc := cfg.ServiceKey
	if svc == "" {
		svc = cfg.AnonKey
	}
	return &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/") + "/rest/v1/",
		anon:    cfg.AnonKey,
		service: svc,
		hc:      &http.Client{Timeout: cfg.Timeout},
		log:     l,
	}
}

// NewRepos wires every repository to the same client.
func NewRepos(c *Client) store.Repos {
	return store.Repos{
		Resources:  &ResourceRepo{c: c},
		Users:      &UserRepo{c: c},
		Borrowings: &BorrowingRepo{c: c},
	}
}

// get issues GET /rest/v1/{table}?q and decodes the JSON array into out.
func (c *Client) get(ctx context.Context, table string, q url.Values, out any) error {
	return c.do(ctx, http.MethodGet, table, q, nil, out)
}

func (c *Client) do(ctx context.Context, method, table string, q url.Values, body, out any) error {
	u := c.base + table
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", table, err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rd)
	if err != nil {
		return &errs.StoreError{Message: "build request: " + err.Error(), Err: err}
	}
	key := c.anon
	if method != http.MethodGet {
		key = c.service
		req.Header.Set("Prefer", "return=representation")
	}
	req.Header.Set("apikey", key)
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Warn("store request failed", "method", method, "table", table, "err", err)
		return &errs.StoreError{Message: method + " " + table + ": " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return &errs.StoreError{StatusCode: resp.StatusCode, Message: "read body: " + err.Error(), Err: err}
	}
	c.log.Debug("store request", "method", method, "table", table, "status", resp.StatusCode,
		"elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errs.StoreError{StatusCode: resp.StatusCode, Message: errorMessage(resp.StatusCode, raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &errs.StoreError{StatusCode: resp.StatusCode, Message: "decode " + table + ": " + err.Error(), Err: err}
	}
	return nil
}

type apiError struct {
	Message string `json:"message"`
	Hint    string `json:"hint"`
	Details string `json:"details"`
}

// errorMessage prefers message, then hint, then details, then the status text.
func errorMessage(code int, body []byte) string {
	var e apiError
	if json.Unmarshal(body, &e) == nil {
		for _, s := range []string{e.Message, e.Hint, e.Details} {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	}
	return http.StatusText(code)
}

// query helpers for PostgREST filter syntax

func eq(v any) string { return fmt.Sprintf("eq.%v", v) }

func in[T any](vs []T) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = fmt.Sprint(v)
	}
	return "in.(" + strings.Join(parts, ",") + ")"
}

// ilikeContains builds a case-insensitive substring match. PostgREST wildcards
// in the user's text are dropped so they match literally nothing extra.
func ilikeContains(s string) string {
	s = strings.NewReplacer("*", "", "%", "").Replace(strings.TrimSpace(s))
	return "ilike.*" + s + "*"
}
