// Package client calls the bridgebase HTTP API: health, inspection,
// benchmark runs, and run history.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client calls a bridgebase server.
type Client struct {
	baseURL string
	hc      *http.Client
}

// New creates a client for the given base URL (e.g. "http://localhost:5000").
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		hc:      &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
	// Backend names the store that failed, when the server reports one.
	Backend string
}

func (e *APIError) Error() string {
	if e.Backend != "" {
		return fmt.Sprintf("http %d: %s (%s backend)", e.Status, e.Message, e.Backend)
	}
	return fmt.Sprintf("http %d: %s", e.Status, e.Message)
}

// Result mirrors the speedtest response.
type Result struct {
	TotalParallelSeconds float64  `json:"total_parallel_seconds"`
	DocumentStoreSeconds float64  `json:"document_store_seconds"`
	DocumentStoreRows    int      `json:"document_store_rows"`
	RelationalSeconds    float64  `json:"relational_seconds"`
	RelationalRows       int      `json:"relational_rows"`
	DroppedConditions    []string `json:"dropped_conditions,omitempty"`
}

// Inspection is a sample of every collection in the document store.
type Inspection struct {
	Collections []string                    `json:"collections"`
	Data        map[string][]map[string]any `json:"data"`
}

// HistoryEntry is one recorded benchmark run.
type HistoryEntry struct {
	ID                   int64   `json:"id"`
	Query                string  `json:"query"`
	TotalParallelSeconds float64 `json:"total_parallel_seconds"`
	DocumentStoreSeconds float64 `json:"document_store_seconds"`
	DocumentStoreRows    int     `json:"document_store_rows"`
	RelationalSeconds    float64 `json:"relational_seconds"`
	RelationalRows       int     `json:"relational_rows"`
	CreatedAt            string  `json:"created_at"`
}

func (c *Client) do(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, body)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

func apiError(status int, body []byte) *APIError {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Backend string `json:"backend"`
	}
	apiErr := &APIError{Status: status, Message: strings.TrimSpace(string(body))}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			apiErr.Message = payload.Error
		} else if payload.Message != "" {
			apiErr.Message = payload.Message
		}
		apiErr.Backend = payload.Backend
	}
	return apiErr
}

// Health returns nil when the server and both backends are reachable.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, "/health", nil, nil)
}

// SpeedTest runs sql against both backends and returns the timing comparison.
func (c *Client) SpeedTest(ctx context.Context, sql string) (*Result, error) {
	q := url.Values{}
	q.Set("query", sql)
	var res Result
	if err := c.do(ctx, "/speedtest", q, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Inspect returns a capped sample of documents from every collection.
func (c *Client) Inspect(ctx context.Context) (*Inspection, error) {
	var ins Inspection
	if err := c.do(ctx, "/inspect", nil, &ins); err != nil {
		return nil, err
	}
	return &ins, nil
}

// History returns up to limit recorded runs, newest first. A limit of 0
// uses the server default.
func (c *Client) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	var payload struct {
		Runs []HistoryEntry `json:"runs"`
	}
	if err := c.do(ctx, "/history", q, &payload); err != nil {
		return nil, err
	}
	return payload.Runs, nil
}
