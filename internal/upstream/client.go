package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/opsdeck/opsdeck/internal/domain"
)

// Client is an HTTP client for the upstream monitoring backend. It owns no
// wire format beyond the backend's JSON collections and keeps no state
// between calls.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Entities fetches the current entity list.
func (c *Client) Entities(ctx context.Context) ([]domain.Entity, error) {
	var out []domain.Entity
	if err := c.getJSON(ctx, "/api/entities", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Relations fetches the current relation list.
func (c *Client) Relations(ctx context.Context) ([]domain.Relation, error) {
	var out []domain.Relation
	if err := c.getJSON(ctx, "/api/relations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Logs fetches up to limit raw log records.
func (c *Client) Logs(ctx context.Context, limit int) ([]domain.RawLogRecord, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	var out []domain.RawLogRecord
	if err := c.getJSON(ctx, "/api/logs", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stats fetches the aggregate log statistics.
func (c *Client) Stats(ctx context.Context) (domain.LogStats, error) {
	var out domain.LogStats
	if err := c.getJSON(ctx, "/api/logs/stats", nil, &out); err != nil {
		return domain.LogStats{}, err
	}
	return out, nil
}

// Health fetches the optional per-service health summaries.
func (c *Client) Health(ctx context.Context) ([]domain.ServiceHealth, error) {
	var out []domain.ServiceHealth
	if err := c.getJSON(ctx, "/api/health", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
