// Package budget fetches topic→minutes mappings from the remote
// time-tracking service. The service is advisory: any failure to reach
// it (or any non-200 response) degrades to an empty mapping instead of
// surfacing an error, so the planner keeps working without budgets.
package budget

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultTimeout bounds a single fetch so a dead tracker cannot stall
// a page load.
const DefaultTimeout = 10 * time.Second

// Client is a thin HTTP client for the time-tracking service's read
// endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the time-tracking service rooted at
// baseURL. A non-positive timeout falls back to DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// LearningTimes returns the minutes already logged per topic.
func (c *Client) LearningTimes(ctx context.Context) map[string]int {
	return c.fetch(ctx, "/api/get/learning_times")
}

// RemainingTimes returns the budget minutes left per topic.
func (c *Client) RemainingTimes(ctx context.Context) map[string]int {
	return c.fetch(ctx, "/api/get/remaining_times")
}

// TargetTimes returns the target minutes per topic.
func (c *Client) TargetTimes(ctx context.Context) map[string]int {
	return c.fetch(ctx, "/api/get/target_times")
}

// fetch performs a GET and decodes a JSON object of string keys to
// numeric minutes. Every failure path returns an empty map.
func (c *Client) fetch(ctx context.Context, path string) map[string]int {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		c.logger.Warn("building budget request", "path", path, "error", err)
		return map[string]int{}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("budget service unreachable", "path", path, "error", err)
		return map[string]int{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("budget service returned non-200",
			"path", path, "status", resp.StatusCode)
		return map[string]int{}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("reading budget response", "path", path, "error", err)
		return map[string]int{}
	}

	// Values can arrive fractional; minutes are truncated.
	var raw map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		c.logger.Warn("decoding budget response",
			"path", path, "error", fmt.Errorf("unmarshaling: %w", err))
		return map[string]int{}
	}

	times := make(map[string]int, len(raw))
	for topic, minutes := range raw {
		times[topic] = int(minutes)
	}
	return times
}
