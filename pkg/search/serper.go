// Package search wraps the Serper web-search API for the voice agents.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Rishabh510/ai-concierge/pkg/circuitbreaker"
	"github.com/Rishabh510/ai-concierge/pkg/metrics"
)

// Result is a single organic search result.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Client queries the Serper search API.
type Client struct {
	apiKey  string
	baseURL string
	breaker *circuitbreaker.CircuitBreaker
	http    *http.Client
	logger  *zap.Logger
}

// NewClient creates a Serper client. An empty API key yields an
// unavailable client; callers get a structured error instead of a panic.
func NewClient(apiKey string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: "https://google.serper.dev",
		breaker: circuitbreaker.New(circuitbreaker.DefaultConfig()),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// IsAvailable checks if the search client is configured
func (c *Client) IsAvailable() bool {
	return c.apiKey != ""
}

// Search runs a web search and returns up to numResults organic results.
func (c *Client) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	if !c.IsAvailable() {
		return nil, fmt.Errorf("search API key is not configured")
	}

	if numResults <= 0 {
		numResults = 5
	}
	if numResults > 10 {
		numResults = 10
	}

	var results []Result
	start := time.Now()
	err := c.breaker.Execute(ctx, func() error {
		var err error
		results, err = c.search(ctx, query, numResults)
		return err
	})
	metrics.RecordServiceCall("serper", err == nil, time.Since(start))
	c.reportBreakerState()
	if err != nil {
		return nil, err
	}

	return results, nil
}

func (c *Client) reportBreakerState() {
	stats := c.breaker.GetStats()
	metrics.UpdateCircuitBreaker("serper", stats.State.String(), int64(stats.Failures))
}

func (c *Client) search(ctx context.Context, query string, numResults int) ([]Result, error) {
	payload := map[string]interface{}{
		"q":   query,
		"gl":  "in",
		"hl":  "en",
		"num": numResults,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/search", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("X-API-KEY", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("serper API error: %s (status %d)", string(body), resp.StatusCode)
	}

	var searchResp struct {
		Organic []Result `json:"organic"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(searchResp.Organic) > numResults {
		searchResp.Organic = searchResp.Organic[:numResults]
	}

	return searchResp.Organic, nil
}

// FormatForSpeech renders search results as a narration source for the
// conversational policy.
func FormatForSpeech(results []Result) string {
	if len(results) == 0 {
		return "I couldn't find any information for that query."
	}

	var b strings.Builder
	b.WriteString("Here are the top results I found:\n\n")
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s\n%s\nSource: %s\n\n", i+1, r.Title, r.Snippet, r.Link)
	}
	return strings.TrimRight(b.String(), "\n")
}
