// Package tavily implements ports.Searcher over the Tavily search API.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/quentel/fitflow/pkg/domain"
	"github.com/quentel/fitflow/pkg/ports"
)

const defaultBaseURL = "https://api.tavily.com"

// DefaultMaxResults caps how many hits a query returns unless the caller
// asks for fewer.
const DefaultMaxResults = 3

// Client is a Tavily search client.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (for tests).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithAPIKey sets the key explicitly instead of reading the environment.
func WithAPIKey(key string) Option {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// New creates a Client. The API key is read from TAVILY_API_KEY unless
// WithAPIKey is used.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  os.Getenv("TAVILY_API_KEY"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search implements ports.Searcher. All failures wrap
// domain.ErrSearchProvider so callers can degrade gracefully.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]ports.SearchResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: missing API key", domain.ErrSearchProvider)
	}
	if limit <= 0 || limit > DefaultMaxResults {
		limit = DefaultMaxResults
	}

	body, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", domain.ErrSearchProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", domain.ErrSearchProvider, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", domain.ErrSearchProvider, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", domain.ErrSearchProvider, err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrSearchProvider, err)
	}

	results := make([]ports.SearchResult, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		results = append(results, ports.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Content: r.Content,
		})
		if len(results) == limit {
			break
		}
	}
	return results, nil
}
