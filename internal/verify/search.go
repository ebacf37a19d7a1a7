// Package verify checks extracted claims and quoted spans against external
// sources: a metasearch backend for claims, direct page fetches for quotes.
// Nothing in this package raises past its boundary; search and network
// failures degrade to unverified/unverifiable outcomes with a diagnostic
// detail string.
package verify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/snedea/veracity/internal/model"
	"github.com/snedea/veracity/internal/util"
)

// SearchResult is one hit from the search backend.
type SearchResult struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	URL     string `json:"url"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchClient queries a SearXNG-style backend: GET /search?q=...&format=json
// returning {results: [{title, content, url}]}.
type SearchClient struct {
	baseURL    string
	httpClient *http.Client
	maxResults int
}

// NewSearchClient creates a search client from configuration.
func NewSearchClient(cfg model.SearchConfig, httpCfg model.HTTPConfig) *SearchClient {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 8
	}

	return &SearchClient{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
		maxResults: maxResults,
	}
}

// Search runs one query and returns up to maxResults hits.
func (c *SearchClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("search backend URL not configured")
	}

	searchURL := fmt.Sprintf("%s/search?q=%s&format=json", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search backend returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2_000_000))
	if err != nil {
		return nil, fmt.Errorf("read search response: %w", err)
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	results := parsed.Results
	if len(results) > c.maxResults {
		results = results[:c.maxResults]
	}
	return results, nil
}

// BaseURL exposes the backend address for rate-limiter keying.
func (c *SearchClient) BaseURL() string {
	return c.baseURL
}
