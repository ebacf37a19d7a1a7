package verify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/snedea/veracity/internal/model"
	"github.com/snedea/veracity/internal/util"
)

// QuoteChecker verifies that a quoted span actually appears on its cited
// source page. Fetches are robots.txt-gated, proxy-aware, and size capped;
// every failure degrades to unverifiable with a detail string.
type QuoteChecker struct {
	httpClient *http.Client
	robots     *util.RobotsChecker
	userAgent  string
	maxBytes   int64
}

// NewQuoteChecker creates a quote checker from HTTP configuration.
func NewQuoteChecker(cfg model.HTTPConfig) *QuoteChecker {
	maxBytes := cfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}

	return &QuoteChecker{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		robots:    util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		userAgent: cfg.UserAgent,
		maxBytes:  maxBytes,
	}
}

// CheckQuote reports whether the quote appears in the visible text of the
// source page. Matching is case- and whitespace-insensitive.
func (q *QuoteChecker) CheckQuote(ctx context.Context, quote, sourceURL string) Outcome {
	quote = strings.TrimSpace(quote)
	if quote == "" || sourceURL == "" {
		return Outcome{
			Status:     model.StatusUnverifiable,
			Confidence: 0.0,
			Detail:     "quote or source URL missing",
		}
	}

	if !q.robots.IsAllowed(ctx, sourceURL) {
		return Outcome{
			Status:     model.StatusUnverifiable,
			Confidence: 0.0,
			Detail:     "robots.txt disallows fetching the source page",
		}
	}

	pageText, err := q.fetchVisibleText(ctx, sourceURL)
	if err != nil {
		return Outcome{
			Status:     model.StatusUnverifiable,
			Confidence: 0.0,
			Detail:     fmt.Sprintf("fetch failed: %v", err),
		}
	}

	if strings.Contains(normalizeForMatch(pageText), normalizeForMatch(quote)) {
		return Outcome{
			Status:     model.StatusVerified,
			Confidence: 0.9,
			Detail:     "quote found on source page",
			Supporting: []string{sourceURL},
		}
	}

	return Outcome{
		Status:     model.StatusUnverified,
		Confidence: 0.3,
		Detail:     "quote not found in page text",
	}
}

// fetchVisibleText retrieves the page and strips it to visible text.
func (q *QuoteChecker) fetchVisibleText(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", q.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, q.maxBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	return extractVisibleText(doc), nil
}

// extractVisibleText collects text nodes, skipping non-content elements.
func extractVisibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// normalizeForMatch lowercases and collapses all whitespace runs so a quote
// broken across lines on the page still matches.
func normalizeForMatch(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
