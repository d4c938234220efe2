// Package duckduckgo searches the web through DuckDuckGo's HTML endpoint and
// condenses the hits into a short text summary suitable for a prompt.
package duckduckgo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"voice-assistant/internal/infra"
)

const (
	DefaultBaseURL    = "https://html.duckduckgo.com/html/"
	DefaultMaxResults = 5

	maxSnippetLen = 300
	userAgent     = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
)

// Result is a single organic search hit.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	maxResults int
	region     string
	retry      infra.RetryConfig
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = u
		}
	}
}

func WithMaxResults(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// WithRegion sets DuckDuckGo's kl parameter, e.g. "us-en" or "fr-fr".
func WithRegion(region string) Option {
	return func(c *Client) {
		c.region = region
	}
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		maxResults: DefaultMaxResults,
		retry:      infra.DefaultRetryConfig(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Search runs query and returns the formatted results.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	results, err := c.Results(ctx, query)
	if err != nil {
		return "", err
	}
	return FormatResults(results), nil
}

func (c *Client) Results(ctx context.Context, query string) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty search query")
	}

	form := url.Values{}
	form.Set("q", query)
	if c.region != "" {
		form.Set("kl", c.region)
	}

	var results []Result
	retryErr := infra.WithRetry(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return infra.Retryable(fmt.Errorf("sending request: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return infra.StatusError("duckduckgo", resp.StatusCode, body)
		}

		results, err = parseResults(resp.Body, c.maxResults)
		return err
	})
	if retryErr != nil {
		return nil, retryErr
	}

	return results, nil
}

func parseResults(r io.Reader, limit int) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing results page: %w", err)
	}

	var results []Result
	doc.Find(".result").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.HasClass("result--ad") {
			return true
		}

		link := s.Find("a.result__a").First()
		title := collapseSpace(link.Text())
		if title == "" {
			return true
		}
		href, _ := link.Attr("href")

		results = append(results, Result{
			Title:   title,
			URL:     resolveLink(href),
			Snippet: collapseSpace(s.Find(".result__snippet").First().Text()),
		})
		return len(results) < limit
	})

	return results, nil
}

// resolveLink unwraps DuckDuckGo redirect links (//duckduckgo.com/l/?uddg=...).
func resolveLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	if u.Scheme == "" && strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	return href
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// FormatResults renders results as a numbered list, one hit per line.
func FormatResults(results []Result) string {
	if len(results) == 0 {
		return "No search results found."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d results:\n", len(results)))
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, r.Title))
		if r.Snippet != "" {
			snippet := r.Snippet
			if runes := []rune(snippet); len(runes) > maxSnippetLen {
				snippet = string(runes[:maxSnippetLen]) + "..."
			}
			sb.WriteString(" - " + snippet)
		}
		if r.URL != "" {
			sb.WriteString(" (" + r.URL + ")")
		}
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
