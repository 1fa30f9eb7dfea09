// Package screener talks to the third-party screener.in API. Only the
// server-side proxy handlers use it; client code always goes through the
// proxy so the upstream never sees user tokens.
package screener

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Client fetches company search results and chart data from screener.in.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a client with optional proxy support.
func New(baseURL, proxyURL string) *Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &Client{
		BaseURL: baseURL,
		HTTPClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Search queries the company search endpoint and returns the raw JSON
// payload, which is forwarded to API clients untouched.
func (c *Client) Search(ctx context.Context, q string) ([]byte, error) {
	u := fmt.Sprintf("%s/api/company/search/?q=%s&v=3&fts=1", c.BaseURL, url.QueryEscape(q))
	body, status, err := c.get(ctx, u)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("search: status %d", status)
	}
	return body, nil
}

// Chart fetches a company's chart data. The upstream status code is
// returned alongside the body so the proxy can mirror it; rate-limit
// responses in particular must reach the client intact.
func (c *Client) Chart(ctx context.Context, companyID int64, days int) ([]byte, int, error) {
	u := fmt.Sprintf("%s/api/company/%d/chart/?q=Price-DMA50-DMA200-Volume&days=%d&consolidated=true",
		c.BaseURL, companyID, days)
	return c.get(ctx, u)
}

func (c *Client) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("screener fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("screener read body: %w", err)
	}
	return body, resp.StatusCode, nil
}
