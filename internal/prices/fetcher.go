package prices

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/SambhavSurthi/StockInsight/internal/model"
)

// ErrUnauthorized is returned when the API rejects the bearer token.
// It is the only error a fetch surfaces to callers; everything else
// degrades to an empty series.
var ErrUnauthorized = errors.New("unauthorized")

const (
	// DefaultMaxRetries bounds attempts for a single company fetch.
	DefaultMaxRetries = 5
	// DefaultBaseDelay seeds both the linear and exponential backoff.
	DefaultBaseDelay = 2 * time.Second

	maxJitter = time.Second
)

// Client fetches price series from the market-data proxy, consulting the
// cache first and retrying on transient upstream failures.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	MaxRetries int
	BaseDelay  time.Duration

	cache *Cache

	// test seams; both default to real implementations
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
}

// NewClient creates a Client against the given API base URL. cache may be
// shared between clients; it must not be nil.
func NewClient(baseURL, token string, cache *Cache) *Client {
	return &Client{
		BaseURL:    baseURL,
		Token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		MaxRetries: DefaultMaxRetries,
		BaseDelay:  DefaultBaseDelay,
		cache:      cache,
		sleep:      sleepCtx,
		jitter:     func() time.Duration { return time.Duration(rand.Int63n(int64(maxJitter))) },
	}
}

// Fetch returns the price series for one company at the given window size,
// from cache when possible. Transient upstream failures are retried up to
// MaxRetries; exhausting retries yields an empty series and a nil error.
// Only an auth rejection or context cancellation is returned as an error.
func (c *Client) Fetch(ctx context.Context, companyID int64, days int) (model.PriceSeries, error) {
	return c.fetch(ctx, companyID, days, c.MaxRetries, c.BaseDelay)
}

// fetch is the single retry routine shared by the first and second
// scheduler passes, parametrized by attempt budget and delay schedule.
func (c *Client) fetch(ctx context.Context, companyID int64, days, maxRetries int, baseDelay time.Duration) (model.PriceSeries, error) {
	if cached, ok := c.cache.Get(companyID, days); ok {
		return cached, nil
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		series, err := c.fetchOnce(ctx, companyID, days)
		switch {
		case err == nil:
			c.cache.Put(companyID, days, series)
			return series, nil
		case errors.Is(err, ErrUnauthorized):
			return nil, err
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return nil, err
		case errors.Is(err, errRateLimited):
			lastErr = err
			// exponential backoff with jitter; the rate limit is upstream's,
			// so back off harder than for ordinary failures
			wait := baseDelay*(1<<uint(attempt)) + c.jitter()
			if err := c.sleep(ctx, wait); err != nil {
				return nil, err
			}
		default:
			lastErr = err
			if attempt < maxRetries-1 {
				if err := c.sleep(ctx, baseDelay*time.Duration(attempt+1)); err != nil {
					return nil, err
				}
			}
		}
	}

	log.Printf("[WARN] company %d: no data after %d attempts: %v", companyID, maxRetries, lastErr)
	return model.PriceSeries{}, nil
}

var errRateLimited = errors.New("rate limited")

// chartResponse is the expected shape of the proxy's chart endpoint.
// Rows are [isoDate, priceString] pairs.
type chartResponse struct {
	Datasets []struct {
		Metric string     `json:"metric"`
		Values [][]string `json:"values"`
	} `json:"datasets"`
}

func (c *Client) fetchOnce(ctx context.Context, companyID int64, days int) (model.PriceSeries, error) {
	url := fmt.Sprintf("%s/api/market/company/%d/chart?days=%d", c.BaseURL, companyID, days)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch chart: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, errRateLimited
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("fetch chart: status %d", resp.StatusCode)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return parseSeries(&chart), nil
}

// parseSeries extracts the "Price" dataset into a newest-first series.
// An unparseable price keeps its row with a nil price; a row whose date
// cannot be parsed is dropped since it cannot be placed on the time axis.
func parseSeries(chart *chartResponse) model.PriceSeries {
	series := model.PriceSeries{}
	for _, ds := range chart.Datasets {
		if ds.Metric != "Price" {
			continue
		}
		for _, pair := range ds.Values {
			if len(pair) < 2 {
				continue
			}
			date, err := parseDate(pair[0])
			if err != nil {
				continue
			}
			row := model.PriceRow{Date: date}
			if price, err := strconv.ParseFloat(pair[1], 64); err == nil {
				row.Price = &price
			}
			series = append(series, row)
		}
		break
	}
	series.SortDescending()
	return series
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(model.DateFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// sleepCtx waits for d or until the context is done, whichever is first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
