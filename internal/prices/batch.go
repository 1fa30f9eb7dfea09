package prices

import (
	"context"
	"time"

	"github.com/SambhavSurthi/StockInsight/internal/model"
)

// ProgressFunc reports batch progress after each company in the first pass.
// current is 1-based and strictly increasing; ok is false when the company
// ended the pass with no data.
type ProgressFunc func(current, total int, name string, ok bool)

const (
	// retryMaxRetries and retryBaseDelay relax the fetch limits for the
	// best-effort second pass over companies that came back empty.
	retryMaxRetries = 10
	retryBaseDelay  = 3 * time.Second

	cacheHitDelay  = 100 * time.Millisecond
	betweenFetches = 800 * time.Millisecond
	betweenRetries = 1500 * time.Millisecond
)

// FetchAll fetches every company's series strictly one at a time, in the
// order given, to stay inside the upstream provider's rate limits. Running
// companies concurrently here is not an optimization, it is a regression.
//
// A company that yields no data never fails the batch; its empty series
// stays in the result so consumers can render partial data. A second
// best-effort pass retries empty companies with a relaxed budget. Only an
// auth rejection or cancellation aborts the batch.
func (c *Client) FetchAll(ctx context.Context, companies []model.CompanyRef, days int, onProgress ProgressFunc) (map[int64]model.PriceSeries, error) {
	results := make(map[int64]model.PriceSeries, len(companies))

	// first pass
	for i, co := range companies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if cached, ok := c.cache.Get(co.ScreenerID, days); ok {
			results[co.ScreenerID] = cached
			if onProgress != nil {
				onProgress(i+1, len(companies), co.Name, true)
			}
			// throttle even cache hits so downstream consumers see a
			// smooth trickle rather than a burst
			if i < len(companies)-1 {
				if err := c.sleep(ctx, cacheHitDelay); err != nil {
					return nil, err
				}
			}
			continue
		}

		series, err := c.Fetch(ctx, co.ScreenerID, days)
		if err != nil {
			return nil, err
		}
		results[co.ScreenerID] = series
		if onProgress != nil {
			onProgress(i+1, len(companies), co.Name, !series.Empty())
		}
		if i < len(companies)-1 {
			if err := c.sleep(ctx, betweenFetches); err != nil {
				return nil, err
			}
		}
	}

	// second pass: retry the companies that came back empty
	var failed []model.CompanyRef
	for _, co := range companies {
		if results[co.ScreenerID].Empty() {
			failed = append(failed, co)
		}
	}
	for i, co := range failed {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		series, err := c.fetch(ctx, co.ScreenerID, days, retryMaxRetries, retryBaseDelay)
		if err != nil {
			return nil, err
		}
		if !series.Empty() {
			results[co.ScreenerID] = series
		}
		if i < len(failed)-1 {
			if err := c.sleep(ctx, betweenRetries); err != nil {
				return nil, err
			}
		}
	}

	return results, nil
}
