package prices

import (
	"log"
	"sync"
	"time"

	"github.com/SambhavSurthi/StockInsight/internal/model"

	"github.com/robfig/cron/v3"
)

// DefaultTTL is how long a cached series stays valid after fetch.
const DefaultTTL = time.Hour

type cacheKey struct {
	companyID int64
	days      int
}

type cacheEntry struct {
	series    model.PriceSeries
	fetchedAt time.Time
}

// Cache holds fetched price series keyed by (company, window size).
// Entries expire passively: Get treats a stale entry as absent and leaves
// it in place. A different window size for the same company is a distinct
// key; there is no range merging.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[cacheKey]cacheEntry
	now     func() time.Time
}

// NewCache creates an empty cache. A non-positive ttl falls back to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:     ttl,
		entries: make(map[cacheKey]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached series for the key if present and unexpired.
func (c *Cache) Get(companyID int64, days int) (model.PriceSeries, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[cacheKey{companyID, days}]
	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	series := make(model.PriceSeries, len(e.series))
	copy(series, e.series)
	series.SortDescending()
	return series, true
}

// Put stores a series for the key, overwriting any prior entry. The stored
// copy is normalized newest-first; the caller's slice is not touched.
func (c *Cache) Put(companyID int64, days int, series model.PriceSeries) {
	stored := make(model.PriceSeries, len(series))
	copy(stored, series)
	stored.SortDescending()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey{companyID, days}] = cacheEntry{series: stored, fetchedAt: c.now()}
}

// Sweep removes expired entries and returns how many were dropped. Purely
// hygienic: Get already ignores expired entries.
func (c *Cache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	dropped := 0
	for k, e := range c.entries {
		if now.Sub(e.fetchedAt) >= c.ttl {
			delete(c.entries, k)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// StartSweeper schedules a periodic Sweep on the given cron spec
// (e.g. "@every 10m") and starts the scheduler. The caller owns the
// returned cron and should Stop it on shutdown.
func (c *Cache) StartSweeper(spec string) (*cron.Cron, error) {
	cr := cron.New()
	if _, err := cr.AddFunc(spec, func() {
		if n := c.Sweep(); n > 0 {
			log.Printf("[INFO] price cache sweep: dropped %d expired entries", n)
		}
	}); err != nil {
		return nil, err
	}
	cr.Start()
	return cr, nil
}
