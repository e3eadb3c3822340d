// Package rates implements exchange-rate resolution against PLN: an
// in-memory rate cache, a window-fetching resolver and a currency
// converter that pivots through PLN for non-PLN pairs.
package rates

import (
	"sync"

	"github.com/portfel-dev/portfel/internal/interfaces"
	"github.com/portfel-dev/portfel/internal/models"
)

// Cache stores mid rates keyed by day (YYYY-MM-DD) then currency code,
// plus markers for date windows already requested from the API. Entries
// are never evicted: published rate history is append-only and small.
type Cache struct {
	mu      sync.RWMutex
	rates   map[string]map[string]float64
	periods map[string]bool
}

// NewCache creates an empty rate cache
func NewCache() *Cache {
	return &Cache{
		rates:   make(map[string]map[string]float64),
		periods: make(map[string]bool),
	}
}

// periodKey identifies a fetch window by its exact bounds. Two windows
// with different bounds are distinct even when one contains the other.
func periodKey(startDay, endDay string) string {
	return startDay + "_" + endDay
}

// Get returns the cached rate for (day, currency), if present.
func (c *Cache) Get(day, currency string) (float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mid, ok := c.rates[day][currency]
	return mid, ok
}

// Put stores a rate under (day, currency). Later writes win; this only
// happens when a fallback rate is memoized onto an unpublished day.
func (c *Cache) Put(day, currency string, mid float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.put(day, currency, mid)
}

func (c *Cache) put(day, currency string, mid float64) {
	byCurrency, ok := c.rates[day]
	if !ok {
		byCurrency = make(map[string]float64)
		c.rates[day] = byCurrency
	}
	byCurrency[currency] = mid
}

// PutTable stores every currency of a published table under its
// effective date.
func (c *Cache) PutTable(table models.RateTable) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range table.Rates {
		c.put(table.EffectiveDate, r.Code, r.Mid)
	}
}

// IsPeriodLoaded reports whether the exact (startDay, endDay) window has
// already been fetched.
func (c *Cache) IsPeriodLoaded(startDay, endDay string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.periods[periodKey(startDay, endDay)]
}

// MarkPeriodLoaded records that the (startDay, endDay) window was fetched,
// whether or not any particular rate was in it.
func (c *Cache) MarkPeriodLoaded(startDay, endDay string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.periods[periodKey(startDay, endDay)] = true
}

// Len returns the number of cached (day, currency) entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, byCurrency := range c.rates {
		n += len(byCurrency)
	}
	return n
}

// Snapshot returns a deep copy of the cache state for persistence.
func (c *Cache) Snapshot() *interfaces.RateSnapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := &interfaces.RateSnapshot{
		Rates:   make(map[string]map[string]float64, len(c.rates)),
		Periods: make(map[string]bool, len(c.periods)),
	}
	for day, byCurrency := range c.rates {
		copied := make(map[string]float64, len(byCurrency))
		for code, mid := range byCurrency {
			copied[code] = mid
		}
		snap.Rates[day] = copied
	}
	for key, loaded := range c.periods {
		snap.Periods[key] = loaded
	}
	return snap
}

// Restore merges a snapshot into the cache. Snapshot entries do not
// overwrite rates already present.
func (c *Cache) Restore(snap *interfaces.RateSnapshot) {
	if snap == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	for day, byCurrency := range snap.Rates {
		for code, mid := range byCurrency {
			if _, ok := c.rates[day][code]; ok {
				continue
			}
			c.put(day, code, mid)
		}
	}
	for key, loaded := range snap.Periods {
		if loaded {
			c.periods[key] = true
		}
	}
}
