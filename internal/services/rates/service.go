package rates

import (
	"context"
	"strings"

	"github.com/portfel-dev/portfel/internal/common"
	"github.com/portfel-dev/portfel/internal/interfaces"
)

// ReferenceCurrency is the currency every amount is normalized to.
const ReferenceCurrency = "PLN"

const (
	// fetchWindowDays is how far a fetch window reaches back from the
	// requested day: [day-91, day] spans 92 calendar days, roughly a
	// fiscal quarter, so one API call covers many nearby transactions.
	fetchWindowDays = 91

	// fallbackDays bounds the backward scan for the nearest published
	// rate when the requested day has none (weekend, holiday). Only
	// earlier days are considered; a future rate would be look-ahead.
	fallbackDays = 10
)

// Service resolves mid rates against PLN and converts amounts between
// currencies. A Service owns no global state: its cache is constructed
// explicitly and passed in, so concurrent portfolios and tests each get
// their own.
type Service struct {
	client interfaces.RatesClient
	cache  *Cache
	logger *common.Logger
}

// NewService creates a rate resolution service
func NewService(client interfaces.RatesClient, cache *Cache, logger *common.Logger) *Service {
	return &Service{
		client: client,
		cache:  cache,
		logger: logger,
	}
}

// Cache returns the cache backing this service.
func (s *Service) Cache() *Cache {
	return s.cache
}

// stripQuotes removes quote characters left over from raw CSV splitting.
func stripQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, "")
}

// Resolve returns the mid rate of currency against PLN for the given day
// (YYYY-MM-DD). On a cache miss it fetches a trailing quarter window of
// rate tables, then falls back to the nearest earlier published day,
// memoizing that value under the requested day. The second return is
// false when no rate could be found; skipFetch forbids network access.
func (s *Service) Resolve(ctx context.Context, currency, day string, skipFetch bool) (float64, bool) {
	if currency == ReferenceCurrency {
		return 1, true
	}

	currency = stripQuotes(currency)

	if mid, ok := s.cache.Get(day, currency); ok {
		return mid, true
	}

	if skipFetch {
		return 0, false
	}

	t, err := common.ParseDay(day)
	if err != nil {
		s.logger.Warn().Str("currency", currency).Str("day", day).Msg("unparseable rate date")
		return 0, false
	}

	startDay := common.FormatDay(t.AddDate(0, 0, -fetchWindowDays))
	if !s.cache.IsPeriodLoaded(startDay, day) {
		s.fetchWindow(ctx, startDay, day)
	}

	if mid, ok := s.cache.Get(day, currency); ok {
		return mid, true
	}

	for i := 1; i <= fallbackDays; i++ {
		prevDay := common.FormatDay(t.AddDate(0, 0, -i))
		if mid, ok := s.cache.Get(prevDay, currency); ok {
			// Memoize under the requested day so the next lookup
			// short-circuits at the cache check.
			s.cache.Put(day, currency, mid)
			s.logger.Debug().Str("currency", currency).Str("day", day).Str("used", prevDay).Msg("using fallback rate")
			return mid, true
		}
	}

	s.logger.Error().Str("currency", currency).Str("day", day).Msg("no exchange rate found")
	return 0, false
}

// fetchWindow loads all rate tables published in [startDay, endDay] into
// the cache. On success the window is marked loaded even when a given
// currency appears in none of its tables, so an absent currency cannot
// cause repeated refetching. A failed fetch leaves the window unmarked.
func (s *Service) fetchWindow(ctx context.Context, startDay, endDay string) {
	tables, err := s.client.GetRateTables(ctx, startDay, endDay)
	if err != nil {
		s.logger.Warn().Err(err).Str("start", startDay).Str("end", endDay).Msg("rate table fetch failed")
		return
	}

	for _, table := range tables {
		s.cache.PutTable(table)
	}
	s.cache.MarkPeriodLoaded(startDay, endDay)

	s.logger.Debug().Int("tables", len(tables)).Str("start", startDay).Str("end", endDay).Msg("rate window loaded")
}

// Convert converts amount between two currencies at the given day's rates.
// Same-currency pairs pass through untouched. PLN on either side uses a
// single rate; any other pair pivots through PLN. The second return is
// false when any required rate is unavailable.
func (s *Service) Convert(ctx context.Context, amount float64, fromCurrency, toCurrency, day string, skipFetch bool) (float64, bool) {
	fromCurrency = stripQuotes(fromCurrency)
	toCurrency = stripQuotes(toCurrency)

	if fromCurrency == toCurrency {
		return amount, true
	}

	if skipFetch {
		return 0, false
	}

	switch {
	case toCurrency == ReferenceCurrency:
		mid, ok := s.Resolve(ctx, fromCurrency, day, false)
		if !ok {
			return 0, false
		}
		return amount * mid, true

	case fromCurrency == ReferenceCurrency:
		mid, ok := s.Resolve(ctx, toCurrency, day, false)
		if !ok || mid == 0 {
			return 0, false
		}
		return amount / mid, true

	default:
		fromMid, ok := s.Resolve(ctx, fromCurrency, day, false)
		if !ok {
			return 0, false
		}
		toMid, ok := s.Resolve(ctx, toCurrency, day, false)
		if !ok || toMid == 0 {
			return 0, false
		}
		return amount * fromMid / toMid, true
	}
}

// Ensure Service implements RateSource
var _ interfaces.RateSource = (*Service)(nil)
