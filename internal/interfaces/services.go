package interfaces

import "context"

// RateSource resolves exchange rates and converts amounts between
// currencies, with PLN as the reference currency.
type RateSource interface {
	// Resolve returns the mid rate of currency against PLN for the given
	// day (YYYY-MM-DD). The second return is false when no rate could be
	// found. skipFetch forbids network access; only cached rates are used.
	Resolve(ctx context.Context, currency, day string, skipFetch bool) (float64, bool)

	// Convert converts amount from one currency to another at the given
	// day's rates, pivoting through PLN for non-PLN pairs. The second
	// return is false when conversion was impossible.
	Convert(ctx context.Context, amount float64, fromCurrency, toCurrency, day string, skipFetch bool) (float64, bool)
}
