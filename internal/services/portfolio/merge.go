package portfolio

import "github.com/portfel-dev/portfel/internal/models"

// Merge concatenates portfolios field by field, preserving per-file parse
// order. No cross-file identity or de-duplication is attempted: two files
// covering the same period will simply repeat their rows.
func Merge(portfolios ...*models.Portfolio) *models.Portfolio {
	merged := &models.Portfolio{
		Transactions: []models.StockTransaction{},
		Dividends:    []models.DividendTransaction{},
		Deposits:     []models.CashTransaction{},
		Withdrawals:  []models.CashTransaction{},
		Interest:     []models.CashTransaction{},
		Conversions:  []models.CurrencyConversion{},
	}

	for _, p := range portfolios {
		if p == nil {
			continue
		}
		merged.Transactions = append(merged.Transactions, p.Transactions...)
		merged.Dividends = append(merged.Dividends, p.Dividends...)
		merged.Deposits = append(merged.Deposits, p.Deposits...)
		merged.Withdrawals = append(merged.Withdrawals, p.Withdrawals...)
		merged.Interest = append(merged.Interest, p.Interest...)
		merged.Conversions = append(merged.Conversions, p.Conversions...)
	}
	return merged
}
