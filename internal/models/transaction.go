package models

import "strings"

// BaseTransaction holds the fields every statement row shares.
// Time keeps the raw "Time" column value (timestamp with time-of-day);
// Day() returns just the date part, which is what rate lookups key on.
type BaseTransaction struct {
	Action   ActionType `json:"action"`
	Time     string     `json:"time"`
	Currency string     `json:"currency"`
	Total    float64    `json:"total"`
}

// Day returns the date portion (YYYY-MM-DD) of the row timestamp.
func (b BaseTransaction) Day() string {
	day, _, _ := strings.Cut(b.Time, " ")
	return day
}

// StockTransaction is a market buy or sell order.
type StockTransaction struct {
	BaseTransaction
	Ticker        string  `json:"ticker"`
	Name          string  `json:"name"`
	Shares        float64 `json:"shares"`
	PricePerShare float64 `json:"price_per_share"`
	ShareCurrency string  `json:"share_currency"`
	// ExchangeRate is the broker-reported rate; 0 when the statement
	// says "Not available".
	ExchangeRate float64 `json:"exchange_rate,omitempty"`
	Fee          float64 `json:"fee,omitempty"`
	TotalPLN     float64 `json:"total_pln"`
	FeePLN       float64 `json:"fee_pln"`
}

// DividendTransaction is a dividend payment, possibly with withholding tax.
type DividendTransaction struct {
	BaseTransaction
	Ticker                 string  `json:"ticker"`
	Name                   string  `json:"name"`
	Shares                 float64 `json:"shares"`
	PricePerShare          float64 `json:"price_per_share"`
	ShareCurrency          string  `json:"share_currency"`
	WithholdingTax         float64 `json:"withholding_tax"`
	WithholdingTaxCurrency string  `json:"withholding_tax_currency"`
	TotalPLN               float64 `json:"total_pln"`
	WithholdingTaxPLN      float64 `json:"withholding_tax_pln"`
}

// CashTransaction is a deposit, withdrawal or interest payment.
type CashTransaction struct {
	BaseTransaction
	Notes    string  `json:"notes,omitempty"`
	ID       string  `json:"id,omitempty"`
	TotalPLN float64 `json:"total_pln"`
}

// CurrencyConversion is an exchange between two cash balances.
// Total/TotalPLN mirror the "to" side so the record sums like the others.
type CurrencyConversion struct {
	BaseTransaction
	FromAmount    float64 `json:"from_amount"`
	FromCurrency  string  `json:"from_currency"`
	ToAmount      float64 `json:"to_amount"`
	ToCurrency    string  `json:"to_currency"`
	Fee           float64 `json:"fee,omitempty"`
	FeeCurrency   string  `json:"fee_currency,omitempty"`
	FromAmountPLN float64 `json:"from_amount_pln"`
	ToAmountPLN   float64 `json:"to_amount_pln"`
	FeePLN        float64 `json:"fee_pln"`
	TotalPLN      float64 `json:"total_pln"`
}

// Portfolio aggregates one or more parsed statements, bucketed by record
// kind. Order within each bucket follows CSV row order. A Portfolio is
// built once and treated as read-only afterwards.
type Portfolio struct {
	Transactions []StockTransaction    `json:"transactions"`
	Dividends    []DividendTransaction `json:"dividends"`
	Deposits     []CashTransaction     `json:"deposits"`
	Withdrawals  []CashTransaction     `json:"withdrawals"`
	Interest     []CashTransaction     `json:"interest"`
	Conversions  []CurrencyConversion  `json:"conversions"`
}

// Size returns the total number of records across all buckets.
func (p *Portfolio) Size() int {
	return len(p.Transactions) + len(p.Dividends) + len(p.Deposits) +
		len(p.Withdrawals) + len(p.Interest) + len(p.Conversions)
}

// ParseReport summarizes one Build call. IngestID ties log lines from a
// single build together when several files are processed in one run.
type ParseReport struct {
	IngestID     string `json:"ingest_id"`
	Rows         int    `json:"rows"`
	Parsed       int    `json:"parsed"`
	Dropped      int    `json:"dropped"`
	Unrecognized int    `json:"unrecognized"`
	// Fallbacks counts PLN fields that carry the raw, unconverted amount
	// because no rate could be resolved.
	Fallbacks int `json:"fallbacks"`
}
