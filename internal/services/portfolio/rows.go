package portfolio

import (
	"strconv"

	"github.com/portfel-dev/portfel/internal/models"
)

// Header names as they appear in the export. Extraction is header-driven,
// not positional, so reordered or added columns do not break parsing.
const (
	colAction         = "Action"
	colTime           = "Time"
	colTicker         = "Ticker"
	colName           = "Name"
	colShares         = "No. of shares"
	colPricePerShare  = "Price / share"
	colPriceCurrency  = "Currency (Price / share)"
	colExchangeRate   = "Exchange rate"
	colConversionFee  = "Currency conversion fee"
	colTotal          = "Total"
	colTotalCurrency  = "Currency (Total)"
	colWithholdingTax = "Withholding tax"
	colTaxCurrency    = "Currency (Withholding tax)"
	colNotes          = "Notes"
	colID             = "ID"
	colFromAmount     = "From amount"
	colFromCurrency   = "From currency"
	colToAmount       = "To amount"
	colToCurrency     = "To currency"
	colFeeCurrency    = "Currency (Currency conversion fee)"
)

// notAvailable is the sentinel the broker writes for missing numbers.
const notAvailable = "Not available"

// columnMap maps header names to their positions in one statement file.
type columnMap map[string]int

func newColumnMap(headers []string) columnMap {
	m := make(columnMap, len(headers))
	for i, h := range headers {
		m[h] = i
	}
	return m
}

// value returns the named column of row, or "" when the header is unknown
// or the row is too short.
func (m columnMap) value(row []string, column string) string {
	idx, ok := m[column]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// number parses the named column as a float; empty, non-numeric and
// "Not available" values all yield 0.
func (m columnMap) number(row []string, column string) float64 {
	v := m.value(row, column)
	if v == "" || v == notAvailable {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}

func (m columnMap) base(row []string) models.BaseTransaction {
	return models.BaseTransaction{
		Action:   models.ActionType(m.value(row, colAction)),
		Time:     m.value(row, colTime),
		Currency: m.value(row, colTotalCurrency),
		Total:    m.number(row, colTotal),
	}
}

func parseStockRow(row []string, m columnMap) models.StockTransaction {
	return models.StockTransaction{
		BaseTransaction: m.base(row),
		Ticker:          m.value(row, colTicker),
		Name:            m.value(row, colName),
		Shares:          m.number(row, colShares),
		PricePerShare:   m.number(row, colPricePerShare),
		ShareCurrency:   m.value(row, colPriceCurrency),
		ExchangeRate:    m.number(row, colExchangeRate),
		Fee:             m.number(row, colConversionFee),
	}
}

func parseDividendRow(row []string, m columnMap) models.DividendTransaction {
	return models.DividendTransaction{
		BaseTransaction:        m.base(row),
		Ticker:                 m.value(row, colTicker),
		Name:                   m.value(row, colName),
		Shares:                 m.number(row, colShares),
		PricePerShare:          m.number(row, colPricePerShare),
		ShareCurrency:          m.value(row, colPriceCurrency),
		WithholdingTax:         m.number(row, colWithholdingTax),
		WithholdingTaxCurrency: m.value(row, colTaxCurrency),
	}
}

func parseCashRow(row []string, m columnMap) models.CashTransaction {
	return models.CashTransaction{
		BaseTransaction: m.base(row),
		Notes:           m.value(row, colNotes),
		ID:              m.value(row, colID),
	}
}

func parseConversionRow(row []string, m columnMap) models.CurrencyConversion {
	v := models.CurrencyConversion{
		BaseTransaction: m.base(row),
		FromAmount:      m.number(row, colFromAmount),
		FromCurrency:    m.value(row, colFromCurrency),
		ToAmount:        m.number(row, colToAmount),
		ToCurrency:      m.value(row, colToCurrency),
		Fee:             m.number(row, colConversionFee),
		FeeCurrency:     m.value(row, colFeeCurrency),
	}
	// A conversion's headline amount is its "to" side.
	v.Currency = v.ToCurrency
	v.Total = v.ToAmount
	return v
}
