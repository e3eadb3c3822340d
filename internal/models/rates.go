package models

// RateTable is one published daily table of mid rates relative to PLN.
// Field names follow the NBP Web API response.
type RateTable struct {
	Table         string      `json:"table"`
	No            string      `json:"no"`
	EffectiveDate string      `json:"effectiveDate"`
	Rates         []TableRate `json:"rates"`
}

// TableRate is one currency's entry within a rate table.
type TableRate struct {
	Currency string  `json:"currency"`
	Code     string  `json:"code"`
	Mid      float64 `json:"mid"`
}
