package models

// ActionType identifies a statement row by its Action column value.
// The strings match the Trading212 CSV export verbatim.
type ActionType string

const (
	ActionMarketBuy  ActionType = "Market buy"
	ActionMarketSell ActionType = "Market sell"

	ActionDividend             ActionType = "Dividend (Dividend)"
	ActionDividendTaxExempted  ActionType = "Dividend (Tax exempted)"
	ActionDividendManufactured ActionType = "Dividend (Dividend manufactured payment)"

	ActionDeposit    ActionType = "Deposit"
	ActionWithdrawal ActionType = "Withdrawal"
	ActionInterest   ActionType = "Interest on cash"

	ActionCurrencyConversion ActionType = "Currency conversion"
)

// dividendActions lists the dividend action variants the exports use.
var dividendActions = map[ActionType]bool{
	ActionDividend:             true,
	ActionDividendTaxExempted:  true,
	ActionDividendManufactured: true,
}

// IsMarketAction returns true for buy and sell order rows.
func IsMarketAction(a ActionType) bool {
	return a == ActionMarketBuy || a == ActionMarketSell
}

// IsDividendAction returns true for any of the dividend payment variants.
func IsDividendAction(a ActionType) bool {
	return dividendActions[a]
}

// IsCashAction returns true for deposit, withdrawal and interest rows.
func IsCashAction(a ActionType) bool {
	return a == ActionDeposit || a == ActionWithdrawal || a == ActionInterest
}
