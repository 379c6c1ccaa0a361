package types

import "github.com/shopspring/decimal"

func init() {
	// Prices travel as JSON numbers; clients do arithmetic on them.
	decimal.MarshalJSONWithoutQuotes = true
}

// RoundMoney rounds half away from zero to cents.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
