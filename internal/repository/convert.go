package repository

import "github.com/shopspring/decimal"

// decimalToFloat converts a NUMERIC column value to float64.
func decimalToFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
