package orders

import (
	"github.com/shopspring/decimal"

	"restro-qr/models"
)

var hundred = decimal.NewFromInt(100)

// Totals returns the cart total and the total after a pct discount, the
// latter rounded to two places half away from zero.
func Totals(items []models.OrderItem, pct float64) (raw, discounted float64) {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(decimal.NewFromFloat(it.ItemCost).Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	keep := hundred.Sub(decimal.NewFromFloat(clampPercentage(pct))).Div(hundred)
	return sum.InexactFloat64(), sum.Mul(keep).Round(2).InexactFloat64()
}

func clampPercentage(pct float64) float64 {
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
