package tradesnap

import "github.com/shopspring/decimal"

// d is a helper for tests to create a decimal from a const.
func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// buy is a helper for tests to create a dated buy execution.
func buy(day, symbol string, qty, price float64) Trade {
	var on Date
	if day != "" {
		on = MustParseDate(day)
	}
	return Trade{
		Symbol:   symbol,
		Name:     symbol,
		Side:     Buy,
		Price:    d(price),
		Quantity: d(qty),
		Date:     on,
	}
}

// sell is a helper for tests to create a dated sell execution.
func sell(day, symbol string, qty, price, fee float64) Trade {
	var on Date
	if day != "" {
		on = MustParseDate(day)
	}
	return Trade{
		Symbol:   symbol,
		Name:     symbol,
		Side:     Sell,
		Price:    d(price),
		Quantity: d(qty),
		Date:     on,
		Fee:      d(fee),
	}
}
