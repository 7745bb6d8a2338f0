package tradesnap

import (
	"github.com/shopspring/decimal"
)

// Holding is one row of the position snapshot. Prices are rounded to 3
// decimal places and monetary amounts to 2, a presentation policy applied
// only here: the stored positions keep full precision.
type Holding struct {
	Symbol    string
	Name      string
	Quantity  decimal.Decimal
	AvgCost   decimal.Decimal // rounded to 3 decimal places
	CostValue decimal.Decimal // Quantity * AvgCost, rounded to 2 decimal places
	Industry  string
}

// PnLEntry is one row of the realized PnL report, with the same
// read-boundary rounding as [Holding].
type PnLEntry struct {
	Date     Date
	Symbol   string
	Name     string
	Side     Side
	Quantity decimal.Decimal
	Price    decimal.Decimal // rounded to 3 decimal places
	Cost     decimal.Decimal // rounded to 3 decimal places
	PnL      decimal.Decimal // rounded to 2 decimal places
	Industry string
}

// Snapshot projects the current position book into report rows. Positions
// reduced to zero (or negative, under AllowShort) are excluded. Rows are in
// symbol-ascending order, a stable improvement over the map insertion order
// of the original workflow. The returned rows are copies: mutating them
// does not touch the ledger.
func (l *Ledger) Snapshot() []Holding {
	rows := make([]Holding, 0, len(l.positions))
	for pos := range l.Positions() {
		if !pos.Quantity.IsPositive() {
			continue
		}
		rows = append(rows, Holding{
			Symbol:    pos.Symbol,
			Name:      pos.Name,
			Quantity:  pos.Quantity,
			AvgCost:   pos.AvgCost.Round(3),
			CostValue: pos.Quantity.Mul(pos.AvgCost).Round(2),
			Industry:  pos.Industry,
		})
	}
	return rows
}

// PnLReport projects the full realized PnL history into report rows, in
// chronological processing order. Aggregation is left to the caller; see
// [TotalPnL].
func (l *Ledger) PnLReport() []PnLEntry {
	rows := make([]PnLEntry, 0, len(l.pnl))
	for _, r := range l.PnLRecords() {
		rows = append(rows, PnLEntry{
			Date:     r.Date,
			Symbol:   r.Symbol,
			Name:     r.Name,
			Side:     r.Side,
			Quantity: r.Quantity,
			Price:    r.Price.Round(3),
			Cost:     r.Cost.Round(3),
			PnL:      r.PnL.Round(2),
			Industry: r.Industry,
		})
	}
	return rows
}

// TotalPnL sums the realized PnL over report rows.
func TotalPnL(rows []PnLEntry) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.PnL)
	}
	return total
}

// TotalCostValue sums the occupied capital over snapshot rows.
func TotalCostValue(rows []Holding) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.CostValue)
	}
	return total
}
