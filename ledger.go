package tradesnap

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// SellPolicy defines how the ledger handles a sell that references unknown
// or insufficient inventory.
type SellPolicy int

const (
	// ClampToZero applies the sell and clamps the resulting quantity at zero.
	// A sell on a symbol that was never bought is silently dropped. This is
	// the behavior of the original spreadsheet workflow.
	ClampToZero SellPolicy = iota
	// Reject skips sells on unknown symbols and sells exceeding the held
	// quantity. Skipped trades are counted and reported via [Ledger.Rejected].
	Reject
	// AllowShort lets the position quantity go negative. A sell on an
	// unknown symbol opens a short position at the trade price.
	AllowShort
)

func (p SellPolicy) String() string {
	switch p {
	case ClampToZero:
		return "clamp"
	case Reject:
		return "reject"
	case AllowShort:
		return "allow-short"
	default:
		return "unknown"
	}
}

// ParseSellPolicy parses a string into a SellPolicy.
func ParseSellPolicy(s string) (SellPolicy, error) {
	switch s {
	case "clamp":
		return ClampToZero, nil
	case "reject":
		return Reject, nil
	case "allow-short":
		return AllowShort, nil
	default:
		return 0, fmt.Errorf("unknown sell policy: %q", s)
	}
}

// Position is the net open holding in one instrument. Positions are owned
// exclusively by the Ledger; accessors hand out copies.
type Position struct {
	Symbol   string
	Name     string
	Quantity decimal.Decimal // current open size, never negative under ClampToZero and Reject
	AvgCost  decimal.Decimal // quantity-weighted average entry price, fees excluded
	Industry string
}

// PnLRecord is a single realized profit-and-loss event, appended whenever a
// sell is applied to a tracked position. Records are immutable.
type PnLRecord struct {
	Symbol   string
	Name     string
	Side     Side // always Sell
	Quantity decimal.Decimal
	Price    decimal.Decimal // execution price of the triggering trade
	Cost     decimal.Decimal // the position's average cost at the moment of sale
	PnL      decimal.Decimal // (Price - Cost) * Quantity * multiplier - fee
	Date     Date
	Industry string
}

// Ledger is the portfolio accounting engine. It owns a position book keyed
// by symbol and an append-only sequence of realized PnL records.
//
// The Ledger trusts its input: trades are expected to be pre-validated by
// the normalize package and are applied without further checks. It is a
// pure accumulator with no failure mode for well-formed input.
type Ledger struct {
	policy    SellPolicy
	positions map[string]*Position
	pnl       []PnLRecord
	rejected  int
}

// NewLedger creates an empty ledger applying the given sell policy.
func NewLedger(policy SellPolicy) *Ledger {
	return &Ledger{
		policy:    policy,
		positions: make(map[string]*Position),
	}
}

// Policy returns the sell policy the ledger was created with.
func (l *Ledger) Policy() SellPolicy { return l.policy }

// Rejected returns the number of sells skipped under the Reject policy.
func (l *Ledger) Rejected() int { return l.rejected }

// ProcessTrades applies a batch of trades to the position book. Trades
// without a date are assigned fallback first, then the batch is stable-sorted
// by (date, time) ascending before application.
//
// The ordering is load-bearing: average cost and realized PnL are
// path-dependent, so trades on the same day without a time keep their
// relative input order.
func (l *Ledger) ProcessTrades(trades []Trade, fallback Date) {
	batch := slices.Clone(trades)
	for i := range batch {
		if batch[i].Date.IsZero() {
			batch[i].Date = fallback
		}
	}

	sort.SliceStable(batch, func(i, j int) bool {
		if batch[i].Date != batch[j].Date {
			return batch[i].Date.Before(batch[j].Date)
		}
		return batch[i].Time < batch[j].Time
	})

	for _, t := range batch {
		l.apply(t)
	}
}

// apply mutates the position book with a single, already dated trade.
func (l *Ledger) apply(t Trade) {
	switch t.Side {
	case Buy:
		l.applyBuy(t)
	case Sell:
		l.applySell(t)
	}
}

func (l *Ledger) applyBuy(t Trade) {
	pos, ok := l.positions[t.Symbol]
	if !ok {
		l.positions[t.Symbol] = &Position{
			Symbol:   t.Symbol,
			Name:     t.Name,
			Quantity: t.Quantity,
			AvgCost:  t.Price,
			Industry: t.Industry,
		}
		return
	}

	newQty := pos.Quantity.Add(t.Quantity)
	if newQty.IsPositive() {
		// Weighted average over the previous basis and the new fill.
		// Fees are not capitalized into the cost basis.
		pos.AvgCost = pos.Quantity.Mul(pos.AvgCost).Add(t.Quantity.Mul(t.Price)).Div(newQty)
	}
	pos.Quantity = newQty
}

func (l *Ledger) applySell(t Trade) {
	pos, ok := l.positions[t.Symbol]
	if !ok {
		switch l.policy {
		case Reject:
			l.rejected++
		case AllowShort:
			l.positions[t.Symbol] = &Position{
				Symbol:   t.Symbol,
				Name:     t.Name,
				Quantity: t.Quantity.Neg(),
				AvgCost:  t.Price,
				Industry: t.Industry,
			}
		}
		// ClampToZero: selling an untracked symbol is a documented no-op.
		return
	}

	if l.policy == Reject && pos.Quantity.LessThan(t.Quantity) {
		l.rejected++
		return
	}

	pnl := t.Price.Sub(pos.AvgCost).Mul(t.Quantity).Mul(t.multiplier()).Sub(t.Fee)
	l.pnl = append(l.pnl, PnLRecord{
		Symbol:   t.Symbol,
		Name:     pos.Name,
		Side:     t.Side,
		Quantity: t.Quantity,
		Price:    t.Price,
		Cost:     pos.AvgCost,
		PnL:      pnl,
		Date:     t.Date,
		Industry: pos.Industry,
	})

	// The average cost is never modified by a sell.
	pos.Quantity = pos.Quantity.Sub(t.Quantity)
	if l.policy != AllowShort && pos.Quantity.IsNegative() {
		pos.Quantity = decimal.Zero
	}
}

// Position returns a copy of the position for symbol, tracked or not.
// Positions reduced to zero remain tracked.
func (l *Ledger) Position(symbol string) (Position, bool) {
	pos, ok := l.positions[symbol]
	if !ok {
		return Position{}, false
	}
	return *pos, true
}

// Positions iterates over copies of all tracked positions, including those
// reduced to zero, in symbol-ascending order.
func (l *Ledger) Positions() iter.Seq[Position] {
	return func(yield func(Position) bool) {
		symbols := slices.Collect(maps.Keys(l.positions))
		slices.Sort(symbols)
		for _, symbol := range symbols {
			if !yield(*l.positions[symbol]) {
				return
			}
		}
	}
}

// PnLRecords iterates over the realized PnL records in the order they were
// produced, which is the chronological processing order.
func (l *Ledger) PnLRecords() iter.Seq2[int, PnLRecord] {
	return func(yield func(int, PnLRecord) bool) {
		for i, r := range l.pnl {
			if !yield(i, r) {
				return
			}
		}
	}
}
