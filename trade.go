package tradesnap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Side identifies the direction of a trade execution.
type Side int

const (
	// Buy increases (or opens) a position.
	Buy Side = iota
	// Sell reduces a position and realizes profit or loss.
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "unknown"
	}
}

// ParseSide parses a string into a Side.
func ParseSide(str string) (Side, error) {
	switch strings.ToUpper(strings.TrimSpace(str)) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	default:
		return 0, fmt.Errorf("unknown trade side: %q", str)
	}
}

// MarshalJSON implements the json.Marshaler interface for Side.
func (s Side) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// UnmarshalJSON implements the json.Unmarshaler interface for Side.
func (s *Side) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	side, err := ParseSide(str)
	if err != nil {
		return err
	}
	*s = side
	return nil
}

// Trade is a single normalized execution, produced by one of the import
// collaborators (CSV parsers, AI screenshot extraction) and consumed by the
// [Ledger]. A Trade is a value: the ledger never mutates its input.
type Trade struct {
	Symbol     string          // market-unique identifier, e.g. "600000.SH", "IF2606", "00700.HK"
	Name       string          // display name, non-authoritative
	Side       Side            // Buy or Sell
	Price      decimal.Decimal // execution price per unit
	Quantity   decimal.Decimal // executed size, shares or lots
	Date       Date            // execution date; zero when unknown at parse time
	Time       string          // optional "HH:MM:SS", secondary sort key within a day
	Fee        decimal.Decimal // transaction cost
	Multiplier decimal.Decimal // contract multiplier; zero is treated as 1
	Industry   string          // classification, may be empty
}

var one = decimal.NewFromInt(1)

// multiplier returns the effective contract multiplier. Equity imports leave
// the field unset, which means 1.
func (t Trade) multiplier() decimal.Decimal {
	if t.Multiplier.IsZero() {
		return one
	}
	return t.Multiplier
}

// MarshalJSON implements the json.Marshaler interface for Trade with a
// stable field order, so that exported JSONL files diff cleanly.
func (t Trade) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("symbol", t.Symbol)
	w.Optional("name", t.Name)
	w.Append("side", t.Side)
	w.Append("price", t.Price)
	w.Append("quantity", t.Quantity)
	w.Optional("date", t.Date)
	w.Optional("time", t.Time)
	w.Optional("fee", t.Fee)
	w.Optional("multiplier", t.Multiplier)
	w.Optional("industry", t.Industry)
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Trade.
func (t *Trade) UnmarshalJSON(data []byte) error {
	var temp struct {
		Symbol     string          `json:"symbol"`
		Name       string          `json:"name"`
		Side       Side            `json:"side"`
		Price      decimal.Decimal `json:"price"`
		Quantity   decimal.Decimal `json:"quantity"`
		Date       Date            `json:"date"`
		Time       string          `json:"time"`
		Fee        decimal.Decimal `json:"fee"`
		Multiplier decimal.Decimal `json:"multiplier"`
		Industry   string          `json:"industry"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	*t = Trade{
		Symbol:     temp.Symbol,
		Name:       temp.Name,
		Side:       temp.Side,
		Price:      temp.Price,
		Quantity:   temp.Quantity,
		Date:       temp.Date,
		Time:       temp.Time,
		Fee:        temp.Fee,
		Multiplier: temp.Multiplier,
		Industry:   temp.Industry,
	}
	return nil
}
