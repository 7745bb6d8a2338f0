package tradesnap

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// this file contains functions to handle the trade import/export format and
// the spreadsheet export of the two reports. The trade format is JSONL: one
// trade per line, human readable, trivial to append to and to merge.

// EncodeTrade writes a single trade to w in the import/export format.
func EncodeTrade(w io.Writer, t Trade) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("cannot marshal trade %q: %w", t.Symbol, err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("cannot write trade format: %w", err)
	}
	return nil
}

// EncodeTrades writes trades to w in the import/export format.
func EncodeTrades(w io.Writer, trades []Trade) error {
	for _, t := range trades {
		if err := EncodeTrade(w, t); err != nil {
			return err
		}
	}
	return nil
}

// DecodeTrades reads trades from r in the import/export format. Blank lines
// are skipped.
func DecodeTrades(r io.Reader) ([]Trade, error) {
	var trades []Trade
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var t Trade
		if err := json.Unmarshal(line, &t); err != nil {
			return nil, fmt.Errorf("cannot parse line for trade import format: %q: %w", string(line), err)
		}
		trades = append(trades, t)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read trade import format: %w", err)
	}
	return trades, nil
}

// Report column headers match the original spreadsheet export, so that the
// CSV files drop into the same downstream sheets.
var (
	snapshotHeader = []string{"股票名称", "股票代码", "持仓量", "持仓均价", "行业", "占用金额"}
	pnlHeader      = []string{"时间", "代码", "名称", "方向", "数量", "成交均价", "成本价", "产生的盈亏", "行业"}
)

// EncodeSnapshotCSV writes the position snapshot rows to w as CSV.
func EncodeSnapshotCSV(w io.Writer, rows []Holding) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(snapshotHeader); err != nil {
		return fmt.Errorf("cannot write snapshot header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Name,
			r.Symbol,
			r.Quantity.String(),
			r.AvgCost.String(),
			r.Industry,
			r.CostValue.String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write snapshot row %q: %w", r.Symbol, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodePnLCSV writes the realized PnL report rows to w as CSV.
func EncodePnLCSV(w io.Writer, rows []PnLEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(pnlHeader); err != nil {
		return fmt.Errorf("cannot write pnl header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.Date.String(),
			r.Symbol,
			r.Name,
			r.Side.String(),
			r.Quantity.String(),
			r.Price.String(),
			r.Cost.String(),
			r.PnL.String(),
			r.Industry,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("cannot write pnl row %q: %w", r.Symbol, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
