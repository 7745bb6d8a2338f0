package tradesnap

import (
	"reflect"
	"testing"
)

func TestSnapshot_ExcludesClosedPositions(t *testing.T) {
	l := NewLedger(ClampToZero)
	l.ProcessTrades([]Trade{
		buy("2025-02-03", "600000.SH", 1000, 10),
		buy("2025-02-03", "000001.SZ", 500, 12),
		sell("2025-02-04", "000001.SZ", 500, 13, 0),
	}, Today())

	rows := l.Snapshot()
	if len(rows) != 1 {
		t.Fatalf("got %d snapshot rows, want 1", len(rows))
	}
	if rows[0].Symbol != "600000.SH" {
		t.Errorf("snapshot row = %q, want 600000.SH", rows[0].Symbol)
	}

	// The closed position's history stays in the pnl report.
	report := l.PnLReport()
	if len(report) != 1 || report[0].Symbol != "000001.SZ" {
		t.Errorf("pnl report lost the closed position history: %v", report)
	}
}

func TestSnapshot_SymbolOrderAndRounding(t *testing.T) {
	l := NewLedger(ClampToZero)
	l.ProcessTrades([]Trade{
		buy("2025-02-03", "600519.SH", 300, 1500.12345),
		buy("2025-02-03", "000858.SZ", 100, 148.5),
	}, Today())

	rows := l.Snapshot()
	if len(rows) != 2 {
		t.Fatalf("got %d snapshot rows, want 2", len(rows))
	}
	if rows[0].Symbol != "000858.SZ" || rows[1].Symbol != "600519.SH" {
		t.Errorf("snapshot not in symbol order: %q, %q", rows[0].Symbol, rows[1].Symbol)
	}
	if !rows[1].AvgCost.Equal(d(1500.123)) {
		t.Errorf("avg cost = %s, want rounded 1500.123", rows[1].AvgCost)
	}
	// 300 * 1500.12345 = 450037.035, rounded to 2 decimal places.
	if !rows[1].CostValue.Equal(d(450037.04)) {
		t.Errorf("cost value = %s, want 450037.04", rows[1].CostValue)
	}
}

func TestSnapshot_RoundingDoesNotMutateState(t *testing.T) {
	l := NewLedger(ClampToZero)
	l.ProcessTrades([]Trade{buy("2025-02-03", "600519.SH", 3, 10.0005)}, Today())

	// Read twice: the stored basis must keep full precision, not the
	// rounded value exposed by the first read.
	_ = l.Snapshot()
	pos, _ := l.Position("600519.SH")
	if !pos.AvgCost.Equal(d(10.0005)) {
		t.Errorf("stored avg cost = %s, want full precision 10.0005", pos.AvgCost)
	}
}

func TestReports_IdempotentReads(t *testing.T) {
	l := NewLedger(ClampToZero)
	l.ProcessTrades([]Trade{
		buy("2025-02-03", "600000.SH", 1000, 10),
		sell("2025-02-04", "600000.SH", 200, 11, 1),
	}, Today())

	if !reflect.DeepEqual(l.Snapshot(), l.Snapshot()) {
		t.Error("two snapshot reads differ")
	}
	if !reflect.DeepEqual(l.PnLReport(), l.PnLReport()) {
		t.Error("two pnl report reads differ")
	}
}

func TestReports_RowsAreCopies(t *testing.T) {
	l := NewLedger(ClampToZero)
	l.ProcessTrades([]Trade{buy("2025-02-03", "600000.SH", 1000, 10)}, Today())

	rows := l.Snapshot()
	rows[0].Quantity = d(1)
	rows[0].Name = "tampered"

	pos, _ := l.Position("600000.SH")
	if !pos.Quantity.Equal(d(1000)) || pos.Name != "600000.SH" {
		t.Error("mutating a snapshot row reached into the ledger")
	}
}

func TestPnLReport_Rounding(t *testing.T) {
	l := NewLedger(ClampToZero)
	l.ProcessTrades([]Trade{
		buy("2025-02-03", "600000.SH", 3, 10.0005),
		sell("2025-02-04", "600000.SH", 3, 11.2346, 0.004),
	}, Today())

	report := l.PnLReport()
	if len(report) != 1 {
		t.Fatalf("got %d pnl rows, want 1", len(report))
	}
	r := report[0]
	if !r.Price.Equal(d(11.235)) {
		t.Errorf("price = %s, want rounded 11.235", r.Price)
	}
	if !r.Cost.Equal(d(10.001)) {
		t.Errorf("cost = %s, want rounded 10.001", r.Cost)
	}
	// (11.2346 - 10.0005) * 3 - 0.004 = 3.6983
	if !r.PnL.Equal(d(3.7)) {
		t.Errorf("pnl = %s, want rounded 3.7", r.PnL)
	}
}

func TestTotals(t *testing.T) {
	l := NewLedger(ClampToZero)
	l.ProcessTrades([]Trade{
		buy("2025-02-03", "600000.SH", 100, 10),
		buy("2025-02-03", "000001.SZ", 100, 20),
		sell("2025-02-04", "600000.SH", 50, 12, 0),
		sell("2025-02-04", "000001.SZ", 50, 18, 0),
	}, Today())

	if got := TotalPnL(l.PnLReport()); !got.IsZero() {
		t.Errorf("total pnl = %s, want 0 (100 gain against 100 loss)", got)
	}
	// 50*10 + 50*20
	if got := TotalCostValue(l.Snapshot()); !got.Equal(d(1500)) {
		t.Errorf("total cost value = %s, want 1500", got)
	}
}
