// Package renderer formats tradesnap reports as markdown, suitable for
// printing through glamour or saving next to the exported CSV files.
package renderer

import (
	"fmt"
	"strings"

	"github.com/zhengmi/tradesnap"
)

// HoldingMarkdown renders the position snapshot as a markdown table.
func HoldingMarkdown(rows []tradesnap.Holding) string {
	var b strings.Builder

	fmt.Fprint(&b, "# 当前持仓\n\n")
	if len(rows) == 0 {
		fmt.Fprint(&b, "无持仓。\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| 名称 | 代码 | 持仓量 | 持仓均价 | 行业 | 占用金额 |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|:---|---:|")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			r.Name, r.Symbol, r.Quantity, r.AvgCost, r.Industry, r.CostValue)
	}
	fmt.Fprintf(&b, "| **合计** | | | | | **%s** |\n", tradesnap.TotalCostValue(rows))

	return b.String()
}

// PnLMarkdown renders the realized PnL report as a markdown table, with the
// running total in a bold last row.
func PnLMarkdown(rows []tradesnap.PnLEntry) string {
	var b strings.Builder

	fmt.Fprint(&b, "# 已实现盈亏\n\n")
	if len(rows) == 0 {
		fmt.Fprint(&b, "暂无卖出记录。\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| 时间 | 代码 | 名称 | 方向 | 数量 | 成交均价 | 成本价 | 盈亏 | 行业 |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|---:|:---|")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			r.Date, r.Symbol, r.Name, r.Side, r.Quantity, r.Price, r.Cost, r.PnL, r.Industry)
	}
	fmt.Fprintf(&b, "| **合计** | | | | | | | **%s** | |\n", tradesnap.TotalPnL(rows))

	return b.String()
}

// TradesMarkdown renders a list of normalized trades, useful to review an
// import before it is committed to the trade file.
func TradesMarkdown(trades []tradesnap.Trade) string {
	var b strings.Builder

	fmt.Fprint(&b, "# 导入明细\n\n")
	if len(trades) == 0 {
		fmt.Fprint(&b, "无交易记录。\n")
		return b.String()
	}

	fmt.Fprintln(&b, "| 日期 | 时间 | 代码 | 名称 | 方向 | 数量 | 价格 | 手续费 | 行业 |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|:---|---:|---:|---:|:---|")
	for _, t := range trades {
		date := ""
		if !t.Date.IsZero() {
			date = t.Date.String()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			date, t.Time, t.Symbol, t.Name, t.Side, t.Quantity, t.Price, t.Fee, t.Industry)
	}

	return b.String()
}
