package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"github.com/zhengmi/tradesnap"
	"github.com/zhengmi/tradesnap/renderer"
)

// snapCmd holds the flags for the 'snap' subcommand.
type snapCmd struct {
	inputFlags
	holdingCSV string
	pnlCSV     string
}

func (*snapCmd) Name() string     { return "snap" }
func (*snapCmd) Synopsis() string { return "replay trade sources and print both reports" }
func (*snapCmd) Usage() string {
	return `tsnap snap -ashare <csv> [-futures <csv>] [-trades <jsonl>] [-d <date>] [-policy <policy>]

  Replays every given trade source in chronological order and prints the
  position snapshot and the realized PnL report. Use -o-holding and -o-pnl
  to also export them as CSV.
`
}

func (c *snapCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.setFlags(f)
	f.StringVar(&c.holdingCSV, "o-holding", "", "also export the position snapshot to this CSV file")
	f.StringVar(&c.pnlCSV, "o-pnl", "", "also export the realized PnL report to this CSV file")
}

func (c *snapCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := c.ledger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	holdings := ledger.Snapshot()
	report := ledger.PnLReport()

	printMarkdown(renderer.HoldingMarkdown(holdings))
	printMarkdown(renderer.PnLMarkdown(report))

	if c.holdingCSV != "" {
		err := writeCSV(c.holdingCSV, func(w io.Writer) error {
			return tradesnap.EncodeSnapshotCSV(w, holdings)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	if c.pnlCSV != "" {
		err := writeCSV(c.pnlCSV, func(w io.Writer) error {
			return tradesnap.EncodePnLCSV(w, report)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting PnL report: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
