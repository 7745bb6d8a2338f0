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

// pnlCmd holds the flags for the 'pnl' subcommand.
type pnlCmd struct {
	inputFlags
	csv string
}

func (*pnlCmd) Name() string     { return "pnl" }
func (*pnlCmd) Synopsis() string { return "display the realized PnL report" }
func (*pnlCmd) Usage() string {
	return `tsnap pnl -ashare <csv> [-futures <csv>] [-trades <jsonl>] [-d <date>]

  Replays the trade sources and displays every realized PnL record in
  chronological order, with the running total.
`
}

func (c *pnlCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.setFlags(f)
	f.StringVar(&c.csv, "o", "", "also export the report to this CSV file")
}

func (c *pnlCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := c.ledger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	report := ledger.PnLReport()
	printMarkdown(renderer.PnLMarkdown(report))

	if c.csv != "" {
		err := writeCSV(c.csv, func(w io.Writer) error {
			return tradesnap.EncodePnLCSV(w, report)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting report: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
