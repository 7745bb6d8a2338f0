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

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	inputFlags
	csv string
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the position snapshot" }
func (*holdingCmd) Usage() string {
	return `tsnap holding -ashare <csv> [-futures <csv>] [-trades <jsonl>] [-d <date>]

  Replays the trade sources and displays the open positions with their
  weighted average cost and occupied capital.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	c.inputFlags.setFlags(f)
	f.StringVar(&c.csv, "o", "", "also export the snapshot to this CSV file")
}

func (c *holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := c.ledger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading trades: %v\n", err)
		return subcommands.ExitFailure
	}

	holdings := ledger.Snapshot()
	printMarkdown(renderer.HoldingMarkdown(holdings))

	if c.csv != "" {
		err := writeCSV(c.csv, func(w io.Writer) error {
			return tradesnap.EncodeSnapshotCSV(w, holdings)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error exporting snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	return subcommands.ExitSuccess
}
