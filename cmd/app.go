// Package cmd implements the CLI application to turn broker exports and
// screenshots into a position snapshot and a realized PnL report.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/zhengmi/tradesnap"
	"github.com/zhengmi/tradesnap/industry"
	"github.com/zhengmi/tradesnap/normalize"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&snapCmd{}, "reports")
	c.Register(&holdingCmd{}, "reports")
	c.Register(&pnlCmd{}, "reports")

	c.Register(&scanCmd{}, "import")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var industryCNFile = flag.String("industry-cn", "industry/industry_CN.csv", "Path to the CN market Shenwan industry reference CSV")
var industryHKFile = flag.String("industry-hk", "industry/industry_HK.csv", "Path to the HK market Shenwan industry reference CSV")

// newNormalizer builds the import pipeline with whatever industry reference
// data is present on disk.
func newNormalizer() *normalize.Normalizer {
	lookup := industry.NewLookup()
	if err := lookup.Load(*industryCNFile, *industryHKFile); err != nil {
		log.Println("warning, cannot load industry reference data:", err)
	}
	return normalize.New(lookup)
}

// fileList is a repeatable file flag.
type fileList []string

func (l *fileList) String() string { return strings.Join(*l, ",") }

func (l *fileList) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// inputFlags are the trade source flags shared by the report commands.
type inputFlags struct {
	ashare  fileList
	futures fileList
	trades  fileList
	date    string
	policy  string
}

func (c *inputFlags) setFlags(f *flag.FlagSet) {
	f.Var(&c.ashare, "ashare", "A-share trade report CSV, repeatable")
	f.Var(&c.futures, "futures", "futures trade report CSV, repeatable")
	f.Var(&c.trades, "trades", "trade file (JSONL format), repeatable")
	f.StringVar(&c.date, "d", tradesnap.Today().String(), "trade date for records carrying none")
	f.StringVar(&c.policy, "policy", tradesnap.ClampToZero.String(), "sell policy: clamp, reject or allow-short")
}

// ledger loads every configured source and replays it into a fresh ledger.
func (c *inputFlags) ledger() (*tradesnap.Ledger, error) {
	n := newNormalizer()

	var all []tradesnap.Trade
	for _, path := range c.ashare {
		trades, err := parseFile(path, n.ParseAShareCSV)
		if err != nil {
			return nil, err
		}
		all = append(all, trades...)
	}
	for _, path := range c.futures {
		trades, err := parseFile(path, n.ParseFuturesCSV)
		if err != nil {
			return nil, err
		}
		all = append(all, trades...)
	}
	for _, path := range c.trades {
		trades, err := parseFile(path, tradesnap.DecodeTrades)
		if err != nil {
			return nil, err
		}
		all = append(all, trades...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no trades: give at least one -ashare, -futures or -trades file")
	}

	fallback, err := tradesnap.ParseDate(c.date)
	if err != nil {
		return nil, err
	}
	policy, err := tradesnap.ParseSellPolicy(c.policy)
	if err != nil {
		return nil, err
	}

	ledger := tradesnap.NewLedger(policy)
	ledger.ProcessTrades(all, fallback)
	if rejected := ledger.Rejected(); rejected > 0 {
		log.Printf("warning, %d sell(s) rejected for lack of holdings", rejected)
	}
	return ledger, nil
}

func parseFile(path string, parse func(r io.Reader) ([]tradesnap.Trade, error)) ([]tradesnap.Trade, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open trade source: %w", err)
	}
	defer f.Close()
	trades, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q: %w", path, err)
	}
	return trades, nil
}

// writeCSV writes a report export, overwriting any previous snapshot of the
// same day.
func writeCSV(path string, encode func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create export file: %w", err)
	}
	defer f.Close()
	if err := encode(f); err != nil {
		return fmt.Errorf("cannot write export file %q: %w", path, err)
	}
	return nil
}
