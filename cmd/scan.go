package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/zhengmi/tradesnap"
	"github.com/zhengmi/tradesnap/renderer"
	"github.com/zhengmi/tradesnap/vision"
)

// scanCmd holds the flags for the 'scan' subcommand.
type scanCmd struct {
	images fileList
	kind   string
	model  string
	out    string
}

func (*scanCmd) Name() string     { return "scan" }
func (*scanCmd) Synopsis() string { return "extract trades from broker app screenshots" }
func (*scanCmd) Usage() string {
	return `tsnap scan -i <image> [-i <image>...] [-k hk|futures] [-o <jsonl>]

  Sends each screenshot to the vision model, extracts the visible trade
  records and prints them for review. With -o the trades are appended to a
  trade file (JSONL format), ready for 'tsnap snap -trades'.
`
}

func (c *scanCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.images, "i", "screenshot to scan, repeatable")
	f.StringVar(&c.kind, "k", string(vision.HKStock), "screenshot kind: hk or futures")
	f.StringVar(&c.model, "m", vision.DefaultModel, "vision model to use")
	f.StringVar(&c.out, "o", "", "append the extracted trades to this trade file")
}

func (c *scanCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(c.images) == 0 {
		fmt.Fprintln(os.Stderr, "Error: give at least one -i screenshot")
		return subcommands.ExitUsageError
	}
	kind, err := vision.ParseKind(c.kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}
	extractor := vision.NewExtractor(client, c.model)
	n := newNormalizer()

	var all []tradesnap.Trade
	for _, path := range c.images {
		image, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading screenshot: %v\n", err)
			return subcommands.ExitFailure
		}
		raw, err := extractor.Extract(ctx, image, imageMIME(path), kind)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error extracting %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		trades, err := n.ParseAITrades(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing extraction of %q: %v\n", path, err)
			return subcommands.ExitFailure
		}
		all = append(all, trades...)
	}

	printMarkdown(renderer.TradesMarkdown(all))

	if c.out != "" {
		return appendTrades(c.out, all)
	}
	return subcommands.ExitSuccess
}

// appendTrades appends trades to a trade file, creating it if needed.
func appendTrades(filename string, trades []tradesnap.Trade) subcommands.ExitStatus {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening trade file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := tradesnap.EncodeTrades(f, trades); err != nil {
		fmt.Fprintf(os.Stderr, "Error appending to trade file %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Appended %d trade(s) to %q.\n", len(trades), filename)
	return subcommands.ExitSuccess
}

// imageMIME guesses the screenshot mime type from its extension.
func imageMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
