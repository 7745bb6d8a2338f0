// Package normalize turns raw broker exports into tradesnap trades. It reads
// the A-share trade report CSV, the futures trade report CSV and the JSON
// emitted by the screenshot extraction, normalizes security codes to their
// market-suffixed form and tags each trade with its industry.
package normalize

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/zhengmi/tradesnap"
	"github.com/zhengmi/tradesnap/industry"
)

// futuresMultipliers maps an index futures product code to its contract
// multiplier. Products not listed trade at 1.
var futuresMultipliers = map[string]int64{
	"IF": 300,
	"IH": 300,
	"IC": 200,
	"IM": 200,
}

// Normalizer parses broker exports and classifies the resulting trades.
type Normalizer struct {
	classifier industry.Classifier
}

// New returns a Normalizer using the given classifier. A nil classifier
// tags every trade as [industry.Unknown].
func New(c industry.Classifier) *Normalizer {
	if c == nil {
		c = industry.ClassifierFunc(func(string) string { return industry.Unknown })
	}
	return &Normalizer{classifier: c}
}

// NormalizeAShareCode pads an A-share code to six digits and appends the
// exchange suffix derived from its prefix. Codes with an unrecognized prefix
// are returned padded but unsuffixed.
func NormalizeAShareCode(code string) string {
	code = zfill(strings.TrimSpace(code), 6)
	switch {
	case hasAnyPrefix(code, "60", "68", "90"):
		return code + ".SH"
	case hasAnyPrefix(code, "00", "30", "20"):
		return code + ".SZ"
	case hasAnyPrefix(code, "43", "83", "87", "88"):
		return code + ".BJ"
	}
	return code
}

// NormalizeHKCode pads a bare numeric HK code to five digits and appends the
// ".HK" suffix. Non-numeric codes pass through unchanged.
func NormalizeHKCode(code string) string {
	code = strings.TrimSpace(code)
	if isDigits(code) && len(code) <= 5 {
		return zfill(code, 5) + ".HK"
	}
	return code
}

// A-share trade report columns. 成交日期 and 手续费 are optional: some broker
// exports omit them.
const (
	colDate     = "成交日期"
	colCode     = "证券代码"
	colName     = "证券名称"
	colAction   = "操作"
	colPrice    = "成交均价"
	colQuantity = "成交数量"
	colFee      = "手续费"
)

// ParseAShareCSV parses an A-share trade report. The file may be GBK or
// UTF-8 encoded. Rows with a missing or unparseable date get a zero date,
// filled in later by the ledger's fallback.
func (n *Normalizer) ParseAShareCSV(r io.Reader) ([]tradesnap.Trade, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	required := []string{colCode, colName, colAction, colPrice, colQuantity}
	for _, name := range required {
		if _, ok := header[name]; !ok {
			return nil, fmt.Errorf("a-share csv is missing column %q", name)
		}
	}

	var trades []tradesnap.Trade
	for _, row := range rows {
		var on tradesnap.Date
		if str := field(row, header, colDate); str != "" {
			if parsed, err := tradesnap.ParseDate(str); err == nil {
				on = parsed
			}
		}

		symbol := NormalizeAShareCode(field(row, header, colCode))
		side := tradesnap.Sell
		if field(row, header, colAction) == "买入" {
			side = tradesnap.Buy
		}

		trades = append(trades, tradesnap.Trade{
			Symbol:   symbol,
			Name:     field(row, header, colName),
			Side:     side,
			Price:    cleanNumeric(field(row, header, colPrice)),
			Quantity: cleanNumeric(field(row, header, colQuantity)),
			Date:     on,
			Fee:      cleanNumeric(field(row, header, colFee)),
			Industry: n.classifier.Classify(symbol),
		})
	}
	return trades, nil
}

// Futures trade report columns.
const (
	colContract   = "合约"
	colDirection  = "买卖"
	colLots       = "成交手数"
	futuresSector = "期货"
)

// ParseFuturesCSV parses a futures trade report. The report carries no date
// column; all trades get a zero date. The contract multiplier is derived
// from the product code, e.g. IF2606 trades at 300.
func (n *Normalizer) ParseFuturesCSV(r io.Reader) ([]tradesnap.Trade, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}
	for _, name := range []string{colContract, colDirection, colPrice, colLots} {
		if _, ok := header[name]; !ok {
			return nil, fmt.Errorf("futures csv is missing column %q", name)
		}
	}

	var trades []tradesnap.Trade
	for _, row := range rows {
		symbol := field(row, header, colContract)

		side := tradesnap.Sell
		if strings.Contains(field(row, header, colDirection), "买") {
			side = tradesnap.Buy
		}

		var multiplier decimal.Decimal
		if m, ok := futuresMultipliers[productCode(symbol)]; ok {
			multiplier = decimal.NewFromInt(m)
		}

		trades = append(trades, tradesnap.Trade{
			Symbol:     symbol,
			Name:       symbol,
			Side:       side,
			Price:      cleanNumeric(field(row, header, colPrice)),
			Quantity:   cleanNumeric(field(row, header, colLots)),
			Fee:        cleanNumeric(field(row, header, colFee)),
			Multiplier: multiplier,
			Industry:   futuresSector,
		})
	}
	return trades, nil
}

// aiTrade is one record of the JSON array the vision model is prompted to
// emit. Numeric fields arrive as numbers or strings depending on the model's
// mood, hence the any typing.
type aiTrade struct {
	Time  string `json:"time"`
	Name  string `json:"name"`
	Code  string `json:"code"`
	Side  string `json:"side"`
	Qty   any    `json:"qty"`
	Price any    `json:"price"`
	Fee   any    `json:"fee"`
}

// ParseAITrades parses the JSON array produced by the screenshot extraction.
// Bare numeric codes are treated as HK securities. A missing or unrecognized
// side defaults to BUY, matching the extraction prompt's contract.
func (n *Normalizer) ParseAITrades(data []byte) ([]tradesnap.Trade, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var records []aiTrade
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("cannot parse extracted trades: %w", err)
	}

	var trades []tradesnap.Trade
	for _, rec := range records {
		symbol := NormalizeHKCode(rec.Code)
		name := rec.Name
		if name == "" {
			name = symbol
		}
		side := tradesnap.Buy
		if parsed, err := tradesnap.ParseSide(rec.Side); err == nil {
			side = parsed
		}
		trades = append(trades, tradesnap.Trade{
			Symbol:   symbol,
			Name:     name,
			Side:     side,
			Price:    cleanAny(rec.Price),
			Quantity: cleanAny(rec.Qty),
			Time:     strings.TrimSpace(rec.Time),
			Fee:      cleanAny(rec.Fee),
			Industry: n.classifier.Classify(symbol),
		})
	}
	return trades, nil
}

// readCSV decodes r (GBK or UTF-8), parses it and returns the data rows plus
// a header name to column index map.
func readCSV(r io.Reader) ([][]string, map[string]int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read csv: %w", err)
	}
	if !utf8.Valid(data) {
		// Broker terminals on Windows still export GBK.
		data, err = simplifiedchinese.GBK.NewDecoder().Bytes(data)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot decode csv as GBK: %w", err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("cannot parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("csv is empty")
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[strings.TrimSpace(name)] = i
	}
	return records[1:], header, nil
}

// field returns the trimmed cell for a named column, or "" when the column
// is absent or the row is short.
func field(row []string, header map[string]int, name string) string {
	i, ok := header[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// cleanNumeric parses a numeric cell, tolerating thousands separators and
// blanks. Unparseable values count as zero, same as a blank cell.
func cleanNumeric(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// cleanAny is cleanNumeric over the loosely typed values of the extraction
// JSON.
func cleanAny(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case json.Number:
		return cleanNumeric(x.String())
	case string:
		return cleanNumeric(x)
	case float64:
		return decimal.NewFromFloat(x)
	default:
		return decimal.Zero
	}
}

// productCode extracts the alphabetic product prefix of a futures contract,
// e.g. IF2606 yields IF.
func productCode(symbol string) string {
	var b strings.Builder
	for _, r := range symbol {
		if unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func zfill(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}
