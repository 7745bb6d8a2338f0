package normalize

import (
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/zhengmi/tradesnap"
	"github.com/zhengmi/tradesnap/industry"
)

// stub classifies from a fixed table, standing in for the reference files.
var stub = industry.ClassifierFunc(func(code string) string {
	table := map[string]string{
		"600000.SH": "银行",
		"300750.SZ": "电力设备",
		"00700.HK":  "传媒",
	}
	if v, ok := table[code]; ok {
		return v
	}
	return industry.Unknown
})

func TestNormalizeAShareCode(t *testing.T) {
	cases := []struct{ in, want string }{
		{"600000", "600000.SH"},
		{"688981", "688981.SH"},
		{"900901", "900901.SH"},
		{"1", "000001.SZ"},
		{"300750", "300750.SZ"},
		{"200596", "200596.SZ"},
		{"430047", "430047.BJ"},
		{"830799", "830799.BJ"},
		{" 600519 ", "600519.SH"},
		{"123456", "123456"},
	}
	for _, c := range cases {
		if got := NormalizeAShareCode(c.in); got != c.want {
			t.Errorf("NormalizeAShareCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeHKCode(t *testing.T) {
	cases := []struct{ in, want string }{
		{"700", "00700.HK"},
		{"9988", "09988.HK"},
		{"09988", "09988.HK"},
		{"HSI", "HSI"},
		{"123456", "123456"},
	}
	for _, c := range cases {
		if got := NormalizeHKCode(c.in); got != c.want {
			t.Errorf("NormalizeHKCode(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

const ashareSample = `成交日期,证券代码,证券名称,操作,成交均价,成交数量,手续费
2025-06-02,600000,浦发银行,买入,10.50,"1,000",5.20
2025-06-03,600000,浦发银行,卖出,11.00,500,2.60
,300750,宁德时代,买入,188.00,100,
`

func TestParseAShareCSV(t *testing.T) {
	n := New(stub)
	trades, err := n.ParseAShareCSV(strings.NewReader(ashareSample))
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 3 {
		t.Fatalf("got %d trades, want 3", len(trades))
	}

	first := trades[0]
	if first.Symbol != "600000.SH" {
		t.Errorf("symbol = %q, want 600000.SH", first.Symbol)
	}
	if first.Name != "浦发银行" {
		t.Errorf("name = %q", first.Name)
	}
	if first.Side != tradesnap.Buy {
		t.Errorf("side = %v, want Buy", first.Side)
	}
	if first.Price.String() != "10.5" {
		t.Errorf("price = %s, want 10.5", first.Price)
	}
	if first.Quantity.String() != "1000" {
		t.Errorf("quantity = %s, want 1000 (thousands separator)", first.Quantity)
	}
	if first.Fee.String() != "5.2" {
		t.Errorf("fee = %s, want 5.2", first.Fee)
	}
	if first.Date != tradesnap.MustParseDate("2025-06-02") {
		t.Errorf("date = %s", first.Date)
	}
	if first.Industry != "银行" {
		t.Errorf("industry = %q, want 银行", first.Industry)
	}

	if trades[1].Side != tradesnap.Sell {
		t.Errorf("second trade side = %v, want Sell", trades[1].Side)
	}

	// A blank date cell stays zero; the ledger fills it in later.
	if !trades[2].Date.IsZero() {
		t.Errorf("blank date parsed as %s, want zero", trades[2].Date)
	}
	if !trades[2].Fee.IsZero() {
		t.Errorf("blank fee parsed as %s, want 0", trades[2].Fee)
	}
}

func TestParseAShareCSV_GBK(t *testing.T) {
	// Windows broker terminals export GBK; the parser must accept both.
	gbk, err := simplifiedchinese.GBK.NewEncoder().Bytes([]byte(ashareSample))
	if err != nil {
		t.Fatal(err)
	}
	n := New(stub)
	trades, err := n.ParseAShareCSV(strings.NewReader(string(gbk)))
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 3 || trades[0].Name != "浦发银行" {
		t.Errorf("GBK parse lost data: %+v", trades)
	}
}

func TestParseAShareCSV_MissingColumn(t *testing.T) {
	n := New(stub)
	if _, err := n.ParseAShareCSV(strings.NewReader("证券代码,操作\n600000,买入\n")); err == nil {
		t.Error("parser accepted a csv without required columns")
	}
}

const futuresSample = `合约,买卖,成交均价,成交手数,手续费
IF2606,买入开仓,3900.0,2,23.1
IF2606,卖出平仓,3910.0,2,23.1
AU2512,买入开仓,580.5,1,10.0
`

func TestParseFuturesCSV(t *testing.T) {
	n := New(stub)
	trades, err := n.ParseFuturesCSV(strings.NewReader(futuresSample))
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 3 {
		t.Fatalf("got %d trades, want 3", len(trades))
	}

	open := trades[0]
	if open.Symbol != "IF2606" || open.Side != tradesnap.Buy {
		t.Errorf("open = %q %v, want IF2606 Buy", open.Symbol, open.Side)
	}
	if open.Multiplier.String() != "300" {
		t.Errorf("IF multiplier = %s, want 300", open.Multiplier)
	}
	if open.Industry != "期货" {
		t.Errorf("industry = %q, want 期货", open.Industry)
	}
	if !open.Date.IsZero() {
		t.Errorf("futures csv has no dates, got %s", open.Date)
	}

	if trades[1].Side != tradesnap.Sell {
		t.Errorf("close side = %v, want Sell", trades[1].Side)
	}

	// Unlisted products carry no multiplier and trade at 1.
	if !trades[2].Multiplier.IsZero() {
		t.Errorf("AU multiplier = %s, want unset", trades[2].Multiplier)
	}
}

func TestParseAITrades(t *testing.T) {
	src := `[
	  {"time":"09:31:05","name":"腾讯控股","code":"700","side":"BUY","qty":100,"price":380.2,"fee":15},
	  {"code":"9988","side":"sell","qty":"200","price":"75.5"},
	  {"code":"HSI","qty":1,"price":19500}
	]`
	n := New(stub)
	trades, err := n.ParseAITrades([]byte(src))
	if err != nil {
		t.Fatal(err)
	}
	if len(trades) != 3 {
		t.Fatalf("got %d trades, want 3", len(trades))
	}

	first := trades[0]
	if first.Symbol != "00700.HK" {
		t.Errorf("symbol = %q, want 00700.HK", first.Symbol)
	}
	if first.Time != "09:31:05" {
		t.Errorf("time = %q", first.Time)
	}
	if first.Price.String() != "380.2" {
		t.Errorf("price = %s, want 380.2", first.Price)
	}
	if first.Industry != "传媒" {
		t.Errorf("industry = %q, want 传媒", first.Industry)
	}

	// String-typed numerics and lowercase sides still parse.
	second := trades[1]
	if second.Side != tradesnap.Sell {
		t.Errorf("side = %v, want Sell", second.Side)
	}
	if second.Quantity.String() != "200" || second.Price.String() != "75.5" {
		t.Errorf("quantity/price = %s/%s", second.Quantity, second.Price)
	}

	// No side defaults to BUY; the name defaults to the symbol.
	third := trades[2]
	if third.Side != tradesnap.Buy {
		t.Errorf("side = %v, want default Buy", third.Side)
	}
	if third.Symbol != "HSI" || third.Name != "HSI" {
		t.Errorf("symbol/name = %q/%q, want HSI/HSI", third.Symbol, third.Name)
	}
}

func TestParseAITrades_Garbage(t *testing.T) {
	n := New(stub)
	if _, err := n.ParseAITrades([]byte("sorry, I cannot read this image")); err == nil {
		t.Error("parser accepted non-JSON output")
	}
}

func TestCleanNumeric(t *testing.T) {
	cases := []struct{ in, want string }{
		{"1,234.5", "1234.5"},
		{" 42 ", "42"},
		{"", "0"},
		{"n/a", "0"},
	}
	for _, c := range cases {
		if got := cleanNumeric(c.in).String(); got != c.want {
			t.Errorf("cleanNumeric(%q) = %s, want %s", c.in, got, c.want)
		}
	}
}
