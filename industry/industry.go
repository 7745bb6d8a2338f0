// Package industry maps security codes to their top-level Shenwan industry
// name. The mapping is loaded from the reference CSV files published for the
// CN and HK markets; codes with no match classify as [Unknown].
package industry

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// Unknown is returned for codes absent from the loaded reference data.
const Unknown = "未知"

// Classifier maps a security code to an industry name.
type Classifier interface {
	Classify(code string) string
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(code string) string

func (f ClassifierFunc) Classify(code string) string { return f(code) }

// Lookup is a Classifier backed by the Shenwan reference CSV files.
type Lookup struct {
	byCode map[string]string
}

// NewLookup returns an empty Lookup. Classify returns [Unknown] until
// reference data is loaded.
func NewLookup() *Lookup {
	return &Lookup{byCode: make(map[string]string)}
}

// Header columns of the reference files. The industry column carries the full
// "一级--二级--三级" chain; only the first level is kept.
const (
	codeColumn       = "证券代码"
	cnIndustryColumn = "所属申万行业名称(2021)"
	hkIndustryColumn = "所属申万行业名称(港股)(2021)"
)

// LoadCN reads the CN market reference CSV from r.
func (l *Lookup) LoadCN(r io.Reader) error {
	return l.load(r, cnIndustryColumn, func(code string) string { return code })
}

// LoadHK reads the HK market reference CSV from r. Bare numeric codes are
// stored normalized to the five digit ".HK" form.
func (l *Lookup) LoadHK(r io.Reader) error {
	return l.load(r, hkIndustryColumn, func(code string) string {
		if isDigits(code) {
			return zfill(code, 5) + ".HK"
		}
		return code
	})
}

func (l *Lookup) load(r io.Reader, industryColumn string, normalize func(string) string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("cannot read reference csv: %w", err)
	}
	if !utf8.Valid(data) {
		// Same tolerance as the broker exports.
		data, err = simplifiedchinese.GBK.NewDecoder().Bytes(data)
		if err != nil {
			return fmt.Errorf("cannot decode reference csv as GBK: %w", err)
		}
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("cannot read reference csv header: %w", err)
	}
	codeIdx, industryIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case codeColumn:
			codeIdx = i
		case industryColumn:
			industryIdx = i
		}
	}
	if codeIdx < 0 || industryIdx < 0 {
		return fmt.Errorf("reference csv is missing column %q or %q", codeColumn, industryColumn)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("cannot read reference csv row: %w", err)
		}
		if len(record) <= codeIdx || len(record) <= industryIdx {
			continue
		}
		code := normalize(strings.TrimSpace(record[codeIdx]))
		industry, _, _ := strings.Cut(record[industryIdx], "--")
		l.byCode[code] = industry
	}
	return nil
}

// Load reads the CN and HK reference files from disk. A missing file is not
// an error: the lookup simply knows fewer codes, same as running without the
// reference data at all.
func (l *Lookup) Load(cnPath, hkPath string) error {
	return errors.Join(
		l.loadFile(cnPath, l.LoadCN),
		l.loadFile(hkPath, l.LoadHK),
	)
}

func (l *Lookup) loadFile(path string, load func(io.Reader) error) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		log.Printf("industry reference file %q not found, skipping", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("cannot open industry reference file: %w", err)
	}
	defer f.Close()
	if err := load(f); err != nil {
		return fmt.Errorf("cannot load %q: %w", path, err)
	}
	return nil
}

// Len returns the number of codes known to the lookup.
func (l *Lookup) Len() int { return len(l.byCode) }

// Classify returns the top-level industry for a security code. It tries the
// code as given, then without its market suffix, then as a five digit HK
// code, and falls back to [Unknown].
func (l *Lookup) Classify(code string) string {
	if industry, ok := l.byCode[code]; ok {
		return industry
	}
	base, _, _ := strings.Cut(code, ".")
	if industry, ok := l.byCode[base]; ok {
		return industry
	}
	if isDigits(base) && len(base) <= 5 {
		if industry, ok := l.byCode[zfill(base, 5)+".HK"]; ok {
			return industry
		}
	}
	return Unknown
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

// zfill left-pads s with zeros to width n.
func zfill(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return strings.Repeat("0", n-len(s)) + s
}
