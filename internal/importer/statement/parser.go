// Package statement reads bank statement CSV exports into ledger entries.
package statement

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/fonda/internal/encoding"
	"github.com/MrJamesThe3rd/fonda/internal/ledger"
)

// Entry is one statement movement. Amount is always positive; Kind says whether money
// came in (income) or went out (expense).
type Entry struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal
	Kind        ledger.Kind
}

// Parser reads one bank's exports, auto-detecting the layout by its header row.
type Parser struct {
	bank     Bank
	profiles []Profile
}

func NewParser(bank Bank) (*Parser, error) {
	p, ok := profiles[bank]
	if !ok {
		return nil, fmt.Errorf("unknown bank: %s", bank)
	}

	return &Parser{bank: bank, profiles: p}, nil
}

func (p *Parser) Parse(r io.Reader) ([]Entry, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := p.detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching %s format found", p.bank)
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

func (p *Parser) detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range p.profiles {
			if matchesProfile(&p.profiles[i], cols) {
				return &p.profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips rows without a date or amount (page footers, totals).
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]Entry, error) {
	dateIdx := cols[p.DateCol]
	descIdx := cols[p.DescCol]

	var entries []Entry

	for i, row := range rows {
		rowNum := headerRowNum + i + 1

		date, ok := parseDate(row, dateIdx, p.DateLayout)
		if !ok {
			continue
		}

		amount, kind, ok := parseAmount(p, cols, row)
		if !ok {
			continue
		}

		desc := cellValue(row, descIdx)
		if desc == "" {
			return nil, fmt.Errorf("row %d: missing description", rowNum)
		}

		entries = append(entries, Entry{
			Date:        date,
			Description: desc,
			Amount:      amount,
			Kind:        kind,
		})
	}

	return entries, nil
}

func parseDate(row []string, idx int, layout string) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	t, err := time.Parse(layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

func parseAmount(p *Profile, cols colIndex, row []string) (decimal.Decimal, ledger.Kind, bool) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(row, cols[p.AmountCol])
	case amountSplit:
		return parseSplitAmount(row, cols[p.DebitCol], cols[p.CreditCol])
	}

	return decimal.Zero, "", false
}

func parseSingleAmount(row []string, idx int) (decimal.Decimal, ledger.Kind, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return decimal.Zero, "", false
	}

	d, err := parseEuropeanAmount(s)
	if err != nil || d.IsZero() {
		return decimal.Zero, "", false
	}

	if d.IsNegative() {
		return d.Neg(), ledger.KindExpense, true
	}

	return d, ledger.KindIncome, true
}

func parseSplitAmount(row []string, debitIdx, creditIdx int) (decimal.Decimal, ledger.Kind, bool) {
	if s := cellValue(row, debitIdx); s != "" {
		d, err := parseEuropeanAmount(s)
		if err == nil && !d.IsZero() {
			return d.Abs(), ledger.KindExpense, true
		}
	}

	if s := cellValue(row, creditIdx); s != "" {
		d, err := parseEuropeanAmount(s)
		if err == nil && !d.IsZero() {
			return d.Abs(), ledger.KindIncome, true
		}
	}

	return decimal.Zero, "", false
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
