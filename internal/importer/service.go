// Package importer turns bank statements into ledger records.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/fonda/internal/importer/statement"
	"github.com/MrJamesThe3rd/fonda/internal/ledger"
)

// SourceBank marks records that came from a statement import.
const SourceBank = "bank"

// Adder is the part of the ledger facade the importer writes through.
type Adder interface {
	AddIncome(ctx context.Context, income ledger.Record) ([]ledger.Record, error)
	AddExpense(ctx context.Context, expense ledger.Record) ([]ledger.Record, error)
}

// Result reports what an import wrote, including on partial failure.
type Result struct {
	ImportID uuid.UUID
	Parsed   int
	Incomes  int
	Expenses int
	Inserted []ledger.Record
}

func (r *Result) Total() int {
	return r.Incomes + r.Expenses
}

// Categorizer suggests an expense category for a statement description.
type Categorizer interface {
	Suggest(ctx context.Context, description string) (string, error)
}

type Service struct {
	ledger      Adder
	categorizer Categorizer
}

type Option func(*Service)

// WithCategorizer tags imported expenses with the category c suggests.
func WithCategorizer(c Categorizer) Option {
	return func(s *Service) {
		s.categorizer = c
	}
}

func NewService(adder Adder, opts ...Option) *Service {
	s := &Service{ledger: adder}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Parse reads a statement without writing anything.
func (s *Service) Parse(bank statement.Bank, r io.Reader) ([]statement.Entry, error) {
	p, err := statement.NewParser(bank)
	if err != nil {
		return nil, err
	}

	return p.Parse(r)
}

// Import parses a statement and inserts every entry through the ledger, one call per entry.
// It stops at the first failed insert; the returned Result still lists what was written.
func (s *Service) Import(ctx context.Context, bank statement.Bank, r io.Reader) (*Result, error) {
	entries, err := s.Parse(bank, r)
	if err != nil {
		return nil, fmt.Errorf("parse %s statement: %w", bank, err)
	}

	res := &Result{
		ImportID: uuid.New(),
		Parsed:   len(entries),
	}

	for i, e := range entries {
		rec := Record(e, res.ImportID)

		if e.Kind == ledger.KindExpense && s.categorizer != nil {
			category, err := s.categorizer.Suggest(ctx, e.Description)
			if err != nil {
				slog.Warn("category lookup failed", "description", e.Description, "error", err)
			} else if category != "" {
				rec["category"] = category
			}
		}

		rows, err := s.add(ctx, e, rec)
		if err != nil {
			return res, fmt.Errorf("insert entry %d (%s): %w", i+1, e.Description, err)
		}

		if e.Kind == ledger.KindIncome {
			res.Incomes++
		} else {
			res.Expenses++
		}

		res.Inserted = append(res.Inserted, rows...)
	}

	return res, nil
}

func (s *Service) add(ctx context.Context, e statement.Entry, rec ledger.Record) ([]ledger.Record, error) {
	switch e.Kind {
	case ledger.KindIncome:
		return s.ledger.AddIncome(ctx, rec)
	case ledger.KindExpense:
		return s.ledger.AddExpense(ctx, rec)
	}

	return nil, fmt.Errorf("%w: %q", ledger.ErrUnknownKind, e.Kind)
}

// Record converts a statement entry to the record inserted for it.
func Record(e statement.Entry, importID uuid.UUID) ledger.Record {
	rec := ledger.Record{
		"date":        e.Date.Format(time.DateOnly),
		"amount":      e.Amount.StringFixed(2),
		"description": e.Description,
		"import_id":   importID.String(),
	}

	if e.Kind == ledger.KindIncome {
		rec["source"] = SourceBank
	} else {
		rec["category"] = SourceBank
	}

	return rec
}
