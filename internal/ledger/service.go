package ledger

import (
	"context"
	"errors"
	"fmt"
)

var ErrUnknownKind = errors.New("unknown record kind")

//go:generate mockgen -source=service.go -destination=inserter_mock.go -package=ledger
type Inserter interface {
	// Insert stores rows in the named collection and returns whatever the store
	// acknowledges for them.
	Insert(ctx context.Context, collection string, rows []Record) ([]Record, error)
}

// Service is the only way views and handlers write records. It holds no state besides
// the injected client handle, so it is safe for concurrent use.
type Service struct {
	inserter   Inserter
	validators map[Kind]Validator
}

type Option func(*Service)

func NewService(inserter Inserter, opts ...Option) *Service {
	s := &Service{
		inserter:   inserter,
		validators: make(map[Kind]Validator),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) AddIncome(ctx context.Context, income Record) ([]Record, error) {
	return s.Add(ctx, KindIncome, income)
}

func (s *Service) AddExpense(ctx context.Context, expense Record) ([]Record, error) {
	return s.Add(ctx, KindExpense, expense)
}

func (s *Service) AddBeverageSale(ctx context.Context, sale Record) ([]Record, error) {
	return s.Add(ctx, KindBeverageSale, sale)
}

func (s *Service) AddEndOfDayReport(ctx context.Context, report Record) ([]Record, error) {
	return s.Add(ctx, KindEndOfDayReport, report)
}

// Add inserts record as a single-element batch into the collection of kind.
// The store's data and error are returned exactly as received: one call, one round-trip.
func (s *Service) Add(ctx context.Context, kind Kind, record Record) ([]Record, error) {
	collection := kind.Collection()
	if collection == "" {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	if validate, ok := s.validators[kind]; ok {
		if err := validate(record); err != nil {
			return nil, &ValidationError{Kind: kind, Err: err}
		}
	}

	return s.inserter.Insert(ctx, collection, []Record{record})
}
