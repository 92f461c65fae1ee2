// Package report builds the figures shown on the dashboard and report screens.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fonda/internal/ledger"
)

// Source reads back the rows of a collection within a date range.
type Source interface {
	List(ctx context.Context, collection string, from, to time.Time) ([]map[string]any, error)
}

type Service struct {
	source Source
}

func NewService(source Source) *Service {
	return &Service{source: source}
}

// Summary totals one date range. Beverage sales count as revenue next to Income.
type Summary struct {
	From time.Time
	To   time.Time

	Income        decimal.Decimal
	Expenses      decimal.Decimal
	BeverageSales decimal.Decimal

	// SalesByCategory splits BeverageSales by the sale's category (fria, caliente, sopa).
	SalesByCategory map[string]decimal.Decimal

	IncomeCount   int
	ExpenseCount  int
	SaleCount     int
	SkippedAmount int
}

// Revenue is income plus beverage sales.
func (s *Summary) Revenue() decimal.Decimal {
	return s.Income.Add(s.BeverageSales)
}

// Net is revenue minus expenses.
func (s *Summary) Net() decimal.Decimal {
	return s.Revenue().Sub(s.Expenses)
}

// DailyClose is one end-of-day report row.
type DailyClose struct {
	Date          time.Time
	CashTotal     decimal.Decimal
	CardTotal     decimal.Decimal
	ExpensesTotal decimal.Decimal
	Notes         string
}

// Takings is cash plus card.
func (d DailyClose) Takings() decimal.Decimal {
	return d.CashTotal.Add(d.CardTotal)
}

// Summary totals incomes, expenses and beverage sales dated within [from, to].
// Rows without a readable amount are counted in SkippedAmount.
func (s *Service) Summary(ctx context.Context, from, to time.Time) (*Summary, error) {
	sum := &Summary{
		From:            from,
		To:              to,
		SalesByCategory: make(map[string]decimal.Decimal),
	}

	incomes, err := s.source.List(ctx, ledger.CollectionIncomes, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing incomes: %w", err)
	}

	for _, row := range incomes {
		amount, ok := ParseAmount(row["amount"])
		if !ok {
			sum.SkippedAmount++
			continue
		}

		sum.Income = sum.Income.Add(amount)
		sum.IncomeCount++
	}

	expenses, err := s.source.List(ctx, ledger.CollectionExpenses, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing expenses: %w", err)
	}

	for _, row := range expenses {
		amount, ok := ParseAmount(row["amount"])
		if !ok {
			sum.SkippedAmount++
			continue
		}

		sum.Expenses = sum.Expenses.Add(amount)
		sum.ExpenseCount++
	}

	sales, err := s.source.List(ctx, ledger.CollectionBeverages, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing beverage sales: %w", err)
	}

	for _, row := range sales {
		amount, ok := saleAmount(row)
		if !ok {
			sum.SkippedAmount++
			continue
		}

		category, _ := row["category"].(string)
		if category == "" {
			category = "otros"
		}

		sum.BeverageSales = sum.BeverageSales.Add(amount)
		sum.SalesByCategory[category] = sum.SalesByCategory[category].Add(amount)
		sum.SaleCount++
	}

	return sum, nil
}

// EndOfDayReports returns the daily closings dated within [from, to], in the order the
// source returns them.
func (s *Service) EndOfDayReports(ctx context.Context, from, to time.Time) ([]DailyClose, error) {
	rows, err := s.source.List(ctx, ledger.CollectionEndOfDayReports, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing end of day reports: %w", err)
	}

	closes := make([]DailyClose, 0, len(rows))

	for _, row := range rows {
		var dc DailyClose

		dc.Date, _ = ParseDate(row["date"])
		dc.CashTotal, _ = ParseAmount(row["cash_total"])
		dc.CardTotal, _ = ParseAmount(row["card_total"])
		dc.ExpensesTotal, _ = ParseAmount(row["expenses_total"])
		dc.Notes, _ = row["notes"].(string)

		closes = append(closes, dc)
	}

	return closes, nil
}

// saleAmount uses the sale's amount, falling back to quantity * unit_price.
func saleAmount(row map[string]any) (decimal.Decimal, bool) {
	if amount, ok := ParseAmount(row["amount"]); ok {
		return amount, true
	}

	price, ok := ParseAmount(row["unit_price"])
	if !ok {
		return decimal.Zero, false
	}

	qty, ok := ParseAmount(row["quantity"])
	if !ok {
		qty = decimal.NewFromInt(1)
	}

	return price.Mul(qty), true
}
