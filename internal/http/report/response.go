package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fonda/internal/report"
)

type summaryResponse struct {
	StartDate       string                     `json:"start_date"`
	EndDate         string                     `json:"end_date"`
	Income          decimal.Decimal            `json:"income"`
	BeverageSales   decimal.Decimal            `json:"beverage_sales"`
	SalesByCategory map[string]decimal.Decimal `json:"sales_by_category"`
	Revenue         decimal.Decimal            `json:"revenue"`
	Expenses        decimal.Decimal            `json:"expenses"`
	Net             decimal.Decimal            `json:"net"`
	IncomeCount     int                        `json:"income_count"`
	ExpenseCount    int                        `json:"expense_count"`
	SaleCount       int                        `json:"sale_count"`
	Skipped         int                        `json:"skipped,omitempty"`
}

type dailyCloseResponse struct {
	Date          string          `json:"date"`
	CashTotal     decimal.Decimal `json:"cash_total"`
	CardTotal     decimal.Decimal `json:"card_total"`
	Takings       decimal.Decimal `json:"takings"`
	ExpensesTotal decimal.Decimal `json:"expenses_total"`
	Notes         string          `json:"notes,omitempty"`
}

func toSummaryResponse(s *report.Summary) summaryResponse {
	return summaryResponse{
		StartDate:       s.From.Format(time.DateOnly),
		EndDate:         s.To.Format(time.DateOnly),
		Income:          s.Income,
		BeverageSales:   s.BeverageSales,
		SalesByCategory: s.SalesByCategory,
		Revenue:         s.Revenue(),
		Expenses:        s.Expenses,
		Net:             s.Net(),
		IncomeCount:     s.IncomeCount,
		ExpenseCount:    s.ExpenseCount,
		SaleCount:       s.SaleCount,
		Skipped:         s.SkippedAmount,
	}
}

func toDailyCloseList(closes []report.DailyClose) []dailyCloseResponse {
	resp := make([]dailyCloseResponse, len(closes))
	for i, c := range closes {
		resp[i] = dailyCloseResponse{
			Date:          c.Date.Format(time.DateOnly),
			CashTotal:     c.CashTotal,
			CardTotal:     c.CardTotal,
			Takings:       c.Takings(),
			ExpensesTotal: c.ExpensesTotal,
			Notes:         c.Notes,
		}
	}

	return resp
}
