package export

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/fonda/internal/report"
)

const (
	ClosingsFile = "cierres.csv"
	SummaryFile  = "resumen.txt"
)

// Bundle is everything handed to the accountant for one period.
type Bundle struct {
	Summary  *report.Summary
	Closings []report.DailyClose
}

// Service packages report data for the accountant.
type Service struct {
	reports *report.Service
}

func NewService(reports *report.Service) *Service {
	return &Service{reports: reports}
}

// Export gathers the period summary and the daily closings within [from, to].
func (s *Service) Export(ctx context.Context, from, to time.Time) (*Bundle, error) {
	sum, err := s.reports.Summary(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("building summary: %w", err)
	}

	closings, err := s.reports.EndOfDayReports(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing daily closings: %w", err)
	}

	return &Bundle{Summary: sum, Closings: closings}, nil
}

// WriteClosingsCSV writes one row per daily closing with a header row first.
func WriteClosingsCSV(w io.Writer, closings []report.DailyClose) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"fecha", "efectivo", "tarjeta", "total", "gastos", "notas"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, c := range closings {
		row := []string{
			c.Date.Format(time.DateOnly),
			c.CashTotal.StringFixed(2),
			c.CardTotal.StringFixed(2),
			c.Takings().StringFixed(2),
			c.ExpensesTotal.StringFixed(2),
			c.Notes,
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing closing %s: %w", row[0], err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// GenerateSummaryText renders the bundle as plain text, ready to paste into an email.
func GenerateSummaryText(b *Bundle) string {
	var sb strings.Builder

	sum := b.Summary

	fmt.Fprintf(&sb, "Periodo: %s a %s\n\n", sum.From.Format(time.DateOnly), sum.To.Format(time.DateOnly))
	fmt.Fprintf(&sb, "Ingresos:  %s €\n", sum.Income.StringFixed(2))
	fmt.Fprintf(&sb, "Bebidas:   %s €\n", sum.BeverageSales.StringFixed(2))
	fmt.Fprintf(&sb, "Gastos:    %s €\n", sum.Expenses.StringFixed(2))
	fmt.Fprintf(&sb, "Neto:      %s €\n", sum.Net().StringFixed(2))

	if len(b.Closings) == 0 {
		return sb.String()
	}

	sb.WriteString("\nCierres:\n")

	for _, c := range b.Closings {
		fmt.Fprintf(&sb, "* %s | efectivo %s € | tarjeta %s € | gastos %s €",
			c.Date.Format(time.DateOnly),
			c.CashTotal.StringFixed(2),
			c.CardTotal.StringFixed(2),
			c.ExpensesTotal.StringFixed(2),
		)

		if c.Notes != "" {
			sb.WriteString(" | " + c.Notes)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// WriteZip writes the closings CSV and the summary text into a single zip archive.
func WriteZip(w io.Writer, b *Bundle) error {
	zw := zip.NewWriter(w)

	f, err := zw.Create(ClosingsFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", ClosingsFile, err)
	}

	if err := WriteClosingsCSV(f, b.Closings); err != nil {
		return err
	}

	f, err = zw.Create(SummaryFile)
	if err != nil {
		return fmt.Errorf("creating %s: %w", SummaryFile, err)
	}

	if _, err := io.WriteString(f, GenerateSummaryText(b)); err != nil {
		return fmt.Errorf("writing %s: %w", SummaryFile, err)
	}

	return zw.Close()
}
