package view

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dbTimeout = 10 * time.Second

// FormatAmount renders an amount the way the restaurant writes it: "1.234,50 €".
func FormatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}

		b.WriteRune(r)
	}

	out := b.String() + "," + frac + " €"
	if neg {
		return "-" + out
	}

	return out
}

// ParseAmountInput accepts "12.50", "12,50" and "1.234,50".
func ParseAmountInput(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	return decimal.NewFromString(s)
}

func validateAmount(s string) error {
	_, err := ParseAmountInput(s)
	return err
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(time.DateOnly)
}

func today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// DbCtx returns a context with a standard timeout for store operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}
