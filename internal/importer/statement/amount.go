package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseEuropeanAmount parses "1.234,56" style amounts.
func parseEuropeanAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	clean = strings.TrimSuffix(strings.TrimSpace(clean), "€")

	return decimal.NewFromString(strings.TrimSpace(clean))
}
