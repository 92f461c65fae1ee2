package report

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ParseAmount reads a monetary value as stored by either backend: JSON numbers,
// numeric strings ("12.50") and European-formatted strings ("1.234,56").
func ParseAmount(v any) (decimal.Decimal, bool) {
	switch v := v.(type) {
	case decimal.Decimal:
		return v, true
	case json.Number:
		return parseDecimal(v.String())
	case float64:
		return decimal.NewFromFloat(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		return parseDecimal(v)
	}

	return decimal.Zero, false
}

func parseDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

// ParseDate reads a record date stored as YYYY-MM-DD, RFC 3339 or time.Time.
func ParseDate(v any) (time.Time, bool) {
	switch v := v.(type) {
	case time.Time:
		return v, true
	case string:
		if t, err := time.Parse(time.DateOnly, v); err == nil {
			return t, true
		}

		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}
