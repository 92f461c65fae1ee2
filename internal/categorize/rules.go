package categorize

import (
	"context"
	"strings"
	"sync"
)

// DefaultRules cover the usual movements on a restaurant's statement.
var DefaultRules = map[string]string{
	"MERCADO":    "proveedores",
	"MAKRO":      "proveedores",
	"DISTRIBUID": "proveedores",
	"BEBIDAS":    "proveedores",
	"TSU":        "personal",
	"SEG SOCIAL": "personal",
	"NOMINA":     "personal",
	"GAS":        "servicios",
	"LUZ":        "servicios",
	"ELECTRICID": "servicios",
	"AGUA":       "servicios",
	"RENDA":      "alquiler",
	"ALQUILER":   "alquiler",
	"REPARACION": "mantenimiento",
	"MANUTENCAO": "mantenimiento",
}

// Rules is an in-memory Repository, used when no database is available.
type Rules struct {
	mu    sync.RWMutex
	rules map[string]string
}

func NewRules(initial map[string]string) *Rules {
	r := &Rules{rules: make(map[string]string, len(initial))}
	for pattern, category := range initial {
		r.rules[strings.ToUpper(pattern)] = category
	}

	return r
}

func (r *Rules) FindCategory(_ context.Context, description string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	desc := strings.ToUpper(description)

	var best, category string

	for pattern, c := range r.rules {
		if !strings.Contains(desc, pattern) {
			continue
		}

		if len(pattern) > len(best) || (len(pattern) == len(best) && pattern < best) {
			best, category = pattern, c
		}
	}

	return category, nil
}

func (r *Rules) CreateRule(_ context.Context, pattern, category string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules[strings.ToUpper(pattern)] = category

	return nil
}
