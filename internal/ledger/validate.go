package ledger

import (
	"fmt"
	"strings"
)

// Validator inspects a record before it is sent. Validation is opt-in per kind.
type Validator func(Record) error

// WithValidator installs v for records of kind. A rejected record never reaches the store.
func WithValidator(kind Kind, v Validator) Option {
	return func(s *Service) {
		s.validators[kind] = v
	}
}

// ValidationError reports a record rejected by a Validator.
type ValidationError struct {
	Kind Kind
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s record: %v", e.Kind, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// RequireFields returns a Validator rejecting records where any of the named fields is
// absent, nil or a blank string.
func RequireFields(names ...string) Validator {
	return func(r Record) error {
		var missing []string

		for _, name := range names {
			v, ok := r[name]
			if !ok || v == nil {
				missing = append(missing, name)
				continue
			}

			if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
				missing = append(missing, name)
			}
		}

		if len(missing) > 0 {
			return fmt.Errorf("missing fields: %s", strings.Join(missing, ", "))
		}

		return nil
	}
}
