// Package route holds the table binding navigation paths to views.
package route

import (
	"errors"
	"fmt"
	"strings"
)

// View identifies the screen responsible for rendering a path.
type View string

const (
	ViewDashboard    View = "dashboard"
	ViewEndOfDay     View = "end-of-day"
	ViewExpenses     View = "expenses"
	ViewBeverages    View = "beverages"
	ViewHotBeverages View = "hot-beverages"
	ViewSoups        View = "soups"
	ViewReports      View = "reports"
)

// Entry binds one path to one view.
type Entry struct {
	Path string `json:"path"`
	View View   `json:"view"`
}

var (
	ErrInvalidPath   = errors.New("route path must start with /")
	ErrEmptyView     = errors.New("route view is empty")
	ErrDuplicatePath = errors.New("duplicate route path")
)

// Table resolves paths to views. It is built once and never changes afterwards,
// so concurrent lookups need no locking.
type Table struct {
	entries []Entry
	byPath  map[string]View
}

// New registers entries in order. Paths are compared after normalization, so "/Sopas/"
// and "/sopas" collide.
func New(entries ...Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, 0, len(entries)),
		byPath:  make(map[string]View, len(entries)),
	}

	for _, e := range entries {
		if !strings.HasPrefix(e.Path, "/") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPath, e.Path)
		}

		if e.View == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyView, e.Path)
		}

		key := normalize(e.Path)
		if _, exists := t.byPath[key]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePath, e.Path)
		}

		t.byPath[key] = e.View
		t.entries = append(t.entries, e)
	}

	return t, nil
}

// Default returns the application's route table.
func Default() *Table {
	t, err := New(
		Entry{Path: "/", View: ViewDashboard},
		Entry{Path: "/endofday", View: ViewEndOfDay},
		Entry{Path: "/expenses", View: ViewExpenses},
		Entry{Path: "/beverages", View: ViewBeverages},
		Entry{Path: "/bebidas-calientes", View: ViewHotBeverages},
		Entry{Path: "/sopas", View: ViewSoups},
		Entry{Path: "/reports", View: ViewReports},
	)
	if err != nil {
		panic(err)
	}

	return t
}

// Resolve returns the view registered for path. A path with no registered view is
// reported with ok == false; deciding what to show instead is up to the caller.
//
// Query strings and fragments are ignored, a single trailing slash is tolerated and
// matching is case-insensitive.
func (t *Table) Resolve(path string) (View, bool) {
	v, ok := t.byPath[normalize(path)]
	return v, ok
}

// Entries returns the registered entries in registration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)

	return out
}

// Len returns the number of registered routes.
func (t *Table) Len() int {
	return len(t.entries)
}

func normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	if len(path) > 1 {
		path = strings.TrimSuffix(path, "/")
	}

	return strings.ToLower(path)
}
