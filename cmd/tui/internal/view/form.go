package view

import (
	"errors"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/fonda/internal/ledger"
)

func newForm(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).WithWidth(50).WithShowHelp(false)
}

// updateForm forwards msg to form and reports whether the user finished it.
func updateForm(form *huh.Form, msg tea.Msg) (*huh.Form, tea.Cmd, bool) {
	next, cmd := form.Update(msg)
	if f, ok := next.(*huh.Form); ok {
		form = f
	}

	return form, cmd, form.State == huh.StateCompleted
}

func dateField(key string, value *string) *huh.Input {
	return huh.NewInput().
		Key(key).
		Title("Date").
		Placeholder("YYYY-MM-DD").
		Value(value).
		Validate(func(s string) error {
			if _, err := time.Parse(time.DateOnly, strings.TrimSpace(s)); err != nil {
				return errors.New("use YYYY-MM-DD")
			}

			return nil
		})
}

func amountField(key, title string, value *string) *huh.Input {
	if value == nil {
		value = new(string)
	}

	return huh.NewInput().
		Key(key).
		Title(title).
		Placeholder("0,00").
		Value(value).
		Validate(validateAmount)
}

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(field + " cannot be empty")
		}

		return nil
	}
}

// amountValue normalizes a typed amount to the "1234.50" form stored in records.
func amountValue(s string) string {
	d, err := ParseAmountInput(s)
	if err != nil {
		return strings.TrimSpace(s)
	}

	return d.StringFixed(2)
}

// saveCmd runs one ledger write off the UI goroutine.
func saveCmd(write func() ([]ledger.Record, error)) tea.Cmd {
	return func() tea.Msg {
		rows, err := write()
		return savedMsg{rows: len(rows), err: err}
	}
}
