package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/fonda/internal/ledger"
)

// ExpenseCategories are the categories offered when recording an expense.
var ExpenseCategories = []string{"proveedores", "personal", "servicios", "alquiler", "mantenimiento", "otros"}

// ExpensesModel records expenses one after another until the user leaves.
type ExpensesModel struct {
	CommonModel
	ledgerService *ledger.Service

	form   *huh.Form
	saving bool
	status string
	saved  int

	date string
}

func NewExpensesModel(ledgerSvc *ledger.Service) ExpensesModel {
	m := ExpensesModel{
		ledgerService: ledgerSvc,
		date:          FormatDate(today()),
	}
	m.form = m.buildForm()

	return m
}

func (m ExpensesModel) Title() string { return "Expenses" }

func (m ExpensesModel) ShortHelp() string {
	return "Esc: back | Enter: next field"
}

func (m ExpensesModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m ExpensesModel) buildForm() *huh.Form {
	opts := make([]huh.Option[string], 0, len(ExpenseCategories))
	for _, c := range ExpenseCategories {
		opts = append(opts, huh.NewOption(c, c))
	}

	return newForm(
		huh.NewGroup(
			dateField("date", &m.date),
			huh.NewInput().
				Key("description").
				Title("Description").
				Validate(required("description")),
			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(opts...),
			amountField("amount", "Amount", nil),
		),
	)
}

func (m ExpensesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(savedMsg); ok {
		m.saving = false

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving expense: %v", msg.err)
		} else {
			m.saved++
			m.status = fmt.Sprintf("Expense saved (%d this session).", m.saved)
		}

		m.form = m.buildForm()

		return m, m.form.Init()
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	if m.saving {
		return m, nil
	}

	form, cmd, done := updateForm(m.form, msg)
	m.form = form

	if !done {
		return m, cmd
	}

	expense := ledger.Record{
		"date":        strings.TrimSpace(form.GetString("date")),
		"description": strings.TrimSpace(form.GetString("description")),
		"category":    form.GetString("category"),
		"amount":      amountValue(form.GetString("amount")),
	}

	m.saving = true
	svc := m.ledgerService

	return m, saveCmd(func() ([]ledger.Record, error) {
		ctx, cancel := DbCtx()
		defer cancel()

		return svc.AddExpense(ctx, expense)
	})
}

func (m ExpensesModel) View() string {
	body := m.form.View()
	if m.saving {
		body = "Saving..."
	}

	status := ""
	if m.status != "" {
		status = "\n\n" + faintStyle.Render(m.status)
	}

	return paddedStyle.Render(titleStyle.Render("New Expense") + "\n\n" + body + status)
}
