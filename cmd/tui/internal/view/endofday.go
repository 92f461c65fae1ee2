package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/MrJamesThe3rd/fonda/internal/ledger"
	"github.com/MrJamesThe3rd/fonda/internal/report"
)

type eodState int

const (
	eodStateLoading eodState = iota
	eodStateForm
	eodStateSaving
	eodStateDone
)

type eodPrefillMsg struct {
	summary *report.Summary
	err     error
}

// EndOfDayModel closes the day: it prefills today's expenses and records the cash
// and card takings.
type EndOfDayModel struct {
	CommonModel
	ledgerService *ledger.Service
	reportService *report.Service

	state   eodState
	form    *huh.Form
	summary *report.Summary
	status  string
	err     error

	date     string
	expenses string
}

func NewEndOfDayModel(ledgerSvc *ledger.Service, reportSvc *report.Service) EndOfDayModel {
	return EndOfDayModel{
		ledgerService: ledgerSvc,
		reportService: reportSvc,
		date:          FormatDate(today()),
	}
}

func (m EndOfDayModel) Title() string { return "End of Day" }

func (m EndOfDayModel) ShortHelp() string {
	if m.state == eodStateDone {
		return "Esc: back to menu"
	}

	return "Esc: back | Enter: next field"
}

func (m EndOfDayModel) Init() tea.Cmd {
	svc := m.reportService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		day := today()
		sum, err := svc.Summary(ctx, day, day)

		return eodPrefillMsg{summary: sum, err: err}
	}
}

func (m EndOfDayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eodPrefillMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Could not load today's figures: %v", msg.err)
		} else {
			m.summary = msg.summary
			m.expenses = msg.summary.Expenses.StringFixed(2)
		}

		m.form = m.buildForm()
		m.state = eodStateForm

		return m, m.form.Init()

	case savedMsg:
		m.state = eodStateDone
		m.err = msg.err

		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		return m, Back
	}

	if m.state != eodStateForm {
		return m, nil
	}

	form, cmd, done := updateForm(m.form, msg)
	m.form = form

	if !done {
		return m, cmd
	}

	closing := ledger.Record{
		"date":           strings.TrimSpace(form.GetString("date")),
		"cash_total":     amountValue(form.GetString("cash_total")),
		"card_total":     amountValue(form.GetString("card_total")),
		"expenses_total": amountValue(form.GetString("expenses_total")),
	}

	if notes := strings.TrimSpace(form.GetString("notes")); notes != "" {
		closing["notes"] = notes
	}

	m.state = eodStateSaving
	svc := m.ledgerService

	return m, saveCmd(func() ([]ledger.Record, error) {
		ctx, cancel := DbCtx()
		defer cancel()

		return svc.AddEndOfDayReport(ctx, closing)
	})
}

func (m EndOfDayModel) buildForm() *huh.Form {
	return newForm(
		huh.NewGroup(
			dateField("date", &m.date),
			amountField("cash_total", "Cash in till", nil),
			amountField("card_total", "Card terminal total", nil),
			amountField("expenses_total", "Expenses paid today", &m.expenses),
			huh.NewText().
				Key("notes").
				Title("Notes").
				CharLimit(500),
		),
	)
}

func (m EndOfDayModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("End of Day") + "\n\n")

	if m.summary != nil {
		fmt.Fprintf(&b, "Recorded today: income %s, beverage sales %s, expenses %s\n\n",
			FormatAmount(m.summary.Income), FormatAmount(m.summary.BeverageSales), FormatAmount(m.summary.Expenses))
	}

	if m.status != "" {
		b.WriteString(faintStyle.Render(m.status) + "\n\n")
	}

	switch m.state {
	case eodStateLoading:
		b.WriteString("Loading today's figures...")
	case eodStateForm:
		b.WriteString(m.form.View())
	case eodStateSaving:
		b.WriteString("Saving...")
	case eodStateDone:
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(successStyle.Render("Day closed."))
		}
	}

	return paddedStyle.Render(b.String())
}
