package view

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fonda/internal/ledger"
	"github.com/MrJamesThe3rd/fonda/internal/report"
)

type dashState int

const (
	dashStateOverview dashState = iota
	dashStateIncome
)

type dashboardMsg struct {
	today *report.Summary
	month *report.Summary
	err   error
}

// DashboardModel shows today's and this month's figures and records quick incomes.
type DashboardModel struct {
	CommonModel
	ledgerService *ledger.Service
	reportService *report.Service

	state   dashState
	today   *report.Summary
	month   *report.Summary
	loading bool
	status  string
	form    *huh.Form

	incomeDate string
}

func NewDashboardModel(ledgerSvc *ledger.Service, reportSvc *report.Service) DashboardModel {
	return DashboardModel{
		ledgerService: ledgerSvc,
		reportService: reportSvc,
		loading:       true,
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	if m.state == dashStateIncome {
		return "Esc: cancel | Enter: next field"
	}

	return "i: add income | e: end of day | r: refresh | Esc: menu"
}

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) loadCmd() tea.Cmd {
	svc := m.reportService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return loadDashboard(ctx, svc)
	}
}

func loadDashboard(ctx context.Context, svc *report.Service) dashboardMsg {
	day := today()

	todaySum, err := svc.Summary(ctx, day, day)
	if err != nil {
		return dashboardMsg{err: err}
	}

	from, to := TimeframeRange(TimeframeThisMonth, day)

	monthSum, err := svc.Summary(ctx, from, to)
	if err != nil {
		return dashboardMsg{err: err}
	}

	return dashboardMsg{today: todaySum, month: monthSum}
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.today, m.month = msg.today, msg.month

		return m, nil

	case savedMsg:
		m.state = dashStateOverview
		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving income: %v", msg.err)
			return m, nil
		}

		m.status = "Income saved."
		m.loading = true

		return m, m.loadCmd()
	}

	if m.state == dashStateIncome {
		return m.updateIncome(msg)
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc", "q":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "e":
			return m, Navigate("/endofday")
		case "i":
			m.incomeDate = FormatDate(today())
			m.form = m.buildIncomeForm()
			m.state = dashStateIncome
			m.status = ""

			return m, m.form.Init()
		}
	}

	return m, nil
}

func (m DashboardModel) buildIncomeForm() *huh.Form {
	return newForm(
		huh.NewGroup(
			dateField("date", &m.incomeDate),
			amountField("amount", "Amount", nil),
			huh.NewInput().
				Key("description").
				Title("Description").
				Validate(required("description")),
			huh.NewSelect[string]().
				Key("source").
				Title("Source").
				Options(
					huh.NewOption("Cash", "efectivo"),
					huh.NewOption("Card", "tarjeta"),
					huh.NewOption("Transfer", "transferencia"),
					huh.NewOption("Other", "otros"),
				),
		),
	)
}

func (m DashboardModel) updateIncome(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = dashStateOverview
		m.form = nil

		return m, nil
	}

	form, cmd, done := updateForm(m.form, msg)
	m.form = form

	if !done {
		return m, cmd
	}

	income := ledger.Record{
		"date":        strings.TrimSpace(form.GetString("date")),
		"amount":      amountValue(form.GetString("amount")),
		"description": strings.TrimSpace(form.GetString("description")),
		"source":      form.GetString("source"),
	}

	svc := m.ledgerService

	return m, saveCmd(func() ([]ledger.Record, error) {
		ctx, cancel := DbCtx()
		defer cancel()

		return svc.AddIncome(ctx, income)
	})
}

func (m DashboardModel) View() string {
	if m.state == dashStateIncome && m.form != nil {
		return paddedStyle.Render(titleStyle.Render("New Income") + "\n\n" + m.form.View())
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Dashboard") + "\n\n")

	switch {
	case m.loading:
		b.WriteString("Loading figures...\n")
	case m.today != nil && m.month != nil:
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			summaryBox("Today", m.today),
			"  ",
			summaryBox("This Month", m.month),
		))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n" + faintStyle.Render(m.status) + "\n")
	}

	return paddedStyle.Render(b.String())
}

func summaryBox(title string, s *report.Summary) string {
	lines := []string{
		titleStyle.Render(title),
		fmt.Sprintf("Income:         %14s", FormatAmount(s.Income)),
		fmt.Sprintf("Beverage sales: %14s", FormatAmount(s.BeverageSales)),
		fmt.Sprintf("Expenses:       %14s", FormatAmount(s.Expenses)),
		fmt.Sprintf("Net:            %14s", FormatAmount(s.Net())),
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1).
		Render(strings.Join(lines, "\n"))
}
