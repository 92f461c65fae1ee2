package view

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/fonda/internal/export"
	"github.com/MrJamesThe3rd/fonda/internal/report"
)

const exportDir = "./exports"

type reportsState int

const (
	reportsStateTimeframe reportsState = iota
	reportsStateLoading
	reportsStateResult
)

type reportsLoadedMsg struct {
	summary *report.Summary
	closes  []report.DailyClose
	err     error
}

type reportExportedMsg struct {
	path string
	err  error
}

// ReportsModel shows totals and daily closings for a chosen period.
type ReportsModel struct {
	CommonModel
	reportService *report.Service

	state           reportsState
	timeframePicker TimeframePicker
	spinner         spinner.Model
	table           table.Model

	label    string
	from, to time.Time
	summary  *report.Summary
	closes   []report.DailyClose
	err      error
	exported string
}

func NewReportsModel(reportSvc *report.Service) ReportsModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ReportsModel{
		reportService:   reportSvc,
		timeframePicker: NewTimeframePicker(TimeframeThisMonth),
		spinner:         s,
		table:           newClosingsTable(nil),
	}
}

func (m ReportsModel) Title() string { return "Reports" }

func (m ReportsModel) ShortHelp() string {
	switch m.state {
	case reportsStateResult:
		return "Esc: pick another period | ↑/↓: scroll | x: export zip"
	case reportsStateLoading:
		return "Loading..."
	}

	return "Esc: back | Enter: select"
}

func (m ReportsModel) Init() tea.Cmd {
	return nil
}

func (m ReportsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.label = msg.Label
		m.from, m.to = msg.Start, msg.End
		m.exported = ""
		m.state = reportsStateLoading

		return m, tea.Batch(m.spinner.Tick, m.loadCmd(msg.Start, msg.End))

	case reportsLoadedMsg:
		m.state = reportsStateResult
		m.err = msg.err
		m.summary = msg.summary
		m.closes = msg.closes
		m.table = newClosingsTable(msg.closes)

		return m, nil

	case reportExportedMsg:
		if msg.err != nil {
			m.exported = errorStyle.Render(fmt.Sprintf("Export failed: %v", msg.err))
		} else {
			m.exported = successStyle.Render("Exported to " + msg.path)
		}

		return m, nil

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(max(msg.Height-20, 5))

		return m, nil
	}

	switch m.state {
	case reportsStateTimeframe:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
			return m, Back
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)

		return m, cmd

	case reportsStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case reportsStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case keyMsg.Type == tea.KeyEsc:
				m.state = reportsStateTimeframe
				m.timeframePicker.Reset()

				return m, nil
			case keyMsg.String() == "x" && m.err == nil:
				return m, m.exportCmd()
			}
		}

		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m ReportsModel) loadCmd(from, to time.Time) tea.Cmd {
	svc := m.reportService

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		sum, err := svc.Summary(ctx, from, to)
		if err != nil {
			return reportsLoadedMsg{err: err}
		}

		closes, err := svc.EndOfDayReports(ctx, from, to)
		if err != nil {
			return reportsLoadedMsg{err: err}
		}

		return reportsLoadedMsg{summary: sum, closes: closes}
	}
}

func (m ReportsModel) exportCmd() tea.Cmd {
	bundle := &export.Bundle{Summary: m.summary, Closings: m.closes}
	name := fmt.Sprintf("export_%s_%s.zip", m.from.Format("20060102"), m.to.Format("20060102"))

	return func() tea.Msg {
		path, err := writeExport(exportDir, name, bundle)
		return reportExportedMsg{path: path, err: err}
	}
}

func writeExport(dir, name string, bundle *export.Bundle) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	if err := export.WriteZip(f, bundle); err != nil {
		return "", err
	}

	return path, nil
}

func newClosingsTable(closes []report.DailyClose) table.Model {
	columns := []table.Column{
		{Title: "Date", Width: 10},
		{Title: "Cash", Width: 12},
		{Title: "Card", Width: 12},
		{Title: "Takings", Width: 12},
		{Title: "Expenses", Width: 12},
		{Title: "Notes", Width: 24},
	}

	rows := make([]table.Row, 0, len(closes))
	for _, c := range closes {
		rows = append(rows, table.Row{
			FormatDate(c.Date),
			FormatAmount(c.CashTotal),
			FormatAmount(c.CardTotal),
			FormatAmount(c.Takings()),
			FormatAmount(c.ExpensesTotal),
			c.Notes,
		})
	}

	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)
}

func (m ReportsModel) View() string {
	switch m.state {
	case reportsStateTimeframe:
		return paddedStyle.Render(m.timeframePicker.View())

	case reportsStateLoading:
		return paddedStyle.Render(fmt.Sprintf("%s Loading %s...", m.spinner.View(), strings.ToLower(m.label)))

	case reportsStateResult:
		if m.err != nil {
			return paddedStyle.Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}

		return paddedStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Report: "+m.label),
			"",
			summaryBox("Totals", m.summary),
			categoryLines(m.summary),
			"",
			titleStyle.Render("Daily closings"),
			m.table.View(),
			m.exported,
		))
	}

	return ""
}

func categoryLines(s *report.Summary) string {
	if len(s.SalesByCategory) == 0 {
		return ""
	}

	categories := make([]string, 0, len(s.SalesByCategory))
	for c := range s.SalesByCategory {
		categories = append(categories, c)
	}

	sort.Strings(categories)

	var b strings.Builder
	for _, c := range categories {
		fmt.Fprintf(&b, "\n  %-10s %14s", c, FormatAmount(s.SalesByCategory[c]))
	}

	return faintStyle.Render("Sales by category:" + b.String())
}
