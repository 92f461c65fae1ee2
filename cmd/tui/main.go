package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/fonda/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/fonda/internal/backend"
	"github.com/MrJamesThe3rd/fonda/internal/config"
	"github.com/MrJamesThe3rd/fonda/internal/ledger"
	"github.com/MrJamesThe3rd/fonda/internal/report"
	"github.com/MrJamesThe3rd/fonda/internal/route"
)

// screenFactory builds a fresh screen each time its path is opened.
type screenFactory func() view.View

type model struct {
	routes  *route.Table
	screens map[route.View]screenFactory
	appName string
	cursor  int
	current view.View
	path    string
	status  string
	width   int
	height  int
}

var menuLabels = map[route.View]string{
	route.ViewDashboard:    "Dashboard",
	route.ViewEndOfDay:     "End of Day",
	route.ViewExpenses:     "Expenses",
	route.ViewBeverages:    "Cold Drinks",
	route.ViewHotBeverages: "Hot Drinks",
	route.ViewSoups:        "Soups",
	route.ViewReports:      "Reports",
}

func screens(ledgerSvc *ledger.Service, reportSvc *report.Service) map[route.View]screenFactory {
	return map[route.View]screenFactory{
		route.ViewDashboard: func() view.View { return view.NewDashboardModel(ledgerSvc, reportSvc) },
		route.ViewEndOfDay:  func() view.View { return view.NewEndOfDayModel(ledgerSvc, reportSvc) },
		route.ViewExpenses:  func() view.View { return view.NewExpensesModel(ledgerSvc) },
		route.ViewBeverages: func() view.View {
			return view.NewSaleModel(ledgerSvc, "Cold Drinks", view.CategoryCold)
		},
		route.ViewHotBeverages: func() view.View {
			return view.NewSaleModel(ledgerSvc, "Hot Drinks", view.CategoryHot)
		},
		route.ViewSoups: func() view.View {
			return view.NewSaleModel(ledgerSvc, "Soups", view.CategorySoup)
		},
		route.ViewReports: func() view.View { return view.NewReportsModel(reportSvc) },
	}
}

func newModel(appName string, routes *route.Table, screens map[route.View]screenFactory) model {
	return model{
		routes:  routes,
		screens: screens,
		appName: appName,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

// open resolves path through the route table and switches to its screen.
func (m model) open(path string) (model, tea.Cmd) {
	v, ok := m.routes.Resolve(path)
	if !ok {
		m.status = fmt.Sprintf("No screen for %s", path)
		return m, nil
	}

	factory, ok := m.screens[v]
	if !ok {
		m.status = fmt.Sprintf("Screen %s is not available", v)
		return m, nil
	}

	m.current = factory()
	m.path = path
	m.status = ""

	cmds := []tea.Cmd{m.current.Init()}
	if m.width > 0 {
		size := tea.WindowSizeMsg{Width: m.width, Height: m.height}
		cmds = append(cmds, func() tea.Msg { return size })
	}

	return m, tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case view.BackMsg:
		m.current = nil
		m.path = ""

		return m, nil
	case view.NavigateMsg:
		return m.open(msg.Path)
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.current == nil {
			return m.updateMenu(msg)
		}
	}

	if m.current == nil {
		return m, nil
	}

	next, cmd := m.current.Update(msg)
	if v, ok := next.(view.View); ok {
		m.current = v
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	entries := m.routes.Entries()

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(entries)-1 {
			m.cursor++
		}
	case "enter":
		return m.open(entries[m.cursor].Path)
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= len(entries) {
			m.cursor = n - 1
			return m.open(entries[n-1].Path)
		}
	}

	return m, nil
}

func (m model) View() string {
	if m.current != nil {
		help := lipgloss.NewStyle().Faint(true).Render(m.path + "  ·  " + m.current.ShortHelp())
		return m.current.View() + "\n" + help
	}

	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.appName) + "\n\n")

	for i, e := range m.routes.Entries() {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}

		label := menuLabels[e.View]
		if label == "" {
			label = string(e.View)
		}

		fmt.Fprintf(&b, "%s %d. %-12s %s\n", cursor, i+1, label, lipgloss.NewStyle().Faint(true).Render(e.Path))
	}

	b.WriteString("\nq. Quit")

	if m.status != "" {
		b.WriteString("\n\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status))
	}

	return lipgloss.NewStyle().Padding(2).Render(b.String())
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	store, err := backend.Open(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	var opts []ledger.Option
	if len(cfg.Ledger.RequireFields) > 0 {
		for _, kind := range ledger.Kinds() {
			opts = append(opts, ledger.WithValidator(kind, ledger.RequireFields(cfg.Ledger.RequireFields...)))
		}
	}

	var (
		ledgerSvc = ledger.NewService(store.Inserter, opts...)
		reportSvc = report.NewService(store.Source)
	)

	p := tea.NewProgram(newModel(cfg.App.Name, route.Default(), screens(ledgerSvc, reportSvc)), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
