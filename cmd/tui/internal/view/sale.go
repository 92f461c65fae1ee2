package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/fonda/internal/ledger"
)

// Sale categories stored on beverage sale records.
const (
	CategoryCold = "fria"
	CategoryHot  = "caliente"
	CategorySoup = "sopa"
)

type Product struct {
	Name  string
	Price decimal.Decimal
}

func product(name, price string) Product {
	return Product{Name: name, Price: decimal.RequireFromString(price)}
}

// Catalogs lists the products sold per category.
var Catalogs = map[string][]Product{
	CategoryCold: {
		product("Refresco", "2.00"),
		product("Agua mineral", "1.50"),
		product("Cerveza", "2.50"),
		product("Agua fresca", "2.00"),
		product("Jugo natural", "3.00"),
	},
	CategoryHot: {
		product("Café americano", "1.50"),
		product("Café con leche", "1.80"),
		product("Té", "1.50"),
		product("Chocolate caliente", "2.50"),
		product("Atole", "2.00"),
	},
	CategorySoup: {
		product("Sopa de fideo", "4.50"),
		product("Caldo de pollo", "6.00"),
		product("Sopa azteca", "5.50"),
		product("Consomé", "5.00"),
		product("Pozole", "8.00"),
	},
}

func findProduct(category, name string) (Product, bool) {
	for _, p := range Catalogs[category] {
		if p.Name == name {
			return p, true
		}
	}

	return Product{}, false
}

// SaleRecord builds the beverage sale record for qty units of p.
func SaleRecord(date, category string, p Product, qty int) ledger.Record {
	return ledger.Record{
		"date":       date,
		"product":    p.Name,
		"category":   category,
		"quantity":   qty,
		"unit_price": p.Price.StringFixed(2),
		"amount":     p.Price.Mul(decimal.NewFromInt(int64(qty))).StringFixed(2),
	}
}

func validateQuantity(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return errors.New("enter a whole number above zero")
	}

	return nil
}

// SaleModel records sales from one catalog: cold drinks, hot drinks or soups share it.
type SaleModel struct {
	CommonModel
	ledgerService *ledger.Service

	title    string
	category string

	form   *huh.Form
	saving bool
	status string
	total  decimal.Decimal
	count  int

	quantity string
}

func NewSaleModel(ledgerSvc *ledger.Service, title, category string) SaleModel {
	m := SaleModel{
		ledgerService: ledgerSvc,
		title:         title,
		category:      category,
	}
	m.form = m.buildForm()

	return m
}

func (m SaleModel) Title() string { return m.title }

func (m SaleModel) ShortHelp() string {
	return "Esc: back | Enter: next field"
}

func (m SaleModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m SaleModel) buildForm() *huh.Form {
	catalog := Catalogs[m.category]

	opts := make([]huh.Option[string], 0, len(catalog))
	for _, p := range catalog {
		opts = append(opts, huh.NewOption(fmt.Sprintf("%-20s %s", p.Name, FormatAmount(p.Price)), p.Name))
	}

	m.quantity = "1"

	return newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("product").
				Title("Product").
				Options(opts...),
			huh.NewInput().
				Key("quantity").
				Title("Quantity").
				Value(&m.quantity).
				Validate(validateQuantity),
		),
	)
}

func (m SaleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(saleSavedMsg); ok {
		m.saving = false

		if msg.err != nil {
			m.status = fmt.Sprintf("Error saving sale: %v", msg.err)
		} else {
			m.count++
			m.total = m.total.Add(msg.amount)
			m.status = fmt.Sprintf("Saved. %d sales this session, %s.", m.count, FormatAmount(m.total))
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

	p, ok := findProduct(m.category, form.GetString("product"))
	if !ok {
		m.status = "Unknown product."
		m.form = m.buildForm()

		return m, m.form.Init()
	}

	qty, _ := strconv.Atoi(strings.TrimSpace(form.GetString("quantity")))
	sale := SaleRecord(FormatDate(today()), m.category, p, qty)
	amount := p.Price.Mul(decimal.NewFromInt(int64(qty)))

	m.saving = true
	svc := m.ledgerService

	return m, func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		_, err := svc.AddBeverageSale(ctx, sale)

		return saleSavedMsg{amount: amount, err: err}
	}
}

type saleSavedMsg struct {
	amount decimal.Decimal
	err    error
}

func (m SaleModel) View() string {
	body := m.form.View()
	if m.saving {
		body = "Saving..."
	}

	status := ""
	if m.status != "" {
		status = "\n\n" + faintStyle.Render(m.status)
	}

	return paddedStyle.Render(titleStyle.Render(m.title) + "\n\n" + body + status)
}
