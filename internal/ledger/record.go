package ledger

// Record is one caller-defined business event (an income, an expense, a sale, a daily
// closing). Its fields are owned by the remote store; the ledger passes it through untouched.
type Record = map[string]any

// Kind identifies which collection a record belongs to.
type Kind string

const (
	KindIncome         Kind = "income"
	KindExpense        Kind = "expense"
	KindBeverageSale   Kind = "beverage_sale"
	KindEndOfDayReport Kind = "end_of_day_report"
)

// Remote collection (table) names.
const (
	CollectionIncomes         = "incomes"
	CollectionExpenses        = "expenses"
	CollectionBeverages       = "beverages"
	CollectionEndOfDayReports = "end_of_day_reports"
)

// Collection returns the remote collection records of this kind are inserted into,
// or "" for an unknown kind.
func (k Kind) Collection() string {
	switch k {
	case KindIncome:
		return CollectionIncomes
	case KindExpense:
		return CollectionExpenses
	case KindBeverageSale:
		return CollectionBeverages
	case KindEndOfDayReport:
		return CollectionEndOfDayReports
	}

	return ""
}

// Kinds lists every known record kind.
func Kinds() []Kind {
	return []Kind{KindIncome, KindExpense, KindBeverageSale, KindEndOfDayReport}
}
