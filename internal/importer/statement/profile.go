package statement

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column ("Importe" with value "-10,00").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns.
	amountSplit
)

// Profile describes the column layout of one bank's CSV export.
type Profile struct {
	Name       string
	DateCol    string
	DateLayout string
	DescCol    string
	AmountMode amountMode
	AmountCol  string // amountSingle
	DebitCol   string // amountSplit
	CreditCol  string // amountSplit
}

func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.DescCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	return cols
}

// Bank names a family of statement layouts.
type Bank string

const (
	BankCGD       Bank = "cgd"
	BankSantander Bank = "santander"
	BankBBVA      Bank = "bbva"
)

// profiles lists, per bank, the layouts tried during auto-detection. More specific
// layouts come first.
var profiles = map[Bank][]Profile{
	BankCGD: {
		{
			Name:       "cartão",
			DateCol:    "Data",
			DateLayout: "02-01-2006",
			DescCol:    "Descrição",
			AmountMode: amountSplit,
			DebitCol:   "Débito",
			CreditCol:  "Crédito",
		},
		{
			Name:       "extrato",
			DateCol:    "Data mov.",
			DateLayout: "02-01-2006",
			DescCol:    "Descrição",
			AmountMode: amountSingle,
			AmountCol:  "Movimento",
		},
		{
			Name:       "conta",
			DateCol:    "Data mov.",
			DateLayout: "02-01-2006",
			DescCol:    "Descrição",
			AmountMode: amountSingle,
			AmountCol:  "Montante",
		},
	},
	BankSantander: {
		{
			Name:       "movimientos",
			DateCol:    "Fecha operación",
			DateLayout: "02/01/2006",
			DescCol:    "Concepto",
			AmountMode: amountSingle,
			AmountCol:  "Importe",
		},
	},
	BankBBVA: {
		{
			Name:       "cuenta",
			DateCol:    "Fecha",
			DateLayout: "02/01/2006",
			DescCol:    "Concepto",
			AmountMode: amountSplit,
			DebitCol:   "Cargo",
			CreditCol:  "Abono",
		},
	},
}

// Banks lists the supported banks.
func Banks() []Bank {
	return []Bank{BankCGD, BankSantander, BankBBVA}
}
