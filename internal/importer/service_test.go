package importer_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fonda/internal/categorize"
	"github.com/MrJamesThe3rd/fonda/internal/importer"
	"github.com/MrJamesThe3rd/fonda/internal/importer/statement"
	"github.com/MrJamesThe3rd/fonda/internal/ledger"
)

const cgdStatement = `Data mov.;Data-valor;Descrição;Montante;Saldo
30-01-2026;30-01-2026;MERCADO ABASTOS;-588,74;48.825,46
09-01-2026;09-01-2026;TPA VENDAS;8.608,52;52.532,78
08-01-2026;08-01-2026;GAS NATURAL;-64,00;43.924,26
`

func TestService_Import(t *testing.T) {
	ctrl := gomock.NewController(t)
	inserter := ledger.NewMockInserter(ctrl)
	svc := importer.NewService(ledger.NewService(inserter))

	var importIDs []any

	record := func(collection string) func(context.Context, string, []ledger.Record) ([]ledger.Record, error) {
		return func(_ context.Context, got string, rows []ledger.Record) ([]ledger.Record, error) {
			assert.Equal(t, collection, got)
			require.Len(t, rows, 1)
			importIDs = append(importIDs, rows[0]["import_id"])

			return []ledger.Record{{"id": len(importIDs)}}, nil
		}
	}

	gomock.InOrder(
		inserter.EXPECT().Insert(gomock.Any(), ledger.CollectionExpenses, gomock.Any()).DoAndReturn(record(ledger.CollectionExpenses)),
		inserter.EXPECT().Insert(gomock.Any(), ledger.CollectionIncomes, gomock.Any()).DoAndReturn(record(ledger.CollectionIncomes)),
		inserter.EXPECT().Insert(gomock.Any(), ledger.CollectionExpenses, gomock.Any()).DoAndReturn(record(ledger.CollectionExpenses)),
	)

	res, err := svc.Import(context.Background(), statement.BankCGD, strings.NewReader(cgdStatement))
	require.NoError(t, err)

	assert.Equal(t, 3, res.Parsed)
	assert.Equal(t, 1, res.Incomes)
	assert.Equal(t, 2, res.Expenses)
	assert.Equal(t, 3, res.Total())
	assert.Len(t, res.Inserted, 3)

	for _, id := range importIDs {
		assert.Equal(t, res.ImportID.String(), id)
	}
}

func TestService_Import_StopsAtFirstError(t *testing.T) {
	ctrl := gomock.NewController(t)
	inserter := ledger.NewMockInserter(ctrl)
	svc := importer.NewService(ledger.NewService(inserter))

	storeErr := errors.New("connection reset")

	gomock.InOrder(
		inserter.EXPECT().Insert(gomock.Any(), ledger.CollectionExpenses, gomock.Any()).
			Return([]ledger.Record{{"id": 1}}, nil),
		inserter.EXPECT().Insert(gomock.Any(), ledger.CollectionIncomes, gomock.Any()).
			Return(nil, storeErr),
	)

	res, err := svc.Import(context.Background(), statement.BankCGD, strings.NewReader(cgdStatement))
	require.Error(t, err)
	assert.ErrorIs(t, err, storeErr)
	assert.Contains(t, err.Error(), "TPA VENDAS")

	require.NotNil(t, res)
	assert.Equal(t, 1, res.Expenses)
	assert.Equal(t, 0, res.Incomes)
	assert.Len(t, res.Inserted, 1)
}

func TestService_Import_ParseError(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := importer.NewService(ledger.NewService(ledger.NewMockInserter(ctrl)))

	res, err := svc.Import(context.Background(), statement.BankCGD, strings.NewReader("not;a;statement\n"))
	require.Error(t, err)
	assert.Nil(t, res)
}

func TestRecord(t *testing.T) {
	svc := importer.NewService(nil)

	entries, err := svc.Parse(statement.BankCGD, strings.NewReader(cgdStatement))
	require.NoError(t, err)
	require.Len(t, entries, 3)

	res := &importer.Result{}
	expense := importer.Record(entries[0], res.ImportID)
	income := importer.Record(entries[1], res.ImportID)

	assert.Equal(t, ledger.Record{
		"date":        "2026-01-30",
		"amount":      "588.74",
		"description": "MERCADO ABASTOS",
		"category":    importer.SourceBank,
		"import_id":   res.ImportID.String(),
	}, expense)

	assert.Equal(t, "8608.52", income["amount"])
	assert.Equal(t, importer.SourceBank, income["source"])
	assert.NotContains(t, income, "category")
}

func TestService_Import_Categorizes(t *testing.T) {
	ctrl := gomock.NewController(t)
	inserter := ledger.NewMockInserter(ctrl)
	rules := categorize.NewRules(map[string]string{"MERCADO": "proveedores"})
	svc := importer.NewService(ledger.NewService(inserter), importer.WithCategorizer(categorize.NewService(rules)))

	var categories []any

	inserter.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, collection string, rows []ledger.Record) ([]ledger.Record, error) {
			if collection == ledger.CollectionExpenses {
				categories = append(categories, rows[0]["category"])
			}

			return rows, nil
		}).
		Times(3)

	_, err := svc.Import(context.Background(), statement.BankCGD, strings.NewReader(cgdStatement))
	require.NoError(t, err)

	assert.Equal(t, []any{"proveedores", importer.SourceBank}, categories)
}
