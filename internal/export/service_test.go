package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fonda/internal/export"
	"github.com/MrJamesThe3rd/fonda/internal/report"
)

type fakeSource struct {
	rows map[string][]map[string]any
	err  error
}

func (f *fakeSource) List(_ context.Context, collection string, _, _ time.Time) ([]map[string]any, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.rows[collection], nil
}

var (
	from = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
)

func newBundle(t *testing.T) *export.Bundle {
	t.Helper()

	src := &fakeSource{rows: map[string][]map[string]any{
		"incomes":  {{"amount": "300.00"}},
		"expenses": {{"amount": "45.50"}},
		"end_of_day_reports": {
			{"date": "2024-03-01", "cash_total": "120.00", "card_total": "80.5", "expenses_total": "10"},
			{"date": "2024-03-02", "cash_total": "90", "card_total": "0", "expenses_total": "0", "notes": "lluvia, poca gente"},
		},
	}}

	b, err := export.NewService(report.NewService(src)).Export(context.Background(), from, to)
	require.NoError(t, err)

	return b
}

func TestService_Export(t *testing.T) {
	b := newBundle(t)

	assert.Equal(t, "300", b.Summary.Income.String())
	assert.Len(t, b.Closings, 2)
}

func TestService_Export_SourceError(t *testing.T) {
	svc := export.NewService(report.NewService(&fakeSource{err: errors.New("timeout")}))

	b, err := svc.Export(context.Background(), from, to)
	assert.Nil(t, b)
	assert.ErrorContains(t, err, "building summary")
}

func TestWriteClosingsCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.WriteClosingsCSV(&buf, newBundle(t).Closings))

	expected := "fecha,efectivo,tarjeta,total,gastos,notas\n" +
		"2024-03-01,120.00,80.50,200.50,10.00,\n" +
		"2024-03-02,90.00,0.00,90.00,0.00,\"lluvia, poca gente\"\n"
	assert.Equal(t, expected, buf.String())
}

func TestGenerateSummaryText(t *testing.T) {
	text := export.GenerateSummaryText(newBundle(t))

	assert.Contains(t, text, "Periodo: 2024-03-01 a 2024-03-31")
	assert.Contains(t, text, "Neto:      254.50 €")
	assert.Contains(t, text, "* 2024-03-02 | efectivo 90.00 € | tarjeta 0.00 € | gastos 0.00 € | lluvia, poca gente")
}

func TestGenerateSummaryText_NoClosings(t *testing.T) {
	b := newBundle(t)
	b.Closings = nil

	assert.NotContains(t, export.GenerateSummaryText(b), "Cierres")
}

func TestWriteZip(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, export.WriteZip(&buf, newBundle(t)))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	assert.Equal(t, export.ClosingsFile, zr.File[0].Name)
	assert.Equal(t, export.SummaryFile, zr.File[1].Name)

	f, err := zr.File[1].Open()
	require.NoError(t, err)
	defer f.Close()

	body, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Ingresos:  300.00 €")
}
