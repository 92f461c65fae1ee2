package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fonda/internal/ledger"
	"github.com/MrJamesThe3rd/fonda/internal/report"
)

type listCall struct {
	collection string
	from, to   time.Time
}

type fakeSource struct {
	rows  map[string][]map[string]any
	err   error
	calls []listCall
}

func (f *fakeSource) List(_ context.Context, collection string, from, to time.Time) ([]map[string]any, error) {
	f.calls = append(f.calls, listCall{collection, from, to})

	if f.err != nil {
		return nil, f.err
	}

	return f.rows[collection], nil
}

func newTestRouter(src report.Source) http.Handler {
	h := NewHandler(report.NewService(src))
	h.now = func() time.Time { return time.Date(2026, 3, 17, 15, 4, 0, 0, time.UTC) }

	r := chi.NewRouter()
	r.Route("/reports", h.Routes)

	return r
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_Summary(t *testing.T) {
	src := &fakeSource{rows: map[string][]map[string]any{
		ledger.CollectionIncomes:   {{"amount": json.Number("200")}},
		ledger.CollectionExpenses:  {{"amount": "50,25"}},
		ledger.CollectionBeverages: {{"category": "sopa", "quantity": 3, "unit_price": "4.5"}},
	}}

	rec := get(newTestRouter(src), "/reports/summary?start_date=2026-03-01&end_date=2026-03-15")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

	assert.Equal(t, "2026-03-01", body["start_date"])
	assert.Equal(t, "2026-03-15", body["end_date"])
	assert.Equal(t, "200", body["income"])
	assert.Equal(t, "13.5", body["beverage_sales"])
	assert.Equal(t, "213.5", body["revenue"])
	assert.Equal(t, "50.25", body["expenses"])
	assert.Equal(t, "163.25", body["net"])
	assert.Equal(t, map[string]any{"sopa": "13.5"}, body["sales_by_category"])

	require.NotEmpty(t, src.calls)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), src.calls[0].from)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), src.calls[0].to)
}

func TestHandler_DefaultRangeIsCurrentMonth(t *testing.T) {
	src := &fakeSource{}

	rec := get(newTestRouter(src), "/reports/summary")
	require.Equal(t, http.StatusOK, rec.Code)

	require.NotEmpty(t, src.calls)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), src.calls[0].from)
	assert.Equal(t, time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC), src.calls[0].to)
}

func TestHandler_BadRange(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "MalformedStart", target: "/reports/summary?start_date=17/03/2026"},
		{name: "MalformedEnd", target: "/reports/end-of-day?end_date=yesterday"},
		{name: "Inverted", target: "/reports/summary?start_date=2026-03-10&end_date=2026-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{}

			rec := get(newTestRouter(src), tt.target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, src.calls)
		})
	}
}

func TestHandler_SourceError(t *testing.T) {
	rec := get(newTestRouter(&fakeSource{err: errors.New("timeout")}), "/reports/end-of-day")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandler_EndOfDay(t *testing.T) {
	src := &fakeSource{rows: map[string][]map[string]any{
		ledger.CollectionEndOfDayReports: {
			{"date": "2026-03-16", "cash_total": "310.40", "card_total": json.Number("289.60"), "expenses_total": 45, "notes": "lluvia"},
		},
	}}

	rec := get(newTestRouter(src), "/reports/end-of-day?start_date=2026-03-16&end_date=2026-03-16")
	require.Equal(t, http.StatusOK, rec.Code)

	var body []map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.Len(t, body, 1)

	assert.Equal(t, "2026-03-16", body[0]["date"])
	assert.Equal(t, "600", body[0]["takings"])
	assert.Equal(t, "45", body[0]["expenses_total"])
	assert.Equal(t, "lluvia", body[0]["notes"])
}
