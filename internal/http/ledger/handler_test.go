package ledger_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	ledgerHandler "github.com/MrJamesThe3rd/fonda/internal/http/ledger"
	"github.com/MrJamesThe3rd/fonda/internal/ledger"
	"github.com/MrJamesThe3rd/fonda/internal/supabase"
)

func newRouter(svc *ledger.Service) http.Handler {
	r := chi.NewRouter()
	r.Route("/api/v1", ledgerHandler.NewHandler(svc).Routes)

	return r
}

func post(h http.Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestHandler_Add(t *testing.T) {
	type testCase struct {
		name       string
		path       string
		body       string
		setupMock  func(m *ledger.MockInserter)
		opts       []ledger.Option
		wantStatus int
		wantBody   string
	}

	tests := []testCase{
		{
			name: "IncomeCreated",
			path: "/api/v1/incomes",
			body: `{"amount": 120.5, "date": "2026-03-01"}`,
			setupMock: func(m *ledger.MockInserter) {
				m.EXPECT().
					Insert(gomock.Any(), ledger.CollectionIncomes, []ledger.Record{{"amount": json.Number("120.5"), "date": "2026-03-01"}}).
					Return([]ledger.Record{{"id": 7, "amount": 120.5}}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `[{"id": 7, "amount": 120.5}]`,
		},
		{
			name: "ExpenseEmptyAck",
			path: "/api/v1/expenses",
			body: `{"amount": 10}`,
			setupMock: func(m *ledger.MockInserter) {
				m.EXPECT().Insert(gomock.Any(), ledger.CollectionExpenses, gomock.Any()).Return(nil, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `[]`,
		},
		{
			name: "BeverageSale",
			path: "/api/v1/beverages",
			body: `{"product": "café", "category": "caliente", "quantity": 2}`,
			setupMock: func(m *ledger.MockInserter) {
				m.EXPECT().Insert(gomock.Any(), ledger.CollectionBeverages, gomock.Any()).Return([]ledger.Record{{"id": 1}}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `[{"id": 1}]`,
		},
		{
			name: "EndOfDayReport",
			path: "/api/v1/end-of-day-reports",
			body: `{}`,
			setupMock: func(m *ledger.MockInserter) {
				m.EXPECT().Insert(gomock.Any(), ledger.CollectionEndOfDayReports, []ledger.Record{{}}).Return([]ledger.Record{{"id": 3}}, nil)
			},
			wantStatus: http.StatusCreated,
			wantBody:   `[{"id": 3}]`,
		},
		{
			name:       "InvalidJSON",
			path:       "/api/v1/incomes",
			body:       `{"amount":`,
			setupMock:  func(m *ledger.MockInserter) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "ArrayBody",
			path:       "/api/v1/incomes",
			body:       `[{"amount": 1}]`,
			setupMock:  func(m *ledger.MockInserter) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "NullBody",
			path:       "/api/v1/incomes",
			body:       `null`,
			setupMock:  func(m *ledger.MockInserter) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "ConstraintViolation",
			path: "/api/v1/expenses",
			body: `{"amount": "x"}`,
			setupMock: func(m *ledger.MockInserter) {
				m.EXPECT().Insert(gomock.Any(), ledger.CollectionExpenses, gomock.Any()).Return(nil, &supabase.APIError{
					StatusCode: http.StatusBadRequest,
					Code:       "22P02",
					Message:    `invalid input syntax for type numeric: "x"`,
				})
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error": "invalid input syntax for type numeric: \"x\"", "code": "22P02"}`,
		},
		{
			name: "StoreServerError",
			path: "/api/v1/expenses",
			body: `{"amount": 1}`,
			setupMock: func(m *ledger.MockInserter) {
				m.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, &supabase.APIError{
					StatusCode: http.StatusServiceUnavailable,
					Message:    "upstream down",
				})
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error": "upstream down"}`,
		},
		{
			name: "TransportError",
			path: "/api/v1/incomes",
			body: `{"amount": 1}`,
			setupMock: func(m *ledger.MockInserter) {
				m.EXPECT().Insert(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("dial tcp: refused"))
			},
			wantStatus: http.StatusBadGateway,
			wantBody:   `{"error": "store unavailable"}`,
		},
		{
			name:       "ValidationFailure",
			path:       "/api/v1/incomes",
			body:       `{"amount": 1}`,
			setupMock:  func(m *ledger.MockInserter) {},
			opts:       []ledger.Option{ledger.WithValidator(ledger.KindIncome, ledger.RequireFields("date"))},
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			inserter := ledger.NewMockInserter(ctrl)
			tt.setupMock(inserter)

			rec := post(newRouter(ledger.NewService(inserter, tt.opts...)), tt.path, tt.body)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			if tt.wantBody != "" {
				assert.JSONEq(t, tt.wantBody, rec.Body.String())
			}
		})
	}
}

func TestHandler_UnknownPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := post(newRouter(ledger.NewService(ledger.NewMockInserter(ctrl))), "/api/v1/soups", `{}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
