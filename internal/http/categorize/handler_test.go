package categorize_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fonda/internal/categorize"
	categorizeHandler "github.com/MrJamesThe3rd/fonda/internal/http/categorize"
)

func newRouter() http.Handler {
	svc := categorize.NewService(categorize.NewRules(map[string]string{"MERCADO": "proveedores"}))

	r := chi.NewRouter()
	r.Route("/category-rules", categorizeHandler.NewHandler(svc).Routes)

	return r
}

func TestHandler_LearnThenSuggest(t *testing.T) {
	h := newRouter()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/category-rules", strings.NewReader(`{"pattern": "panaderia", "category": "proveedores"}`)))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/category-rules/suggest?description=PANADERIA+LOPEZ", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "proveedores", body["category"])
}

func TestHandler_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		target string
		body   string
	}{
		{name: "SuggestWithoutDescription", method: http.MethodGet, target: "/category-rules/suggest"},
		{name: "LearnInvalidJSON", method: http.MethodPost, target: "/category-rules", body: `{`},
		{name: "LearnEmptyRule", method: http.MethodPost, target: "/category-rules", body: `{"pattern": "x"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			newRouter().ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body)))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
