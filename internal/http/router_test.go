package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/fonda/internal/categorize"
	"github.com/MrJamesThe3rd/fonda/internal/export"
	fondaHttp "github.com/MrJamesThe3rd/fonda/internal/http"
	categorizeHandler "github.com/MrJamesThe3rd/fonda/internal/http/categorize"
	exportHandler "github.com/MrJamesThe3rd/fonda/internal/http/export"
	"github.com/MrJamesThe3rd/fonda/internal/http/importcsv"
	ledgerHandler "github.com/MrJamesThe3rd/fonda/internal/http/ledger"
	reportHandler "github.com/MrJamesThe3rd/fonda/internal/http/report"
	routeHandler "github.com/MrJamesThe3rd/fonda/internal/http/route"
	"github.com/MrJamesThe3rd/fonda/internal/importer"
	"github.com/MrJamesThe3rd/fonda/internal/ledger"
	"github.com/MrJamesThe3rd/fonda/internal/metrics"
	"github.com/MrJamesThe3rd/fonda/internal/report"
	"github.com/MrJamesThe3rd/fonda/internal/route"
)

const secret = "test-secret-test-secret-test-secret!"

func newServer(t *testing.T, opts fondaHttp.Options) (http.Handler, *ledger.MockInserter) {
	t.Helper()

	ctrl := gomock.NewController(t)
	inserter := ledger.NewMockInserter(ctrl)
	ledgerSvc := ledger.NewService(inserter)
	reportSvc := report.NewService(nil)

	return fondaHttp.New(
		opts,
		ledgerHandler.NewHandler(ledgerSvc),
		routeHandler.NewHandler(route.Default()),
		reportHandler.NewHandler(reportSvc),
		importcsv.NewHandler(importer.NewService(ledgerSvc)),
		categorizeHandler.NewHandler(categorize.NewService(categorize.NewRules(categorize.DefaultRules))),
		exportHandler.NewHandler(export.NewService(reportSvc)),
	), inserter
}

func do(h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range header {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestRouter_Healthz(t *testing.T) {
	h, _ := newServer(t, fondaHttp.Options{})

	rec := do(h, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	h, _ := newServer(t, fondaHttp.Options{Metrics: metrics.New()})

	do(h, http.MethodGet, "/api/v1/routes", "", nil)

	rec := do(h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `fonda_http_requests_total{method="GET",route="/api/v1/routes`)
}

func TestRouter_LedgerRequiresJSON(t *testing.T) {
	h, _ := newServer(t, fondaHttp.Options{})

	rec := do(h, http.MethodPost, "/api/v1/incomes", `{"amount": 1}`, map[string]string{"Content-Type": "text/plain"})
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestRouter_Auth(t *testing.T) {
	h, inserter := newServer(t, fondaHttp.Options{JWTSecret: secret})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(secret))
	assert.NoError(t, err)

	rec := do(h, http.MethodPost, "/api/v1/expenses", `{"amount": 1}`, map[string]string{"Content-Type": "application/json"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	inserter.EXPECT().Insert(gomock.Any(), ledger.CollectionExpenses, gomock.Any()).Return([]ledger.Record{{"id": 1}}, nil)

	rec = do(h, http.MethodPost, "/api/v1/expenses", `{"amount": 1}`, map[string]string{
		"Content-Type":  "application/json",
		"Authorization": "Bearer " + token,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	// route resolution stays public
	rec = do(h, http.MethodGet, "/api/v1/routes/resolve?path=/sopas", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	h, _ := newServer(t, fondaHttp.Options{RateLimitRPS: 1, RateLimitBurst: 1})

	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/v1/routes", "", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(h, http.MethodGet, "/api/v1/routes", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/healthz", "", nil).Code)
}

func TestRouter_CORSPreflight(t *testing.T) {
	h, _ := newServer(t, fondaHttp.Options{AllowedOrigins: []string{"https://caja.example"}})

	rec := do(h, http.MethodOptions, "/api/v1/incomes", "", map[string]string{
		"Origin":                        "https://caja.example",
		"Access-Control-Request-Method": http.MethodPost,
	})

	assert.Equal(t, "https://caja.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_CategoryRules(t *testing.T) {
	h, _ := newServer(t, fondaHttp.Options{})

	rec := do(h, http.MethodGet, "/api/v1/category-rules/suggest?description=COMPRA+MAKRO+LISBOA", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"category":"proveedores"`)
}
