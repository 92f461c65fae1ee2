package route_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	routeHandler "github.com/MrJamesThe3rd/fonda/internal/http/route"
	"github.com/MrJamesThe3rd/fonda/internal/route"
)

func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Route("/routes", routeHandler.NewHandler(route.Default()).Routes)

	return r
}

func get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	newRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestHandler_List(t *testing.T) {
	rec := get(t, "/routes")
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []route.Entry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))

	assert.Equal(t, route.Default().Entries(), entries)
}

func TestHandler_Resolve(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantView   route.View
	}{
		{name: "Root", path: "/", wantStatus: http.StatusOK, wantView: route.ViewDashboard},
		{name: "Soups", path: "/sopas", wantStatus: http.StatusOK, wantView: route.ViewSoups},
		{name: "HotBeverages", path: "/bebidas-calientes", wantStatus: http.StatusOK, wantView: route.ViewHotBeverages},
		{name: "Unknown", path: "/inventory", wantStatus: http.StatusNotFound},
		{name: "Missing", path: "", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/routes/resolve"
			if tt.path != "" {
				target += "?path=" + url.QueryEscape(tt.path)
			}

			rec := get(t, target)
			require.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus != http.StatusOK {
				return
			}

			var body struct {
				Path string     `json:"path"`
				View route.View `json:"view"`
			}
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

			assert.Equal(t, tt.path, body.Path)
			assert.Equal(t, tt.wantView, body.View)
		})
	}
}
