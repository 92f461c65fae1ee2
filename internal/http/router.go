package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/fonda/internal/http/categorize"
	"github.com/MrJamesThe3rd/fonda/internal/http/export"
	"github.com/MrJamesThe3rd/fonda/internal/http/importcsv"
	"github.com/MrJamesThe3rd/fonda/internal/http/ledger"
	fondaMiddleware "github.com/MrJamesThe3rd/fonda/internal/http/middleware"
	"github.com/MrJamesThe3rd/fonda/internal/http/report"
	"github.com/MrJamesThe3rd/fonda/internal/http/route"
	"github.com/MrJamesThe3rd/fonda/internal/metrics"
)

type Options struct {
	AllowedOrigins []string
	// JWTSecret enables access-token checks on /api/v1 when set.
	JWTSecret string
	// RateLimitRPS of 0 disables rate limiting.
	RateLimitRPS   float64
	RateLimitBurst int
	Metrics        *metrics.Metrics
}

func New(
	opts Options,
	ledgerV1 *ledger.Handler,
	routesV1 *route.Handler,
	reportsV1 *report.Handler,
	importV1 *importcsv.Handler,
	categoriesV1 *categorize.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	if opts.Metrics != nil {
		router.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimitRPS > 0 {
			r.Use(fondaMiddleware.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst).Handler)
		}

		r.Route("/routes", routesV1.Routes)

		r.Group(func(r chi.Router) {
			if opts.JWTSecret != "" {
				r.Use(fondaMiddleware.Auth([]byte(opts.JWTSecret)))
			}

			r.Group(func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				ledgerV1.Routes(r)
			})

			r.Route("/reports", reportsV1.Routes)
			r.Route("/import", importV1.Routes)
			r.Route("/category-rules", categoriesV1.Routes)
			r.Route("/export", exportV1.Routes)
		})
	})

	return router
}
