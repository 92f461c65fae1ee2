package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/fonda/internal/backend"
	"github.com/MrJamesThe3rd/fonda/internal/categorize"
	"github.com/MrJamesThe3rd/fonda/internal/config"
	"github.com/MrJamesThe3rd/fonda/internal/export"
	fondaHttp "github.com/MrJamesThe3rd/fonda/internal/http"
	categorizeHandler "github.com/MrJamesThe3rd/fonda/internal/http/categorize"
	exportHandler "github.com/MrJamesThe3rd/fonda/internal/http/export"
	importHandler "github.com/MrJamesThe3rd/fonda/internal/http/importcsv"
	ledgerHandler "github.com/MrJamesThe3rd/fonda/internal/http/ledger"
	reportHandler "github.com/MrJamesThe3rd/fonda/internal/http/report"
	routeHandler "github.com/MrJamesThe3rd/fonda/internal/http/route"
	"github.com/MrJamesThe3rd/fonda/internal/importer"
	"github.com/MrJamesThe3rd/fonda/internal/ledger"
	"github.com/MrJamesThe3rd/fonda/internal/metrics"
	"github.com/MrJamesThe3rd/fonda/internal/report"
	"github.com/MrJamesThe3rd/fonda/internal/route"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := backend.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	m := metrics.New()

	var (
		ledgerService = ledger.NewService(m.InstrumentInserter(store.Inserter), ledgerOptions(cfg)...)
		reportService = report.NewService(store.Source)
		categorizer   = categorize.NewService(store.Categories)
		importService = importer.NewService(ledgerService, importer.WithCategorizer(categorizer))
		exportService = export.NewService(reportService)
	)

	var (
		ledgerH = ledgerHandler.NewHandler(ledgerService)
		routeH  = routeHandler.NewHandler(route.Default())
		reportH = reportHandler.NewHandler(reportService)
		importH = importHandler.NewHandler(importService)
		rulesH  = categorizeHandler.NewHandler(categorizer)
		exportH = exportHandler.NewHandler(exportService)
	)

	router := fondaHttp.New(fondaHttp.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		JWTSecret:      cfg.Supabase.JWTSecret,
		RateLimitRPS:   cfg.RateLimit.RPS,
		RateLimitBurst: cfg.RateLimit.Burst,
		Metrics:        m,
	}, ledgerH, routeH, reportH, importH, rulesH, exportH)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr, "driver", store.Driver)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

// ledgerOptions installs the required-field check on every kind when configured.
func ledgerOptions(cfg *config.Config) []ledger.Option {
	if len(cfg.Ledger.RequireFields) == 0 {
		return nil
	}

	v := ledger.RequireFields(cfg.Ledger.RequireFields...)

	opts := make([]ledger.Option, 0, len(ledger.Kinds()))
	for _, kind := range ledger.Kinds() {
		opts = append(opts, ledger.WithValidator(kind, v))
	}

	return opts
}
