// Package backend builds the shared store handle the ledger and reports talk to.
package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/fonda/internal/categorize"
	categoryStore "github.com/MrJamesThe3rd/fonda/internal/categorize/store"
	"github.com/MrJamesThe3rd/fonda/internal/config"
	"github.com/MrJamesThe3rd/fonda/internal/database"
	"github.com/MrJamesThe3rd/fonda/internal/ledger"
	"github.com/MrJamesThe3rd/fonda/internal/ledger/store"
	"github.com/MrJamesThe3rd/fonda/internal/report"
	"github.com/MrJamesThe3rd/fonda/internal/supabase"
)

var ErrUnknownDriver = errors.New("unknown store driver")

// Backend is created once per process and shared by every caller.
type Backend struct {
	Driver     string
	Inserter   ledger.Inserter
	Source     report.Source
	Categories categorize.Repository
	closeFn    func() error
}

func (b *Backend) Close() error {
	if b.closeFn == nil {
		return nil
	}

	return b.closeFn()
}

func Open(ctx context.Context, cfg *config.Config) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.DriverSupabase, "":
		return openSupabase(cfg)
	case config.DriverPostgres:
		return openPostgres(ctx, cfg)
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Store.Driver)
}

func openSupabase(cfg *config.Config) (*Backend, error) {
	client, err := supabase.New(supabase.Config{
		URL:     cfg.Supabase.URL,
		APIKey:  cfg.Supabase.AnonKey,
		Timeout: cfg.Supabase.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}

	slog.Info("using supabase store", "url", cfg.Supabase.URL)

	return &Backend{
		Driver:     config.DriverSupabase,
		Inserter:   client,
		Source:     client,
		Categories: categorize.NewRules(categorize.DefaultRules),
	}, nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (*Backend, error) {
	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		return nil, err
	}

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
	}

	slog.Info("using postgres store", "host", cfg.DB.Host, "database", cfg.DB.Name)

	s := store.New(db)

	return &Backend{
		Driver:     config.DriverPostgres,
		Inserter:   s,
		Source:     s,
		Categories: categoryStore.New(db),
		closeFn:    db.Close,
	}, nil
}
