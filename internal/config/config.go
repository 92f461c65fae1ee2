package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store drivers.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Fonda"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Store struct {
		Driver string `envconfig:"STORE_DRIVER" default:"supabase"`
	}

	Supabase struct {
		URL       string        `envconfig:"SUPABASE_URL"`
		AnonKey   string        `envconfig:"SUPABASE_ANON_KEY"`
		JWTSecret string        `envconfig:"SUPABASE_JWT_SECRET"`
		Timeout   time.Duration `envconfig:"SUPABASE_TIMEOUT" default:"15s"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"fonda"`
		Migrate  bool   `envconfig:"DB_MIGRATE" default:"false"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}

	RateLimit struct {
		// RPS of 0 disables limiting.
		RPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"0"`
		Burst int     `envconfig:"RATE_LIMIT_BURST" default:"20"`
	}

	Ledger struct {
		// RequireFields lists fields every record must carry before it is sent. Empty
		// means records are passed through unchecked.
		RequireFields []string `envconfig:"LEDGER_REQUIRE_FIELDS"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Validate reports settings the selected driver cannot run without.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSupabase:
		if c.Supabase.URL == "" || c.Supabase.AnonKey == "" {
			return errors.New("SUPABASE_URL and SUPABASE_ANON_KEY are required for the supabase driver")
		}
	case DriverPostgres:
		if c.DB.Host == "" || c.DB.Name == "" {
			return errors.New("DB_HOST and DB_NAME are required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if c.RateLimit.RPS < 0 {
		return errors.New("RATE_LIMIT_RPS must not be negative")
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
