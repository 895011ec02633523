package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "BATTLESIM_"

// App holds all configuration for the battlesim binary.
type App struct {
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`

	// DataDir overrides the embedded data tables when set.
	DataDir string `yaml:"data_dir" env:"DATA_DIR"`

	// Workers bounds parallel runs in batch mode.
	Workers int `yaml:"workers" env:"WORKERS"`

	// DefaultSeed is used when a scenario has no seed of its own; 0 derives
	// the seed from the scenario digest.
	DefaultSeed uint64 `yaml:"default_seed" env:"SEED"`

	// Output selects the report format: yaml, json or text.
	Output string `yaml:"output" env:"OUTPUT"`

	// Persist stores finished runs in the database.
	Persist  bool           `yaml:"persist" env:"PERSIST"`
	Database DatabaseConfig `yaml:"database" envPrefix:"DATABASE_"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"HOST"`
	Port     int    `yaml:"port" env:"PORT"`
	User     string `yaml:"user" env:"USER"`
	Password string `yaml:"password" env:"PASSWORD"`
	DBName   string `yaml:"dbname" env:"NAME"`
	SSLMode  string `yaml:"sslmode" env:"SSLMODE"`

	// URL, when set, is used verbatim instead of the fields above.
	URL string `yaml:"dsn" env:"DSN"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// DefaultApp returns App config with sensible defaults.
func DefaultApp() App {
	return App{
		LogLevel: "info",
		Workers:  4,
		Output:   "text",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "battlesim",
			Password: "battlesim",
			DBName:   "battlesim",
			SSLMode:  "disable",
		},
	}
}

// LoadApp loads config from a YAML file and applies BATTLESIM_* environment
// overrides. If the file doesn't exist, defaults are used.
func LoadApp(path string) (App, error) {
	cfg := DefaultApp()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return cfg, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks enumerated and bounded fields.
func (a App) Validate() error {
	if _, err := ParseLevel(a.LogLevel); err != nil {
		return err
	}
	switch a.Output {
	case "yaml", "json", "text":
	default:
		return fmt.Errorf("unknown output format %q", a.Output)
	}
	if a.Workers < 1 {
		return fmt.Errorf("workers must be positive, got %d", a.Workers)
	}
	return nil
}

// ParseLevel maps a config log level to slog.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
