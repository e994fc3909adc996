// Package config provides Viper-based configuration loading for the dinner
// roulette widget.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Output lists the zap sink paths. The terminal belongs to the UI, so the
	// default is a log file rather than stderr.
	Output []string `mapstructure:"output"`
}

// StoreConfig selects and configures the durable store for the last choice.
type StoreConfig struct {
	// Backend is one of "file", "sqlite", "postgres", "memory".
	Backend string `mapstructure:"backend"`
	// Path is the file location for the "file" and "sqlite" backends.
	Path string `mapstructure:"path"`
	// Timeout bounds each individual store operation.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds PostgreSQL connection settings for the "postgres" backend.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// RouletteConfig holds the roll timings.
type RouletteConfig struct {
	// SpinDuration is how long a roll animates before the result is chosen.
	SpinDuration time.Duration `mapstructure:"spin_duration"`
	// CycleInterval is how often the displayed option advances while rolling.
	CycleInterval time.Duration `mapstructure:"cycle_interval"`
	// BackdropInterval is how often the floating labels are repositioned.
	BackdropInterval time.Duration `mapstructure:"backdrop_interval"`
	// Seed, when non-zero, makes every draw reproducible.
	Seed uint64 `mapstructure:"seed"`
}

// UIConfig holds terminal frontend settings.
type UIConfig struct {
	// AltScreen runs the UI in the terminal's alternate screen buffer.
	AltScreen bool `mapstructure:"alt_screen"`
	// Backdrop toggles rendering of the floating labels.
	Backdrop bool `mapstructure:"backdrop"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging  LoggingConfig  `mapstructure:"logging"`
	Store    StoreConfig    `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	Roulette RouletteConfig `mapstructure:"roulette"`
	UI       UIConfig       `mapstructure:"ui"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateStore(c.Store); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Store.Backend == "postgres" {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if err := validateRoulette(c.Roulette); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	if len(l.Output) == 0 {
		return errors.New("logging.output must list at least one path")
	}
	return nil
}

func validateStore(s StoreConfig) error {
	var errs []string
	validBackends := map[string]bool{"file": true, "sqlite": true, "postgres": true, "memory": true}
	if !validBackends[s.Backend] {
		errs = append(errs, fmt.Sprintf("store.backend must be one of [file, sqlite, postgres, memory], got %q", s.Backend))
	}
	if (s.Backend == "file" || s.Backend == "sqlite") && strings.TrimSpace(s.Path) == "" {
		errs = append(errs, fmt.Sprintf("store.path must not be empty for backend %q", s.Backend))
	}
	if s.Timeout < 0 {
		errs = append(errs, "store.timeout must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRoulette(r RouletteConfig) error {
	var errs []string
	if r.SpinDuration <= 0 {
		errs = append(errs, fmt.Sprintf("roulette.spin_duration must be > 0, got %s", r.SpinDuration))
	}
	if r.CycleInterval <= 0 {
		errs = append(errs, fmt.Sprintf("roulette.cycle_interval must be > 0, got %s", r.CycleInterval))
	}
	if r.CycleInterval > r.SpinDuration {
		errs = append(errs, "roulette.cycle_interval must not exceed roulette.spin_duration")
	}
	if r.BackdropInterval <= 0 {
		errs = append(errs, fmt.Sprintf("roulette.backdrop_interval must be > 0, got %s", r.BackdropInterval))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result. An empty path uses defaults and the
// environment only.
//
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()

	// Environment variable overrides with DINNER_ prefix
	v.SetEnvPrefix("DINNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	}

	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the built-in defaults.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", []string{"dinnerroulette.log"})

	v.SetDefault("store.backend", "file")
	v.SetDefault("store.path", "dinnerroulette.yaml")
	v.SetDefault("store.timeout", "2s")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "dinner")
	v.SetDefault("database.password", "dinner")
	v.SetDefault("database.name", "dinner")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("database.min_conns", 1)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("roulette.spin_duration", "2s")
	v.SetDefault("roulette.cycle_interval", "100ms")
	v.SetDefault("roulette.backdrop_interval", "5s")
	v.SetDefault("roulette.seed", 0)

	v.SetDefault("ui.alt_screen", true)
	v.SetDefault("ui.backdrop", true)
}
