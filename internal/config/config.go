package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Bridge  BridgeConfig  `yaml:"bridge"`
	Store   StoreConfig   `yaml:"store"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type HTTPConfig struct {
	Addr              string        `yaml:"addr"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
}

type BridgeConfig struct {
	// Addr is the gRPC listen address for the door bridge.  Empty disables it.
	Addr string `yaml:"addr"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"` // "memory" | "sqlite"
}

type LogConfig struct {
	Env   string `yaml:"env"`   // "dev" | "prod"
	Level string `yaml:"level"` // "debug" | "info" | "warn" | "error"
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

func Default() Config {
	return Config{
		HTTP: HTTPConfig{
			Addr:              ":3000",
			ReadHeaderTimeout: 5 * time.Second,
			ShutdownTimeout:   5 * time.Second,
		},
		Bridge:  BridgeConfig{Addr: ":50051"},
		Store:   StoreConfig{Backend: BackendMemory},
		Log:     LogConfig{Env: "dev", Level: "info"},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load builds the configuration from defaults, then the YAML file at path
// (skipped when path is empty), then a .env file in the working directory
// if one exists, then DOORLOG_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	// Variables already in the environment win over .env entries.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var errs []error

	if v, ok := lookup("DOORLOG_HTTP_ADDR"); ok {
		cfg.HTTP.Addr = v
	}
	// Set but blank disables the bridge.
	if v, ok := os.LookupEnv("DOORLOG_BRIDGE_ADDR"); ok {
		cfg.Bridge.Addr = strings.TrimSpace(v)
	}
	if v, ok := lookup("DOORLOG_STORE_BACKEND"); ok {
		cfg.Store.Backend = strings.ToLower(v)
	}
	if v, ok := lookup("DOORLOG_LOG_ENV"); ok {
		cfg.Log.Env = strings.ToLower(v)
	}
	if v, ok := lookup("DOORLOG_LOG_LEVEL"); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup("DOORLOG_METRICS_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("DOORLOG_METRICS_ENABLED must be a boolean, got %q", v))
		} else {
			cfg.Metrics.Enabled = b
		}
	}
	if v, ok := lookup("DOORLOG_HTTP_READ_HEADER_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("DOORLOG_HTTP_READ_HEADER_TIMEOUT: %w", err))
		} else {
			cfg.HTTP.ReadHeaderTimeout = d
		}
	}
	if v, ok := lookup("DOORLOG_HTTP_SHUTDOWN_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("DOORLOG_HTTP_SHUTDOWN_TIMEOUT: %w", err))
		} else {
			cfg.HTTP.ShutdownTimeout = d
		}
	}

	return errors.Join(errs...)
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HTTP.Addr) == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	if c.HTTP.ReadHeaderTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http.read_header_timeout must be positive, got %s", c.HTTP.ReadHeaderTimeout))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("http.shutdown_timeout must be positive, got %s", c.HTTP.ShutdownTimeout))
	}
	switch c.Store.Backend {
	case BackendMemory, BackendSQLite:
	default:
		errs = append(errs, fmt.Errorf("store.backend must be one of memory, sqlite, got %q", c.Store.Backend))
	}
	switch c.Log.Env {
	case "dev", "prod":
	default:
		errs = append(errs, fmt.Errorf("log.env must be one of dev, prod, got %q", c.Log.Env))
	}

	return errors.Join(errs...)
}

// lookup treats a blank variable as unset.
func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
