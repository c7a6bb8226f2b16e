// Package config loads vacciprofile settings: built-in defaults, then an
// optional YAML file, then VACCIPROFILE_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "VACCIPROFILE_"

// Dataset drivers.
const (
	DriverFS       = "fs"
	DriverS3       = "s3"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is the full application configuration.
type Config struct {
	Dataset DatasetConfig `yaml:"dataset" envPrefix:"DATASET_"`
	Server  ServerConfig  `yaml:"server" envPrefix:"SERVER_"`
	Logging LoggingConfig `yaml:"logging" envPrefix:"LOG_"`
	Tracing TracingConfig `yaml:"tracing" envPrefix:"TRACING_"`
}

// DatasetConfig selects where the catalogue collections are read from.
type DatasetConfig struct {
	Driver       string        `yaml:"driver" env:"DRIVER"`
	Root         string        `yaml:"root" env:"ROOT"`
	Prefix       string        `yaml:"prefix" env:"PREFIX"`
	S3           S3Config      `yaml:"s3" envPrefix:"S3_"`
	SQLitePath   string        `yaml:"sqlite_path" env:"SQLITE_PATH"`
	PostgresDSN  string        `yaml:"postgres_dsn" env:"POSTGRES_DSN"`
	Table        string        `yaml:"table" env:"TABLE"`
	Watch        bool          `yaml:"watch" env:"WATCH"`
	PollInterval time.Duration `yaml:"poll_interval" env:"POLL_INTERVAL"`
}

// S3Config configures the S3 / MinIO dataset driver.
type S3Config struct {
	Bucket          string `yaml:"bucket" env:"BUCKET"`
	Region          string `yaml:"region" env:"REGION"`
	Endpoint        string `yaml:"endpoint" env:"ENDPOINT"`
	PathStyle       bool   `yaml:"path_style" env:"PATH_STYLE"`
	AccessKeyID     string `yaml:"access_key_id" env:"ACCESS_KEY_ID"`
	SecretAccessKey string `yaml:"secret_access_key" env:"SECRET_ACCESS_KEY"`
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr            string        `yaml:"addr" env:"ADDR"`
	SessionTTL      time.Duration `yaml:"session_ttl" env:"SESSION_TTL"`
	MaxSessions     int           `yaml:"max_sessions" env:"MAX_SESSIONS"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"WRITE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

// TracingConfig configures OTLP trace export. An empty endpoint disables it.
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint" env:"ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"SERVICE_NAME"`
	Disabled    bool   `yaml:"disabled" env:"DISABLED"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Dataset: DatasetConfig{
			Driver:       DriverFS,
			Root:         "./data",
			PollInterval: 30 * time.Second,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			SessionTTL:      30 * time.Minute,
			MaxSessions:     1024,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Tracing: TracingConfig{ServiceName: "vacciprofile"},
	}
}

// Load reads path when it is non-empty, applies environment overrides and
// validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: EnvPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	switch c.Dataset.Driver {
	case DriverFS:
		if c.Dataset.Root == "" {
			return fmt.Errorf("dataset.root required for fs driver")
		}
	case DriverS3:
		if c.Dataset.S3.Bucket == "" {
			return fmt.Errorf("dataset.s3.bucket required for s3 driver")
		}
	case DriverSQLite:
		if c.Dataset.SQLitePath == "" {
			return fmt.Errorf("dataset.sqlite_path required for sqlite driver")
		}
	case DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown dataset driver %q", c.Dataset.Driver)
	}
	if c.Dataset.PollInterval < 0 {
		return fmt.Errorf("dataset.poll_interval must not be negative")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr required")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server.session_ttl must be positive")
	}
	if c.Server.MaxSessions <= 0 {
		return fmt.Errorf("server.max_sessions must be positive")
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
