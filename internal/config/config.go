// Package config defines the process configuration for the console API and
// its operator tooling. Configuration is loaded once at startup and is
// immutable thereafter.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File -> *_FILE secret files (Lowest)
//
// Any missing required value or invalid format aborts startup.
package config

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"templeadmin/internal/types"
)

// SecretString is an alias for types.SecretString so config consumers need
// not import types for it.
type SecretString = types.SecretString

// Catalog source names accepted by CATALOG_SOURCE.
const (
	CatalogSourceSeed     = "seed"
	CatalogSourceYAML     = "yaml"
	CatalogSourcePostgres = "postgres"
)

// Config is the top-level configuration struct. Sub-components receive only
// the subsets they need.
type Config struct {
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"OTEL_SERVICE_NAME" default:"templeadmin-api"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Server        ServerConfig
	Catalog       CatalogConfig
	Database      DatabaseConfig
	Security      SecurityConfig
	Observability ObservabilityConfig

	// Injected via ldflags, not env.
	Build BuildInfo
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" default:"29s" validate:"gt=0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s" validate:"gt=0"`
}

// CatalogConfig selects where reference data comes from and how often it is
// reloaded. An empty RefreshSchedule disables background reloads.
type CatalogConfig struct {
	Source          string `envconfig:"CATALOG_SOURCE" default:"seed" validate:"oneof=seed yaml postgres"`
	File            string `envconfig:"CATALOG_FILE"`
	RefreshSchedule string `envconfig:"CATALOG_REFRESH_SCHEDULE"`
}

// DatabaseConfig holds PostgreSQL connection and pool tuning parameters.
// It is only consulted when the catalog is read from PostgreSQL.
type DatabaseConfig struct {
	URL SecretString `envconfig:"DATABASE_URL"`

	MaxConns          int32         `envconfig:"DB_MAX_CONNS" default:"10" validate:"gt=0"`
	MinConns          int32         `envconfig:"DB_MIN_CONNS" default:"2" validate:"gte=0"`
	MaxConnLifetime   time.Duration `envconfig:"DB_MAX_CONN_LIFETIME" default:"30m"`
	AcquireTimeout    time.Duration `envconfig:"DB_ACQUIRE_TIMEOUT" default:"2s"`
	HealthCheckPeriod time.Duration `envconfig:"DB_HEALTH_CHECK_PERIOD" default:"1m"`
	RunMigrations     bool          `envconfig:"DB_RUN_MIGRATIONS" default:"false"`
}

// SecurityConfig holds CORS settings.
type SecurityConfig struct {
	CorsAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// ObservabilityConfig holds telemetry settings.
type ObservabilityConfig struct {
	EnableMetrics     bool   `envconfig:"ENABLE_METRICS" default:"true"`
	MetricNamespace   string `envconfig:"METRIC_NAMESPACE" default:"templeadmin" validate:"required,alphanum"`
	EnableCompression bool   `envconfig:"ENABLE_COMPRESSION" default:"true"`
}

// BuildInfo holds build-time metadata injected via ldflags.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures.
type ConfigErrorType string

const (
	// ErrMissingEnv indicates a required environment variable was not found.
	ErrMissingEnv ConfigErrorType = "MISSING_ENV"
	// ErrSecretFile indicates a *_FILE secret could not be read.
	ErrSecretFile ConfigErrorType = "SECRET_FILE_FAILURE"
	// ErrValidation indicates the configuration failed validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates an environment value could not be parsed into its
	// target type.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)

// Validate applies the rules struct tags cannot express.
func (c *Config) Validate() error {
	switch c.Catalog.Source {
	case CatalogSourceYAML:
		if c.Catalog.File == "" {
			return &ConfigError{Type: ErrMissingEnv, Message: "CATALOG_FILE is required when CATALOG_SOURCE=yaml"}
		}
	case CatalogSourcePostgres:
		if !c.Database.URL.IsSet() {
			return &ConfigError{Type: ErrMissingEnv, Message: "DATABASE_URL is required when CATALOG_SOURCE=postgres"}
		}
	}

	if c.Database.RunMigrations && !c.Database.URL.IsSet() {
		return &ConfigError{Type: ErrMissingEnv, Message: "DATABASE_URL is required when DB_RUN_MIGRATIONS=true"}
	}
	if c.Database.MinConns > c.Database.MaxConns {
		return &ConfigError{
			Type:    ErrValidation,
			Message: fmt.Sprintf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.Database.MinConns, c.Database.MaxConns),
		}
	}

	if c.Catalog.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.Catalog.RefreshSchedule); err != nil {
			return &ConfigError{
				Type:    ErrValidation,
				Message: "CATALOG_REFRESH_SCHEDULE is not a valid cron expression",
				Err:     err,
			}
		}
	}
	return nil
}
