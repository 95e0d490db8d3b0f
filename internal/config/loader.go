// loader.go implements the configuration loading lifecycle.
//
// The loading sequence is:
//  1. Enforce UTC timezone.
//  2. Load .env file via godotenv (non-fatal if absent).
//  3. Resolve *_FILE variables into their target variables.
//  4. Use envconfig to populate the Config struct.
//  5. Populate BuildInfo from linker-injected variables.
//  6. Validate tags with go-playground/validator, then Config.Validate.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError is a diagnostic error type returned by LoadConfig.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// fileSecretSuffix marks a variable whose value is a path to a file holding
// the secret, e.g. DATABASE_URL_FILE=/run/secrets/database_url.
const fileSecretSuffix = "_FILE"

// fileSecretTargets lists the variables that may be supplied via *_FILE.
// Other *_FILE variables (CATALOG_FILE) are left alone.
var fileSecretTargets = map[string]bool{
	"DATABASE_URL": true,
}

type loaderDeps struct {
	lookupEnv func(key string) (string, bool)
	setEnv    func(key, value string) error
	environ   func() []string
	readFile  func(name string) ([]byte, error)
}

func defaultDeps() loaderDeps {
	return loaderDeps{
		lookupEnv: os.LookupEnv,
		setEnv:    os.Setenv,
		environ:   os.Environ,
		readFile:  os.ReadFile,
	}
}

// LoadConfig loads and validates the configuration from the environment.
func LoadConfig() (*Config, error) {
	return loadConfigWithDeps(defaultDeps())
}

func loadConfigWithDeps(deps loaderDeps) (*Config, error) {
	time.Local = time.UTC

	// godotenv does not override variables already present in the environment.
	_ = godotenv.Load()

	if err := resolveFileSecrets(deps); err != nil {
		return nil, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	cfg.Build = NewBuildInfo()

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolveFileSecrets reads each allowed X_FILE variable and sets X to the
// trimmed file contents. A directly set X wins over X_FILE.
func resolveFileSecrets(deps loaderDeps) error {
	for _, entry := range deps.environ() {
		eq := strings.IndexByte(entry, '=')
		if eq < 0 {
			continue
		}
		key, path := entry[:eq], entry[eq+1:]
		if !strings.HasSuffix(key, fileSecretSuffix) || path == "" {
			continue
		}

		target := strings.TrimSuffix(key, fileSecretSuffix)
		if !fileSecretTargets[target] {
			continue
		}
		if v, exists := deps.lookupEnv(target); exists && v != "" {
			continue
		}

		raw, err := deps.readFile(path)
		if err != nil {
			return &ConfigError{
				Type:    ErrSecretFile,
				Message: fmt.Sprintf("failed to read %s", key),
				Err:     err,
			}
		}
		if err := deps.setEnv(target, strings.TrimSpace(string(raw))); err != nil {
			return &ConfigError{
				Type:    ErrSecretFile,
				Message: fmt.Sprintf("failed to set %s", target),
				Err:     err,
			}
		}
	}
	return nil
}
