package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is stripped from environment variables before they are mapped
// onto config keys, so APP_LISTEN_ADDR sets listen_addr.
const EnvPrefix = "APP_"

// ConfigPathEnvVar can point at a YAML file layered between the defaults and
// the environment.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultConfigPaths are tried in order when CONFIG_PATH is not set.
var DefaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config holds the runtime configuration for the service.
// Precedence is environment, then config file, then defaults. See .env.example.
type Config struct {
	ListenAddr string `koanf:"listen_addr" validate:"required"`

	// DataPath is the CSV log loaded at startup. Gzip and zstd files are
	// accepted. When empty or unreadable the service starts on synthetic data.
	DataPath string `koanf:"data_path"`

	// DatabaseURL enables the ingestion history. Optional.
	DatabaseURL string `koanf:"database_url" validate:"omitempty,url"`

	// RetentionDays is how long ingestion history rows are kept.
	RetentionDays int `koanf:"retention_days" validate:"min=1"`

	BackfillDays    int   `koanf:"backfill_days" validate:"min=1,max=366"`
	FallbackRecords int   `koanf:"fallback_records" validate:"min=1,max=1000000"`
	MaxUploadBytes  int64 `koanf:"max_upload_bytes" validate:"min=1024"`

	LogLevel  string `koanf:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string `koanf:"log_format" validate:"oneof=json console"`
}

func defaultConfig() *Config {
	return &Config{
		ListenAddr:      ":8080",
		DataPath:        "web_server_logs.csv",
		RetentionDays:   30,
		BackfillDays:    30,
		FallbackRecords: 1000,
		MaxUploadBytes:  32 << 20,
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load layers defaults, an optional YAML file and APP_* environment variables,
// then validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	path, err := findConfigFile()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.DatabaseURL != "" &&
		!strings.HasPrefix(c.DatabaseURL, "postgres://") &&
		!strings.HasPrefix(c.DatabaseURL, "postgresql://") {
		return fmt.Errorf("invalid config: database_url must be a postgres:// or postgresql:// URL")
	}
	return nil
}

// envKey maps APP_MAX_UPLOAD_BYTES to max_upload_bytes.
func envKey(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
}

// findConfigFile returns the file named by CONFIG_PATH, which must exist,
// or else the first default path present. "" means no file.
func findConfigFile() (string, error) {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", fmt.Errorf("%s: %w", ConfigPathEnvVar, err)
		}
		return p, nil
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}
