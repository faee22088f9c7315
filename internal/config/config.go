package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix for all environment variables read by Load.
	// Nested keys use a double underscore: SQLREPO_DATABASE__HOST -> database.host.
	EnvPrefix = "SQLREPO_"

	legacyPrefix = "MYSQL_"
)

// legacyKeys maps the MYSQL_* variables of older deployments onto database.* keys.
var legacyKeys = map[string]string{
	"MYSQL_HOST":     "database.host",
	"MYSQL_PORT":     "database.port",
	"MYSQL_USERNAME": "database.username",
	"MYSQL_PASSWORD": "database.password",
	"MYSQL_DATABASE": "database.name",
}

// DatabaseConfig holds the connection parameters consumed by provider.New.
// Params are passed through to the driver DSN untouched.
type DatabaseConfig struct {
	Driver             string            `koanf:"driver" validate:"required,oneof=mysql postgres sqlite3"`
	Host               string            `koanf:"host" validate:"required_unless=Driver sqlite3"`
	Port               string            `koanf:"port"`
	Username           string            `koanf:"username" validate:"required_unless=Driver sqlite3"`
	Password           string            `koanf:"password"`
	Name               string            `koanf:"name" validate:"required"`
	SSLMode            string            `koanf:"sslmode"`
	Params             map[string]string `koanf:"params"`
	MaxOpenConns       int               `koanf:"max_open_conns" validate:"gte=0"`
	MaxIdleConns       int               `koanf:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetimeSec int               `koanf:"conn_max_lifetime_sec" validate:"gte=0"`
}

// AppConfig is the centralized configuration struct for the application.
type AppConfig struct {
	Port     string         `koanf:"port" validate:"required"`
	LogLevel string         `koanf:"log_level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	Database DatabaseConfig `koanf:"database" validate:"required"`
}

// Default returns the configuration used when no variable overrides a value.
func Default() *AppConfig {
	return &AppConfig{
		Port:     "8080",
		LogLevel: "info",
		Database: DatabaseConfig{
			Driver:             "mysql",
			Port:               "3306",
			SSLMode:            "disable",
			MaxOpenConns:       10,
			MaxIdleConns:       5,
			ConnMaxLifetimeSec: 300,
		},
	}
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Legacy MYSQL_* variables are read first so SQLREPO_DATABASE__* always wins.
func Load() (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(env.Provider(legacyPrefix, ".", func(s string) string {
		return legacyKeys[s]
	}), nil); err != nil {
		return nil, fmt.Errorf("load legacy env: %w", err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the struct tags of cfg.
func Validate(cfg *AppConfig) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}
