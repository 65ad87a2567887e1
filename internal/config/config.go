// Package config manages environment variables.
//
// It reads variables from the process environment (optionally seeded from a
// `.env` file), loads them into structured Go types and validates them so
// the rest of the application can rely on a complete configuration.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config.
//   - Validate required values so the app fails fast on bad/missing config.
//   - Fill in defaults for optional blocks (upload, observability).
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the ROBOCLUB_ prefix. The prefix is stripped and
	the remainder lowercased; "." separates nesting levels, so

		ROBOCLUB_DATABASE.HOST -> database.host -> Config.Database.Host

	Underscores are NOT converted to dots: ROBOCLUB_SERVER.READ_TIMEOUT maps
	to server.read_timeout.
*/

// EnvPrefix is the prefix every configuration variable must carry.
const EnvPrefix = "ROBOCLUB_"

// ServiceName identifies this service in logs, traces and APM dashboards.
const ServiceName = "robotics-club"

// Config is the root configuration object for the application.
//
// Upload, Integration and Observability are optional: when omitted they are
// filled with defaults in LoadConfig.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis" validate:"required"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Upload        UploadConfig         `koanf:"upload"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are expressed in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// DatabaseConfig contains PostgreSQL connection parameters and pool tuning.
type DatabaseConfig struct {
	Host            string `koanf:"host" validate:"required"`
	Port            int    `koanf:"port" validate:"required"`
	User            string `koanf:"user" validate:"required"`
	Password        string `koanf:"password" validate:"required"`
	Name            string `koanf:"name" validate:"required"`
	SSLMode         string `koanf:"ssl_mode" validate:"required"`
	MaxOpenConns    int    `koanf:"max_open_conns" validate:"required"`
	MaxIdleConns    int    `koanf:"max_idle_conns" validate:"required"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime" validate:"required"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// AuthConfig configures token issuing and login throttling.
//
// SecretKey signs the HS256 access tokens, so it must be long enough to
// resist brute force.
type AuthConfig struct {
	SecretKey string        `koanf:"secret_key" validate:"required,min=32"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	// LoginRateLimit is the number of login/register attempts allowed per
	// client IP within LoginRateWindow. Zero selects the default, a negative
	// value disables throttling.
	LoginRateLimit  int           `koanf:"login_rate_limit"`
	LoginRateWindow time.Duration `koanf:"login_rate_window"`
}

// UploadConfig controls where uploaded files are stored and how big they may be.
type UploadConfig struct {
	// Dir is the directory served under /uploads.
	Dir string `koanf:"dir"`

	// MaxFileSize is the per-file limit in bytes for content uploads.
	MaxFileSize int64 `koanf:"max_file_size" validate:"min=0"`

	// TempMaxAge is how long an abandoned staging file may live before
	// the sweeper deletes it.
	TempMaxAge time.Duration `koanf:"temp_max_age"`
}

// IntegrationConfig holds credentials for third-party services.
// An empty ResendAPIKey disables outgoing email.
type IntegrationConfig struct {
	ResendAPIKey string `koanf:"resend_api_key"`
	EmailFrom    string `koanf:"email_from" validate:"omitempty,email"`
}

const (
	DefaultTokenTTL        = 30 * 24 * time.Hour
	DefaultLoginRateLimit  = 10
	DefaultLoginRateWindow = 15 * time.Minute
	DefaultUploadDir       = "uploads"
	DefaultMaxFileSize     = 5 * 1024 * 1024
	DefaultTempMaxAge      = time.Hour
	DefaultEmailFrom       = "onboarding@resend.dev"
)

// listKeys are comma separated in the environment.
var listKeys = map[string]bool{
	"server.cors_allowed_origins":        true,
	"observability.health_checks.checks": true,
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// LoadConfig loads configuration from environment variables, unmarshals it
// into Config, validates it and applies defaults.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, any) {
		key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if listKeys[key] {
			return key, splitList(value)
		}
		return key, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if err := mainConfig.finalize(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// finalize applies defaults and runs every validation step. It is split
// from LoadConfig so configs assembled in code (tests, tools) go through the
// same rules.
func (c *Config) finalize() error {
	c.applyDefaults()

	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Auth.TokenTTL == 0 {
		c.Auth.TokenTTL = DefaultTokenTTL
	}
	if c.Auth.LoginRateLimit == 0 {
		c.Auth.LoginRateLimit = DefaultLoginRateLimit
	}
	if c.Auth.LoginRateWindow == 0 {
		c.Auth.LoginRateWindow = DefaultLoginRateWindow
	}
	if c.Upload.Dir == "" {
		c.Upload.Dir = DefaultUploadDir
	}
	if c.Upload.MaxFileSize == 0 {
		c.Upload.MaxFileSize = DefaultMaxFileSize
	}
	if c.Upload.TempMaxAge == 0 {
		c.Upload.TempMaxAge = DefaultTempMaxAge
	}
	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = DefaultEmailFrom
	}
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are always derived, never configured.
	c.Observability.ServiceName = ServiceName
	c.Observability.Environment = c.Primary.Env
	c.Observability.fillMissing()
}

// IsLocal reports whether the app runs on a developer machine.
func (c *Config) IsLocal() bool {
	return c.Primary.Env == "local"
}
