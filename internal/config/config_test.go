package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()

	vars := map[string]string{
		"ROBOCLUB_PRIMARY.ENV":                   "development",
		"ROBOCLUB_SERVER.PORT":                   "8080",
		"ROBOCLUB_SERVER.READ_TIMEOUT":           "30",
		"ROBOCLUB_SERVER.WRITE_TIMEOUT":          "30",
		"ROBOCLUB_SERVER.IDLE_TIMEOUT":           "60",
		"ROBOCLUB_SERVER.CORS_ALLOWED_ORIGINS":   "http://localhost:5173,https://club.example.com",
		"ROBOCLUB_DATABASE.HOST":                 "localhost",
		"ROBOCLUB_DATABASE.PORT":                 "5432",
		"ROBOCLUB_DATABASE.USER":                 "postgres",
		"ROBOCLUB_DATABASE.PASSWORD":             "postgres",
		"ROBOCLUB_DATABASE.NAME":                 "roboclub",
		"ROBOCLUB_DATABASE.SSL_MODE":             "disable",
		"ROBOCLUB_DATABASE.MAX_OPEN_CONNS":       "25",
		"ROBOCLUB_DATABASE.MAX_IDLE_CONNS":       "25",
		"ROBOCLUB_DATABASE.CONN_MAX_LIFETIME":    "300",
		"ROBOCLUB_DATABASE.CONN_MAX_IDLE_TIME":   "300",
		"ROBOCLUB_REDIS.ADDRESS":                 "localhost:6379",
		"ROBOCLUB_AUTH.SECRET_KEY":               "a-very-long-secret-key-for-signing-tokens",
	}
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173", "https://club.example.com"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, 5432, cfg.Database.Port)

	assert.Equal(t, DefaultTokenTTL, cfg.Auth.TokenTTL)
	assert.Equal(t, DefaultLoginRateLimit, cfg.Auth.LoginRateLimit)
	assert.Equal(t, DefaultLoginRateWindow, cfg.Auth.LoginRateWindow)
	assert.Equal(t, DefaultUploadDir, cfg.Upload.Dir)
	assert.EqualValues(t, DefaultMaxFileSize, cfg.Upload.MaxFileSize)
	assert.Equal(t, DefaultEmailFrom, cfg.Integration.EmailFrom)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.True(t, cfg.Observability.HasCheck("redis"))
}

func TestLoadConfigReadsOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ROBOCLUB_AUTH.TOKEN_TTL", "2h")
	t.Setenv("ROBOCLUB_AUTH.LOGIN_RATE_LIMIT", "-1")
	t.Setenv("ROBOCLUB_UPLOAD.DIR", "/var/lib/roboclub/uploads")
	t.Setenv("ROBOCLUB_UPLOAD.MAX_FILE_SIZE", "1048576")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, -1, cfg.Auth.LoginRateLimit)
	assert.Equal(t, "/var/lib/roboclub/uploads", cfg.Upload.Dir)
	assert.EqualValues(t, 1048576, cfg.Upload.MaxFileSize)
}

func TestLoadConfigSplitsLists(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ROBOCLUB_SERVER.CORS_ALLOWED_ORIGINS", " https://a.dev , https://b.dev,")
	t.Setenv("ROBOCLUB_OBSERVABILITY.HEALTH_CHECKS.CHECKS", "database")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.dev", "https://b.dev"}, cfg.Server.CORSAllowedOrigins)
	assert.True(t, cfg.Observability.HasCheck("database"))
	assert.False(t, cfg.Observability.HasCheck("redis"))
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList("a, b"))
	assert.Empty(t, splitList(" , "))
}

func TestLoadConfigRejectsShortSecret(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ROBOCLUB_AUTH.SECRET_KEY", "short")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestObservabilityValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ObservabilityConfig)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *ObservabilityConfig) {},
		},
		{
			name:    "unknown level",
			mutate:  func(c *ObservabilityConfig) { c.Logging.Level = "verbose" },
			wantErr: "invalid logging level",
		},
		{
			name:    "unknown format",
			mutate:  func(c *ObservabilityConfig) { c.Logging.Format = "xml" },
			wantErr: "invalid logging format",
		},
		{
			name:    "unknown check",
			mutate:  func(c *ObservabilityConfig) { c.HealthChecks.Checks = []string{"mongo"} },
			wantErr: "unknown health check",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultObservabilityConfig()
			tc.mutate(c)

			err := c.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestGetLogLevelFallsBackByEnvironment(t *testing.T) {
	c := &ObservabilityConfig{Environment: "production"}
	assert.Equal(t, "info", c.GetLogLevel())

	c.Environment = "local"
	assert.Equal(t, "debug", c.GetLogLevel())

	c.Logging.Level = "warn"
	assert.Equal(t, "warn", c.GetLogLevel())
}
