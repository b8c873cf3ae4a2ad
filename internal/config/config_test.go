package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "PORT", "APP_ENV", "LOG_LEVEL", "CORS_ALLOWED_ORIGINS", "DATABASE_DRIVER",
		"ALGORITHM", "PASSWORD_SALT_ROUNDS", "ACCESS_TOKEN_LIFETIME_MINUTES", "REFRESH_TOKEN_LIFETIME_DAYS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("DATABASE_URL", "postgres://localhost/agro")
	t.Setenv("SECRET_KEY", "s3cret")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.HTTPAddress())
	assert.Equal(t, DriverPostgres, cfg.DatabaseDriver)
	assert.Equal(t, "HS512", cfg.Algorithm)
	assert.Equal(t, 12, cfg.SaltRounds)
	assert.Equal(t, 120*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 30*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.False(t, cfg.Development())
}

func TestLoadOverrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_DRIVER", "mysql")
	t.Setenv("ALGORITHM", "hs256")
	t.Setenv("PASSWORD_SALT_ROUNDS", "10")
	t.Setenv("ACCESS_TOKEN_LIFETIME_MINUTES", "15")
	t.Setenv("REFRESH_TOKEN_LIFETIME_DAYS", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.HTTPAddress())
	assert.True(t, cfg.Development())
	assert.Equal(t, DriverMySQL, cfg.DatabaseDriver)
	assert.Equal(t, "HS256", cfg.Algorithm)
	assert.Equal(t, 10, cfg.SaltRounds)
	assert.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]map[string]string{
		"missing url":         {"DATABASE_URL": ""},
		"missing secret":      {"SECRET_KEY": ""},
		"unknown driver":      {"DATABASE_DRIVER": "sqlite"},
		"asymmetric alg":      {"ALGORITHM": "RS256"},
		"low salt rounds":     {"PASSWORD_SALT_ROUNDS": "3"},
		"high salt rounds":    {"PASSWORD_SALT_ROUNDS": "32"},
		"zero access ttl":     {"ACCESS_TOKEN_LIFETIME_MINUTES": "0"},
		"negative refresh":    {"REFRESH_TOKEN_LIFETIME_DAYS": "-1"},
		"missing config file": {"CONFIG_FILE": filepath.Join(os.TempDir(), "agro-market-missing.yaml")},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			setBaseEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestMemoryDriverNeedsNoURL(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("DATABASE_DRIVER", "memory")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DriverMemory, cfg.DatabaseDriver)
}

func TestLoadConfigFile(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SECRET_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("SECRET_KEY: from-file\nPORT: \"7070\"\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.SecretKey)
	assert.Equal(t, "7070", cfg.Port)
}
