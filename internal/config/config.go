package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Supported DATABASE_DRIVER values.
const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

// Config holds runtime configuration sourced from env vars and an optional
// CONFIG_FILE.
type Config struct {
	Port        string
	Env         string
	LogLevel    string
	CORSOrigins []string

	DatabaseDriver string
	DatabaseURL    string

	SecretKey       string
	Algorithm       string
	SaltRounds      int
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// Load reads configuration and rejects values the services cannot run with.
func Load() (Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DATABASE_DRIVER", DriverPostgres)
	v.SetDefault("ALGORITHM", "HS512")
	v.SetDefault("PASSWORD_SALT_ROUNDS", 12)
	v.SetDefault("ACCESS_TOKEN_LIFETIME_MINUTES", 120)
	v.SetDefault("REFRESH_TOKEN_LIFETIME_DAYS", 30)

	if p := os.Getenv("CONFIG_FILE"); p != "" {
		v.SetConfigFile(p)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", p, err)
		}
	}

	cfg := Config{
		Port:            strings.TrimSpace(v.GetString("PORT")),
		Env:             strings.ToLower(strings.TrimSpace(v.GetString("APP_ENV"))),
		LogLevel:        strings.TrimSpace(v.GetString("LOG_LEVEL")),
		CORSOrigins:     parseCSV(v.GetString("CORS_ALLOWED_ORIGINS")),
		DatabaseDriver:  strings.ToLower(strings.TrimSpace(v.GetString("DATABASE_DRIVER"))),
		DatabaseURL:     strings.TrimSpace(v.GetString("DATABASE_URL")),
		SecretKey:       strings.TrimSpace(v.GetString("SECRET_KEY")),
		Algorithm:       strings.ToUpper(strings.TrimSpace(v.GetString("ALGORITHM"))),
		SaltRounds:      v.GetInt("PASSWORD_SALT_ROUNDS"),
		AccessTokenTTL:  time.Duration(v.GetInt("ACCESS_TOKEN_LIFETIME_MINUTES")) * time.Minute,
		RefreshTokenTTL: time.Duration(v.GetInt("REFRESH_TOKEN_LIFETIME_DAYS")) * 24 * time.Hour,
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DatabaseDriver {
	case DriverPostgres, DriverMySQL:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("ALGORITHM must be HS256, HS384 or HS512, got %q", c.Algorithm)
	}
	if c.SaltRounds < bcrypt.MinCost || c.SaltRounds > bcrypt.MaxCost {
		return fmt.Errorf("PASSWORD_SALT_ROUNDS must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_LIFETIME_MINUTES must be positive")
	}
	if c.RefreshTokenTTL <= 0 {
		return errors.New("REFRESH_TOKEN_LIFETIME_DAYS must be positive")
	}
	return nil
}

// Development reports whether APP_ENV selects local development output.
func (c Config) Development() bool {
	return c.Env == "development" || c.Env == "dev" || c.Env == "local"
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
