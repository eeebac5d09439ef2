// Copyright (c) 2026 Sleepwell. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first (if present) so developer machines do not need exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Google, JWT) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// # Configuration Schema

// Config holds all runtime configuration for the Sleepwell API server.
type Config struct {

	// Server settings
	Environment string `env:"ENV"       envDefault:"development"`
	Host        string `env:"APP_HOST"  envDefault:"0.0.0.0"`
	Port        string `env:"APP_PORT"  envDefault:"8080"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"DEBUG"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty disables the profile cache.
	RedisURL string `env:"REDIS_URL"`

	// TrustProxyHeaders takes the client IP from X-Real-IP / X-Forwarded-For.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// Cross-Origin Resource Sharing (production only; development allows any origin)
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	// Google identity provider
	GoogleClientID     string   `env:"GOOGLE_CLIENT_ID,required,notEmpty"`
	GoogleClientSecret string   `env:"GOOGLE_CLIENT_SECRET,required,notEmpty"`
	GoogleCallbackURI  string   `env:"GOOGLE_CALLBACK_URI"  envDefault:"http://localhost:8080/v1/auth/google/callback"`
	GoogleAPIBaseURI   string   `env:"GOOGLE_API_BASE_URI"  envDefault:"https://www.googleapis.com"`
	GoogleAuthURL      string   `env:"GOOGLE_AUTH_URL"      envDefault:"https://accounts.google.com/o/oauth2/v2/auth"`
	GoogleTokenURL     string   `env:"GOOGLE_TOKEN_URL"     envDefault:"https://oauth2.googleapis.com/token"`
	GoogleScopes       []string `env:"GOOGLE_SCOPES"        envDefault:"openid,email,profile" envSeparator:","`

	// OutboundTimeout bounds every single call to the identity provider.
	OutboundTimeout time.Duration `env:"OUTBOUND_HTTP_TIMEOUT" envDefault:"10s"`

	// Token signing
	JWTSecretKey               string `env:"JWT_SECRET_KEY,required,notEmpty"`
	JWTAlgorithm               string `env:"JWT_ALGORITHM"                 envDefault:"HS256"`
	AccessTokenExpireMinutes   int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES"   envDefault:"60"`
	RefreshTokenExpiresMinutes int    `env:"REFRESH_TOKEN_EXPIRES_MINUTES" envDefault:"10080"`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Variables already present in the process environment win over the file.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: failed to read .env file: %w", err)
	}

	return Parse()
}

// Parse maps the current process environment onto a [Config] and validates it.
func Parse() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects combinations the env tags cannot express.
func (c *Config) validate() error {
	if c.Environment != "development" && c.Environment != "production" {
		return fmt.Errorf("config: ENV must be development or production, got %q", c.Environment)
	}
	if c.AccessTokenExpireMinutes <= 0 {
		return fmt.Errorf("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.RefreshTokenExpiresMinutes <= 0 {
		return fmt.Errorf("config: REFRESH_TOKEN_EXPIRES_MINUTES must be positive")
	}
	if c.OutboundTimeout <= 0 {
		return fmt.Errorf("config: OUTBOUND_HTTP_TIMEOUT must be positive")
	}
	if len(c.GoogleScopes) == 0 {
		return fmt.Errorf("config: GOOGLE_SCOPES must list at least one scope")
	}
	return nil
}

// # Derived Values

// Addr returns the host:port pair the HTTP server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// AccessTokenTTL is the lifetime of issued access tokens.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// RefreshTokenTTL is the lifetime of issued refresh tokens.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpiresMinutes) * time.Minute
}

// SlogLevel maps LOG_LEVEL onto a [slog.Level]. FATAL has no slog
// equivalent and is treated as ERROR. Unknown values fall back to INFO.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR", "FATAL":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowsOrigin reports whether a browser origin is on the CORS allow-list.
func (c *Config) AllowsOrigin(origin string) bool {
	return slices.Contains(c.AllowedOrigins, origin)
}
