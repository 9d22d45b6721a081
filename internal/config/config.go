package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	CORS      CORSConfig
	Log       LogConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Ledger    LedgerConfig
	Reconcile ReconcileConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig selects the zap encoder ("dev" or "prod").
type LogConfig struct {
	Mode string
}

// AuthConfig holds the HS256 secret used to verify bearer tokens.
type AuthConfig struct {
	JWTSecret string
}

// RateLimitConfig bounds requests per authenticated principal.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// LedgerConfig holds the address derivation tag and the optional key used to
// encrypt transaction descriptions at rest.
type LedgerConfig struct {
	AddressDomainTag         string
	DescriptionEncryptionKey string
}

// ReconcileConfig controls the scheduled aggregate check. An empty Schedule
// disables the job.
type ReconcileConfig struct {
	Schedule string
	Workers  int
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	rps, err := getEnvFloat("RATE_LIMIT_RPS", 5)
	if err != nil {
		return nil, err
	}
	burst, err := getEnvInt("RATE_LIMIT_BURST", 10)
	if err != nil {
		return nil, err
	}
	workers, err := getEnvInt("RECONCILE_WORKERS", 4)
	if err != nil {
		return nil, err
	}

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "5001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/portfolio_ledger.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost")),
		},
		Log: LogConfig{
			Mode: getEnv("LOG_MODE", "dev"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: burst,
		},
		Ledger: LedgerConfig{
			AddressDomainTag:         getEnv("ADDRESS_DOMAIN_TAG", "portfolio"),
			DescriptionEncryptionKey: os.Getenv("DESCRIPTION_ENCRYPTION_KEY"),
		},
		Reconcile: ReconcileConfig{
			Schedule: getEnvAllowEmpty("RECONCILE_SCHEDULE", "@every 1h"),
			Workers:  workers,
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("AUTH_JWT_SECRET is required")
	}
	if c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	if c.Reconcile.Workers <= 0 {
		return fmt.Errorf("RECONCILE_WORKERS must be positive")
	}
	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAllowEmpty distinguishes an unset variable from one explicitly set to "".
func getEnvAllowEmpty(key, defaultValue string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return defaultValue
	}
	return strings.TrimSpace(value)
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return v, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
