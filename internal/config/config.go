// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server settings
	Port     string
	Env      string // "development", "staging", "production"
	LogLevel string

	// Database
	DatabaseURL string // PostgreSQL connection string (optional, uses in-memory if not set)

	// Upstream fraud-detection model service
	MLAPIURL string
	// MLTimeouts is the ordered list of per-attempt timeouts. One entry means
	// a single attempt; two entries mean a short attempt followed by a longer
	// retry before falling back.
	MLTimeouts []time.Duration

	// Feature vector slot indices for the transaction_value / gas_price
	// overwrite. Deployed model versions have disagreed on these (13/14 vs
	// 0/1), so they are configuration rather than constants.
	FeatureValueSlot int
	FeatureGasSlot   int

	// Circuit breaker guarding the upstream scorer
	BreakerThreshold int
	BreakerCooldown  time.Duration

	// Rate limiting
	RateLimitRPM int

	// Tracing
	OTLPEndpoint string
}

// Defaults
const (
	DefaultMLAPIURL       = "https://ml-fraud-transaction-detection.onrender.com/predict"
	DefaultPort           = "8080"
	DefaultEnv            = "development"
	DefaultLogLevel       = "info"
	DefaultMLTimeouts     = "10s,20s"
	DefaultValueSlot      = 13
	DefaultGasSlot        = 14
	DefaultBreakerTrips   = 5
	DefaultBreakerCooloff = 30 * time.Second
	DefaultRateLimit      = 120
)

// Load reads configuration from environment variables.
// It loads .env file if present (for local development).
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	timeouts, err := parseTimeouts(getEnv("ML_TIMEOUTS", DefaultMLTimeouts))
	if err != nil {
		return nil, fmt.Errorf("ML_TIMEOUTS: %w", err)
	}

	cfg := &Config{
		Port:             getEnv("PORT", DefaultPort),
		Env:              getEnv("ENV", DefaultEnv),
		LogLevel:         getEnv("LOG_LEVEL", DefaultLogLevel),
		DatabaseURL:      os.Getenv("DATABASE_URL"), // Optional, uses in-memory if not set
		MLAPIURL:         getEnv("ML_API_URL", DefaultMLAPIURL),
		MLTimeouts:       timeouts,
		FeatureValueSlot: getEnvInt("FEATURE_VALUE_SLOT", DefaultValueSlot),
		FeatureGasSlot:   getEnvInt("FEATURE_GAS_SLOT", DefaultGasSlot),
		BreakerThreshold: getEnvInt("BREAKER_THRESHOLD", DefaultBreakerTrips),
		BreakerCooldown:  getEnvDuration("BREAKER_COOLDOWN", DefaultBreakerCooloff),
		RateLimitRPM:     getEnvInt("RATE_LIMIT_RPM", DefaultRateLimit),
		OTLPEndpoint:     os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and coherent
func (c *Config) Validate() error {
	if c.MLAPIURL == "" {
		return fmt.Errorf("ML_API_URL is required")
	}
	u, err := url.Parse(c.MLAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("ML_API_URL must be an absolute URL")
	}

	if len(c.MLTimeouts) == 0 {
		return fmt.Errorf("ML_TIMEOUTS must list at least one timeout")
	}

	if c.FeatureValueSlot < 0 || c.FeatureValueSlot > 15 {
		return fmt.Errorf("FEATURE_VALUE_SLOT must be in [0,15]")
	}
	if c.FeatureGasSlot < 0 || c.FeatureGasSlot > 15 {
		return fmt.Errorf("FEATURE_GAS_SLOT must be in [0,15]")
	}
	if c.FeatureValueSlot == c.FeatureGasSlot {
		return fmt.Errorf("FEATURE_VALUE_SLOT and FEATURE_GAS_SLOT must differ")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// parseTimeouts parses a comma-separated duration list like "10s,20s".
func parseTimeouts(s string) ([]time.Duration, error) {
	var out []time.Duration
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := time.ParseDuration(part)
		if err != nil {
			return nil, fmt.Errorf("invalid duration %q", part)
		}
		if d <= 0 {
			return nil, fmt.Errorf("duration %q must be positive", part)
		}
		out = append(out, d)
	}
	return out, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
