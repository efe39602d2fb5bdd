// Package config provides environment configuration loading and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// MinSecretLength is the minimum accepted length for JWT_SECRET.
const MinSecretLength = 32

// Config holds the API server configuration.
type Config struct {
	Port          string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	JWTSecret     string
	TokenTTL      time.Duration
	CORSOrigins   []string

	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Load reads configuration from the environment and validates required values.
func Load() (*Config, error) {
	if err := ValidateEnv([]string{"DATABASE_URL", "JWT_SECRET"}); err != nil {
		return nil, err
	}
	if err := ValidateJWTSecret(); err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:          GetEnvOrDefault("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		TokenTTL:      GetEnvDuration("TOKEN_TTL", 72*time.Hour),
		CORSOrigins:   splitList(GetEnvOrDefault("CORS_ORIGINS", "http://localhost:5173")),
		ReadTimeout:   GetEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:  GetEnvDuration("SERVER_WRITE_TIMEOUT", 60*time.Second),
		IdleTimeout:   GetEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
	}

	return cfg, nil
}

// ValidateEnv validates that all required environment variables are set.
func ValidateEnv(requiredVars []string) error {
	var missing []string

	for _, varName := range requiredVars {
		if os.Getenv(varName) == "" {
			missing = append(missing, varName)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	return nil
}

// ValidateJWTSecret ensures JWT_SECRET meets minimum security requirements.
func ValidateJWTSecret() error {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if len(secret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters", MinSecretLength)
	}
	return nil
}

// GetEnvOrDefault retrieves an environment variable or returns a default value.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvDuration retrieves a duration environment variable or returns a default value.
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
