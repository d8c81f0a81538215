package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	MongoDBURI      string
	MongoDBPassword string
	MongoDBDatabase string
	JWTSecret       string
	JWKSURL         string
	RedisURL        string
	QRCacheTTL      time.Duration
	QRSize          int
	CardPepper      string
	AllowedOrigins  []string
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "ticketing"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWKSURL:         os.Getenv("JWKS_URL"),
		RedisURL:        os.Getenv("REDIS_URL"),
		CardPepper:      os.Getenv("CARD_PEPPER"),
		AllowedOrigins:  splitList(getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
	}

	ttl, err := time.ParseDuration(getEnvWithDefault("QR_CACHE_TTL", "24h"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("QR_CACHE_TTL must be a positive duration")
	}
	cfg.QRCacheTTL = ttl

	size, err := strconv.Atoi(getEnvWithDefault("QR_SIZE", "256"))
	if err != nil || size < 64 {
		return nil, fmt.Errorf("QR_SIZE must be an integer of at least 64")
	}
	cfg.QRSize = size

	// Validate required fields
	if cfg.MongoDBURI == "" {
		return nil, fmt.Errorf("MONGODB_URI is required")
	}
	if cfg.JWTSecret == "" && cfg.JWKSURL == "" {
		return nil, fmt.Errorf("one of JWT_SECRET or JWKS_URL is required")
	}
	if cfg.CardPepper == "" {
		return nil, fmt.Errorf("CARD_PEPPER is required")
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
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

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
