package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the server and CLI tools read from the environment.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	EncryptionKey  string
	RedisAddr      string
	RedisPassword  string
	NATSURL        string
	LogFile        string
	AllowedOrigins []string

	ReminderSweepInterval time.Duration
	SuggestionInterval    time.Duration
	CacheTTL              time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		EncryptionKey:  os.Getenv("ENCRYPTION_KEY"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		NATSURL:        os.Getenv("NATS_URL"),
		LogFile:        os.Getenv("LOG_FILE"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"*"}),

		ReminderSweepInterval: getEnvDuration("REMINDER_SWEEP_INTERVAL", time.Minute),
		SuggestionInterval:    getEnvDuration("SUGGESTION_INTERVAL", time.Hour),
		CacheTTL:              getEnvDuration("CACHE_TTL", 5*time.Minute),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	if cfg.EncryptionKey != "" && len(cfg.EncryptionKey) != 32 {
		return nil, errors.New("ENCRYPTION_KEY must be exactly 32 bytes")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// Bare numbers are treated as seconds.
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
