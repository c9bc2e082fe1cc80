package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port                 string
	Env                  string
	StoreDriver          string
	DatabaseDSN          string
	JWTSecret            string
	JWTExpiry            time.Duration
	OperatorPasswordHash string

	RandomOrgEnabled    bool
	RandomOrgURL        string
	RandomOrgTimeout    time.Duration
	RandomOrgQuotaLimit int

	GenerateRPS   float64
	GenerateBurst int

	// LocalExtraSpecial adds the extended special characters to locally
	// generated passwords.
	LocalExtraSpecial bool
}

func Load() Config {
	cfg := Config{
		Port:                 getEnv("PORT", "8080"),
		Env:                  getEnv("ENV", "development"),
		StoreDriver:          getEnv("STORE_DRIVER", "memory"),
		DatabaseDSN:          getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/randpass?parseTime=true"),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret-change-in-production"),
		JWTExpiry:            getDuration("JWT_EXPIRY", 12*time.Hour),
		OperatorPasswordHash: getEnv("OPERATOR_PASSWORD_HASH", ""),

		RandomOrgEnabled:    getBool("RANDOM_ORG_ENABLED", true),
		RandomOrgURL:        getEnv("RANDOM_ORG_URL", "https://www.random.org"),
		RandomOrgTimeout:    getDuration("RANDOM_ORG_TIMEOUT", 5*time.Second),
		RandomOrgQuotaLimit: getInt("RANDOM_ORG_QUOTA_LIMIT", 1000),

		GenerateRPS:   getFloat("GENERATE_RPS", 2),
		GenerateBurst: getInt("GENERATE_BURST", 5),

		LocalExtraSpecial: getBool("LOCAL_EXTRA_SPECIAL", false),
	}

	if cfg.Env == "production" && cfg.JWTSecret == "dev-secret-change-in-production" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v)
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}
