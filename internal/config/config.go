package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Payment confirmation policies applied when an enrollment is created.
const (
	ConfirmManual    = "manual"
	ConfirmImmediate = "immediate"
	ConfirmAll       = "all"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT (staff sessions)
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Bootstrap admin
	AdminUsername string
	AdminEmail    string
	AdminPassword string

	// Server
	Port        string
	CORSOrigins string
	Environment string
	SentryDSN   string

	// Gym policy
	LocalUTCOffsetHours  int
	CashDiscountPercent  float64
	PaymentConfirmPolicy string
	LogRetentionDays     int
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "fitpro_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: parseDuration(getEnv("JWT_ACCESS_EXPIRY", "12h")),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@fitpro.local"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		Environment: getEnv("APP_ENV", "development"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),

		LocalUTCOffsetHours:  getEnvInt("LOCAL_UTC_OFFSET_HOURS", -3),
		CashDiscountPercent:  getEnvFloat("CASH_DISCOUNT_PERCENT", 10),
		PaymentConfirmPolicy: parseConfirmPolicy(getEnv("PAYMENT_CONFIRM_POLICY", ConfirmManual)),
		LogRetentionDays:     getEnvInt("LOG_RETENTION_DAYS", 30),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	f, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil || f < 0 || f > 100 {
		return fallback
	}
	return f
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 12 * time.Hour
	}
	return d
}

// parseConfirmPolicy falls back to manual confirmation for unknown values.
func parseConfirmPolicy(s string) string {
	switch s {
	case ConfirmImmediate, ConfirmAll:
		return s
	default:
		return ConfirmManual
	}
}
