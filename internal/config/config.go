package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

type Config struct {
	// Server
	Port        string
	AppEnv      string
	CORSOrigins string

	// Storage
	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	MongoDB     string
	SQLitePath  string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// Day boundaries for tracking queries are computed in this location.
	Location *time.Location

	SeedFoods bool

	// Rate limiting (per IP, per minute). Counters live in Redis when RedisAddr is set.
	RedisAddr        string
	RedisPassword    string
	RateLimitMax     int
	AuthRateLimitMax int

	SentryDSN string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8000"),
		AppEnv:      getEnv("APP_ENV", "development"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),

		DBDriver:    getEnv("DB_DRIVER", DriverPostgres),
		DatabaseURL: getEnv("DATABASE_URL", os.Getenv("DB_URL")),
		DBHost:      getEnv("DB_HOST", "localhost"),
		DBPort:      getEnv("DB_PORT", "5432"),
		DBUser:      getEnv("DB_USER", "postgres"),
		DBPassword:  getEnv("DB_PASSWORD", ""),
		DBName:      getEnv("DB_NAME", "nutrify"),
		DBSSLMode:   getEnv("DB_SSLMODE", "disable"),
		MongoDB:     getEnv("MONGO_DB", "nutrify"),
		SQLitePath:  getEnv("SQLITE_PATH", "nutrify.db"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "1h")),

		Location: parseLocation(getEnv("TIMEZONE", "")),

		SeedFoods: parseBool(getEnv("SEED_FOODS", "false")),

		RedisAddr:        getEnv("REDIS_ADDR", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RateLimitMax:     parseInt(getEnv("RATE_LIMIT_MAX", "60"), 60),
		AuthRateLimitMax: parseInt(getEnv("AUTH_RATE_LIMIT_MAX", "10"), 10),

		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET environment variable is required")
	}
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	case DriverMongo:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	return nil
}

// DSN returns the connection string for the configured SQL driver.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	switch c.DBDriver {
	case DriverSQLite:
		return c.SQLitePath
	case DriverMySQL:
		return c.DBUser + ":" + c.DBPassword +
			"@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName +
			"?charset=utf8mb4&parseTime=True&loc=UTC"
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// UsesSQL is false only for the document store.
func (c *Config) UsesSQL() bool {
	return c.DBDriver != DriverMongo
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Local
	}
	return loc
}
