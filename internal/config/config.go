package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port     string
	GinMode  string
	LogLevel string

	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	DBTimezone     string
	DBMaxOpenConns int
	DBMaxIdleConns int

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	SessionTTLSec       int
	SessionCookieSecure bool
}

// SessionTTL is how long a login stays valid.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLSec) * time.Second
}

// PostgresDSN builds a key/value connection string understood by lib/pq.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
			return def
		}
		return n
	}
	return def
}

func getenvb(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

func Load() *Config {
	return &Config{
		Port:     getenv("PORT", "8080"),
		GinMode:  getenv("GIN_MODE", "release"),
		LogLevel: getenv("LOG_LEVEL", "info"),

		DBHost:         getenv("DB_HOST", "localhost"),
		DBPort:         getenv("DB_PORT", "5432"),
		DBUser:         getenv("DB_USER", "postgres"),
		DBPassword:     getenv("DB_PASSWORD", "postgres"),
		DBName:         getenv("DB_NAME", "blog"),
		DBSSLMode:      getenv("DB_SSLMODE", "disable"),
		DBTimezone:     getenv("DB_TIMEZONE", "UTC"),
		DBMaxOpenConns: getenvi("DB_MAX_OPEN_CONNS", 20),
		DBMaxIdleConns: getenvi("DB_MAX_IDLE_CONNS", 5),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getenvi("REDIS_DB", 0),

		SessionTTLSec:       getenvi("SESSION_TTL_SECONDS", 14*24*60*60),
		SessionCookieSecure: getenvb("SESSION_COOKIE_SECURE", false),
	}
}
