package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the API server.
type Config struct {
	Port        int
	GinMode     string
	StaticDir   string
	CORSOrigins []string
	Database    Database
}

// Database describes the store backend and its connection pool.
type Database struct {
	Driver          string // mysql, postgres or memory
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

const defaultMySQLDSN = "root:root@tcp(127.0.0.1:3306)/inventory?parseTime=true"

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables only.
func FromEnv() (*Config, error) {
	port, err := getInt("PORT", 3000)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", port)
	}

	maxOpen, err := getInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return nil, err
	}
	maxIdle, err := getInt("DB_MAX_IDLE_CONNS", 25)
	if err != nil {
		return nil, err
	}
	lifetime, err := time.ParseDuration(getEnv("DB_CONN_MAX_LIFETIME", "5m"))
	if err != nil {
		return nil, fmt.Errorf("DB_CONN_MAX_LIFETIME: %w", err)
	}

	driver := strings.ToLower(getEnv("DB_DRIVER", "mysql"))
	switch driver {
	case "mysql", "postgres", "memory":
	default:
		return nil, fmt.Errorf("DB_DRIVER must be mysql, postgres or memory, got %q", driver)
	}

	dsn := getEnv("DB_DSN", os.Getenv("DATABASE_URL"))
	if dsn == "" && driver == "mysql" {
		dsn = defaultMySQLDSN
	}
	if dsn == "" && driver == "postgres" {
		return nil, fmt.Errorf("DB_DSN (or DATABASE_URL) is required for the postgres driver")
	}

	ginMode := getEnv("GIN_MODE", "debug")
	switch ginMode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("GIN_MODE must be debug, release or test, got %q", ginMode)
	}

	return &Config{
		Port:        port,
		GinMode:     ginMode,
		StaticDir:   getEnv("STATIC_DIR", ""),
		CORSOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Database: Database{
			Driver:          driver,
			DSN:             dsn,
			MaxOpenConns:    maxOpen,
			MaxIdleConns:    maxIdle,
			ConnMaxLifetime: lifetime,
		},
	}, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", key, raw)
	}
	return n, nil
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
