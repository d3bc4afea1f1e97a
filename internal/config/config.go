// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Config holds every setting the server needs at startup.
type Config struct {
	Port        int
	DBDriver    string
	DatabaseURL string
	BaseURL     string

	LogLevel  string
	LogFormat string

	SessionSecret     string
	AdminPassword     string
	AdminPasswordHash string
	SportsAdmins      []string
	CulturalAdmins    []string
	DepartmentAdmins  []string

	// Departments is an "ID[:Label]" comma list; empty means the built-in seed.
	Departments        string
	DepartmentsVersion string

	RedisURL            string
	CORSOrigins         []string
	FixturePollInterval time.Duration
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:                8081,
		DBDriver:            DriverSQLite,
		DatabaseURL:         "champboard.db",
		LogLevel:            "info",
		LogFormat:           "text",
		CORSOrigins:         []string{"*"},
		FixturePollInterval: 30 * time.Second,
	}
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal outside development.
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, starting from Default.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		cfg.Port = port
	}
	setString(&cfg.DBDriver, getenv("DB_DRIVER"))
	setString(&cfg.DatabaseURL, getenv("DATABASE_URL"))
	setString(&cfg.BaseURL, getenv("BASE_URL"))
	setString(&cfg.LogLevel, getenv("LOG_LEVEL"))
	setString(&cfg.LogFormat, getenv("LOG_FORMAT"))
	setString(&cfg.SessionSecret, getenv("SESSION_SECRET"))
	setString(&cfg.AdminPassword, getenv("ADMIN_PASSWORD"))
	setString(&cfg.AdminPasswordHash, getenv("ADMIN_PASSWORD_HASH"))
	setString(&cfg.Departments, getenv("DEPARTMENTS"))
	setString(&cfg.DepartmentsVersion, getenv("DEPARTMENTS_VERSION"))
	setString(&cfg.RedisURL, getenv("REDIS_URL"))

	cfg.SportsAdmins = SplitList(getenv("SPORTS_ADMINS"))
	cfg.CulturalAdmins = SplitList(getenv("CULTURAL_ADMINS"))
	cfg.DepartmentAdmins = SplitList(getenv("DEPARTMENT_ADMINS"))
	if origins := SplitList(getenv("CORS_ORIGINS")); len(origins) > 0 {
		cfg.CORSOrigins = origins
	}

	if v := getenv("FIXTURE_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FIXTURE_POLL_INTERVAL: %w", err)
		}
		cfg.FixturePollInterval = d
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port)
	}
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver)
	}
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL must not be empty")
	}
	if c.FixturePollInterval <= 0 {
		return fmt.Errorf("FIXTURE_POLL_INTERVAL must be positive")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// SplitList splits a comma separated list, trimming blanks.
func SplitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
