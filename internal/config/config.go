// Package config reads the service settings from the environment.
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the runtime configuration of the gateway.
type Config struct {
	Port            string
	UpstreamBaseURL string
	JWTSecret       string
	// DSN is empty when drafts should live in memory.
	DSN            string
	CORSOrigins    []string
	// ServerFilters forwards every criterion to the upstream search.
	ServerFilters bool
}

// Load reads an optional .env file, then the environment.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:            getenv("PORT"),
		UpstreamBaseURL: strings.TrimRight(getenv("UPSTREAM_BASE_URL"), "/"),
		JWTSecret:       getenv("JWT_SECRET"),
		DSN:             getenv("DB_DSN_PRIMARY"),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.UpstreamBaseURL == "" {
		return nil, errors.New("UPSTREAM_BASE_URL environment variable is not set")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET environment variable is not set")
	}

	for _, o := range strings.Split(getenv("CORS_ORIGINS"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSOrigins = append(cfg.CORSOrigins, o)
		}
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = []string{"http://localhost:8081"}
	}

	if raw := getenv("UPSTREAM_SERVER_FILTERS"); raw != "" {
		on, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("UPSTREAM_SERVER_FILTERS must be a boolean, got %q", raw)
		}
		cfg.ServerFilters = on
	}

	return cfg, nil
}

// Debounce reads SEARCH_DEBOUNCE_MS, the quiet period before a feed search runs.
// The API answers one request per search, so only the feed tools read it.
func Debounce(getenv func(string) string, fallback time.Duration) (time.Duration, error) {
	raw := getenv("SEARCH_DEBOUNCE_MS")
	if raw == "" {
		return fallback, nil
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms < 0 {
		return 0, fmt.Errorf("SEARCH_DEBOUNCE_MS must be a non-negative integer, got %q", raw)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
