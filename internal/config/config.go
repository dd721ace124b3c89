package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds runtime configuration sourced from env vars.
type Config struct {
	Port          string
	StorePath     string
	DatabaseURL   string
	ParkingAPIURL string
	SessionTTL    time.Duration
	CORSOrigins   []string
}

// Load reads configuration from the environment and performs minimal
// validation. DATABASE_URL switches the key-value store to Postgres;
// otherwise a local SQLite file at STORE_PATH is used.
func Load() (Config, error) {
	cfg := Config{
		Port:          fallback(os.Getenv("PORT"), "8080"),
		StorePath:     fallback(os.Getenv("STORE_PATH"), "parking-portal.db"),
		DatabaseURL:   strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ParkingAPIURL: strings.TrimSpace(os.Getenv("PARKING_API_URL")),
		CORSOrigins:   parseCSV(fallback(os.Getenv("CORS_ALLOWED_ORIGINS"), "*")),
	}

	hours := fallback(os.Getenv("SESSION_TTL_HOURS"), "24")
	if ttlHours, err := strconv.Atoi(hours); err == nil && ttlHours > 0 {
		cfg.SessionTTL = time.Duration(ttlHours) * time.Hour
	} else {
		cfg.SessionTTL = 24 * time.Hour
	}

	if cfg.ParkingAPIURL == "" {
		return Config{}, errors.New("PARKING_API_URL is required")
	}

	return cfg, nil
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	parts := strings.Split(input, ",")
	var out []string
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
