// Package config loads and validates environment variables at startup.
// Fail-fast: a missing required variable or a malformed numeric value is a
// Load error, never a silent default. Components receive the resulting Config
// (or individual fields) by argument and never read the environment
// themselves.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// defaultEmployerIDs are the hh.ru companies ingested when EMPLOYER_IDS is
// not set: VK, Sber, Yandex, Wildberries, MTS, Gazprom Neft, Tinkoff, Ozon,
// Kaspersky, Sbermarket.
var defaultEmployerIDs = []string{
	"15478", "3529", "1740", "4181", "3776",
	"39305", "87021", "907345", "1057", "1122462",
}

// Config holds all runtime configuration for the collector service.
type Config struct {
	HHBaseURL         string
	HTTPTimeout       time.Duration
	PerPage           int
	MaxDescriptionLen int

	DatabaseURL string
	RedisURL    string // optional; empty disables run events

	EmployerIDs    []string
	DefaultKeyword string

	IngestIntervalHours int // serve mode
	Port                string
	LogLevel            string
}

// Load reads a .env file when present, then the environment, and returns a
// validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	cfg := &Config{
		HHBaseURL:           "https://api.hh.ru",
		HTTPTimeout:         10 * time.Second,
		PerPage:             100,
		MaxDescriptionLen:   500,
		DatabaseURL:         dbURL,
		RedisURL:            os.Getenv("REDIS_URL"),
		EmployerIDs:         defaultEmployerIDs,
		DefaultKeyword:      "python",
		IngestIntervalHours: 6,
		Port:                "8083",
		LogLevel:            "info",
	}

	if v := os.Getenv("HH_BASE_URL"); v != "" {
		cfg.HHBaseURL = v
	}
	if v := os.Getenv("SEARCH_KEYWORD"); v != "" {
		cfg.DefaultKeyword = v
	}
	if v := os.Getenv("COLLECTOR_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("EMPLOYER_IDS"); v != "" {
		ids := splitIDs(v)
		if len(ids) == 0 {
			return nil, fmt.Errorf("EMPLOYER_IDS is set but contains no ids: %q", v)
		}
		cfg.EmployerIDs = ids
	}

	if v := os.Getenv("HH_TIMEOUT_SECONDS"); v != "" {
		secs, err := parsePositiveInt("HH_TIMEOUT_SECONDS", v)
		if err != nil {
			return nil, err
		}
		cfg.HTTPTimeout = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("HH_PER_PAGE"); v != "" {
		n, err := parsePositiveInt("HH_PER_PAGE", v)
		if err != nil {
			return nil, err
		}
		cfg.PerPage = n
	}
	if v := os.Getenv("MAX_DESCRIPTION_LENGTH"); v != "" {
		n, err := parsePositiveInt("MAX_DESCRIPTION_LENGTH", v)
		if err != nil {
			return nil, err
		}
		cfg.MaxDescriptionLen = n
	}
	if v := os.Getenv("INGEST_INTERVAL_HOURS"); v != "" {
		n, err := parsePositiveInt("INGEST_INTERVAL_HOURS", v)
		if err != nil {
			return nil, err
		}
		cfg.IngestIntervalHours = n
	}

	return cfg, nil
}

func parsePositiveInt(name, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, value)
	}
	return n, nil
}

func splitIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
