package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration, read from .env and the environment.
type Config struct {
	ListenAddr     string
	MetricsAddr    string
	RoutesPath     string
	SchedulesPath  string
	TickInterval   time.Duration
	SessionTTL     time.Duration
	ReloadInterval time.Duration
}

// Load reads configuration with defaults suitable for local development.
// METRICS_ADDR empty disables the metrics listener.
func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	cfg := &Config{
		ListenAddr:    getenvDefault("LISTEN_ADDR", ":18080"),
		MetricsAddr:   os.Getenv("METRICS_ADDR"),
		RoutesPath:    getenvDefault("ROUTES_PATH", "data/routes.json"),
		SchedulesPath: getenvDefault("SCHEDULES_PATH", "data/timetable_schedules.jsonl"),
	}

	// Board tick interval
	if v := os.Getenv("TICK_INTERVAL_MS"); v != "" {
		ms, err := strconv.Atoi(v)
		if err != nil || ms <= 0 {
			return nil, fmt.Errorf("invalid TICK_INTERVAL_MS: %q", v)
		}
		cfg.TickInterval = time.Duration(ms) * time.Millisecond
	} else {
		cfg.TickInterval = time.Second
	}

	// Idle session TTL (minutes)
	if v := os.Getenv("SESSION_TTL_MIN"); v != "" {
		min, err := strconv.Atoi(v)
		if err != nil || min <= 0 {
			return nil, fmt.Errorf("invalid SESSION_TTL_MIN: %q", v)
		}
		cfg.SessionTTL = time.Duration(min) * time.Minute
	} else {
		cfg.SessionTTL = 30 * time.Minute
	}

	// Dataset reload interval (hours)
	if v := os.Getenv("RELOAD_INTERVAL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("invalid RELOAD_INTERVAL_HOURS: %q", v)
		}
		cfg.ReloadInterval = time.Duration(hours) * time.Hour
	} else {
		cfg.ReloadInterval = 24 * time.Hour
	}

	return cfg, nil
}

func getenvDefault(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
