package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ListenAddr != ":18080" {
		t.Errorf("ListenAddr = %s", cfg.ListenAddr)
	}
	if cfg.TickInterval != time.Second {
		t.Errorf("TickInterval = %s", cfg.TickInterval)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
	if cfg.ReloadInterval != 24*time.Hour {
		t.Errorf("ReloadInterval = %s", cfg.ReloadInterval)
	}
	if cfg.MetricsAddr != "" {
		t.Errorf("MetricsAddr = %s, want disabled", cfg.MetricsAddr)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("METRICS_ADDR", ":9100")
	t.Setenv("TICK_INTERVAL_MS", "250")
	t.Setenv("SESSION_TTL_MIN", "5")
	t.Setenv("RELOAD_INTERVAL_HOURS", "6")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}

	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %s", cfg.ListenAddr)
	}
	if cfg.MetricsAddr != ":9100" {
		t.Errorf("MetricsAddr = %s", cfg.MetricsAddr)
	}
	if cfg.TickInterval != 250*time.Millisecond {
		t.Errorf("TickInterval = %s", cfg.TickInterval)
	}
	if cfg.SessionTTL != 5*time.Minute {
		t.Errorf("SessionTTL = %s", cfg.SessionTTL)
	}
	if cfg.ReloadInterval != 6*time.Hour {
		t.Errorf("ReloadInterval = %s", cfg.ReloadInterval)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"TICK_INTERVAL_MS", "abc"},
		{"TICK_INTERVAL_MS", "0"},
		{"SESSION_TTL_MIN", "-5"},
		{"RELOAD_INTERVAL_HOURS", "never"},
	}
	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
