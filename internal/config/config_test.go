package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppName != "chinapress-sentinel" {
		t.Errorf("AppName = %q", cfg.AppName)
	}
	if cfg.MaxItemsPerRun != 10 {
		t.Errorf("MaxItemsPerRun = %d", cfg.MaxItemsPerRun)
	}
	if cfg.WatchInterval != 0 {
		t.Errorf("WatchInterval = %v", cfg.WatchInterval)
	}
	if cfg.LedgerType != "json" {
		t.Errorf("LedgerType = %q", cfg.LedgerType)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.LedgerTTL != 30*24*time.Hour {
		t.Errorf("LedgerTTL = %v", cfg.LedgerTTL)
	}
	if !cfg.EnrichMetadata || !cfg.BrowserEnabled {
		t.Errorf("feature defaults: enrich=%v browser=%v", cfg.EnrichMetadata, cfg.BrowserEnabled)
	}
	if len(cfg.Warnings) != 0 {
		t.Errorf("Warnings = %#v", cfg.Warnings)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAX_ITEMS_PER_RUN", "3")
	t.Setenv("WATCH_INTERVAL", "300")
	t.Setenv("LEDGER_TYPE", "bbolt")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxItemsPerRun != 3 {
		t.Errorf("MaxItemsPerRun = %d", cfg.MaxItemsPerRun)
	}
	if cfg.WatchInterval != 5*time.Minute {
		t.Errorf("WatchInterval = %v", cfg.WatchInterval)
	}
	if cfg.LedgerType != "bbolt" {
		t.Errorf("LedgerType = %q", cfg.LedgerType)
	}
}

func TestLoadInvalidMaxItemsFallsBack(t *testing.T) {
	t.Setenv("MAX_ITEMS_PER_RUN", "abc")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("a bad max_items_per_run must not fail the load: %v", err)
	}
	if cfg.MaxItemsPerRun != 10 {
		t.Errorf("MaxItemsPerRun = %d, want default", cfg.MaxItemsPerRun)
	}
	if len(cfg.Warnings) == 0 || !strings.Contains(cfg.Warnings[0], "max_items_per_run") {
		t.Errorf("Warnings = %#v", cfg.Warnings)
	}
}

func TestLoadNonPositiveMaxItemsFallsBack(t *testing.T) {
	t.Setenv("MAX_ITEMS_PER_RUN", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.MaxItemsPerRun != 10 {
		t.Errorf("MaxItemsPerRun = %d", cfg.MaxItemsPerRun)
	}
	if len(cfg.Warnings) == 0 {
		t.Error("no warning recorded")
	}
}

func TestLoadRejectsInvalidDurations(t *testing.T) {
	for name, env := range map[string][2]string{
		"negative-interval": {"WATCH_INTERVAL", "-5"},
		"zero-http-timeout": {"HTTP_TIMEOUT_SECONDS", "0"},
		"zero-ledger-ttl":   {"LEDGER_TTL_SECONDS", "0"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Setenv(env[0], env[1])
			if _, err := Load(); err == nil {
				t.Errorf("%s accepted", name)
			}
		})
	}
}
