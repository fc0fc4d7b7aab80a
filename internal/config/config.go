package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultMaxItemsPerRun = 10

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName        string `mapstructure:"app_name"`
	Env            string `mapstructure:"app_env"`
	LogLevel       string `mapstructure:"log_level"`
	MaxItemsPerRun int    `mapstructure:"max_items_per_run"`
	NotifiersFile  string `mapstructure:"notifiers_file"`

	WatchIntervalSeconds int64         `mapstructure:"watch_interval"`
	WatchInterval        time.Duration `mapstructure:"-"`

	LedgerType            string        `mapstructure:"ledger_type"`
	LedgerPath            string        `mapstructure:"ledger_path"`
	LedgerTTLSeconds      int64         `mapstructure:"ledger_ttl_seconds"`
	LedgerCleanupSeconds  int64         `mapstructure:"ledger_cleanup_interval_seconds"`
	LedgerTTL             time.Duration `mapstructure:"-"`
	LedgerCleanupInterval time.Duration `mapstructure:"-"`

	HTTPTimeoutSeconds int64         `mapstructure:"http_timeout_seconds"`
	HTTPTimeout        time.Duration `mapstructure:"-"`

	EnrichMetadata bool `mapstructure:"enrich_metadata"`
	BrowserEnabled bool `mapstructure:"browser_enabled"`

	// Warnings collects non-fatal load issues so the caller can log them once
	// the logger is up. Config loading itself must not depend on the logger.
	Warnings []string `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "chinapress-sentinel")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("max_items_per_run", defaultMaxItemsPerRun)
	v.SetDefault("notifiers_file", "./configs/notifiers.yaml")
	v.SetDefault("watch_interval", 0) // seconds; 0 runs a single pass and exits
	v.SetDefault("ledger_type", "json")
	v.SetDefault("ledger_path", "./data/seen.json")
	v.SetDefault("ledger_ttl_seconds", int64((30*24*time.Hour)/time.Second))
	v.SetDefault("ledger_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))
	v.SetDefault("http_timeout_seconds", 15)
	v.SetDefault("enrich_metadata", true)
	v.SetDefault("browser_enabled", true)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// A bad MAX_ITEMS_PER_RUN must not kill the run; retry the decode with
		// the offender cleared and fall back to the default.
		v.Set("max_items_per_run", defaultMaxItemsPerRun)
		cfg = Config{}
		if retryErr := v.Unmarshal(&cfg); retryErr != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
		cfg.Warnings = append(cfg.Warnings,
			fmt.Sprintf("invalid max_items_per_run, using default %d: %v", defaultMaxItemsPerRun, err))
	}

	if cfg.MaxItemsPerRun <= 0 {
		cfg.Warnings = append(cfg.Warnings,
			fmt.Sprintf("non-positive max_items_per_run, using default %d", defaultMaxItemsPerRun))
		cfg.MaxItemsPerRun = defaultMaxItemsPerRun
	}

	if cfg.WatchIntervalSeconds < 0 {
		return nil, fmt.Errorf("invalid watch_interval (must be zero or positive seconds)")
	}
	cfg.WatchInterval = time.Duration(cfg.WatchIntervalSeconds) * time.Second

	if cfg.LedgerTTLSeconds <= 0 {
		return nil, fmt.Errorf("invalid ledger_ttl_seconds (must be positive seconds)")
	}
	if cfg.LedgerCleanupSeconds <= 0 {
		return nil, fmt.Errorf("invalid ledger_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.LedgerTTL = time.Duration(cfg.LedgerTTLSeconds) * time.Second
	cfg.LedgerCleanupInterval = time.Duration(cfg.LedgerCleanupSeconds) * time.Second

	if cfg.HTTPTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("invalid http_timeout_seconds (must be positive seconds)")
	}
	cfg.HTTPTimeout = time.Duration(cfg.HTTPTimeoutSeconds) * time.Second

	return &cfg, nil
}
