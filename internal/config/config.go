package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Config struct {
	Env            string        `mapstructure:"app_env"`
	ListenAddr     string        `mapstructure:"listen_addr"`
	StoreBackend   string        `mapstructure:"store_backend"`
	StoreKey       string        `mapstructure:"store_key"`
	DatabaseURL    string        `mapstructure:"database_url"`
	SQLitePath     string        `mapstructure:"sqlite_path"`
	RedisURL       string        `mapstructure:"redis_url"`
	RelayEndpoint  string        `mapstructure:"relay_endpoint"`
	RelayTimeout   time.Duration `mapstructure:"relay_timeout"`
	RelayWorkers   int           `mapstructure:"relay_workers"`
	ExportPrefix   string        `mapstructure:"export_prefix"`
	ExportTimezone string        `mapstructure:"export_timezone"`
	LogLevel       string        `mapstructure:"log_level"`
	LogFormat      string        `mapstructure:"log_format"`
}

var defaults = map[string]any{
	"app_env":         "development",
	"listen_addr":     ":8080",
	"store_backend":   BackendSQLite,
	"store_key":       "alevatex_leads",
	"database_url":    "",
	"sqlite_path":     "alevatex.db",
	"redis_url":       "",
	"relay_endpoint":  "https://formspree.io/f/xeeojndp",
	"relay_timeout":   time.Duration(0),
	"relay_workers":   4,
	"export_prefix":   "alevatex",
	"export_timezone": "Local",
	"log_level":       "info",
	"log_format":      "text",
}

// Load reads configuration from the environment (LISTEN_ADDR, STORE_BACKEND, ...)
// and, when CONFIG_FILE is set, from that file first. Env vars win.
func Load() (Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (Config, error) {
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if file := v.GetString("config_file"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file %s: %w", file, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	// Not fatal for early local runs; warn via error value so callers can decide.
	switch cfg.StoreBackend {
	case BackendMemory:
	case BackendSQLite:
		if cfg.SQLitePath == "" {
			return cfg, fmt.Errorf("SQLITE_PATH not set")
		}
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL not set")
		}
	case BackendRedis:
		if cfg.RedisURL == "" {
			return cfg, fmt.Errorf("REDIS_URL not set")
		}
	default:
		return cfg, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
	return cfg, nil
}

// Location resolves ExportTimezone, falling back to the local zone.
func (c Config) Location() *time.Location {
	if c.ExportTimezone == "" || c.ExportTimezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.ExportTimezone)
	if err != nil {
		return time.Local
	}
	return loc
}
