package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

const (
	defaultDBPath          = "./dev.db"
	defaultPort            = "8080"
	defaultCacheTTL        = 5 * time.Minute
	defaultCacheMaxEntries = 100
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	DBPath          string
	Port            string
	Env             string
	CacheTTL        time.Duration
	CacheMaxEntries int
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: load local dev environment variables.
	// We don't fail if the file is missing; production should use real env injection.
	_ = loadDotEnv(".env")

	cfg := Config{
		DBPath:          os.Getenv("DB_PATH"),
		Port:            os.Getenv("PORT"),
		Env:             os.Getenv("APP_ENV"),
		CacheTTL:        defaultCacheTTL,
		CacheMaxEntries: defaultCacheMaxEntries,
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}
	if cfg.Env == "" {
		cfg.Env = "dev"
	}

	if raw := os.Getenv("CACHE_TTL"); raw != "" {
		ttl, err := time.ParseDuration(raw)
		if err != nil || ttl <= 0 {
			log.Printf("warning: ignoring invalid CACHE_TTL %q", raw)
		} else {
			cfg.CacheTTL = ttl
		}
	}
	if raw := os.Getenv("CACHE_MAX_ENTRIES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			log.Printf("warning: ignoring invalid CACHE_MAX_ENTRIES %q", raw)
		} else {
			cfg.CacheMaxEntries = n
		}
	}

	return cfg
}

// IsDev reports whether the app runs in local development mode, where
// migrations and seed run automatically at startup.
func (c Config) IsDev() bool {
	return c.Env == "dev"
}
