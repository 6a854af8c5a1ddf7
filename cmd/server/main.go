package main

import (
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gridform/quotecore/internal/config"
	"github.com/gridform/quotecore/internal/constants"
	"github.com/gridform/quotecore/internal/db"
	"github.com/gridform/quotecore/internal/metrics"
	"github.com/gridform/quotecore/internal/middleware"
	"github.com/gridform/quotecore/internal/migrations"
	"github.com/gridform/quotecore/internal/quote"
	"github.com/gridform/quotecore/internal/seed"
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	if cfg.IsDev() {
		if err := migrations.Up(database, "migrations"); err != nil {
			logger.Error("failed to run database migrations", "error", err)
			os.Exit(1)
		}
		stats, err := seed.Run(database)
		if err != nil {
			logger.Error("failed to seed calculation constants", "error", err)
			os.Exit(1)
		}
		logger.Info("seeded calculation constants", "inserts", stats.Inserts)
	}

	provider := constants.NewStoreProvider(database)
	cache := quote.NewCache(cfg.CacheTTL, cfg.CacheMaxEntries)
	svc, err := quote.NewService(provider, cache, logger)
	if err != nil {
		logger.Error("failed to build quote service", "error", err)
		os.Exit(1)
	}

	metrics.Register(cache)

	srv := &server{svc: svc, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger, skipNoise))

	route(r, http.MethodPost, "/api/quote", srv.handleGenerateQuote)
	route(r, http.MethodPost, "/api/quote/validate", srv.handleValidate)
	route(r, http.MethodPost, "/api/equipment", srv.handleEquipment)
	route(r, http.MethodPost, "/api/financials", srv.handleFinancials)
	route(r, http.MethodPost, "/api/power", srv.handlePower)
	route(r, http.MethodGet, "/api/use-cases", srv.handleUseCases)
	r.Get("/healthz", srv.handleHealthz)
	r.Handle("/metrics", metrics.Handler())

	addr := ":" + cfg.Port
	logger.Info("listening", "addr", addr, "engine_version", quote.EngineVersion)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

// route registers a handler wrapped with per-pattern HTTP metrics.
func route(r chi.Router, method, pattern string, h http.HandlerFunc) {
	r.Method(method, pattern, metrics.Middleware(pattern, h))
}

func skipNoise(r *http.Request) bool {
	return r.URL.Path == "/healthz" || strings.HasPrefix(r.URL.Path, "/metrics")
}
