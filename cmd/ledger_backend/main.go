package main

import (
	"context"
	"log/slog"
	"os"

	portsrepo "github.com/SscSPs/operations_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/operations_ledger/internal/core/services"
	"github.com/SscSPs/operations_ledger/internal/handlers"
	"github.com/SscSPs/operations_ledger/internal/middleware"
	"github.com/SscSPs/operations_ledger/internal/platform/config"
	"github.com/SscSPs/operations_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/operations_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/operations_ledger/internal/repositories/kv/bolt"
	"github.com/SscSPs/operations_ledger/internal/repositories/ratetable"
	"github.com/SscSPs/operations_ledger/pkg/database"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	ctx := context.Background()

	store, healthCheck, err := openLedgerStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("Error closing ledger store", slog.String("error", cerr.Error()))
		}
	}()

	prefs, err := bolt.New(cfg.PreferencesPath)
	if err != nil {
		logger.Error("Failed to open preferences store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer prefs.Close()

	rates, err := ratetable.Load(cfg.RatesFile)
	if err != nil {
		logger.Error("Failed to load exchange rate table", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Exchange rate table loaded", slog.String("path", cfg.RatesFile), slog.Time("updated", rates.GetExchangeRatesLastUpdated()))

	container := services.NewServiceContainer(portsrepo.RepositoryProvider{
		Ledger:      store,
		Preferences: prefs,
		Rates:       rates,
	})

	if err := container.Account.EnsureDefaultAccounts(ctx, cfg.DefaultCurrency); err != nil {
		logger.Error("Failed to create default accounts", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := container.Filters.Restore(ctx); err != nil {
		// The window stays empty until the next load.
		logger.Warn("Failed to restore operation window", slog.String("error", err.Error()))
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))

	limiterInstance, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Failed to create rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}
	r.Use(middleware.RateLimit(limiterInstance))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, healthCheck)

	logger.Info("Server starting", slog.String("port", cfg.Port), slog.String("db_driver", cfg.DBDriver))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openLedgerStore connects to the configured database and applies pending migrations.
func openLedgerStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.LedgerStore, handlers.HealthCheck, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Running database migrations...")
		if err := database.MigratePostgres(cfg.DatabaseURL, logger); err != nil {
			database.ClosePgxPool(pool)
			return nil, nil, err
		}
		return pgsql.NewStore(pool), pool.Ping, nil
	default:
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Running database migrations...", slog.String("path", cfg.SQLitePath))
		if err := database.MigrateSQLite(db, logger); err != nil {
			db.Close()
			return nil, nil, err
		}
		return sqlite.NewStore(db), db.PingContext, nil
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
