package handlers

import (
	"context"
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/SscSPs/operations_ledger/internal/middleware"
	"github.com/SscSPs/operations_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
)

// HealthCheck probes the ledger database. Nil skips the probe.
type HealthCheck func(ctx context.Context) error

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	healthCheck HealthCheck,
) {
	// Add health check route
	r.GET("/health", healthHandler(cfg, healthCheck))

	setupAPIV1Routes(r, services)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1")

	operations := registerOperationRoutes(v1, services.Ledger)
	registerWindowRoutes(v1, operations, services.Window, services.Filters)
	registerTransferRoutes(v1, services.Transfers)
	registerAccountRoutes(v1, services.Account)
	registerCategoryRoutes(v1, services.Category)
	registerExchangeRateRoutes(v1, services.ExchangeRate)
}

func healthHandler(cfg *config.Config, healthCheck HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		if healthCheck != nil && cfg != nil && cfg.EnableDBCheck {
			if err := healthCheck(c.Request.Context()); err != nil {
				middleware.GetLoggerFromCtx(c.Request.Context()).Error("Health check failed", slog.String("error", err.Error()))
				c.String(http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		c.String(http.StatusOK, "OK")
	}
}
