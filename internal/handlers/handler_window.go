package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	"github.com/SscSPs/operations_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/SscSPs/operations_ledger/internal/dto"
	"github.com/SscSPs/operations_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// windowHandler exposes the lazily loaded operation log and its filter.
type windowHandler struct {
	window  portssvc.OperationWindowSvc
	filters portssvc.FilterSvc
}

func newWindowHandler(window portssvc.OperationWindowSvc, filters portssvc.FilterSvc) *windowHandler {
	return &windowHandler{window: window, filters: filters}
}

// registerWindowRoutes mounts the window under the operations group and the
// filter routes under rg.
func registerWindowRoutes(rg, operations *gin.RouterGroup, window portssvc.OperationWindowSvc, filters portssvc.FilterSvc) {
	h := newWindowHandler(window, filters)

	w := operations.Group("/window")
	{
		w.GET("", h.getWindow)
		w.POST("/initial", h.loadInitial)
		w.POST("/older", h.loadOlder)
		w.POST("/newer", h.loadNewer)
		w.POST("/jump", h.jumpToDate)
	}

	f := rg.Group("/filters")
	{
		f.GET("", h.getFilters)
		f.PUT("", h.updateFilters)
		f.DELETE("", h.clearFilters)
		f.GET("/count", h.getFilterCount)
	}
}

func (h *windowHandler) getWindow(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToWindowResponse(h.window.State()))
}

// loadInitial reloads the window around today with the active filter.
func (h *windowHandler) loadInitial(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.window.LoadInitial(c.Request.Context(), h.filters.ActiveFilters()); err != nil {
		respondWithError(c, logger, err, "Failed to load operations")
		return
	}
	c.JSON(http.StatusOK, dto.ToWindowResponse(h.window.State()))
}

// loadOlder extends the window into the past. A call while the previous one is
// still running returns the unchanged window.
func (h *windowHandler) loadOlder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.window.LoadMoreOperations(c.Request.Context()); err != nil {
		respondWithError(c, logger, err, "Failed to load older operations")
		return
	}
	c.JSON(http.StatusOK, dto.ToWindowResponse(h.window.State()))
}

func (h *windowHandler) loadNewer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.window.LoadNewerOperations(c.Request.Context()); err != nil {
		respondWithError(c, logger, err, "Failed to load newer operations")
		return
	}
	c.JSON(http.StatusOK, dto.ToWindowResponse(h.window.State()))
}

// jumpToDate replaces the window with the week ending at the requested date.
func (h *windowHandler) jumpToDate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.JumpToDateRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	target, err := domain.ParseDate(req.Date)
	if err != nil {
		respondWithError(c, logger, apperrors.NewValidationError("date must use the YYYY-MM-DD format"), "Failed to jump to date")
		return
	}

	logger.Info("Received request to jump to date", slog.String("date", req.Date))
	if err := h.window.JumpToDate(c.Request.Context(), target); err != nil {
		respondWithError(c, logger, err, "Failed to jump to date")
		return
	}
	c.JSON(http.StatusOK, dto.ToWindowResponse(h.window.State()))
}

func (h *windowHandler) getFilters(c *gin.Context) {
	c.JSON(http.StatusOK, h.filters.ActiveFilters())
}

// updateFilters replaces the active filter, persists it and reloads the window.
func (h *windowHandler) updateFilters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.FilterRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	filter, err := req.ToDomain()
	if err != nil {
		respondWithError(c, logger, err, "Failed to update filters")
		return
	}

	if err := h.filters.UpdateFilters(c.Request.Context(), filter); err != nil {
		respondWithError(c, logger, err, "Failed to update filters")
		return
	}
	logger.Info("Filters updated", slog.Int("active_filter_count", h.filters.ActiveFilterCount()))
	c.JSON(http.StatusOK, dto.ToWindowResponse(h.window.State()))
}

func (h *windowHandler) clearFilters(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if err := h.filters.ClearFilters(c.Request.Context()); err != nil {
		respondWithError(c, logger, err, "Failed to clear filters")
		return
	}
	c.JSON(http.StatusOK, dto.ToWindowResponse(h.window.State()))
}

func (h *windowHandler) getFilterCount(c *gin.Context) {
	count := h.filters.ActiveFilterCount()
	c.JSON(http.StatusOK, dto.FilterCountResponse{Count: count, Active: count > 0})
}
