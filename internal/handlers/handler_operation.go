package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/operations_ledger/internal/apperrors"
	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/SscSPs/operations_ledger/internal/dto"
	"github.com/SscSPs/operations_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// operationHandler handles HTTP requests that mutate the operation log.
type operationHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newOperationHandler(ls portssvc.LedgerSvcFacade) *operationHandler {
	return &operationHandler{ledgerService: ls}
}

// registerOperationRoutes registers the operation CRUD routes under rg.
func registerOperationRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) *gin.RouterGroup {
	h := newOperationHandler(ledgerService)

	operations := rg.Group("/operations")
	{
		operations.POST("", h.createOperation)
		operations.POST("/validate", h.validateOperation)
		operations.GET("/:operationID", h.getOperation)
		operations.PATCH("/:operationID", h.updateOperation)
		operations.DELETE("/:operationID", h.deleteOperation)
	}
	return operations
}

// createOperation records an expense, income or transfer.
// Responds 201 with dto.OperationResponse, 400 on validation errors and 409
// when a referenced account or category vanished mid-flight.
func (h *operationHandler) createOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOperationRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	op, err := req.ToDomain()
	if err != nil {
		respondWithError(c, logger, err, "Failed to create operation")
		return
	}

	logger.Info("Received request to create operation",
		slog.String("type", string(op.Type)),
		slog.String("account_id", op.AccountID))

	created, err := h.ledgerService.CreateOperation(c.Request.Context(), op)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create operation")
		return
	}

	logger.Info("Operation created successfully", slog.String("operation_id", created.OperationID))
	c.JSON(http.StatusCreated, dto.ToOperationResponse(created))
}

// validateOperation reports the first rule a draft breaks without saving it.
func (h *operationHandler) validateOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OperationDraftRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	op, err := req.ToDomain()
	if err != nil {
		c.JSON(http.StatusOK, dto.ValidateOperationResponse{Message: apperrors.ValidationMessage(err)})
		return
	}

	message := h.ledgerService.ValidateOperation(c.Request.Context(), op)
	c.JSON(http.StatusOK, dto.ValidateOperationResponse{Valid: message == "", Message: message})
}

func (h *operationHandler) getOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operationID := c.Param("operationID")
	logger = logger.With(slog.String("operation_id", operationID))

	op, err := h.ledgerService.GetOperation(c.Request.Context(), operationID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve operation")
		return
	}
	c.JSON(http.StatusOK, dto.ToOperationResponse(op))
}

// updateOperation applies a partial update. Omitted fields keep their stored value.
func (h *operationHandler) updateOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operationID := c.Param("operationID")
	logger = logger.With(slog.String("operation_id", operationID))

	var req dto.UpdateOperationRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		respondWithError(c, logger, err, "Failed to update operation")
		return
	}

	logger.Info("Received request to update operation")
	updated, err := h.ledgerService.UpdateOperation(c.Request.Context(), operationID, patch)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update operation")
		return
	}

	logger.Info("Operation updated successfully")
	c.JSON(http.StatusOK, dto.ToOperationResponse(updated))
}

func (h *operationHandler) deleteOperation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	operationID := c.Param("operationID")
	logger = logger.With(slog.String("operation_id", operationID))

	logger.Info("Received request to delete operation")
	if err := h.ledgerService.DeleteOperation(c.Request.Context(), operationID); err != nil {
		respondWithError(c, logger, err, "Failed to delete operation")
		return
	}

	logger.Info("Operation deleted successfully")
	c.Status(http.StatusNoContent)
}
