package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/SscSPs/operations_ledger/internal/dto"
	"github.com/SscSPs/operations_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type transferHandler struct {
	reconciler portssvc.TransferReconcilerSvc
}

func registerTransferRoutes(rg *gin.RouterGroup, reconciler portssvc.TransferReconcilerSvc) {
	h := &transferHandler{reconciler: reconciler}
	rg.POST("/transfers/reconcile", h.reconcile)
}

// reconcile derives the missing field of a transfer form from the one the user
// edited last. Nothing is persisted.
func (h *transferHandler) reconcile(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ReconcileTransferRequest
	if !bindJSON(c, logger, &req) {
		return
	}
	draft, err := req.ToDomain()
	if err != nil {
		respondWithError(c, logger, err, "Failed to reconcile transfer")
		return
	}

	reconciled, err := h.reconciler.Reconcile(c.Request.Context(), draft)
	if err != nil {
		respondWithError(c, logger, err, "Failed to reconcile transfer")
		return
	}
	c.JSON(http.StatusOK, dto.ToReconcileTransferResponse(reconciled))
}
