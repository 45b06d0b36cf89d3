package handlers

import (
	"net/http"

	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/SscSPs/operations_ledger/internal/dto"
	"github.com/SscSPs/operations_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

type categoryHandler struct {
	categoryService portssvc.CategorySvc
}

func registerCategoryRoutes(rg *gin.RouterGroup, categoryService portssvc.CategorySvc) {
	h := &categoryHandler{categoryService: categoryService}
	rg.GET("/categories", h.listCategories)
}

// listCategories returns the selectable categories. Balance adjustment
// categories are internal and left out.
func (h *categoryHandler) listCategories(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	categories, err := h.categoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list categories")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCategoryResponse(categories))
}
