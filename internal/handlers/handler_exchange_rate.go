package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/SscSPs/operations_ledger/internal/dto"
	"github.com/SscSPs/operations_ledger/internal/middleware"
	"github.com/SscSPs/operations_ledger/internal/utils/currency"
	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	exchangeRateService portssvc.ExchangeRateSvc
}

func newExchangeRateHandler(ers portssvc.ExchangeRateSvc) *exchangeRateHandler {
	return &exchangeRateHandler{exchangeRateService: ers}
}

// registerExchangeRateRoutes registers routes related to exchange rates.
func registerExchangeRateRoutes(rg *gin.RouterGroup, exchangeRateService portssvc.ExchangeRateSvc) {
	h := newExchangeRateHandler(exchangeRateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.GET("/:from/:to", h.getExchangeRate)
	}
}

// getExchangeRate looks up the offline rate for a currency pair.
// Responds 400 on malformed codes and 404 when the pair is not in the table.
func (h *exchangeRateHandler) getExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	fromCode := strings.ToUpper(c.Param("from"))
	toCode := strings.ToUpper(c.Param("to"))

	// Basic validation - service does the thorough one
	if len(fromCode) != 3 || len(toCode) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency codes must be 3 letters"})
		return
	}

	logger = logger.With(slog.String("from_code", fromCode), slog.String("to_code", toCode))
	logger.Info("Received request to get exchange rate")

	rate, err := h.exchangeRateService.GetExchangeRate(c.Request.Context(), fromCode, toCode)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve exchange rate")
		return
	}

	c.JSON(http.StatusOK, dto.ExchangeRateResponse{
		FromCurrencyCode: fromCode,
		ToCurrencyCode:   toCode,
		Rate:             currency.FormatRate(rate),
		LastUpdated:      h.exchangeRateService.ExchangeRatesLastUpdated(),
	})
}
