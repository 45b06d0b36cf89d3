package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/SscSPs/operations_ledger/internal/core/ports/services"
	"github.com/SscSPs/operations_ledger/internal/dto"
	"github.com/SscSPs/operations_ledger/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers routes related to accounts.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountSvcFacade) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/default", h.getDefaultAccount)
		accounts.GET("/:accountID", h.getAccount)
		accounts.PATCH("/:accountID", h.updateAccount)
		accounts.DELETE("/:accountID", h.deleteAccount)
		accounts.POST("/:accountID/access", h.markAccessed)
		accounts.POST("/:accountID/adjust", h.adjustBalance)
	}
}

// createAccount creates a new account with an optional opening balance.
// Responds 201 with dto.AccountResponse, 400 on unknown currency codes.
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger.Info("Received request to create account", slog.String("account_name", req.Name), slog.String("currency_code", req.CurrencyCode))

	newAccount, err := h.accountService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to create account")
		return
	}

	logger.Info("Account created successfully", slog.String("account_id", newAccount.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(newAccount))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("target_account_id", accountID))

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// listAccounts returns every account, hidden ones included, in display order.
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to list accounts")
		return
	}

	logger.Info("Accounts listed successfully", slog.Int("count", len(accounts)))
	c.JSON(http.StatusOK, dto.ListAccountsResponse{Accounts: dto.ToListAccountResponse(accounts)})
}

// getDefaultAccount returns the account a new operation form should preselect.
func (h *accountHandler) getDefaultAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.accountService.DefaultAccount(c.Request.Context())
	if err != nil {
		respondWithError(c, logger, err, "Failed to resolve default account")
		return
	}
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) updateAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	var req dto.UpdateAccountRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	logger.Info("Received request to update account")

	updatedAccount, err := h.accountService.UpdateAccount(c.Request.Context(), accountID, req)
	if err != nil {
		respondWithError(c, logger, err, "Failed to update account")
		return
	}

	logger.Info("Account updated successfully")
	c.JSON(http.StatusOK, dto.ToAccountResponse(updatedAccount))
}

// deleteAccount removes an account. Responds 409 while operations still reference it.
func (h *accountHandler) deleteAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("target_account_id", accountID))
	logger.Info("Received request to delete account")

	if err := h.accountService.DeleteAccount(c.Request.Context(), accountID); err != nil {
		respondWithError(c, logger, err, "Failed to delete account")
		return
	}

	logger.Info("Account deleted successfully")
	c.Status(http.StatusNoContent)
}

// markAccessed remembers accountID as the last used account.
func (h *accountHandler) markAccessed(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	logger = logger.With(slog.String("target_account_id", accountID))

	if err := h.accountService.MarkAccessed(c.Request.Context(), accountID); err != nil {
		respondWithError(c, logger, err, "Failed to record account access")
		return
	}
	c.Status(http.StatusNoContent)
}

// adjustBalance records a balance adjustment so the account ends at the target balance.
// Responds 201 when an operation was recorded and 200 when the balance already matched.
func (h *accountHandler) adjustBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")
	var req dto.AdjustBalanceRequest
	if !bindJSON(c, logger, &req) {
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))
	logger.Info("Received request to adjust balance", slog.String("target_balance", req.TargetBalance.String()))

	op, err := h.accountService.AdjustBalance(c.Request.Context(), accountID, req.TargetBalance)
	if err != nil {
		respondWithError(c, logger, err, "Failed to adjust balance")
		return
	}
	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondWithError(c, logger, err, "Failed to adjust balance")
		return
	}

	res := dto.AdjustBalanceResponse{Account: dto.ToAccountResponse(account)}
	status := http.StatusOK
	if op != nil {
		opRes := dto.ToOperationResponse(op)
		res.Operation = &opRes
		status = http.StatusCreated
	}
	c.JSON(status, res)
}
