package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mamarbank/bank_backend/internal/apperrors"
	portssvc "github.com/mamarbank/bank_backend/internal/core/ports/services"
	"github.com/mamarbank/bank_backend/internal/dto"
	"github.com/mamarbank/bank_backend/internal/middleware"
)

// accountHandler handles HTTP requests related to bank accounts.
type accountHandler struct {
	accountService portssvc.AccountService
}

// newAccountHandler creates a new accountHandler.
func newAccountHandler(as portssvc.AccountService) *accountHandler {
	return &accountHandler{
		accountService: as,
	}
}

// registerAccountRoutes registers all account-related routes.
func registerAccountRoutes(rg *gin.RouterGroup, accountService portssvc.AccountService) {
	h := newAccountHandler(accountService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.openAccount)
		accounts.GET("/:accountNumber", h.getAccount)
		accounts.PATCH("/:accountNumber/bankrupt", h.setBankrupt)
	}
}

func (h *accountHandler) openAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.OpenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for open account request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to open account", slog.String("owner_user_id", req.OwnerUserID))

	account, err := h.accountService.OpenAccount(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to open account in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open account"})
		return
	}

	logger.Info("Account opened successfully",
		slog.String("account_id", account.AccountID),
		slog.Int64("account_number", account.AccountNumber))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber, ok := parseAccountNumberParam(c)
	if !ok {
		return
	}

	account, err := h.accountService.GetAccountByNumber(c.Request.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to get account in service",
			slog.Int64("account_number", accountNumber), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get account"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) setBankrupt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber, ok := parseAccountNumberParam(c)
	if !ok {
		return
	}

	var req dto.SetBankruptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorUserID := c.GetHeader("X-User-ID")
	if actorUserID == "" {
		actorUserID = "admin"
	}

	account, err := h.accountService.SetBankrupt(c.Request.Context(), accountNumber, *req.Bankrupt, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to update bankrupt flag",
			slog.Int64("account_number", accountNumber), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bankrupt flag"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// parseAccountNumberParam reads the :accountNumber path param. On failure it
// writes the 400 response itself and returns ok=false.
func parseAccountNumberParam(c *gin.Context) (int64, bool) {
	raw := c.Param("accountNumber")
	accountNumber, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || accountNumber <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account number: " + raw})
		return 0, false
	}
	return accountNumber, true
}
