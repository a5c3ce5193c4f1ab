package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamarbank/bank_backend/internal/apperrors"
	portssvc "github.com/mamarbank/bank_backend/internal/core/ports/services"
	"github.com/mamarbank/bank_backend/internal/core/services"
	"github.com/mamarbank/bank_backend/internal/dto"
	"github.com/mamarbank/bank_backend/internal/middleware"
)

// transactionHandler handles HTTP requests for balance-mutating operations.
type transactionHandler struct {
	transactionService portssvc.TransactionService
	reportingService   portssvc.ReportingService
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(ts portssvc.TransactionService, rs portssvc.ReportingService) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		reportingService:   rs,
	}
}

// registerTransactionRoutes registers all transaction-related routes.
func registerTransactionRoutes(rg *gin.RouterGroup, transactionService portssvc.TransactionService, reportingService portssvc.ReportingService) {
	h := newTransactionHandler(transactionService, reportingService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("/deposit", h.deposit)
		transactions.POST("/withdraw", h.withdraw)
		transactions.POST("/transfer", h.transfer)
		transactions.POST("/loans", h.requestLoan)
		transactions.GET("/loans/:accountNumber", h.listLoans)
		transactions.POST("/loans/:transactionID/approve", h.approveLoan)
		transactions.POST("/loans/:transactionID/pay", h.payLoan)
		transactions.GET("/report/:accountNumber", h.transactionReport)
	}
}

// ruleErrors are the business-rule rejections that map to a 400 envelope with
// the rule's message as the reason. Anything else that is not a not-found is a
// server error.
var ruleErrors = []error{
	services.ErrInvalidAmount,
	services.ErrBelowMinimum,
	services.ErrAboveMaximum,
	services.ErrInsufficientFunds,
	services.ErrAccountBankrupt,
	services.ErrLoanLimitExceeded,
	services.ErrLoanNotApproved,
	services.ErrLoanAlreadyPaid,
	services.ErrInsufficientFundsForRepayment,
	apperrors.ErrValidation,
}

// respondOperationError translates a service error into the HTTP envelope.
func respondOperationError(c *gin.Context, logger *slog.Logger, operation string, err error) {
	if errors.Is(err, services.ErrAccountNotFound) || errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.ToRejectedResponse(err.Error()))
		return
	}
	for _, ruleErr := range ruleErrors {
		if errors.Is(err, ruleErr) {
			c.JSON(http.StatusBadRequest, dto.ToRejectedResponse(err.Error()))
			return
		}
	}
	logger.Error("Operation failed in service",
		slog.String("operation", operation), slog.String("error", err.Error()))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to " + operation})
}

func (h *transactionHandler) deposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received deposit request",
		slog.Int64("account_number", req.AccountNumber), slog.String("amount", req.Amount.String()))

	txn, err := h.transactionService.Deposit(c.Request.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		respondOperationError(c, logger, "deposit", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSuccessResponse(txn))
}

func (h *transactionHandler) withdraw(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received withdrawal request",
		slog.Int64("account_number", req.AccountNumber), slog.String("amount", req.Amount.String()))

	txn, err := h.transactionService.Withdraw(c.Request.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		respondOperationError(c, logger, "withdraw", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSuccessResponse(txn))
}

func (h *transactionHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if req.SenderAccountNumber == req.ReceiverAccountNumber {
		c.JSON(http.StatusBadRequest, dto.ToRejectedResponse("sender and receiver accounts must differ"))
		return
	}

	logger.Info("Received transfer request",
		slog.Int64("sender_account_number", req.SenderAccountNumber),
		slog.Int64("receiver_account_number", req.ReceiverAccountNumber),
		slog.String("amount", req.Amount.String()))

	txn, err := h.transactionService.Transfer(c.Request.Context(), req.SenderAccountNumber, req.ReceiverAccountNumber, req.Amount)
	if err != nil {
		respondOperationError(c, logger, "transfer", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSuccessResponse(txn))
}

func (h *transactionHandler) requestLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received loan request",
		slog.Int64("account_number", req.AccountNumber), slog.String("amount", req.Amount.String()))

	txn, err := h.transactionService.RequestLoan(c.Request.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		respondOperationError(c, logger, "request loan", err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSuccessResponse(txn))
}

func (h *transactionHandler) approveLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	if transactionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing transaction ID"})
		return
	}

	// Approver identity comes from a header until real auth exists.
	approverUserID := c.GetHeader("X-User-ID")
	if approverUserID == "" {
		approverUserID = "admin"
	}

	logger.Info("Received loan approval request",
		slog.String("transaction_id", transactionID), slog.String("approver_user_id", approverUserID))

	txn, err := h.transactionService.ApproveLoan(c.Request.Context(), transactionID, approverUserID)
	if err != nil {
		respondOperationError(c, logger, "approve loan", err)
		return
	}

	resp := dto.ToTransactionResponse(txn)
	c.JSON(http.StatusOK, resp)
}

func (h *transactionHandler) payLoan(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("transactionID")
	if transactionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing transaction ID"})
		return
	}

	logger.Info("Received loan repayment request", slog.String("transaction_id", transactionID))

	txn, err := h.transactionService.PayLoan(c.Request.Context(), transactionID)
	if err != nil {
		respondOperationError(c, logger, "pay loan", err)
		return
	}

	c.JSON(http.StatusOK, dto.ToSuccessResponse(txn))
}
