package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mamarbank/bank_backend/internal/apperrors"
	"github.com/mamarbank/bank_backend/internal/dto"
	"github.com/mamarbank/bank_backend/internal/middleware"
)

// dateParamLayout is the calendar-day format accepted by the report query
// params (start_date, end_date).
const dateParamLayout = "2006-01-02"

func (h *transactionHandler) transactionReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber, ok := parseAccountNumberParam(c)
	if !ok {
		return
	}

	start, ok := parseDateParam(c, "start_date")
	if !ok {
		return
	}
	end, ok := parseDateParam(c, "end_date")
	if !ok {
		return
	}

	report, err := h.reportingService.TransactionReport(c.Request.Context(), accountNumber, start, end)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to build transaction report",
			slog.Int64("account_number", accountNumber), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build transaction report"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionReportResponse(report))
}

func (h *transactionHandler) listLoans(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountNumber, ok := parseAccountNumberParam(c)
	if !ok {
		return
	}

	loans, err := h.reportingService.ListLoans(c.Request.Context(), accountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		logger.Error("Failed to list loans",
			slog.Int64("account_number", accountNumber), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list loans"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"loans": dto.ToTransactionResponses(loans)})
}

// parseDateParam reads an optional yyyy-mm-dd query param. On malformed input
// it writes the 400 response itself and returns ok=false.
func parseDateParam(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateParamLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + ", expected yyyy-mm-dd: " + raw})
		return nil, false
	}
	return &t, true
}
