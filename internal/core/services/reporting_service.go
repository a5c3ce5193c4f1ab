package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mamarbank/bank_backend/internal/apperrors"
	"github.com/mamarbank/bank_backend/internal/core/domain"
	portsrepo "github.com/mamarbank/bank_backend/internal/core/ports/repositories"
	portssvc "github.com/mamarbank/bank_backend/internal/core/ports/services"
	"github.com/mamarbank/bank_backend/internal/middleware"
)

// reportingService implements read-only ledger queries.
type reportingService struct {
	accountRepo portsrepo.AccountReader
	txnRepo     portsrepo.TransactionReader
}

// NewReportingService creates a new ReportingService.
func NewReportingService(accountRepo portsrepo.AccountReader, txnRepo portsrepo.TransactionReader) portssvc.ReportingService {
	return &reportingService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) findAccount(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: number %d", ErrAccountNotFound, accountNumber)
		}
		return nil, fmt.Errorf("failed to resolve account %d: %w", accountNumber, err)
	}
	return account, nil
}

// TransactionReport returns the account's ledger rows and a summary figure.
// With both dates set the rows are filtered to calendar days in [start, end]
// inclusive and the summary is the sum of the matched amounts, scoped to this
// account. Without a range the summary is the live balance. A half-open range
// (one date only) is treated as no range.
func (s *reportingService) TransactionReport(ctx context.Context, accountNumber int64, start, end *time.Time) (*domain.TransactionReport, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.findAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	report := &domain.TransactionReport{Account: *account}

	if start != nil && end != nil {
		transactions, err := s.txnRepo.FindTransactionsByAccountAndDateRange(ctx, account.AccountID, *start, *end)
		if err != nil {
			logger.Error("Failed to query transactions by date range", slog.String("error", err.Error()), slog.Int64("account_number", accountNumber))
			return nil, fmt.Errorf("failed to query transactions: %w", err)
		}
		sum, err := s.txnRepo.SumAmountsByAccountAndDateRange(ctx, account.AccountID, *start, *end)
		if err != nil {
			logger.Error("Failed to sum transactions by date range", slog.String("error", err.Error()), slog.Int64("account_number", accountNumber))
			return nil, fmt.Errorf("failed to sum transactions: %w", err)
		}
		report.Transactions = transactions
		report.Summary = sum
		report.Filtered = true
	} else {
		transactions, err := s.txnRepo.FindTransactionsByAccountID(ctx, account.AccountID)
		if err != nil {
			logger.Error("Failed to query transactions", slog.String("error", err.Error()), slog.Int64("account_number", accountNumber))
			return nil, fmt.Errorf("failed to query transactions: %w", err)
		}
		report.Transactions = transactions
		report.Summary = account.Balance
	}

	logger.Debug("Transaction report generated",
		slog.Int64("account_number", accountNumber),
		slog.Int("row_count", len(report.Transactions)),
		slog.Bool("filtered", report.Filtered))
	return report, nil
}

// ListLoans returns the account's loan rows, repaid ones included.
func (s *reportingService) ListLoans(ctx context.Context, accountNumber int64) ([]domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.findAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	loans, err := s.txnRepo.FindLoansByAccountID(ctx, account.AccountID)
	if err != nil {
		logger.Error("Failed to list loans", slog.String("error", err.Error()), slog.Int64("account_number", accountNumber))
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	return loans, nil
}
