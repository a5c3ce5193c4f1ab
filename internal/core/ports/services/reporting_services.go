package services

import (
	"context"
	"time"

	"github.com/mamarbank/bank_backend/internal/core/domain"
)

// ReportingService defines read-only queries over the ledger.
type ReportingService interface {
	// TransactionReport returns the account's ledger rows, optionally filtered to
	// a calendar-day date range (both bounds required, inclusive), plus a summary
	// figure: the sum of matched amounts when filtered, the live balance otherwise.
	TransactionReport(ctx context.Context, accountNumber int64, start, end *time.Time) (*domain.TransactionReport, error)

	// ListLoans returns the account's loan rows (pending, approved and repaid).
	ListLoans(ctx context.Context, accountNumber int64) ([]domain.Transaction, error)
}
