package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamarbank/bank_backend/internal/core/domain"
)

// TransactionReader defines read operations for ledger data
type TransactionReader interface {
	// FindTransactionByID retrieves a single ledger row by its identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionsByAccountID retrieves all ledger rows for an account in
	// insertion order.
	FindTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)

	// FindTransactionsByAccountAndDateRange retrieves the account's ledger rows
	// whose timestamp falls on a calendar day within [start, end], inclusive.
	FindTransactionsByAccountAndDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error)

	// SumAmountsByAccountAndDateRange computes the aggregate amount over the same
	// row set as FindTransactionsByAccountAndDateRange.
	SumAmountsByAccountAndDateRange(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error)

	// CountApprovedLoansByAccountID counts LOAN rows with the approved flag set.
	CountApprovedLoansByAccountID(ctx context.Context, accountID string) (int, error)

	// FindLoansByAccountID retrieves the account's LOAN and LOAN_PAID rows.
	FindLoansByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for ledger data. Every method that
// moves money runs as one datastore transaction: balance mutation and ledger row
// commit together or not at all.
type TransactionWriter interface {
	// SaveTransaction applies the balance deltas, runs the guard against the
	// locked accounts, and inserts the ledger row atomically. The row's
	// BalanceAfter is computed from the locked balance of txn.AccountID (plus its
	// delta, if any) and written back onto the passed value.
	SaveTransaction(ctx context.Context, txn *domain.Transaction, balanceChanges map[string]decimal.Decimal, guard BalanceGuard) error

	// ApproveLoan sets the approved flag on a pending LOAN row.
	ApproveLoan(ctx context.Context, transactionID string, approverUserID string, now time.Time) error

	// MarkLoanPaid debits the loan's account by the loan amount and rewrites the
	// loan row to LOAN_PAID with the post-debit balance snapshot, atomically.
	// The passed loan value is updated in place on success.
	MarkLoanPaid(ctx context.Context, loan *domain.Transaction, guard BalanceGuard) error
}

// TransactionRepositoryFacade combines all ledger repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
