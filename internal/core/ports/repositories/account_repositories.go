package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/mamarbank/bank_backend/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByNumber retrieves an account by its customer-facing account number.
	FindAccountByNumber(ctx context.Context, accountNumber int64) (*domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account and fills in the datastore-assigned
	// account number on the passed value.
	SaveAccount(ctx context.Context, account *domain.Account) error

	// SetBankrupt flips the bankrupt flag on an account.
	SetBankrupt(ctx context.Context, accountID string, bankrupt bool, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations that support ledger transactions.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and row-locks them within the
	// given transaction. Locks are acquired in ascending account-number order so
	// concurrent transfers touching the same pair cannot deadlock.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies balance deltas for multiple accounts within
	// a given transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
