package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mamarbank/bank_backend/internal/apperrors"
	"github.com/mamarbank/bank_backend/internal/core/domain"
	portsrepo "github.com/mamarbank/bank_backend/internal/core/ports/repositories"
	"github.com/mamarbank/bank_backend/internal/models"
	"github.com/mamarbank/bank_backend/internal/utils/mapping"
)

const transactionColumns = `transaction_id, account_id, amount, transaction_type, balance_after, approved, timestamp, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewTransactionRepository creates a new repository for ledger data.
func NewTransactionRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// SaveTransaction locks the touched accounts, runs the guard against their
// locked state, applies the balance deltas and inserts the ledger row, all in
// one database transaction. The row's BalanceAfter is computed from the locked
// balance so a row can never disagree with the balance it was committed with.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn *domain.Transaction, balanceChanges map[string]decimal.Decimal, guard portsrepo.BalanceGuard) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) // Ignored once the transaction is committed

	accountIDs := make([]string, 0, len(balanceChanges)+1)
	for accountID := range balanceChanges {
		accountIDs = append(accountIDs, accountID)
	}
	if _, ok := balanceChanges[txn.AccountID]; !ok {
		accountIDs = append(accountIDs, txn.AccountID)
	}

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	if guard != nil {
		if err := guard(locked); err != nil {
			return err // Rule violation: rollback, no mutation
		}
	}

	if len(balanceChanges) > 0 {
		if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, txn.CreatedBy, txn.LastUpdatedAt); err != nil {
			return err
		}
	}

	txn.BalanceAfter = locked[txn.AccountID].Balance.Add(balanceChanges[txn.AccountID])

	modelTxn := mapping.ToModelTransaction(*txn)
	insertQuery := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = tx.Exec(ctx, insertQuery,
		modelTxn.TransactionID,
		modelTxn.AccountID,
		modelTxn.Amount,
		modelTxn.TransactionType,
		modelTxn.BalanceAfter,
		modelTxn.Approved,
		modelTxn.Timestamp,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert transaction "+modelTxn.TransactionID, err)
	}

	return r.Commit(ctx, tx)
}

// ApproveLoan sets the approved flag on a pending LOAN row.
func (r *PgxTransactionRepository) ApproveLoan(ctx context.Context, transactionID string, approverUserID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET approved = TRUE, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $1 AND transaction_type = 'LOAN';
	`
	tag, err := r.Pool.Exec(ctx, query, transactionID, now, approverUserID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to approve loan "+transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkLoanPaid debits the loan's account and rewrites the loan row to
// LOAN_PAID with the post-debit balance, atomically. The passed loan value is
// updated in place on success.
func (r *PgxTransactionRepository) MarkLoanPaid(ctx context.Context, loan *domain.Transaction, guard portsrepo.BalanceGuard) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	locked, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, []string{loan.AccountID})
	if err != nil {
		return err
	}

	if guard != nil {
		if err := guard(locked); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	newBalance := locked[loan.AccountID].Balance.Sub(loan.Amount)
	balanceChanges := map[string]decimal.Decimal{loan.AccountID: loan.Amount.Neg()}
	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, loan.CreatedBy, now); err != nil {
		return err
	}

	updateQuery := `
		UPDATE transactions
		SET transaction_type = 'LOAN_PAID', balance_after = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $1 AND transaction_type = 'LOAN';
	`
	tag, err := tx.Exec(ctx, updateQuery, loan.TransactionID, newBalance, now, loan.CreatedBy)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark loan paid "+loan.TransactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := r.Commit(ctx, tx); err != nil {
		return err
	}

	loan.TransactionType = domain.LoanPaid
	loan.BalanceAfter = newBalance
	loan.LastUpdatedAt = now
	return nil
}

// FindTransactionByID retrieves a single ledger row.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(
		&m.TransactionID,
		&m.AccountID,
		&m.Amount,
		&m.TransactionType,
		&m.BalanceAfter,
		&m.Approved,
		&m.Timestamp,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query transactions", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var m models.Transaction
		err := rows.Scan(
			&m.TransactionID,
			&m.AccountID,
			&m.Amount,
			&m.TransactionType,
			&m.BalanceAfter,
			&m.Approved,
			&m.Timestamp,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		transactions = append(transactions, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading transaction rows", err)
	}
	return mapping.ToDomainTransactionSlice(transactions), nil
}

// FindTransactionsByAccountID retrieves all ledger rows for an account in
// insertion order.
func (r *PgxTransactionRepository) FindTransactionsByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at;
	`
	return r.queryTransactions(ctx, query, accountID)
}

// FindTransactionsByAccountAndDateRange retrieves the account's rows whose
// timestamp falls on a calendar day within [start, end], inclusive.
func (r *PgxTransactionRepository) FindTransactionsByAccountAndDateRange(ctx context.Context, accountID string, start, end time.Time) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1
		  AND timestamp::date >= $2::date
		  AND timestamp::date <= $3::date
		ORDER BY created_at;
	`
	return r.queryTransactions(ctx, query, accountID, start, end)
}

// SumAmountsByAccountAndDateRange computes the aggregate amount over the same
// row set as FindTransactionsByAccountAndDateRange.
func (r *PgxTransactionRepository) SumAmountsByAccountAndDateRange(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE account_id = $1
		  AND timestamp::date >= $2::date
		  AND timestamp::date <= $3::date;
	`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID, start, end).Scan(&sum); err != nil {
		return decimal.Zero, apperrors.NewAppError(500, "failed to sum transactions for account "+accountID, err)
	}
	return sum, nil
}

// CountApprovedLoansByAccountID counts LOAN rows with the approved flag set.
func (r *PgxTransactionRepository) CountApprovedLoansByAccountID(ctx context.Context, accountID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE account_id = $1 AND transaction_type = 'LOAN' AND approved = TRUE;
	`
	var count int
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&count); err != nil {
		return 0, apperrors.NewAppError(500, "failed to count approved loans for account "+accountID, err)
	}
	return count, nil
}

// FindLoansByAccountID retrieves the account's LOAN and LOAN_PAID rows.
func (r *PgxTransactionRepository) FindLoansByAccountID(ctx context.Context, accountID string) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE account_id = $1 AND transaction_type IN ('LOAN', 'LOAN_PAID')
		ORDER BY created_at;
	`
	return r.queryTransactions(ctx, query, accountID)
}
