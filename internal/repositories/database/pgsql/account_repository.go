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

const accountColumns = `account_id, account_number, owner_user_id, owner_name, owner_email, balance, is_bankrupt, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// NewAccountRepository creates a new repository for account data.
func NewAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account. The account number comes from the table's
// sequence and is written back onto the passed domain value.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account *domain.Account) error {
	modelAccount := mapping.ToModelAccount(*account)
	query := `
		INSERT INTO accounts (account_id, owner_user_id, owner_name, owner_email, balance, is_bankrupt, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING account_number;
	`
	err := r.Pool.QueryRow(ctx, query,
		modelAccount.AccountID,
		modelAccount.OwnerUserID,
		modelAccount.OwnerName,
		modelAccount.OwnerEmail,
		modelAccount.Balance,
		modelAccount.IsBankrupt,
		modelAccount.CreatedAt,
		modelAccount.CreatedBy,
		modelAccount.LastUpdatedAt,
		modelAccount.LastUpdatedBy,
	).Scan(&account.AccountNumber)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save account "+account.AccountID, err)
	}
	return nil
}

func (r *PgxAccountRepository) scanAccountRow(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.AccountNumber,
		&m.OwnerUserID,
		&m.OwnerName,
		&m.OwnerEmail,
		&m.Balance,
		&m.IsBankrupt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan account row", err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return r.scanAccountRow(r.Pool.QueryRow(ctx, query, accountID))
}

// FindAccountByNumber retrieves an account by its customer-facing number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`
	return r.scanAccountRow(r.Pool.QueryRow(ctx, query, accountNumber))
}

// SetBankrupt flips the bankrupt flag on an account.
func (r *PgxAccountRepository) SetBankrupt(ctx context.Context, accountID string, bankrupt bool, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET is_bankrupt = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, accountID, bankrupt, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update bankrupt flag for account "+accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountsByIDsForUpdate selects accounts and row-locks them within the
// given transaction. Lock order is ascending account number so concurrent
// multi-account operations acquire locks in the same global order.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_number
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock accounts for update", err)
	}
	defer rows.Close()

	locked := make(map[string]domain.Account, len(accountIDs))
	for rows.Next() {
		var m models.Account
		err := rows.Scan(
			&m.AccountID,
			&m.AccountNumber,
			&m.OwnerUserID,
			&m.OwnerName,
			&m.OwnerEmail,
			&m.Balance,
			&m.IsBankrupt,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan locked account row", err)
		}
		locked[m.AccountID] = mapping.ToDomainAccount(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed reading locked account rows", err)
	}

	for _, id := range accountIDs {
		if _, ok := locked[id]; !ok {
			return nil, apperrors.ErrNotFound
		}
	}
	return locked, nil
}

// UpdateAccountBalancesInTx applies balance deltas for multiple accounts within
// a given transaction.
func (r *PgxAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	batch := &pgx.Batch{}
	for accountID, change := range balanceChanges {
		batch.Queue(query, accountID, change, now, userID)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to update account balances", err)
	}
	return nil
}
