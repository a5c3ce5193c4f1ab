package services

import (
	"context"

	"github.com/mamarbank/bank_backend/internal/core/domain"
	"github.com/mamarbank/bank_backend/internal/dto"
)

// AccountService defines the account management operations exposed to handlers.
type AccountService interface {
	// OpenAccount creates a new account for a customer. The account number is
	// assigned by the datastore.
	OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, error)

	// GetAccountByNumber retrieves an account by its customer-facing number.
	GetAccountByNumber(ctx context.Context, accountNumber int64) (*domain.Account, error)

	// SetBankrupt toggles the withdrawal-blocking flag on an account (admin
	// action). Deposits stay allowed regardless of the flag.
	SetBankrupt(ctx context.Context, accountNumber int64, bankrupt bool, actorUserID string) (*domain.Account, error)
}
