package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mamarbank/bank_backend/internal/apperrors"
	"github.com/mamarbank/bank_backend/internal/core/domain"
	portsrepo "github.com/mamarbank/bank_backend/internal/core/ports/repositories"
	portssvc "github.com/mamarbank/bank_backend/internal/core/ports/services"
	"github.com/mamarbank/bank_backend/internal/dto"
	"github.com/mamarbank/bank_backend/internal/middleware"
)

// accountService implements account opening and lookup.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountService {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements the AccountService interface
var _ portssvc.AccountService = (*accountService)(nil)

// OpenAccount creates a new account with a zero balance. The customer-facing
// account number is assigned by the datastore and filled in on the result.
func (s *accountService) OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:   uuid.NewString(),
		OwnerUserID: req.OwnerUserID,
		OwnerName:   req.OwnerName,
		OwnerEmail:  req.OwnerEmail,
		Balance:     decimal.Zero,
		IsBankrupt:  false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.OwnerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: req.OwnerUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, &account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account opened",
		slog.String("account_id", account.AccountID),
		slog.Int64("account_number", account.AccountNumber))
	return &account, nil
}

// SetBankrupt toggles the withdrawal-blocking flag on an account.
func (s *accountService) SetBankrupt(ctx context.Context, accountNumber int64, bankrupt bool, actorUserID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.SetBankrupt(ctx, account.AccountID, bankrupt, actorUserID, now); err != nil {
		logger.Error("Failed to update bankrupt flag", slog.String("error", err.Error()), slog.Int64("account_number", accountNumber))
		return nil, fmt.Errorf("failed to update bankrupt flag: %w", err)
	}
	account.IsBankrupt = bankrupt
	account.LastUpdatedAt = now
	account.LastUpdatedBy = actorUserID

	logger.Info("Bankrupt flag updated",
		slog.Int64("account_number", accountNumber), slog.Bool("bankrupt", bankrupt))
	return account, nil
}

// GetAccountByNumber retrieves an account by its customer-facing number.
func (s *accountService) GetAccountByNumber(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find account by number",
				slog.String("error", err.Error()), slog.Int64("account_number", accountNumber))
		}
		return nil, err // Propagate error (including NotFound)
	}
	return account, nil
}
