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
	"github.com/mamarbank/bank_backend/internal/core/ports"
	portsrepo "github.com/mamarbank/bank_backend/internal/core/ports/repositories"
	portssvc "github.com/mamarbank/bank_backend/internal/core/ports/services"
	"github.com/mamarbank/bank_backend/internal/middleware"
)

// transactionService orchestrates the balance-mutating operations: validate,
// mutate balance + record ledger row atomically via the repository, then fire a
// best-effort notification.
type transactionService struct {
	accountRepo portsrepo.AccountRepositoryFacade
	txnRepo     portsrepo.TransactionRepositoryFacade
	notifier    ports.Notifier
}

// NewTransactionService creates a new TransactionService. The notifier may be
// nil, in which case notifications are skipped.
func NewTransactionService(accountRepo portsrepo.AccountRepositoryFacade, txnRepo portsrepo.TransactionRepositoryFacade, notifier ports.Notifier) portssvc.TransactionService {
	return &transactionService{
		accountRepo: accountRepo,
		txnRepo:     txnRepo,
		notifier:    notifier,
	}
}

// Ensure transactionService implements the portssvc.TransactionService interface
var _ portssvc.TransactionService = (*transactionService)(nil)

// resolveAccount looks an account up by number, mapping the repository's
// not-found to the domain rule error.
func (s *transactionService) resolveAccount(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: number %d", ErrAccountNotFound, accountNumber)
		}
		return nil, fmt.Errorf("failed to resolve account %d: %w", accountNumber, err)
	}
	return account, nil
}

// newTransaction builds a ledger row for the given account and operation.
func (s *transactionService) newTransaction(account *domain.Account, amount decimal.Decimal, txnType domain.TransactionType, approved bool) domain.Transaction {
	now := time.Now().UTC()
	return domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       account.AccountID,
		Amount:          amount,
		TransactionType: txnType,
		Approved:        approved,
		Timestamp:       now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     account.OwnerUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: account.OwnerUserID,
		},
	}
}

// notify publishes the event asynchronously so broker latency or failure can
// never stall or undo a committed financial operation.
func (s *transactionService) notify(ctx context.Context, account *domain.Account, amount decimal.Decimal, kind domain.NotificationKind) {
	if s.notifier == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)
	event := domain.NotificationEvent{
		RecipientEmail: account.OwnerEmail,
		AccountNumber:  account.AccountNumber,
		Amount:         amount,
		Kind:           kind,
		OccurredAt:     time.Now().UTC(),
	}
	go func() {
		if err := s.notifier.Publish(context.Background(), event); err != nil {
			logger.Warn("Notification publish failed",
				slog.String("kind", string(kind)),
				slog.Int64("account_number", event.AccountNumber),
				slog.String("error", err.Error()))
		}
	}()
}

// Deposit credits the account and records a DEPOSIT row with the post-credit
// balance snapshot.
func (s *transactionService) Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.resolveAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(domain.Deposit, amount, *account); err != nil {
		return nil, err
	}

	txn := s.newTransaction(account, amount, domain.Deposit, false)
	balanceChanges := map[string]decimal.Decimal{account.AccountID: amount}

	if err := s.txnRepo.SaveTransaction(ctx, &txn, balanceChanges, nil); err != nil {
		logger.Error("Failed to save deposit", slog.String("error", err.Error()), slog.Int64("account_number", accountNumber))
		return nil, fmt.Errorf("failed to save deposit: %w", err)
	}

	logger.Info("Deposit completed",
		slog.Int64("account_number", accountNumber),
		slog.String("amount", amount.String()),
		slog.String("transaction_id", txn.TransactionID))
	s.notify(ctx, account, amount, domain.NotifyDeposit)
	return &txn, nil
}

// Withdraw debits the account after the amount rules and the bankrupt check
// pass. The insufficient-funds rule is re-run against the row-locked balance
// inside the datastore transaction so concurrent withdrawals cannot overdraw.
func (s *transactionService) Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.resolveAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(domain.Withdrawal, amount, *account); err != nil {
		return nil, err
	}
	if account.IsBankrupt {
		return nil, ErrAccountBankrupt
	}

	txn := s.newTransaction(account, amount, domain.Withdrawal, false)
	balanceChanges := map[string]decimal.Decimal{account.AccountID: amount.Neg()}
	guard := func(locked map[string]domain.Account) error {
		if amount.GreaterThan(locked[account.AccountID].Balance) {
			return ErrInsufficientFunds
		}
		return nil
	}

	if err := s.txnRepo.SaveTransaction(ctx, &txn, balanceChanges, guard); err != nil {
		if !errors.Is(err, ErrInsufficientFunds) {
			logger.Error("Failed to save withdrawal", slog.String("error", err.Error()), slog.Int64("account_number", accountNumber))
		}
		return nil, err
	}

	logger.Info("Withdrawal completed",
		slog.Int64("account_number", accountNumber),
		slog.String("amount", amount.String()),
		slog.String("transaction_id", txn.TransactionID))
	s.notify(ctx, account, amount, domain.NotifyWithdrawal)
	return &txn, nil
}

// RequestLoan records a pending LOAN row. The balance is untouched; the row's
// BalanceAfter snapshots the balance at request time. An account may hold at
// most maxApprovedLoans approved loans; pending requests do not count.
func (s *transactionService) RequestLoan(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	account, err := s.resolveAccount(ctx, accountNumber)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(domain.Loan, amount, *account); err != nil {
		return nil, err
	}

	approvedLoans, err := s.txnRepo.CountApprovedLoansByAccountID(ctx, account.AccountID)
	if err != nil {
		logger.Error("Failed to count approved loans", slog.String("error", err.Error()), slog.Int64("account_number", accountNumber))
		return nil, fmt.Errorf("failed to count approved loans: %w", err)
	}
	if approvedLoans >= maxApprovedLoans {
		return nil, ErrLoanLimitExceeded
	}

	txn := s.newTransaction(account, amount, domain.Loan, false)

	if err := s.txnRepo.SaveTransaction(ctx, &txn, nil, nil); err != nil {
		logger.Error("Failed to save loan request", slog.String("error", err.Error()), slog.Int64("account_number", accountNumber))
		return nil, fmt.Errorf("failed to save loan request: %w", err)
	}

	logger.Info("Loan requested",
		slog.Int64("account_number", accountNumber),
		slog.String("amount", amount.String()),
		slog.String("transaction_id", txn.TransactionID))
	s.notify(ctx, account, amount, domain.NotifyLoanRequested)
	return &txn, nil
}

// ApproveLoan marks a pending loan as approved. Approving an already approved
// loan is a no-op. No funds move at approval time.
func (s *transactionService) ApproveLoan(ctx context.Context, transactionID string, approverUserID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan %s: %w", transactionID, err)
	}
	if loan.TransactionType == domain.LoanPaid {
		return nil, ErrLoanAlreadyPaid
	}
	if !loan.IsLoan() {
		return nil, fmt.Errorf("%w: transaction %s is not a loan", apperrors.ErrValidation, transactionID)
	}
	if loan.Approved {
		return loan, nil
	}

	now := time.Now().UTC()
	if err := s.txnRepo.ApproveLoan(ctx, transactionID, approverUserID, now); err != nil {
		logger.Error("Failed to approve loan", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to approve loan %s: %w", transactionID, err)
	}
	loan.Approved = true
	loan.LastUpdatedAt = now
	loan.LastUpdatedBy = approverUserID

	logger.Info("Loan approved", slog.String("transaction_id", transactionID), slog.String("approver", approverUserID))
	if account, accErr := s.accountRepo.FindAccountByID(ctx, loan.AccountID); accErr == nil {
		s.notify(ctx, account, loan.Amount, domain.NotifyLoanApproved)
	}
	return loan, nil
}

// PayLoan repays an approved loan: the account is debited by the loan amount
// and the loan row transitions to LOAN_PAID with a fresh balance snapshot.
// The funds check is strict less-than: a loan whose amount exactly equals the
// balance is rejected.
func (s *transactionService) PayLoan(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	loan, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find loan %s: %w", transactionID, err)
	}
	if loan.TransactionType == domain.LoanPaid {
		return nil, ErrLoanAlreadyPaid
	}
	if !loan.IsLoan() {
		return nil, fmt.Errorf("%w: transaction %s is not a loan", apperrors.ErrValidation, transactionID)
	}
	if !loan.Approved {
		return nil, ErrLoanNotApproved
	}

	guard := func(locked map[string]domain.Account) error {
		if !loan.Amount.LessThan(locked[loan.AccountID].Balance) {
			return ErrInsufficientFundsForRepayment
		}
		return nil
	}

	if err := s.txnRepo.MarkLoanPaid(ctx, loan, guard); err != nil {
		if !errors.Is(err, ErrInsufficientFundsForRepayment) {
			logger.Error("Failed to repay loan", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}

	logger.Info("Loan repaid",
		slog.String("transaction_id", transactionID),
		slog.String("amount", loan.Amount.String()))
	if account, accErr := s.accountRepo.FindAccountByID(ctx, loan.AccountID); accErr == nil {
		s.notify(ctx, account, loan.Amount, domain.NotifyLoanPaid)
	}
	return loan, nil
}

// Transfer moves funds from sender to receiver. Only the sender side gets a
// ledger row (BALANCE_TRANSFER, approved); the receiver's credit shows up in
// their balance and notification. Both accounts are row-locked in ascending
// account-number order inside the datastore transaction.
func (s *transactionService) Transfer(ctx context.Context, senderNumber, receiverNumber int64, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	sender, err := s.resolveAccount(ctx, senderNumber)
	if err != nil {
		return nil, err
	}
	receiver, err := s.resolveAccount(ctx, receiverNumber)
	if err != nil {
		return nil, err
	}
	if err := validateAmount(domain.BalanceTransfer, amount, *sender); err != nil {
		return nil, err
	}

	txn := s.newTransaction(sender, amount, domain.BalanceTransfer, true)

	balanceChanges := make(map[string]decimal.Decimal, 2)
	balanceChanges[sender.AccountID] = balanceChanges[sender.AccountID].Sub(amount)
	balanceChanges[receiver.AccountID] = balanceChanges[receiver.AccountID].Add(amount)

	guard := func(locked map[string]domain.Account) error {
		senderBalance := locked[sender.AccountID].Balance
		if senderBalance.IsNegative() || amount.GreaterThan(senderBalance) {
			return ErrInsufficientFunds
		}
		return nil
	}

	if err := s.txnRepo.SaveTransaction(ctx, &txn, balanceChanges, guard); err != nil {
		if !errors.Is(err, ErrInsufficientFunds) {
			logger.Error("Failed to save transfer", slog.String("error", err.Error()),
				slog.Int64("sender", senderNumber), slog.Int64("receiver", receiverNumber))
		}
		return nil, err
	}

	logger.Info("Transfer completed",
		slog.Int64("sender", senderNumber),
		slog.Int64("receiver", receiverNumber),
		slog.String("amount", amount.String()),
		slog.String("transaction_id", txn.TransactionID))
	s.notify(ctx, sender, amount, domain.NotifyTransferSent)
	s.notify(ctx, receiver, amount, domain.NotifyTransferReceived)
	return &txn, nil
}
