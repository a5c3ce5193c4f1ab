package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/mamarbank/bank_backend/internal/core/domain"
)

// TransactionService defines the balance-mutating operations of the banking
// core. Each call validates fully before any mutation, then mutates the balance
// and records the ledger row as one atomic unit, then fires a best-effort
// notification.
type TransactionService interface {
	// Deposit credits the account and records a DEPOSIT row.
	Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*domain.Transaction, error)

	// Withdraw debits the account and records a WITHDRAWAL row. Bankrupt
	// accounts are rejected outright.
	Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*domain.Transaction, error)

	// RequestLoan records a pending LOAN row without touching the balance. At
	// most three approved loans may be outstanding per account.
	RequestLoan(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*domain.Transaction, error)

	// ApproveLoan marks a pending loan as approved (admin action).
	ApproveLoan(ctx context.Context, transactionID string, approverUserID string) (*domain.Transaction, error)

	// PayLoan repays an approved loan: debits the account and rewrites the loan
	// row to LOAN_PAID.
	PayLoan(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// Transfer moves funds between two accounts, recording a single
	// BALANCE_TRANSFER row on the sender side.
	Transfer(ctx context.Context, senderNumber, receiverNumber int64, amount decimal.Decimal) (*domain.Transaction, error)
}
