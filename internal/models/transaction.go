package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger row.
type TransactionType string

const (
	Deposit         TransactionType = "DEPOSIT"
	Withdrawal      TransactionType = "WITHDRAWAL"
	Loan            TransactionType = "LOAN"
	LoanPaid        TransactionType = "LOAN_PAID"
	BalanceTransfer TransactionType = "BALANCE_TRANSFER"
)

// Transaction represents a ledger row in the database.
// Note: Amount and BalanceAfter use a precise decimal type (github.com/shopspring/decimal).
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	AccountID       string          `db:"account_id"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionType TransactionType `db:"transaction_type"`
	BalanceAfter    decimal.Decimal `db:"balance_after"`
	Approved        bool            `db:"approved"`
	Timestamp       time.Time       `db:"timestamp"`
	AuditFields
}
