package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a balance-affecting event.
type TransactionType string

const (
	Deposit         TransactionType = "DEPOSIT"
	Withdrawal      TransactionType = "WITHDRAWAL"
	Loan            TransactionType = "LOAN"
	LoanPaid        TransactionType = "LOAN_PAID"
	BalanceTransfer TransactionType = "BALANCE_TRANSFER"
)

// Transaction is an immutable-once-recorded ledger row for one balance-affecting
// event on one account. Amount, type and account never change after creation,
// with a single exception: a LOAN row transitions to LOAN_PAID (and gets a fresh
// BalanceAfter snapshot) through the repayment flow, and its Approved flag is
// flipped by loan approval.
type Transaction struct {
	TransactionID   string          `json:"transactionID"` // Primary Key (UUID)
	AccountID       string          `json:"accountID"`     // FK -> Account.accountID (Not Null)
	Amount          decimal.Decimal `json:"amount"`        // Positive magnitude of the operation
	TransactionType TransactionType `json:"transactionType"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"` // Account balance after this row applied
	Approved        bool            `json:"approved"`     // Loan approval state; always true on transfers
	Timestamp       time.Time       `json:"timestamp"`    // Creation time
	AuditFields
}

// IsLoan reports whether the row is an outstanding (not yet repaid) loan.
func (t *Transaction) IsLoan() bool {
	return t.TransactionType == Loan
}
