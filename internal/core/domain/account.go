package domain

import (
	"github.com/shopspring/decimal"
)

// Account represents a customer bank account within the core domain.
// This is the primary representation used by services. Balance is mutated
// exclusively by the transaction service; every mutation is paired with a
// ledger Transaction row carrying the post-operation balance.
type Account struct {
	AccountID     string          `json:"accountID"`     // Primary Key (UUID)
	AccountNumber int64           `json:"accountNumber"` // Unique, customer-facing; assigned by the datastore
	OwnerUserID   string          `json:"ownerUserID"`   // Owning user identity
	OwnerName     string          `json:"ownerName"`
	OwnerEmail    string          `json:"ownerEmail"` // Notification recipient
	Balance       decimal.Decimal `json:"balance"`    // Current spendable funds
	IsBankrupt    bool            `json:"isBankrupt"` // Blocks withdrawals; deposits stay allowed
	AuditFields
}
