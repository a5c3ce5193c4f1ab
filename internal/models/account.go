package models

import (
	"github.com/shopspring/decimal"
)

// Account represents a customer bank account row in the database.
type Account struct {
	AccountID     string          `db:"account_id"`
	AccountNumber int64           `db:"account_number"` // BIGSERIAL, unique
	OwnerUserID   string          `db:"owner_user_id"`
	OwnerName     string          `db:"owner_name"`
	OwnerEmail    string          `db:"owner_email"`
	Balance       decimal.Decimal `db:"balance"`
	IsBankrupt    bool            `db:"is_bankrupt"`
	AuditFields                   // Embed common audit fields
}
