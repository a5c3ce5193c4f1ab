package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamarbank/bank_backend/internal/core/domain"
)

// OpenAccountRequest defines the data needed to open a new bank account.
type OpenAccountRequest struct {
	OwnerUserID string `json:"ownerUserID" binding:"required"`
	OwnerName   string `json:"ownerName" binding:"required"`
	OwnerEmail  string `json:"ownerEmail" binding:"required,email"`
}

// SetBankruptRequest defines the payload for toggling the bankrupt flag.
// Pointer so an explicit false is distinguishable from a missing field.
type SetBankruptRequest struct {
	Bankrupt *bool `json:"bankrupt" binding:"required"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID     string          `json:"accountID"`
	AccountNumber int64           `json:"accountNumber"`
	OwnerUserID   string          `json:"ownerUserID"`
	OwnerName     string          `json:"ownerName"`
	Balance       decimal.Decimal `json:"balance"`
	IsBankrupt    bool            `json:"isBankrupt"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		OwnerUserID:   acc.OwnerUserID,
		OwnerName:     acc.OwnerName,
		Balance:       acc.Balance,
		IsBankrupt:    acc.IsBankrupt,
		CreatedAt:     acc.CreatedAt,
	}
}
