package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamarbank/bank_backend/internal/core/domain"
)

// Amount fields use the validator's numeric tags through the decimal custom
// type func registered in handlers; a missing, zero or negative amount is
// rejected at binding time and re-checked in the service.

// DepositRequest defines the payload for a deposit operation.
type DepositRequest struct {
	AccountNumber int64           `json:"accountNumber" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// WithdrawRequest defines the payload for a withdrawal operation.
type WithdrawRequest struct {
	AccountNumber int64           `json:"accountNumber" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// LoanRequest defines the payload for a loan request.
type LoanRequest struct {
	AccountNumber int64           `json:"accountNumber" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// TransferRequest defines the payload for a balance transfer.
type TransferRequest struct {
	SenderAccountNumber   int64           `json:"senderAccountNumber" binding:"required"`
	ReceiverAccountNumber int64           `json:"receiverAccountNumber" binding:"required"`
	Amount                decimal.Decimal `json:"amount" binding:"required,gt=0"`
}

// TransactionResponse defines the data returned for a single ledger row.
type TransactionResponse struct {
	TransactionID   string          `json:"transactionID"`
	AccountID       string          `json:"accountID"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionType string          `json:"transactionType"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"`
	Approved        bool            `json:"approved"`
	Timestamp       time.Time       `json:"timestamp"`
}

// OperationResponse is the caller-boundary envelope for balance-mutating
// operations: status plus either the rejection reason or the resulting balance.
type OperationResponse struct {
	Status           string               `json:"status"` // "success" or "rejected"
	Reason           string               `json:"reason,omitempty"`
	ResultingBalance *decimal.Decimal     `json:"resultingBalance,omitempty"`
	Transaction      *TransactionResponse `json:"transaction,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		AccountID:       txn.AccountID,
		Amount:          txn.Amount,
		TransactionType: string(txn.TransactionType),
		BalanceAfter:    txn.BalanceAfter,
		Approved:        txn.Approved,
		Timestamp:       txn.Timestamp,
	}
}

// ToTransactionResponses converts a slice of domain.Transaction to []TransactionResponse.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i, txn := range txns {
		responses[i] = ToTransactionResponse(&txn)
	}
	return responses
}

// ToSuccessResponse builds the success envelope for a completed operation.
func ToSuccessResponse(txn *domain.Transaction) OperationResponse {
	resp := ToTransactionResponse(txn)
	balance := txn.BalanceAfter
	return OperationResponse{
		Status:           "success",
		ResultingBalance: &balance,
		Transaction:      &resp,
	}
}

// ToRejectedResponse builds the rejection envelope with the rule that failed.
func ToRejectedResponse(reason string) OperationResponse {
	return OperationResponse{
		Status: "rejected",
		Reason: reason,
	}
}
