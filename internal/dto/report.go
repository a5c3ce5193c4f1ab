package dto

import (
	"github.com/shopspring/decimal"

	"github.com/mamarbank/bank_backend/internal/core/domain"
)

// TransactionReportResponse defines the combined response for a transaction
// history query: the matching rows plus the summary figure for the window.
type TransactionReportResponse struct {
	Account      AccountResponse       `json:"account"`
	Transactions []TransactionResponse `json:"transactions"`
	Summary      decimal.Decimal       `json:"summary"`
	Filtered     bool                  `json:"filtered"`
}

// ToTransactionReportResponse converts a domain.TransactionReport to its DTO.
func ToTransactionReportResponse(r *domain.TransactionReport) TransactionReportResponse {
	return TransactionReportResponse{
		Account:      ToAccountResponse(&r.Account),
		Transactions: ToTransactionResponses(r.Transactions),
		Summary:      r.Summary,
		Filtered:     r.Filtered,
	}
}
