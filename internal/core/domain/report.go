package domain

import "github.com/shopspring/decimal"

// TransactionReport is the result of a transaction history query: the matching
// ledger rows plus a summary figure. With a date range the summary is the sum of
// the matched amounts for the account; without one it is the live balance.
type TransactionReport struct {
	Account      Account         `json:"account"`
	Transactions []Transaction   `json:"transactions"`
	Summary      decimal.Decimal `json:"summary"`
	Filtered     bool            `json:"filtered"` // True when a date range was applied
}
