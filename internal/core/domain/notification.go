package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NotificationKind selects the message template on the delivery side.
type NotificationKind string

const (
	NotifyDeposit          NotificationKind = "deposit"
	NotifyWithdrawal       NotificationKind = "withdrawal"
	NotifyLoanRequested    NotificationKind = "loan_requested"
	NotifyLoanApproved     NotificationKind = "loan_approved"
	NotifyLoanPaid         NotificationKind = "loan_paid"
	NotifyTransferSent     NotificationKind = "transfer_sent"
	NotifyTransferReceived NotificationKind = "transfer_received"
)

// NotificationEvent is the post-commit event handed to the notifier. Delivery is
// best-effort: a failed publish never rolls back the financial operation.
type NotificationEvent struct {
	RecipientEmail string           `json:"recipientEmail"`
	AccountNumber  int64            `json:"accountNumber"`
	Amount         decimal.Decimal  `json:"amount"`
	Kind           NotificationKind `json:"kind"`
	OccurredAt     time.Time        `json:"occurredAt"`
}
