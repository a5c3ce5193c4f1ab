package repositories

import (
	"github.com/mamarbank/bank_backend/internal/core/domain"
)

// BalanceGuard is a rule re-checked against row-locked account state inside the
// datastore transaction, keyed by account ID. Returning an error aborts the
// whole operation before any balance mutation is committed. This closes the
// read-then-write race on balance-dependent rules (overdraft, repayment funds).
type BalanceGuard func(locked map[string]domain.Account) error
