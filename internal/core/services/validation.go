package services

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mamarbank/bank_backend/internal/core/domain"
)

// Rule constants. These mirror the bank's published deposit/withdrawal policy.
var (
	minDepositAmount  = decimal.NewFromInt(500)
	minWithdrawAmount = decimal.NewFromInt(500)
	maxWithdrawAmount = decimal.NewFromInt(20000)
)

// maxApprovedLoans caps the number of approved loans outstanding per account.
const maxApprovedLoans = 3

var (
	ErrInvalidAmount                 = errors.New("amount must be a positive number")
	ErrBelowMinimum                  = errors.New("amount is below the minimum for this operation")
	ErrAboveMaximum                  = errors.New("amount is above the maximum for this operation")
	ErrInsufficientFunds             = errors.New("insufficient funds")
	ErrAccountBankrupt               = errors.New("account is bankrupt, withdrawals are blocked")
	ErrLoanLimitExceeded             = errors.New("approved loan limit exceeded")
	ErrLoanNotApproved               = errors.New("loan has not been approved")
	ErrLoanAlreadyPaid               = errors.New("loan has already been repaid")
	ErrInsufficientFundsForRepayment = errors.New("loan amount exceeds available balance")
	ErrAccountNotFound               = errors.New("account not found")
)

// amountValidator checks the requested amount for one transaction type against
// the account it applies to. Pure function: no I/O, no mutation.
type amountValidator func(amount decimal.Decimal, account domain.Account) error

var amountValidators = map[domain.TransactionType]amountValidator{
	domain.Deposit:         validateDepositAmount,
	domain.Withdrawal:      validateWithdrawalAmount,
	domain.Loan:            validateLoanAmount,
	domain.BalanceTransfer: validateTransferAmount,
}

// validateAmount rejects non-positive amounts before any type-specific rule
// runs, then dispatches to the rule for the transaction type.
func validateAmount(txnType domain.TransactionType, amount decimal.Decimal, account domain.Account) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	validate, ok := amountValidators[txnType]
	if !ok {
		return ErrInvalidAmount
	}
	return validate(amount, account)
}

func validateDepositAmount(amount decimal.Decimal, _ domain.Account) error {
	if amount.LessThan(minDepositAmount) {
		return ErrBelowMinimum
	}
	return nil
}

func validateWithdrawalAmount(amount decimal.Decimal, account domain.Account) error {
	if amount.LessThan(minWithdrawAmount) {
		return ErrBelowMinimum
	}
	if amount.GreaterThan(maxWithdrawAmount) {
		return ErrAboveMaximum
	}
	if amount.GreaterThan(account.Balance) {
		return ErrInsufficientFunds
	}
	return nil
}

// Loan requests carry no numeric cap; the outstanding-loan count is enforced
// separately by the loan handler.
func validateLoanAmount(_ decimal.Decimal, _ domain.Account) error {
	return nil
}

func validateTransferAmount(amount decimal.Decimal, sender domain.Account) error {
	if sender.Balance.IsNegative() || amount.GreaterThan(sender.Balance) {
		return ErrInsufficientFunds
	}
	return nil
}
