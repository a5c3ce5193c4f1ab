package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mamarbank/bank_backend/internal/apperrors"
	"github.com/mamarbank/bank_backend/internal/core/domain"
	portssvc "github.com/mamarbank/bank_backend/internal/core/ports/services"
	"github.com/mamarbank/bank_backend/internal/core/services"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	mockTxnRepo     *MockTransactionRepository
	service         portssvc.ReportingService

	account domain.Account
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.service = services.NewReportingService(suite.mockAccountRepo, suite.mockTxnRepo)

	suite.account = domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: 100001,
		OwnerUserID:   "user-1",
		Balance:       decimal.NewFromInt(2500),
	}
	suite.mockAccountRepo.On("FindAccountByNumber", mock.Anything, suite.account.AccountNumber).Return(&suite.account, nil)
}

func (suite *ReportingServiceTestSuite) TestTransactionReport_NoRangeReturnsAllRowsAndLiveBalance() {
	ctx := context.Background()
	rows := []domain.Transaction{
		{TransactionID: uuid.NewString(), AccountID: suite.account.AccountID, TransactionType: domain.Deposit, Amount: decimal.NewFromInt(2000)},
		{TransactionID: uuid.NewString(), AccountID: suite.account.AccountID, TransactionType: domain.Withdrawal, Amount: decimal.NewFromInt(500)},
	}
	suite.mockTxnRepo.On("FindTransactionsByAccountID", mock.Anything, suite.account.AccountID).Return(rows, nil).Once()

	report, err := suite.service.TransactionReport(ctx, suite.account.AccountNumber, nil, nil)

	suite.Require().NoError(err)
	suite.Len(report.Transactions, 2)
	suite.False(report.Filtered)
	suite.True(report.Summary.Equal(suite.account.Balance))
}

func (suite *ReportingServiceTestSuite) TestTransactionReport_DateRangeReturnsFilteredRowsAndSum() {
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	rows := []domain.Transaction{
		{TransactionID: uuid.NewString(), AccountID: suite.account.AccountID, TransactionType: domain.Deposit, Amount: decimal.NewFromInt(700)},
	}
	sum := decimal.NewFromInt(700)
	suite.mockTxnRepo.On("FindTransactionsByAccountAndDateRange", mock.Anything, suite.account.AccountID, start, end).Return(rows, nil).Once()
	suite.mockTxnRepo.On("SumAmountsByAccountAndDateRange", mock.Anything, suite.account.AccountID, start, end).Return(sum, nil).Once()

	report, err := suite.service.TransactionReport(ctx, suite.account.AccountNumber, &start, &end)

	suite.Require().NoError(err)
	suite.Len(report.Transactions, 1)
	suite.True(report.Filtered)
	suite.True(report.Summary.Equal(sum))
}

// One date without the other falls back to the unfiltered report.
func (suite *ReportingServiceTestSuite) TestTransactionReport_HalfOpenRangeIsUnfiltered() {
	ctx := context.Background()
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	suite.mockTxnRepo.On("FindTransactionsByAccountID", mock.Anything, suite.account.AccountID).Return([]domain.Transaction{}, nil).Once()

	report, err := suite.service.TransactionReport(ctx, suite.account.AccountNumber, &start, nil)

	suite.Require().NoError(err)
	suite.False(report.Filtered)
	suite.True(report.Summary.Equal(suite.account.Balance))
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionsByAccountAndDateRange", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingServiceTestSuite) TestTransactionReport_AccountNotFound() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByNumber", mock.Anything, int64(999999)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.TransactionReport(ctx, 999999, nil, nil)

	suite.Require().ErrorIs(err, services.ErrAccountNotFound)
}

func (suite *ReportingServiceTestSuite) TestListLoans() {
	ctx := context.Background()
	loans := []domain.Transaction{
		{TransactionID: uuid.NewString(), TransactionType: domain.Loan, Approved: true},
		{TransactionID: uuid.NewString(), TransactionType: domain.LoanPaid},
	}
	suite.mockTxnRepo.On("FindLoansByAccountID", mock.Anything, suite.account.AccountID).Return(loans, nil).Once()

	got, err := suite.service.ListLoans(ctx, suite.account.AccountNumber)

	suite.Require().NoError(err)
	suite.Len(got, 2)
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
