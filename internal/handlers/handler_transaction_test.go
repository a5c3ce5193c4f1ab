package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mamarbank/bank_backend/internal/core/domain"
	portssvc "github.com/mamarbank/bank_backend/internal/core/ports/services"
	"github.com/mamarbank/bank_backend/internal/core/services"
	"github.com/mamarbank/bank_backend/internal/dto"
	"github.com/mamarbank/bank_backend/internal/handlers"
	"github.com/mamarbank/bank_backend/internal/middleware"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) OpenAccount(ctx context.Context, req dto.OpenAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByNumber(ctx context.Context, accountNumber int64) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) SetBankrupt(ctx context.Context, accountNumber int64, bankrupt bool, actorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, accountNumber, bankrupt, actorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.AccountService = (*MockAccountService)(nil)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Deposit(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) Withdraw(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) RequestLoan(ctx context.Context, accountNumber int64, amount decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, accountNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ApproveLoan(ctx context.Context, transactionID string, approverUserID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, approverUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) PayLoan(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) Transfer(ctx context.Context, senderNumber, receiverNumber int64, amount decimal.Decimal) (*domain.Transaction, error) {
	args := m.Called(ctx, senderNumber, receiverNumber, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

var _ portssvc.TransactionService = (*MockTransactionService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) TransactionReport(ctx context.Context, accountNumber int64, start, end *time.Time) (*domain.TransactionReport, error) {
	args := m.Called(ctx, accountNumber, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionReport), args.Error(1)
}

func (m *MockReportingService) ListLoans(ctx context.Context, accountNumber int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Test Suite ---
type TransactionHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockAccountSvc *MockAccountService
	mockTxnSvc     *MockTransactionService
	mockReportSvc  *MockReportingService
}

func (suite *TransactionHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockAccountSvc = new(MockAccountService)
	suite.mockTxnSvc = new(MockTransactionService)
	suite.mockReportSvc = new(MockReportingService)

	suite.router = gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.router.Use(middleware.StructuredLoggingMiddleware(logger))
	handlers.RegisterRoutes(suite.router, &portssvc.ServiceContainer{
		Account:     suite.mockAccountSvc,
		Transaction: suite.mockTxnSvc,
		Reporting:   suite.mockReportSvc,
	})
}

func (suite *TransactionHandlerTestSuite) performJSON(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *TransactionHandlerTestSuite) TestDeposit_Success() {
	amount := decimal.NewFromInt(500)
	txn := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		AccountID:       uuid.NewString(),
		Amount:          amount,
		TransactionType: domain.Deposit,
		BalanceAfter:    decimal.NewFromInt(1500),
	}
	suite.mockTxnSvc.On("Deposit", mock.Anything, int64(100001), mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(amount)
	})).Return(txn, nil).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transactions/deposit", gin.H{
		"accountNumber": 100001,
		"amount":        500,
	})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.OperationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("success", resp.Status)
	suite.Require().NotNil(resp.ResultingBalance)
	suite.True(resp.ResultingBalance.Equal(decimal.NewFromInt(1500)))
}

func (suite *TransactionHandlerTestSuite) TestDeposit_RuleRejectionReturns400Envelope() {
	suite.mockTxnSvc.On("Deposit", mock.Anything, int64(100001), mock.Anything).
		Return(nil, services.ErrBelowMinimum).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transactions/deposit", gin.H{
		"accountNumber": 100001,
		"amount":        499,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	var resp dto.OperationResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("rejected", resp.Status)
	suite.NotEmpty(resp.Reason)
}

func (suite *TransactionHandlerTestSuite) TestDeposit_NegativeAmountFailsBinding() {
	w := suite.performJSON(http.MethodPost, "/api/v1/transactions/deposit", gin.H{
		"accountNumber": 100001,
		"amount":        -500,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxnSvc.AssertNotCalled(suite.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestWithdraw_AccountNotFoundReturns404() {
	suite.mockTxnSvc.On("Withdraw", mock.Anything, int64(999999), mock.Anything).
		Return(nil, services.ErrAccountNotFound).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transactions/withdraw", gin.H{
		"accountNumber": 999999,
		"amount":        500,
	})

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestTransfer_SameAccountRejected() {
	w := suite.performJSON(http.MethodPost, "/api/v1/transactions/transfer", gin.H{
		"senderAccountNumber":   100001,
		"receiverAccountNumber": 100001,
		"amount":                500,
	})

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockTxnSvc.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *TransactionHandlerTestSuite) TestRequestLoan_Returns201() {
	txn := &domain.Transaction{
		TransactionID:   uuid.NewString(),
		TransactionType: domain.Loan,
		Amount:          decimal.NewFromInt(5000),
	}
	suite.mockTxnSvc.On("RequestLoan", mock.Anything, int64(100001), mock.Anything).Return(txn, nil).Once()

	w := suite.performJSON(http.MethodPost, "/api/v1/transactions/loans", gin.H{
		"accountNumber": 100001,
		"amount":        5000,
	})

	suite.Equal(http.StatusCreated, w.Code)
}

func (suite *TransactionHandlerTestSuite) TestApproveLoan_ApproverFromHeader() {
	txnID := uuid.NewString()
	txn := &domain.Transaction{TransactionID: txnID, TransactionType: domain.Loan, Approved: true}
	suite.mockTxnSvc.On("ApproveLoan", mock.Anything, txnID, "admin-7").Return(txn, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/loans/"+txnID+"/approve", nil)
	req.Header.Set("X-User-ID", "admin-7")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockTxnSvc.AssertExpectations(suite.T())
}

func (suite *TransactionHandlerTestSuite) TestTransactionReport_ParsesDateParams() {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
	report := &domain.TransactionReport{
		Account:  domain.Account{AccountNumber: 100001},
		Summary:  decimal.NewFromInt(700),
		Filtered: true,
	}
	suite.mockReportSvc.On("TransactionReport", mock.Anything, int64(100001), &start, &end).Return(report, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/report/100001?start_date=2024-03-01&end_date=2024-03-31", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TransactionReportResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Filtered)
}

func (suite *TransactionHandlerTestSuite) TestTransactionReport_BadDateReturns400() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/report/100001?start_date=03-01-2024", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReportSvc.AssertNotCalled(suite.T(), "TransactionReport", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTransactionHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionHandlerTestSuite))
}
