package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mamarbank/bank_backend/internal/apperrors"
	"github.com/mamarbank/bank_backend/internal/core/domain"
	portssvc "github.com/mamarbank/bank_backend/internal/core/ports/services"
	"github.com/mamarbank/bank_backend/internal/dto"
	"github.com/mamarbank/bank_backend/internal/handlers"
	"github.com/mamarbank/bank_backend/internal/middleware"
)

type AccountHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockAccountSvc *MockAccountService
}

func (suite *AccountHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockAccountSvc = new(MockAccountService)

	suite.router = gin.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	suite.router.Use(middleware.StructuredLoggingMiddleware(logger))
	handlers.RegisterRoutes(suite.router, &portssvc.ServiceContainer{
		Account:     suite.mockAccountSvc,
		Transaction: new(MockTransactionService),
		Reporting:   new(MockReportingService),
	})
}

func (suite *AccountHandlerTestSuite) TestOpenAccount_Success() {
	account := &domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: 100001,
		OwnerUserID:   "user-1",
		OwnerName:     "Alice",
		Balance:       decimal.Zero,
	}
	suite.mockAccountSvc.On("OpenAccount", mock.Anything, dto.OpenAccountRequest{
		OwnerUserID: "user-1",
		OwnerName:   "Alice",
		OwnerEmail:  "alice@example.com",
	}).Return(account, nil).Once()

	body, _ := json.Marshal(gin.H{
		"ownerUserID": "user-1",
		"ownerName":   "Alice",
		"ownerEmail":  "alice@example.com",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(100001), resp.AccountNumber)
}

func (suite *AccountHandlerTestSuite) TestOpenAccount_InvalidEmailFailsBinding() {
	body, _ := json.Marshal(gin.H{
		"ownerUserID": "user-1",
		"ownerName":   "Alice",
		"ownerEmail":  "not-an-email",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/accounts", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "OpenAccount", mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_NotFoundReturns404() {
	suite.mockAccountSvc.On("GetAccountByNumber", mock.Anything, int64(999999)).
		Return(nil, apperrors.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/999999", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *AccountHandlerTestSuite) TestSetBankrupt_Success() {
	account := &domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: 100001,
		IsBankrupt:    true,
	}
	suite.mockAccountSvc.On("SetBankrupt", mock.Anything, int64(100001), true, "admin").
		Return(account, nil).Once()

	body, _ := json.Marshal(gin.H{"bankrupt": true})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/accounts/100001/bankrupt", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.IsBankrupt)
}

func (suite *AccountHandlerTestSuite) TestSetBankrupt_MissingFlagFailsBinding() {
	body, _ := json.Marshal(gin.H{})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/accounts/100001/bankrupt", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccountSvc.AssertNotCalled(suite.T(), "SetBankrupt", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *AccountHandlerTestSuite) TestGetAccount_BadNumberReturns400() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/accounts/not-a-number", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestAccountHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(AccountHandlerTestSuite))
}
