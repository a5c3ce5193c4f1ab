package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/mamarbank/bank_backend/internal/apperrors"
	"github.com/mamarbank/bank_backend/internal/core/domain"
	portssvc "github.com/mamarbank/bank_backend/internal/core/ports/services"
	"github.com/mamarbank/bank_backend/internal/core/services"
	"github.com/mamarbank/bank_backend/internal/dto"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *MockAccountRepository
	service         portssvc.AccountService
}

func (suite *AccountServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.service = services.NewAccountService(suite.mockAccountRepo)
}

func (suite *AccountServiceTestSuite) TestOpenAccount_Success() {
	ctx := context.Background()
	req := dto.OpenAccountRequest{
		OwnerUserID: "user-1",
		OwnerName:   "Alice",
		OwnerEmail:  "alice@example.com",
	}

	// The datastore assigns the account number on insert.
	suite.mockAccountRepo.SaveAccountFn = func(_ context.Context, account *domain.Account) error {
		account.AccountNumber = 100042
		return nil
	}

	account, err := suite.service.OpenAccount(ctx, req)

	suite.Require().NoError(err)
	suite.Require().NotNil(account)
	suite.NotEmpty(account.AccountID)
	suite.Equal(int64(100042), account.AccountNumber)
	suite.Equal("user-1", account.OwnerUserID)
	suite.Equal("alice@example.com", account.OwnerEmail)
	suite.True(account.Balance.Equal(decimal.Zero))
	suite.False(account.IsBankrupt)
	suite.Equal("user-1", account.CreatedBy)
}

func (suite *AccountServiceTestSuite) TestGetAccountByNumber_Success() {
	ctx := context.Background()
	account := &domain.Account{AccountID: "acc-1", AccountNumber: 100001}
	suite.mockAccountRepo.On("FindAccountByNumber", mock.Anything, int64(100001)).Return(account, nil).Once()

	got, err := suite.service.GetAccountByNumber(ctx, 100001)

	suite.Require().NoError(err)
	suite.Equal(account, got)
}

func (suite *AccountServiceTestSuite) TestGetAccountByNumber_NotFound() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByNumber", mock.Anything, int64(999999)).Return(nil, apperrors.ErrNotFound).Once()

	got, err := suite.service.GetAccountByNumber(ctx, 999999)

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(got)
}

func (suite *AccountServiceTestSuite) TestSetBankrupt_Success() {
	ctx := context.Background()
	account := &domain.Account{AccountID: "acc-1", AccountNumber: 100001}
	suite.mockAccountRepo.On("FindAccountByNumber", mock.Anything, int64(100001)).Return(account, nil).Once()
	suite.mockAccountRepo.On("SetBankrupt", mock.Anything, "acc-1", true, "admin-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	updated, err := suite.service.SetBankrupt(ctx, 100001, true, "admin-1")

	suite.Require().NoError(err)
	suite.True(updated.IsBankrupt)
	suite.Equal("admin-1", updated.LastUpdatedBy)
}

func (suite *AccountServiceTestSuite) TestSetBankrupt_AccountNotFound() {
	ctx := context.Background()
	suite.mockAccountRepo.On("FindAccountByNumber", mock.Anything, int64(999999)).Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.SetBankrupt(ctx, 999999, true, "admin-1")

	suite.Require().ErrorIs(err, apperrors.ErrNotFound)
	suite.mockAccountRepo.AssertNotCalled(suite.T(), "SetBankrupt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
