package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bizdash/backend/internal/apperrors"
	"github.com/bizdash/backend/internal/core/domain"
	portssvc "github.com/bizdash/backend/internal/core/ports/services"
	"github.com/bizdash/backend/internal/core/services"
	"github.com/bizdash/backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type AccountServiceTestSuite struct {
	suite.Suite
	mockAccountRepo  *MockAccountRepository
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.AccountSvcFacade
	userID           string
	usd              domain.Currency
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.mockAccountRepo = new(MockAccountRepository)
	s.mockCurrencyRepo = new(MockCurrencyRepository)
	s.service = services.NewAccountService(s.mockAccountRepo,
		services.WithCurrencyReader(s.mockCurrencyRepo))
	s.userID = uuid.NewString()
	s.usd = domain.Currency{CurrencyCode: "USD", Symbol: "$", Name: "US Dollar", Precision: 2}
}

func (s *AccountServiceTestSuite) TestCreateAccount_Success() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:           "1100",
		Name:           "Cash",
		AccountType:    domain.Asset,
		CurrencyCode:   "USD",
		OpeningBalance: decimal.NewFromInt(2500),
	}

	s.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&s.usd, nil).Once()
	s.mockAccountRepo.On("FindAccountByCode", ctx, "1100").Return(nil, apperrors.ErrNotFound).Once()
	s.mockAccountRepo.On("SaveAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	account, err := s.service.CreateAccount(ctx, req, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(account)
	s.NotEmpty(account.AccountID)
	s.Equal(domain.AccountActive, account.Status)
	s.True(account.Balance.Equal(decimal.NewFromInt(2500)), "balance starts at the opening balance")
	s.True(account.OpeningBalance.Equal(decimal.NewFromInt(2500)))
	s.Equal(s.userID, account.CreatedBy)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	ctx := context.Background()
	existing := domain.Account{AccountID: uuid.NewString(), Code: "1100"}
	req := dto.CreateAccountRequest{
		Code:         "1100",
		Name:         "Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "USD",
	}

	s.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&s.usd, nil).Once()
	s.mockAccountRepo.On("FindAccountByCode", ctx, "1100").Return(&existing, nil).Once()

	account, err := s.service.CreateAccount(ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(account)
	s.True(errors.Is(err, apperrors.ErrDuplicate))
	s.mockAccountRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateAccount_UnknownCurrency() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:         "1100",
		Name:         "Cash",
		AccountType:  domain.Asset,
		CurrencyCode: "XXX",
	}

	s.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "XXX").Return(nil, apperrors.ErrNotFound).Once()

	account, err := s.service.CreateAccount(ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(account)
	s.True(errors.Is(err, apperrors.ErrValidation))
}

func (s *AccountServiceTestSuite) TestCreateAccount_ParentTypeMismatch() {
	ctx := context.Background()
	parentID := uuid.NewString()
	parent := domain.Account{
		AccountID:    parentID,
		Code:         "2000",
		AccountType:  domain.Liability,
		CurrencyCode: "USD",
		IsHeader:     true,
		Status:       domain.AccountActive,
	}
	req := dto.CreateAccountRequest{
		Code:            "2110",
		Name:            "Petty Cash",
		AccountType:     domain.Asset,
		CurrencyCode:    "USD",
		ParentAccountID: &parentID,
	}

	s.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&s.usd, nil).Once()
	s.mockAccountRepo.On("FindAccountByCode", ctx, "2110").Return(nil, apperrors.ErrNotFound).Once()
	s.mockAccountRepo.On("FindAccountByID", ctx, parentID).Return(&parent, nil).Once()

	account, err := s.service.CreateAccount(ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(account)
	s.True(errors.Is(err, apperrors.ErrValidation))
	s.Contains(err.Error(), "does not match")
}

func (s *AccountServiceTestSuite) TestCreateAccount_HeaderWithOpeningBalance() {
	ctx := context.Background()
	req := dto.CreateAccountRequest{
		Code:           "1000",
		Name:           "Current Assets",
		AccountType:    domain.Asset,
		CurrencyCode:   "USD",
		IsHeader:       true,
		OpeningBalance: decimal.NewFromInt(100),
	}

	s.mockCurrencyRepo.On("FindCurrencyByCode", ctx, "USD").Return(&s.usd, nil).Once()
	s.mockAccountRepo.On("FindAccountByCode", ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()

	account, err := s.service.CreateAccount(ctx, req, s.userID)

	s.Require().Error(err)
	s.Nil(account)
	s.True(errors.Is(err, apperrors.ErrValidation))
	s.Contains(err.Error(), "opening balance")
}

func (s *AccountServiceTestSuite) TestUpdateAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := domain.Account{
		AccountID:   accountID,
		Code:        "1100",
		Name:        "Cash",
		AccountType: domain.Asset,
		Status:      domain.AccountActive,
	}

	s.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&account, nil).Once()
	s.mockAccountRepo.On("UpdateAccount", ctx, mock.AnythingOfType("domain.Account")).Return(nil).Once()

	newName := "Cash on Hand"
	updated, err := s.service.UpdateAccount(ctx, accountID, dto.UpdateAccountRequest{Name: &newName}, s.userID)

	s.Require().NoError(err)
	s.Require().NotNil(updated)
	s.Equal("Cash on Hand", updated.Name)
	s.Equal(s.userID, updated.LastUpdatedBy)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestArchiveAccount_Success() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := domain.Account{AccountID: accountID, Code: "1100", Status: domain.AccountActive}

	s.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&account, nil).Once()
	s.mockAccountRepo.On("FindChildAccounts", ctx, accountID).Return([]domain.Account{}, nil).Once()
	s.mockAccountRepo.On("ArchiveAccount", ctx, accountID, s.userID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := s.service.ArchiveAccount(ctx, accountID, s.userID)

	s.Require().NoError(err)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestArchiveAccount_AlreadyArchived() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := domain.Account{AccountID: accountID, Code: "1100", Status: domain.AccountArchived}

	s.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&account, nil).Once()

	err := s.service.ArchiveAccount(ctx, accountID, s.userID)

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrInvalidState))
	s.Contains(err.Error(), "already archived")
}

func (s *AccountServiceTestSuite) TestArchiveAccount_ActiveChildrenBlock() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := domain.Account{AccountID: accountID, Code: "1000", IsHeader: true, Status: domain.AccountActive}
	children := []domain.Account{
		{AccountID: uuid.NewString(), Code: "1110", Status: domain.AccountArchived},
		{AccountID: uuid.NewString(), Code: "1120", Status: domain.AccountActive},
	}

	s.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&account, nil).Once()
	s.mockAccountRepo.On("FindChildAccounts", ctx, accountID).Return(children, nil).Once()

	err := s.service.ArchiveAccount(ctx, accountID, s.userID)

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrInvalidState))
	s.Contains(err.Error(), "1120")
	s.mockAccountRepo.AssertNotCalled(s.T(), "ArchiveAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestComputeHeaderBalance_LeafReturnsStoredBalance() {
	ctx := context.Background()
	accountID := uuid.NewString()
	account := domain.Account{
		AccountID: accountID,
		Code:      "1100",
		Status:    domain.AccountActive,
		Balance:   decimal.NewFromInt(750),
	}

	s.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(&account, nil).Once()

	balance, err := s.service.ComputeHeaderBalance(ctx, accountID)

	s.Require().NoError(err)
	s.True(balance.Equal(decimal.NewFromInt(750)))
	s.mockAccountRepo.AssertNotCalled(s.T(), "FindChildAccounts", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestComputeHeaderBalance_RecursesIntoSubHeaders() {
	ctx := context.Background()
	rootID := uuid.NewString()
	subHeaderID := uuid.NewString()
	root := domain.Account{AccountID: rootID, Code: "1000", IsHeader: true, Status: domain.AccountActive}

	directLeaf := domain.Account{AccountID: uuid.NewString(), Code: "1200", Balance: decimal.NewFromInt(300)}
	subHeader := domain.Account{AccountID: subHeaderID, Code: "1100", IsHeader: true}
	nestedLeafA := domain.Account{AccountID: uuid.NewString(), Code: "1110", Balance: decimal.NewFromInt(100)}
	nestedLeafB := domain.Account{AccountID: uuid.NewString(), Code: "1120", Balance: decimal.NewFromInt(50)}

	s.mockAccountRepo.On("FindAccountByID", ctx, rootID).Return(&root, nil).Once()
	s.mockAccountRepo.On("FindChildAccounts", ctx, rootID).Return([]domain.Account{subHeader, directLeaf}, nil).Once()
	s.mockAccountRepo.On("FindChildAccounts", ctx, subHeaderID).Return([]domain.Account{nestedLeafA, nestedLeafB}, nil).Once()

	balance, err := s.service.ComputeHeaderBalance(ctx, rootID)

	s.Require().NoError(err)
	s.True(balance.Equal(decimal.NewFromInt(450)), "expected 450, got %s", balance)
	s.mockAccountRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestListAccounts_NilBecomesEmptySlice() {
	ctx := context.Background()

	s.mockAccountRepo.On("ListAccounts", ctx, mock.AnythingOfType("repositories.AccountListFilter"), 0, 0).
		Return(nil, nil).Once()

	accounts, err := s.service.ListAccounts(ctx, dto.ListAccountsParams{})

	s.Require().NoError(err)
	s.NotNil(accounts)
	s.Empty(accounts)
}

func TestAccountServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
