package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizdash/backend/internal/apperrors"
	"github.com/bizdash/backend/internal/core/domain"
	portssvc "github.com/bizdash/backend/internal/core/ports/services"
	"github.com/bizdash/backend/internal/core/services"
	"github.com/bizdash/backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo  *MockLedgerRepository
	mockAccountRepo *MockAccountRepository
	service         portssvc.LedgerSvcFacade
	account         domain.Account
}

func (s *LedgerServiceTestSuite) SetupTest() {
	s.mockLedgerRepo = new(MockLedgerRepository)
	s.mockAccountRepo = new(MockAccountRepository)
	s.service = services.NewLedgerService(s.mockLedgerRepo, s.mockAccountRepo)

	s.account = domain.Account{
		AccountID:      uuid.NewString(),
		Code:           "1100",
		Name:           "Cash",
		AccountType:    domain.Asset,
		Status:         domain.AccountActive,
		OpeningBalance: decimal.NewFromInt(1000),
		Balance:        decimal.NewFromInt(1300),
	}
}

// ledgerRow builds a cash-account row; running balances are set per test.
func (s *LedgerServiceTestSuite) ledgerRow(seq int64, debit, credit, running int64) domain.LedgerRow {
	return s.datedLedgerRow(seq, time.Date(2026, 3, int(seq), 0, 0, 0, 0, time.UTC), debit, credit, running)
}

// datedLedgerRow builds a row with an explicit entry date; the entry number
// follows the sequence so rows read in the order they were appended.
func (s *LedgerServiceTestSuite) datedLedgerRow(seq int64, date time.Time, debit, credit, running int64) domain.LedgerRow {
	return domain.LedgerRow{
		RowID:           uuid.NewString(),
		EntryNo:         seq,
		AccountID:       s.account.AccountID,
		JournalID:       uuid.NewString(),
		JournalSequence: seq,
		EntryDate:       date,
		Debit:           decimal.NewFromInt(debit),
		Credit:          decimal.NewFromInt(credit),
		RunningBalance:  decimal.NewFromInt(running),
	}
}

func (s *LedgerServiceTestSuite) TestGetLedger_Success() {
	ctx := context.Background()
	rows := []domain.LedgerRow{
		s.ledgerRow(1, 500, 0, 1500),
		s.ledgerRow(2, 0, 200, 1300),
	}

	s.mockAccountRepo.On("FindAccountByID", ctx, s.account.AccountID).Return(&s.account, nil).Once()
	s.mockLedgerRepo.On("ListLedgerRows", ctx, s.account.AccountID, (*time.Time)(nil), (*time.Time)(nil), 50, (*string)(nil)).
		Return(rows, nil, nil).Once()

	resp, err := s.service.GetLedger(ctx, s.account.AccountID, dto.GetLedgerParams{})

	s.Require().NoError(err)
	s.Require().NotNil(resp)
	s.Equal(s.account.AccountID, resp.AccountID)
	s.Require().Len(resp.Rows, 2)
	s.True(resp.Rows[1].RunningBalance.Equal(decimal.NewFromInt(1300)))
	s.Nil(resp.NextToken)
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestGetLedger_AccountNotFound() {
	ctx := context.Background()
	accountID := uuid.NewString()

	s.mockAccountRepo.On("FindAccountByID", ctx, accountID).Return(nil, apperrors.ErrNotFound).Once()

	resp, err := s.service.GetLedger(ctx, accountID, dto.GetLedgerParams{})

	s.Require().Error(err)
	s.Nil(resp)
	s.True(errors.Is(err, apperrors.ErrNotFound))
}

func (s *LedgerServiceTestSuite) TestVerifyLedger_Consistent() {
	ctx := context.Background()
	// Opening 1000, +500 debit, -200 credit on an asset account ends at 1300
	rows := []domain.LedgerRow{
		s.ledgerRow(1, 500, 0, 1500),
		s.ledgerRow(2, 0, 200, 1300),
	}

	s.mockAccountRepo.On("FindAccountByID", ctx, s.account.AccountID).Return(&s.account, nil).Once()
	s.mockLedgerRepo.On("FindAllLedgerRows", ctx, s.account.AccountID).Return(rows, nil).Once()

	err := s.service.VerifyLedger(ctx, s.account.AccountID)

	s.Require().NoError(err)
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestVerifyLedger_BackdatedPosting() {
	ctx := context.Background()
	// The second journal was posted later but dated five days before the
	// first one. Running balances chain in append order, which is how the
	// repository returns them, so the replay must still succeed.
	rows := []domain.LedgerRow{
		s.datedLedgerRow(1, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), 250, 0, 1250),
		s.datedLedgerRow(2, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC), 50, 0, 1300),
	}

	s.mockAccountRepo.On("FindAccountByID", ctx, s.account.AccountID).Return(&s.account, nil).Once()
	s.mockLedgerRepo.On("FindAllLedgerRows", ctx, s.account.AccountID).Return(rows, nil).Once()

	err := s.service.VerifyLedger(ctx, s.account.AccountID)

	s.Require().NoError(err)
	s.mockLedgerRepo.AssertExpectations(s.T())
}

func (s *LedgerServiceTestSuite) TestVerifyLedger_EmptyLedgerChecksOpeningBalance() {
	ctx := context.Background()
	account := s.account
	account.Balance = account.OpeningBalance

	s.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	s.mockLedgerRepo.On("FindAllLedgerRows", ctx, account.AccountID).Return([]domain.LedgerRow{}, nil).Once()

	err := s.service.VerifyLedger(ctx, account.AccountID)

	s.Require().NoError(err)
}

func (s *LedgerServiceTestSuite) TestVerifyLedger_CorruptedRunningBalance() {
	ctx := context.Background()
	rows := []domain.LedgerRow{
		s.ledgerRow(1, 500, 0, 1500),
		s.ledgerRow(2, 0, 200, 1350), // should be 1300
	}

	s.mockAccountRepo.On("FindAccountByID", ctx, s.account.AccountID).Return(&s.account, nil).Once()
	s.mockLedgerRepo.On("FindAllLedgerRows", ctx, s.account.AccountID).Return(rows, nil).Once()

	err := s.service.VerifyLedger(ctx, s.account.AccountID)

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrConsistency))
	s.Contains(err.Error(), "1350")
	s.Contains(err.Error(), "1300")
}

func (s *LedgerServiceTestSuite) TestVerifyLedger_StaleAccountBalance() {
	ctx := context.Background()
	account := s.account
	account.Balance = decimal.NewFromInt(9999) // disagrees with the replay
	rows := []domain.LedgerRow{
		s.ledgerRow(1, 500, 0, 1500),
		s.ledgerRow(2, 0, 200, 1300),
	}

	s.mockAccountRepo.On("FindAccountByID", ctx, account.AccountID).Return(&account, nil).Once()
	s.mockLedgerRepo.On("FindAllLedgerRows", ctx, account.AccountID).Return(rows, nil).Once()

	err := s.service.VerifyLedger(ctx, account.AccountID)

	s.Require().Error(err)
	s.True(errors.Is(err, apperrors.ErrConsistency))
	s.Contains(err.Error(), "9999")
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}
