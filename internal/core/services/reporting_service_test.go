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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ReportingServiceTestSuite struct {
	suite.Suite
	mockReportingRepo *MockReportingRepository
	service           portssvc.ReportingSvcFacade
}

func (s *ReportingServiceTestSuite) SetupTest() {
	s.mockReportingRepo = new(MockReportingRepository)
	s.service = services.NewReportingService(s.mockReportingRepo)
}

func (s *ReportingServiceTestSuite) TestTrialBalance_Balanced() {
	ctx := context.Background()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	rows := []domain.TrialBalanceRow{
		{AccountID: uuid.NewString(), AccountCode: "1200", AccountName: "Accounts Receivable", AccountType: domain.Asset, Debit: decimal.NewFromInt(11800), Credit: decimal.Zero},
		{AccountID: uuid.NewString(), AccountCode: "4000", AccountName: "Sales Revenue", AccountType: domain.Income, Debit: decimal.Zero, Credit: decimal.NewFromInt(10000)},
		{AccountID: uuid.NewString(), AccountCode: "2300", AccountName: "Sales Tax Payable", AccountType: domain.Liability, Debit: decimal.Zero, Credit: decimal.NewFromInt(1800)},
	}

	s.mockReportingRepo.On("GetTrialBalanceData", ctx, asOf).Return(rows, nil).Once()

	report, err := s.service.TrialBalance(ctx, asOf)

	s.Require().NoError(err)
	s.Require().NotNil(report)
	s.Equal(asOf, report.AsOf)
	s.Len(report.Rows, 3)
	s.True(report.TotalDebit.Equal(decimal.NewFromInt(11800)), "total debits should be 11800, got %s", report.TotalDebit)
	s.True(report.TotalCredit.Equal(decimal.NewFromInt(11800)), "total credits should be 11800, got %s", report.TotalCredit)
	s.mockReportingRepo.AssertExpectations(s.T())
}

func (s *ReportingServiceTestSuite) TestTrialBalance_EmptyLedger() {
	ctx := context.Background()
	asOf := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	s.mockReportingRepo.On("GetTrialBalanceData", ctx, asOf).Return([]domain.TrialBalanceRow{}, nil).Once()

	report, err := s.service.TrialBalance(ctx, asOf)

	s.Require().NoError(err)
	s.Require().NotNil(report)
	s.Empty(report.Rows)
	s.True(report.TotalDebit.IsZero())
	s.True(report.TotalCredit.IsZero())
}

func (s *ReportingServiceTestSuite) TestTrialBalance_UnbalancedRefused() {
	ctx := context.Background()
	asOf := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	rows := []domain.TrialBalanceRow{
		{AccountID: uuid.NewString(), AccountCode: "1100", AccountType: domain.Asset, Debit: decimal.NewFromInt(500), Credit: decimal.Zero},
		{AccountID: uuid.NewString(), AccountCode: "4000", AccountType: domain.Income, Debit: decimal.Zero, Credit: decimal.NewFromInt(450)},
	}

	s.mockReportingRepo.On("GetTrialBalanceData", ctx, asOf).Return(rows, nil).Once()

	report, err := s.service.TrialBalance(ctx, asOf)

	s.Require().Error(err)
	s.Nil(report, "no report may be produced from a corrupt ledger")
	s.True(errors.Is(err, apperrors.ErrConsistency))
	s.Contains(err.Error(), "500")
	s.Contains(err.Error(), "450")
}

func TestReportingServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
