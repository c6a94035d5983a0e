package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizdash/backend/internal/apperrors"
	"github.com/bizdash/backend/internal/core/domain"
	portsrepo "github.com/bizdash/backend/internal/core/ports/repositories"
	portssvc "github.com/bizdash/backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
}

// NewReportingService creates a new reporting service
func NewReportingService(reportingRepo portsrepo.ReportingRepository) portssvc.ReportingSvcFacade {
	return &reportingService{
		reportingRepo: reportingRepo,
	}
}

var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TrialBalance aggregates per-account net activity up to asOf. Total debits
// must equal total credits; if they do not, the ledger itself is corrupt and
// no report is produced.
func (s *reportingService) TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error) {
	rows, err := s.reportingRepo.GetTrialBalanceData(ctx, asOf)
	if err != nil {
		s.LogError(ctx, err, "Failed to aggregate trial balance data")
		return nil, fmt.Errorf("failed to aggregate trial balance data: %w", err)
	}

	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, row := range rows {
		totalDebit = totalDebit.Add(row.Debit)
		totalCredit = totalCredit.Add(row.Credit)
	}

	if !totalDebit.Equal(totalCredit) {
		s.LogError(ctx, apperrors.ErrConsistency, "Trial balance does not balance",
			slog.String("total_debit", totalDebit.String()),
			slog.String("total_credit", totalCredit.String()),
			slog.Time("as_of", asOf))
		return nil, fmt.Errorf("trial balance as of %s does not balance: debits %s, credits %s: %w",
			asOf.Format("2006-01-02"), totalDebit.String(), totalCredit.String(), apperrors.ErrConsistency)
	}

	s.LogInfo(ctx, "Trial balance generated",
		slog.Time("as_of", asOf),
		slog.Int("accounts", len(rows)),
		slog.String("total", totalDebit.String()))

	return &domain.TrialBalanceReport{
		AsOf:        asOf,
		Rows:        rows,
		TotalDebit:  totalDebit,
		TotalCredit: totalCredit,
	}, nil
}
