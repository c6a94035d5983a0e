package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bizdash/backend/internal/apperrors"
	"github.com/bizdash/backend/internal/core/domain"
	portsrepo "github.com/bizdash/backend/internal/core/ports/repositories"
	portssvc "github.com/bizdash/backend/internal/core/ports/services"
	"github.com/bizdash/backend/internal/dto"
	"github.com/bizdash/backend/internal/utils/accounting"
)

// ledgerService exposes read-only views over the append-only ledger plus the
// running-balance verification used by operators to detect corruption.
type ledgerService struct {
	BaseService
	ledgerRepo  portsrepo.LedgerReader
	accountRepo portsrepo.AccountReader
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgerRepo portsrepo.LedgerReader, accountRepo portsrepo.AccountReader) portssvc.LedgerSvcFacade {
	return &ledgerService{
		ledgerRepo:  ledgerRepo,
		accountRepo: accountRepo,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) GetLedger(ctx context.Context, accountID string, params dto.GetLedgerParams) (*dto.GetLedgerResponse, error) {
	// The account must exist even if its ledger is empty
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, nextToken, err := s.ledgerRepo.ListLedgerRows(ctx, accountID, params.From, params.To, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list ledger rows",
			slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to list ledger rows: %w", err)
	}

	return &dto.GetLedgerResponse{
		AccountID: accountID,
		Rows:      dto.ToLedgerRowResponses(rows),
		NextToken: nextToken,
	}, nil
}

// VerifyLedger replays the account's full ledger from its opening balance and
// checks every stored running balance, then the account's current balance.
// Any mismatch is reported as ErrConsistency; nothing is ever repaired here.
func (s *ledgerService) VerifyLedger(ctx context.Context, accountID string) error {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return err
	}

	rows, err := s.ledgerRepo.FindAllLedgerRows(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load ledger for verification",
			slog.String("account_id", accountID))
		return fmt.Errorf("failed to load ledger rows: %w", err)
	}

	balance := account.OpeningBalance
	for i, row := range rows {
		line := domain.JournalLine{
			AccountID: row.AccountID,
			Debit:     row.Debit,
			Credit:    row.Credit,
		}
		delta, err := accounting.SignedDelta(line, account.AccountType)
		if err != nil {
			return err
		}
		balance = balance.Add(delta)
		if !balance.Equal(row.RunningBalance) {
			s.LogError(ctx, apperrors.ErrConsistency, "Running balance mismatch detected",
				slog.String("account_id", accountID),
				slog.String("row_id", row.RowID),
				slog.Int("row_index", i),
				slog.String("expected", balance.String()),
				slog.String("stored", row.RunningBalance.String()))
			return fmt.Errorf("ledger row %s of account %s stores running balance %s, replay computes %s: %w",
				row.RowID, account.Code, row.RunningBalance.String(), balance.String(), apperrors.ErrConsistency)
		}
	}

	if !balance.Equal(account.Balance) {
		s.LogError(ctx, apperrors.ErrConsistency, "Account balance does not match ledger replay",
			slog.String("account_id", accountID),
			slog.String("expected", balance.String()),
			slog.String("stored", account.Balance.String()))
		return fmt.Errorf("account %s stores balance %s, ledger replay computes %s: %w",
			account.Code, account.Balance.String(), balance.String(), apperrors.ErrConsistency)
	}

	s.LogInfo(ctx, "Ledger verified",
		slog.String("account_id", accountID),
		slog.Int("rows", len(rows)))
	return nil
}
