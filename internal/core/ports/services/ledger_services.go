package services

import (
	"context"
	"time"

	"github.com/bizdash/backend/internal/core/domain"
	"github.com/bizdash/backend/internal/dto"
)

// LedgerSvcFacade exposes read-only views over the append-only ledger store.
type LedgerSvcFacade interface {
	// GetLedger retrieves a date-filtered, paginated slice of an account's ledger.
	GetLedger(ctx context.Context, accountID string, params dto.GetLedgerParams) (*dto.GetLedgerResponse, error)

	// VerifyLedger replays an account's full ledger from its opening balance and
	// checks every stored running balance plus the account's current balance.
	// A mismatch is reported as ErrConsistency, never repaired.
	VerifyLedger(ctx context.Context, accountID string) error
}

// ReportingSvcFacade generates aggregate reports over the ledger.
type ReportingSvcFacade interface {
	// TrialBalance aggregates leaf-account net activity up to asOf and verifies
	// that total debits equal total credits before returning the report.
	TrialBalance(ctx context.Context, asOf time.Time) (*domain.TrialBalanceReport, error)
}

// CurrencySvcFacade manages the currency registry.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
