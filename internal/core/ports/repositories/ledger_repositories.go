package repositories

import (
	"context"
	"time"

	"github.com/bizdash/backend/internal/core/domain"
)

// LedgerReader defines read operations over the append-only ledger store.
// There is deliberately no writer interface: ledger rows are appended only
// inside the posting transaction owned by the journal repository.
type LedgerReader interface {
	// ListLedgerRows retrieves a date-filtered, token-paginated slice of an
	// account's ledger in (entry_date, journal_sequence) order.
	ListLedgerRows(ctx context.Context, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerRow, *string, error)

	// FindAllLedgerRows retrieves the complete ledger of an account in posting
	// order, for running-balance verification.
	FindAllLedgerRows(ctx context.Context, accountID string) ([]domain.LedgerRow, error)
}

// ReportingRepository provides the aggregate queries behind reports.
type ReportingRepository interface {
	// GetTrialBalanceData aggregates per-account net debit/credit activity over
	// all ledger rows up to asOf.
	GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error)
}

// CurrencyReader defines read operations for currency data
type CurrencyReader interface {
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// CurrencyWriter defines write operations for currency data
type CurrencyWriter interface {
	SaveCurrency(ctx context.Context, currency domain.Currency) error
}

// CurrencyRepositoryFacade combines all currency-related repository interfaces
type CurrencyRepositoryFacade interface {
	CurrencyReader
	CurrencyWriter
}
