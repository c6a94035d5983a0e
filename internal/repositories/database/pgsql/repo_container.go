package pgsql

import (
	portsrepo "github.com/bizdash/backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	currencyRepo := newPgxCurrencyRepository(dbPool)
	journalRepo := newPgxJournalRepository(dbPool, accountRepo)
	ledgerRepo := newPgxLedgerRepository(dbPool)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:   accountRepo,
		JournalRepo:   journalRepo,
		LedgerRepo:    ledgerRepo,
		ReportingRepo: reportingRepo,
		CurrencyRepo:  currencyRepo,
	}
}
