package services

import (
	portsrepo "github.com/bizdash/backend/internal/core/ports/repositories"
	portssvc "github.com/bizdash/backend/internal/core/ports/services"
)

// NewServiceContainer wires every service with its repository dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.AccountRepo,
			WithCurrencyReader(repos.CurrencyRepo),
		),
		Journal: NewJournalService(repos.JournalRepo, repos.AccountRepo,
			WithJournalCurrencyReader(repos.CurrencyRepo),
		),
		Ledger:    NewLedgerService(repos.LedgerRepo, repos.AccountRepo),
		Reporting: NewReportingService(repos.ReportingRepo),
		Currency:  NewCurrencyService(repos.CurrencyRepo),
	}
}
