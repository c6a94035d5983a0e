package services

import (
	"context"

	"github.com/bizdash/backend/internal/core/domain"
	"github.com/bizdash/backend/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for the account registry
type AccountReaderSvc interface {
	// GetAccountByID retrieves a specific account by its ID.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by ID.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts, optionally filtered by type and parent.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// ComputeHeaderBalance returns the recursive sum of a header account's
	// descendant leaf balances. For leaf accounts it returns the stored balance.
	ComputeHeaderBalance(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// AccountWriterSvc defines write operations for the account registry
type AccountWriterSvc interface {
	// CreateAccount creates a new account in the chart of accounts.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount updates an account's mutable details (name, description).
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// ArchiveAccount marks an account as archived; archived accounts reject postings.
	ArchiveAccount(ctx context.Context, accountID string, userID string) error
}

// AccountSvcFacade combines all account-related service interfaces
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
