package repositories

import (
	"context"
	"time"

	"github.com/bizdash/backend/internal/core/domain"
)

// AccountListFilter narrows ListAccounts results. Zero values mean "no filter".
type AccountListFilter struct {
	AccountType     *domain.AccountType
	ParentAccountID *string
	IncludeArchived bool
}

// AccountReader defines read operations for chart-of-accounts data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its unique human code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// FindChildAccounts retrieves the direct children of an account.
	FindChildAccounts(ctx context.Context, parentAccountID string) ([]domain.Account, error)

	// ListAccounts retrieves a filtered, paginated list of accounts.
	ListAccounts(ctx context.Context, filter AccountListFilter, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccount updates an existing account's mutable details.
	UpdateAccount(ctx context.Context, account domain.Account) error

	// ArchiveAccount marks an account as archived so it rejects new postings.
	ArchiveAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
