package repositories

import (
	"context"
	"time"

	"github.com/bizdash/backend/internal/core/domain"
)

// JournalListFilter narrows ListJournals results.
type JournalListFilter struct {
	Status           *domain.JournalStatus
	IncludeReversals bool
}

// JournalReader defines read operations for journal data
type JournalReader interface {
	// FindJournalByID retrieves a specific journal by its unique identifier.
	FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// FindLinesByJournalID retrieves all lines belonging to a single journal.
	FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error)

	// ListJournals retrieves a paginated list of journals using token-based pagination.
	// It returns the journals, a token for the next page, and an error.
	ListJournals(ctx context.Context, filter JournalListFilter, limit int, nextToken *string) ([]domain.Journal, *string, error)
}

// JournalWriter defines write operations for journal data
type JournalWriter interface {
	// SaveDraftJournal persists a new draft journal and its lines.
	// The store assigns the journal's sequence number; the saved journal is returned.
	SaveDraftJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) (*domain.Journal, error)

	// UpdateDraftJournal replaces the header fields and lines of a draft journal.
	// Returns ErrInvalidState if the journal is no longer a draft.
	UpdateDraftJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error

	// PostJournal atomically posts a draft journal: locks the touched accounts
	// in ascending id order, re-validates against their locked state, applies
	// the signed balance deltas, appends ledger rows carrying running balances,
	// and flips the journal DRAFT->POSTED. All of it succeeds or none of it does.
	// Returns ErrInvalidState if the journal is not a draft, ErrConcurrency if
	// the status flip loses a race, ErrConsistency if the account's stored
	// balance disagrees with its latest ledger row.
	PostJournal(ctx context.Context, journalID string, userID string, now time.Time) (*domain.Journal, error)

	// ReverseJournal atomically posts a reversing journal and flips the original
	// POSTED->REVERSED in the same database transaction. The reversal journal is
	// saved and posted through the same internal path as PostJournal.
	ReverseJournal(ctx context.Context, originalJournalID string, reversal domain.Journal, lines []domain.JournalLine) (*domain.Journal, error)
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
