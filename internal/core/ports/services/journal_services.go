package services

import (
	"context"

	"github.com/bizdash/backend/internal/core/domain"
	"github.com/bizdash/backend/internal/dto"
)

// JournalReaderSvc defines read operations for journal data
type JournalReaderSvc interface {
	// GetJournalByID retrieves a specific journal with its lines.
	GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error)

	// ListJournals retrieves a paginated list of journals.
	ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error)
}

// JournalWriterSvc defines write operations for journal data
type JournalWriterSvc interface {
	// CreateJournal creates a new draft journal with its lines after validation.
	CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error)

	// UpdateJournal replaces the header fields and lines of a draft journal.
	UpdateJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.Journal, error)

	// PostJournal re-validates a draft journal and atomically posts it,
	// applying balance deltas and appending ledger rows.
	PostJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error)

	// ReverseJournal posts an exact offsetting journal for a posted journal and
	// marks the original as reversed.
	ReverseJournal(ctx context.Context, journalID string, reason string, userID string) (*domain.Journal, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
