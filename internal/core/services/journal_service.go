package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizdash/backend/internal/apperrors"
	"github.com/bizdash/backend/internal/core/domain"
	portsrepo "github.com/bizdash/backend/internal/core/ports/repositories"
	portssvc "github.com/bizdash/backend/internal/core/ports/services"
	"github.com/bizdash/backend/internal/dto"
	"github.com/bizdash/backend/internal/utils/accounting"
	"github.com/google/uuid"
)

// defaultCurrencyPrecision is used when the journal's currency is not found in
// the currency registry. Two decimal places covers the common case.
const defaultCurrencyPrecision int32 = 2

// journalService drives the journal lifecycle: draft creation and editing,
// posting, and reversal. Validation lives in the accounting package so the
// same checks run at draft time and again inside the posting transaction.
type journalService struct {
	BaseService
	journalRepo  portsrepo.JournalRepositoryFacade
	accountRepo  portsrepo.AccountReader
	currencyRepo portsrepo.CurrencyReader
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalCurrencyReader adds the currency registry dependency used to
// resolve each journal's currency precision.
func WithJournalCurrencyReader(repo portsrepo.CurrencyReader) JournalServiceOption {
	return func(s *journalService) {
		s.currencyRepo = repo
	}
}

// NewJournalService creates a new journal service with the provided options
func NewJournalService(journalRepo portsrepo.JournalRepositoryFacade, accountRepo portsrepo.AccountReader, options ...JournalServiceOption) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo: journalRepo,
		accountRepo: accountRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// currencyPrecision resolves the minor-unit precision for a currency code.
func (s *journalService) currencyPrecision(ctx context.Context, currencyCode string) int32 {
	if s.currencyRepo == nil {
		return defaultCurrencyPrecision
	}
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, currencyCode)
	if err != nil {
		s.LogWarn(ctx, "Currency not found, using default precision",
			slog.String("currency_code", currencyCode))
		return defaultCurrencyPrecision
	}
	return currency.Precision
}

// buildLines converts request lines into domain lines carrying fresh line IDs
// and 1-based line numbers preserving the submitted order.
func buildLines(journalID string, reqLines []dto.CreateJournalLineRequest, userID string, now time.Time) []domain.JournalLine {
	lines := make([]domain.JournalLine, len(reqLines))
	for i, rl := range reqLines {
		lines[i] = domain.JournalLine{
			LineID:      uuid.NewString(),
			JournalID:   journalID,
			LineNo:      int32(i + 1),
			AccountID:   rl.AccountID,
			Description: rl.Description,
			Debit:       rl.Debit,
			Credit:      rl.Credit,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines
}

// validateLines loads the referenced accounts and runs the full journal
// validation against them at the journal currency's precision.
func (s *journalService) validateLines(ctx context.Context, lines []domain.JournalLine, currencyCode string) (map[string]domain.Account, error) {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		accountIDs = append(accountIDs, line.AccountID)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to load accounts for journal validation")
		return nil, fmt.Errorf("failed to load accounts: %w", err)
	}

	for _, acc := range accounts {
		if acc.CurrencyCode != currencyCode {
			return nil, fmt.Errorf("account %s uses currency %s, journal uses %s: %w",
				acc.Code, acc.CurrencyCode, currencyCode, apperrors.ErrValidation)
		}
	}

	precision := s.currencyPrecision(ctx, currencyCode)
	if err := accounting.ValidateJournal(lines, accounts, precision); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *journalService) CreateJournal(ctx context.Context, req dto.CreateJournalRequest, creatorUserID string) (*domain.Journal, error) {
	now := time.Now().UTC()
	journalID := uuid.NewString()
	lines := buildLines(journalID, req.Lines, creatorUserID, now)

	if _, err := s.validateLines(ctx, lines, req.CurrencyCode); err != nil {
		s.LogWarn(ctx, "Journal validation failed", slog.String("error", err.Error()))
		return nil, err
	}

	journal := domain.Journal{
		JournalID:    journalID,
		JournalDate:  req.Date,
		Reference:    req.Reference,
		Description:  req.Description,
		CurrencyCode: req.CurrencyCode,
		Status:       domain.Draft,
		Notes:        req.Notes,
		Amount:       accounting.JournalAmount(lines),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	saved, err := s.journalRepo.SaveDraftJournal(ctx, journal, lines)
	if err != nil {
		s.LogError(ctx, err, "Failed to save draft journal",
			slog.String("journal_id", journalID))
		return nil, err
	}
	saved.Lines = lines

	s.LogInfo(ctx, "Draft journal created",
		slog.String("journal_id", saved.JournalID),
		slog.Int64("sequence_no", saved.SequenceNo))
	return saved, nil
}

func (s *journalService) GetJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	journal, err := s.journalRepo.FindJournalByID(ctx, journalID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal",
				slog.String("journal_id", journalID))
		}
		return nil, err
	}
	lines, err := s.journalRepo.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		s.LogError(ctx, err, "Failed to load journal lines",
			slog.String("journal_id", journalID))
		return nil, err
	}
	journal.Lines = lines
	return journal, nil
}

func (s *journalService) ListJournals(ctx context.Context, params dto.ListJournalsParams) (*dto.ListJournalsResponse, error) {
	limit := params.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	filter := portsrepo.JournalListFilter{
		Status:           params.Status,
		IncludeReversals: params.IncludeReversals,
	}
	journals, nextToken, err := s.journalRepo.ListJournals(ctx, filter, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journals")
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}

	resp := &dto.ListJournalsResponse{
		Journals:  make([]dto.JournalResponse, 0, len(journals)),
		NextToken: nextToken,
	}
	for i := range journals {
		if params.IncludeLines {
			lines, err := s.journalRepo.FindLinesByJournalID(ctx, journals[i].JournalID)
			if err != nil {
				s.LogError(ctx, err, "Failed to load journal lines",
					slog.String("journal_id", journals[i].JournalID))
				return nil, err
			}
			journals[i].Lines = lines
		}
		resp.Journals = append(resp.Journals, dto.ToJournalResponse(&journals[i]))
	}
	return resp, nil
}

func (s *journalService) UpdateJournal(ctx context.Context, journalID string, req dto.UpdateJournalRequest, requestingUserID string) (*domain.Journal, error) {
	journal, err := s.GetJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	// Posted history is immutable; only drafts may change
	if journal.Status != domain.Draft {
		return nil, fmt.Errorf("journal %s is %s and cannot be edited: %w",
			journalID, journal.Status, apperrors.ErrInvalidState)
	}

	now := time.Now().UTC()
	if req.Date != nil {
		journal.JournalDate = *req.Date
	}
	if req.Reference != nil {
		journal.Reference = *req.Reference
	}
	if req.Description != nil {
		journal.Description = *req.Description
	}
	if req.Notes != nil {
		journal.Notes = *req.Notes
	}

	lines := journal.Lines
	if req.Lines != nil {
		lines = buildLines(journalID, *req.Lines, requestingUserID, now)
	}
	if _, err := s.validateLines(ctx, lines, journal.CurrencyCode); err != nil {
		s.LogWarn(ctx, "Journal validation failed on update",
			slog.String("journal_id", journalID),
			slog.String("error", err.Error()))
		return nil, err
	}

	journal.Amount = accounting.JournalAmount(lines)
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = requestingUserID

	if err := s.journalRepo.UpdateDraftJournal(ctx, *journal, lines); err != nil {
		s.LogError(ctx, err, "Failed to update draft journal",
			slog.String("journal_id", journalID))
		return nil, err
	}
	journal.Lines = lines

	s.LogInfo(ctx, "Draft journal updated", slog.String("journal_id", journalID))
	return journal, nil
}

func (s *journalService) PostJournal(ctx context.Context, journalID string, userID string) (*domain.Journal, error) {
	journal, err := s.GetJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	if journal.Status != domain.Draft {
		return nil, fmt.Errorf("journal %s is %s, only drafts can be posted: %w",
			journalID, journal.Status, apperrors.ErrInvalidState)
	}

	// Fail fast on validation before opening a transaction. The repository
	// re-runs the same checks against the locked account state.
	if _, err := s.validateLines(ctx, journal.Lines, journal.CurrencyCode); err != nil {
		s.LogWarn(ctx, "Journal failed validation at posting time",
			slog.String("journal_id", journalID),
			slog.String("error", err.Error()))
		return nil, err
	}

	posted, err := s.journalRepo.PostJournal(ctx, journalID, userID, time.Now().UTC())
	if err != nil {
		s.LogError(ctx, err, "Failed to post journal",
			slog.String("journal_id", journalID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal posted",
		slog.String("journal_id", posted.JournalID),
		slog.Int64("sequence_no", posted.SequenceNo))
	return posted, nil
}

func (s *journalService) ReverseJournal(ctx context.Context, journalID string, reason string, userID string) (*domain.Journal, error) {
	original, err := s.GetJournalByID(ctx, journalID)
	if err != nil {
		return nil, err
	}
	switch original.Status {
	case domain.Posted:
		// ok
	case domain.Reversed:
		return nil, fmt.Errorf("journal %s has already been reversed: %w", journalID, apperrors.ErrInvalidState)
	default:
		return nil, fmt.Errorf("journal %s is %s, only posted journals can be reversed: %w",
			journalID, original.Status, apperrors.ErrInvalidState)
	}

	now := time.Now().UTC()
	reversalID := uuid.NewString()
	mirrored := accounting.MirrorLines(original.Lines)
	for i := range mirrored {
		mirrored[i].LineID = uuid.NewString()
		mirrored[i].JournalID = reversalID
		mirrored[i].AuditFields = domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		}
	}

	reversal := domain.Journal{
		JournalID:         reversalID,
		JournalDate:       now,
		Reference:         original.Reference,
		Description:       fmt.Sprintf("Reversal of %s", original.Reference),
		CurrencyCode:      original.CurrencyCode,
		Status:            domain.Draft,
		Notes:             reason,
		Amount:            original.Amount,
		OriginalJournalID: &original.JournalID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if original.Reference == "" {
		reversal.Description = fmt.Sprintf("Reversal of journal %s", original.JournalID)
	}

	saved, err := s.journalRepo.ReverseJournal(ctx, journalID, reversal, mirrored)
	if err != nil {
		s.LogError(ctx, err, "Failed to reverse journal",
			slog.String("journal_id", journalID))
		return nil, err
	}
	saved.Lines = mirrored

	s.LogInfo(ctx, "Journal reversed",
		slog.String("original_journal_id", journalID),
		slog.String("reversing_journal_id", saved.JournalID))
	return saved, nil
}
