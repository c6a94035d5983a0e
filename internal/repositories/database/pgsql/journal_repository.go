package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/bizdash/backend/internal/apperrors"
	"github.com/bizdash/backend/internal/core/domain"
	portsrepo "github.com/bizdash/backend/internal/core/ports/repositories"
	"github.com/bizdash/backend/internal/models"
	"github.com/bizdash/backend/internal/utils/accounting"
	"github.com/bizdash/backend/internal/utils/mapping"
	"github.com/bizdash/backend/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const journalColumns = `journal_id, sequence_no, journal_date, reference, description, currency_code, status, notes, original_journal_id, reversing_journal_id, amount, created_at, created_by, last_updated_at, last_updated_by`

const lineInsertQuery = `
	INSERT INTO journal_lines (line_id, journal_id, line_no, account_id, description, debit, credit, created_at, created_by, last_updated_at, last_updated_by)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

// newPgxJournalRepository creates a new repository for journal and ledger data.
// It needs the concrete account repository for the row-locking helpers used
// inside the posting transaction.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// scanJournal scans one journals row from any pgx row source.
func scanJournal(row pgx.Row) (models.Journal, error) {
	var m models.Journal
	var originalID sql.NullString
	var reversingID sql.NullString

	err := row.Scan(
		&m.JournalID,
		&m.SequenceNo,
		&m.JournalDate,
		&m.Reference,
		&m.Description,
		&m.CurrencyCode,
		&m.Status,
		&m.Notes,
		&originalID,
		&reversingID,
		&m.Amount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Journal{}, err
	}
	if originalID.Valid {
		m.OriginalJournalID = &originalID.String
	}
	if reversingID.Valid {
		m.ReversingJournalID = &reversingID.String
	}
	return m, nil
}

// insertJournalInTx inserts a journal row and returns its assigned sequence number.
func insertJournalInTx(ctx context.Context, tx pgx.Tx, journal domain.Journal) (int64, error) {
	modelJournal := mapping.ToModelJournal(journal)
	query := `
		INSERT INTO journals (
			journal_id, journal_date, reference, description, currency_code, status, notes,
			original_journal_id, reversing_journal_id, amount,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING sequence_no;
	`
	var sequenceNo int64
	err := tx.QueryRow(ctx, query,
		modelJournal.JournalID,
		modelJournal.JournalDate,
		modelJournal.Reference,
		modelJournal.Description,
		modelJournal.CurrencyCode,
		modelJournal.Status,
		modelJournal.Notes,
		modelJournal.OriginalJournalID,
		modelJournal.ReversingJournalID,
		modelJournal.Amount,
		modelJournal.CreatedAt,
		modelJournal.CreatedBy,
		modelJournal.LastUpdatedAt,
		modelJournal.LastUpdatedBy,
	).Scan(&sequenceNo)
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to insert journal "+modelJournal.JournalID, err)
	}
	return sequenceNo, nil
}

// insertLinesInTx batch-inserts journal lines.
func insertLinesInTx(ctx context.Context, tx pgx.Tx, journalID string, lines []domain.JournalLine) error {
	batch := &pgx.Batch{}
	for _, line := range lines {
		modelLine := mapping.ToModelJournalLine(line)
		batch.Queue(lineInsertQuery,
			modelLine.LineID,
			journalID,
			modelLine.LineNo,
			modelLine.AccountID,
			modelLine.Description,
			modelLine.Debit,
			modelLine.Credit,
			modelLine.CreatedAt,
			modelLine.CreatedBy,
			modelLine.LastUpdatedAt,
			modelLine.LastUpdatedBy,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute line batch for journal "+journalID, err)
	}
	return nil
}

// SaveDraftJournal persists a new draft journal and its lines in one transaction.
// The database assigns the journal's sequence number.
func (r *PgxJournalRepository) SaveDraftJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) (*domain.Journal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	journal.Status = domain.Draft
	sequenceNo, err := insertJournalInTx(ctx, tx, journal)
	if err != nil {
		return nil, err
	}
	journal.SequenceNo = sequenceNo

	if err := insertLinesInTx(ctx, tx, journal.JournalID, lines); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return &journal, nil
}

// FindJournalByID retrieves a journal by its ID.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`

	modelJournal, err := scanJournal(r.Pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal by ID "+journalID, err)
	}

	domainJournal := mapping.ToDomainJournal(modelJournal)
	return &domainJournal, nil
}

// FindLinesByJournalID retrieves all lines belonging to a single journal in
// the order they were submitted.
func (r *PgxJournalRepository) FindLinesByJournalID(ctx context.Context, journalID string) ([]domain.JournalLine, error) {
	query := `
		SELECT line_id, journal_id, line_no, account_id, description, debit, credit, created_at, created_by, last_updated_at, last_updated_by
		FROM journal_lines
		WHERE journal_id = $1
		ORDER BY line_no;
	`
	rows, err := r.Pool.Query(ctx, query, journalID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal "+journalID, err)
	}
	defer rows.Close()

	modelLines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		err := rows.Scan(
			&l.LineID,
			&l.JournalID,
			&l.LineNo,
			&l.AccountID,
			&l.Description,
			&l.Debit,
			&l.Credit,
			&l.CreatedAt,
			&l.CreatedBy,
			&l.LastUpdatedAt,
			&l.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan line row for journal "+journalID, err)
		}
		modelLines = append(modelLines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating line rows for journal "+journalID, err)
	}

	return mapping.ToDomainJournalLineSlice(modelLines), nil
}

// ListJournals retrieves a paginated list of journals using token-based pagination.
// Ordering is (journal_date, sequence_no) descending; the sequence number makes
// the cursor stable when many journals share one date.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, filter portsrepo.JournalListFilter, limit int, nextToken *string) ([]domain.Journal, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + journalColumns + ` FROM journals`

	filterClause := ``
	args := []interface{}{}
	addCondition := func(cond string) {
		if filterClause == "" {
			filterClause = "WHERE " + cond
		} else {
			filterClause += " AND " + cond
		}
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		addCondition("status = $" + strconv.Itoa(len(args)))
	}
	if !filter.IncludeReversals {
		addCondition("original_journal_id IS NULL")
	}

	orderByClause := `ORDER BY journal_date DESC, sequence_no DESC`

	if nextToken != nil && *nextToken != "" {
		lastDate, lastSequence, decodeErr := pagination.DecodeSequenceToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		// Tuple comparison is concise and efficient in Postgres
		args = append(args, lastDate, lastSequence)
		addCondition("(journal_date, sequence_no) < ($" + strconv.Itoa(len(args)-1) + ", $" + strconv.Itoa(len(args)) + ")")
	}

	args = append(args, fetchLimit)
	query := baseQuery + " " + filterClause + " " + orderByClause + " LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journals", err)
	}
	defer rows.Close()

	modelJournals := make([]models.Journal, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanJournal(rows)
		if scanErr != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal row", scanErr)
		}
		modelJournals = append(modelJournals, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal rows", err)
	}

	// Determine the next token; it points to the last item included in this page
	var nextTokenVal *string
	results := modelJournals
	if len(modelJournals) > limit {
		lastJournal := modelJournals[limit-1]
		newToken := pagination.EncodeSequenceToken(lastJournal.JournalDate, lastJournal.SequenceNo)
		nextTokenVal = &newToken
		results = modelJournals[:limit]
	}

	domainJournals := make([]domain.Journal, len(results))
	for i, m := range results {
		domainJournals[i] = mapping.ToDomainJournal(m)
	}
	return domainJournals, nextTokenVal, nil
}

// UpdateDraftJournal replaces the header fields and lines of a draft journal.
// The status guard on the UPDATE keeps posted history immutable even if the
// journal was posted between the service's read and this write.
func (r *PgxJournalRepository) UpdateDraftJournal(ctx context.Context, journal domain.Journal, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	modelJournal := mapping.ToModelJournal(journal)
	query := `
		UPDATE journals
		SET journal_date = $2, reference = $3, description = $4, notes = $5, amount = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE journal_id = $1 AND status = $9;
	`
	cmdTag, err := tx.Exec(ctx, query,
		modelJournal.JournalID,
		modelJournal.JournalDate,
		modelJournal.Reference,
		modelJournal.Description,
		modelJournal.Notes,
		modelJournal.Amount,
		modelJournal.LastUpdatedAt,
		modelJournal.LastUpdatedBy,
		models.Draft,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update draft journal "+modelJournal.JournalID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindJournalByID(ctx, journal.JournalID); errors.Is(findErr, apperrors.ErrNotFound) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("journal %s is no longer a draft: %w", journal.JournalID, apperrors.ErrInvalidState)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE journal_id = $1;`, journal.JournalID); err != nil {
		return apperrors.NewAppError(500, "failed to delete lines of draft journal "+journal.JournalID, err)
	}
	if err := insertLinesInTx(ctx, tx, journal.JournalID, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// currencyPrecisionInTx reads the minor-unit precision of a currency inside tx.
func currencyPrecisionInTx(ctx context.Context, tx pgx.Tx, currencyCode string) (int32, error) {
	var precision int32
	err := tx.QueryRow(ctx, `SELECT precision FROM currencies WHERE currency_code = $1;`, currencyCode).Scan(&precision)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 2, nil // sensible default when the currency is not registered
		}
		return 0, apperrors.NewAppError(500, "failed to read precision for currency "+currencyCode, err)
	}
	return precision, nil
}

// checkLedgerConsistencyInTx verifies, for each locked account, that the stored
// balance matches the running balance of its latest ledger row (or its opening
// balance if it has no rows yet). Latest means highest entry_no, the append
// order the running-balance chain follows; the latest entry_date can belong to
// an older row once a backdated journal has been posted. A mismatch means the
// ledger is corrupt and posting to the affected account must stop until an
// operator intervenes.
func checkLedgerConsistencyInTx(ctx context.Context, tx pgx.Tx, lockedAccounts map[string]domain.Account) error {
	accountIDs := make([]string, 0, len(lockedAccounts))
	for id := range lockedAccounts {
		accountIDs = append(accountIDs, id)
	}

	query := `
		SELECT DISTINCT ON (account_id) account_id, running_balance
		FROM ledger_rows
		WHERE account_id = ANY($1)
		ORDER BY account_id, entry_no DESC;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query latest ledger rows", err)
	}
	defer rows.Close()

	latest := make(map[string]decimal.Decimal)
	for rows.Next() {
		var accountID string
		var runningBalance decimal.Decimal
		if err := rows.Scan(&accountID, &runningBalance); err != nil {
			return apperrors.NewAppError(500, "failed to scan latest ledger row", err)
		}
		latest[accountID] = runningBalance
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating latest ledger rows", err)
	}

	for id, acc := range lockedAccounts {
		expected, hasRows := latest[id]
		if !hasRows {
			expected = acc.OpeningBalance
		}
		if !acc.Balance.Equal(expected) {
			return fmt.Errorf("account %s stores balance %s but its ledger says %s: %w",
				acc.Code, acc.Balance.String(), expected.String(), apperrors.ErrConsistency)
		}
	}
	return nil
}

// postJournalInTx runs the core posting sequence for an already-inserted draft
// journal inside tx: lock accounts, re-validate, verify ledger consistency,
// apply balance deltas, append ledger rows with running balances, and flip the
// journal DRAFT->POSTED behind a status guard.
func (r *PgxJournalRepository) postJournalInTx(ctx context.Context, tx pgx.Tx, journal *domain.Journal, lines []domain.JournalLine, userID string, now time.Time) error {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; ok {
			continue
		}
		seen[line.AccountID] = struct{}{}
		accountIDs = append(accountIDs, line.AccountID)
	}
	sort.Strings(accountIDs)

	lockedAccounts, err := r.accountRepo.findAccountsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return err
	}

	// Re-validate against the locked state; an account may have been archived
	// since the draft passed validation.
	precision, err := currencyPrecisionInTx(ctx, tx, journal.CurrencyCode)
	if err != nil {
		return err
	}
	if err := accounting.ValidateJournal(lines, lockedAccounts, precision); err != nil {
		return err
	}

	if err := checkLedgerConsistencyInTx(ctx, tx, lockedAccounts); err != nil {
		return err
	}

	balanceChanges, err := accounting.BalanceChanges(lines, lockedAccounts)
	if err != nil {
		return err
	}
	if err := r.accountRepo.applyBalanceDeltasInTx(ctx, tx, balanceChanges, userID, now); err != nil {
		return err
	}

	// Append ledger rows carrying the running balance after each line.
	// Lines are processed in submitted line order so the running balances
	// within one journal are deterministic, and the database assigns each
	// row's entry_no in that same order.
	sorted := make([]domain.JournalLine, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].LineNo < sorted[j].LineNo
	})

	ledgerQuery := `
		INSERT INTO ledger_rows (row_id, account_id, journal_id, journal_sequence, entry_date, description, debit, credit, running_balance, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	runningBalances := make(map[string]decimal.Decimal, len(lockedAccounts))
	for id, acc := range lockedAccounts {
		runningBalances[id] = acc.Balance // balance before this journal's changes
	}

	batch := &pgx.Batch{}
	for _, line := range sorted {
		acc := lockedAccounts[line.AccountID]
		delta, err := accounting.SignedDelta(line, acc.AccountType)
		if err != nil {
			return apperrors.NewAppError(500, "failed to compute signed amount for line "+line.LineID, err)
		}
		newRunningBalance := runningBalances[line.AccountID].Add(delta)
		runningBalances[line.AccountID] = newRunningBalance

		batch.Queue(ledgerQuery,
			uuid.NewString(),
			line.AccountID,
			journal.JournalID,
			journal.SequenceNo,
			journal.JournalDate,
			line.Description,
			line.Debit,
			line.Credit,
			newRunningBalance,
			now,
			userID,
		)
	}
	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		return apperrors.NewAppError(500, "failed to execute ledger row batch for journal "+journal.JournalID, err)
	}

	// Status guard: zero rows here means another poster won the race.
	flipQuery := `
		UPDATE journals
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE journal_id = $1 AND status = $5;
	`
	cmdTag, err := tx.Exec(ctx, flipQuery, journal.JournalID, models.Posted, now, userID, models.Draft)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark journal "+journal.JournalID+" as posted", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("journal %s was modified concurrently: %w", journal.JournalID, apperrors.ErrConcurrency)
	}

	journal.Status = domain.Posted
	journal.LastUpdatedAt = now
	journal.LastUpdatedBy = userID
	return nil
}

// PostJournal atomically posts a draft journal.
func (r *PgxJournalRepository) PostJournal(ctx context.Context, journalID string, userID string, now time.Time) (*domain.Journal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Lock the journal row first so concurrent post attempts serialize here
	lockQuery := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1 FOR UPDATE;`
	modelJournal, err := scanJournal(tx.QueryRow(ctx, lockQuery, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock journal "+journalID, err)
	}
	journal := mapping.ToDomainJournal(modelJournal)
	if journal.Status != domain.Draft {
		return nil, fmt.Errorf("journal %s is %s, only drafts can be posted: %w", journalID, journal.Status, apperrors.ErrInvalidState)
	}

	lines, err := r.FindLinesByJournalID(ctx, journalID)
	if err != nil {
		return nil, err
	}

	if err := r.postJournalInTx(ctx, tx, &journal, lines, userID, now); err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	journal.Lines = lines
	return &journal, nil
}

// ReverseJournal atomically saves and posts a reversing journal and flips the
// original POSTED->REVERSED, all inside one database transaction. Either the
// reversal pair fully exists or nothing changed.
func (r *PgxJournalRepository) ReverseJournal(ctx context.Context, originalJournalID string, reversal domain.Journal, lines []domain.JournalLine) (*domain.Journal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Lock the original so two reversal attempts serialize on it
	lockQuery := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1 FOR UPDATE;`
	modelOriginal, err := scanJournal(tx.QueryRow(ctx, lockQuery, originalJournalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to lock journal "+originalJournalID, err)
	}
	original := mapping.ToDomainJournal(modelOriginal)
	if original.Status != domain.Posted {
		return nil, fmt.Errorf("journal %s is %s, only posted journals can be reversed: %w",
			originalJournalID, original.Status, apperrors.ErrInvalidState)
	}

	now := reversal.CreatedAt
	userID := reversal.CreatedBy

	reversal.Status = domain.Draft
	reversal.OriginalJournalID = &originalJournalID
	sequenceNo, err := insertJournalInTx(ctx, tx, reversal)
	if err != nil {
		return nil, err
	}
	reversal.SequenceNo = sequenceNo

	if err := insertLinesInTx(ctx, tx, reversal.JournalID, lines); err != nil {
		return nil, err
	}

	if err := r.postJournalInTx(ctx, tx, &reversal, lines, userID, now); err != nil {
		return nil, err
	}

	markQuery := `
		UPDATE journals
		SET status = $2, reversing_journal_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE journal_id = $1 AND status = $6;
	`
	cmdTag, err := tx.Exec(ctx, markQuery, originalJournalID, models.Reversed, reversal.JournalID, now, userID, models.Posted)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to mark journal "+originalJournalID+" as reversed", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return nil, fmt.Errorf("journal %s was modified concurrently: %w", originalJournalID, apperrors.ErrConcurrency)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	reversal.Lines = lines
	return &reversal, nil
}
