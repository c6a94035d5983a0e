package pgsql

import (
	"context"
	"strconv"
	"time"

	"github.com/bizdash/backend/internal/apperrors"
	"github.com/bizdash/backend/internal/core/domain"
	portsrepo "github.com/bizdash/backend/internal/core/ports/repositories"
	"github.com/bizdash/backend/internal/models"
	"github.com/bizdash/backend/internal/utils/mapping"
	"github.com/bizdash/backend/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const ledgerColumns = `row_id, entry_no, account_id, journal_id, journal_sequence, entry_date, description, debit, credit, running_balance, created_at, created_by`

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new read-only repository over ledger rows.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerReader {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerReader
var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

func scanLedgerRows(rows pgx.Rows) ([]models.LedgerRow, error) {
	modelRows := []models.LedgerRow{}
	for rows.Next() {
		var m models.LedgerRow
		err := rows.Scan(
			&m.RowID,
			&m.EntryNo,
			&m.AccountID,
			&m.JournalID,
			&m.JournalSequence,
			&m.EntryDate,
			&m.Description,
			&m.Debit,
			&m.Credit,
			&m.RunningBalance,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan ledger row", err)
		}
		modelRows = append(modelRows, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating ledger rows", err)
	}
	return modelRows, nil
}

// ListLedgerRows retrieves a date-filtered, token-paginated slice of an
// account's ledger in ascending (entry_date, journal_sequence, entry_no)
// order. The unique entry number both breaks ties between rows one journal
// posted against the same account and makes the resume cursor exact.
func (r *PgxLedgerRepository) ListLedgerRows(ctx context.Context, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerRow, *string, error) {
	if limit <= 0 {
		limit = 50
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + ledgerColumns + ` FROM ledger_rows WHERE account_id = $1`
	args := []interface{}{accountID}

	if from != nil {
		args = append(args, *from)
		query += ` AND entry_date >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND entry_date <= $` + strconv.Itoa(len(args))
	}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastSequence, lastEntryNo, decodeErr := pagination.DecodeLedgerToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		args = append(args, lastDate, lastSequence, lastEntryNo)
		query += ` AND (entry_date, journal_sequence, entry_no) > ($` + strconv.Itoa(len(args)-2) +
			`, $` + strconv.Itoa(len(args)-1) + `, $` + strconv.Itoa(len(args)) + `)`
	}

	args = append(args, fetchLimit)
	query += ` ORDER BY entry_date, journal_sequence, entry_no LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger rows for account "+accountID, err)
	}
	defer rows.Close()

	modelRows, err := scanLedgerRows(rows)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	results := modelRows
	if len(modelRows) > limit {
		lastRow := modelRows[limit-1]
		newToken := pagination.EncodeLedgerToken(lastRow.EntryDate, lastRow.JournalSequence, lastRow.EntryNo)
		nextTokenVal = &newToken
		results = modelRows[:limit]
	}

	return mapping.ToDomainLedgerRowSlice(results), nextTokenVal, nil
}

// FindAllLedgerRows retrieves the complete ledger of an account in append
// order. Running balances chain in this order, so replaying the result slice
// front to back reproduces every stored running balance even when journals
// were backdated.
func (r *PgxLedgerRepository) FindAllLedgerRows(ctx context.Context, accountID string) ([]domain.LedgerRow, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_rows
		WHERE account_id = $1
		ORDER BY entry_no;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query full ledger for account "+accountID, err)
	}
	defer rows.Close()

	modelRows, err := scanLedgerRows(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerRowSlice(modelRows), nil
}
