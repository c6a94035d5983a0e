package pgsql

import (
	"context"
	"time"

	"github.com/bizdash/backend/internal/apperrors"
	"github.com/bizdash/backend/internal/core/domain"
	portsrepo "github.com/bizdash/backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxReportingRepository struct {
	BaseRepository
}

// newPgxReportingRepository creates a new repository for aggregate reporting queries.
func newPgxReportingRepository(pool *pgxpool.Pool) portsrepo.ReportingRepository {
	return &PgxReportingRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReportingRepository implements portsrepo.ReportingRepository
var _ portsrepo.ReportingRepository = (*PgxReportingRepository)(nil)

// GetTrialBalanceData aggregates per-account activity over all ledger rows up
// to asOf. Each account is reported on one side only: the net of its debit and
// credit activity on its natural side. Accounts whose activity nets to zero,
// such as a reversed pair with no other postings, drop out entirely.
func (r *PgxReportingRepository) GetTrialBalanceData(ctx context.Context, asOf time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0) AS debit_total,
		       COALESCE(SUM(l.credit), 0) AS credit_total
		FROM ledger_rows l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.entry_date <= $1
		GROUP BY a.account_id, a.code, a.name, a.account_type
		HAVING SUM(l.debit) <> SUM(l.credit)
		ORDER BY a.code;
	`

	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query trial balance data", err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var debitTotal, creditTotal decimal.Decimal
		err := rows.Scan(
			&row.AccountID,
			&row.AccountCode,
			&row.AccountName,
			&row.AccountType,
			&debitTotal,
			&creditTotal,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan trial balance row", err)
		}

		// Net the activity onto a single side
		net := debitTotal.Sub(creditTotal)
		if net.IsPositive() {
			row.Debit = net
			row.Credit = decimal.Zero
		} else {
			row.Debit = decimal.Zero
			row.Credit = net.Neg()
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating trial balance rows", err)
	}
	return result, nil
}
