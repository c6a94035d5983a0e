package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow represents a ledger_rows table row. Append-only.
type LedgerRow struct {
	RowID           string          `db:"row_id"`
	EntryNo         int64           `db:"entry_no"`
	AccountID       string          `db:"account_id"`
	JournalID       string          `db:"journal_id"`
	JournalSequence int64           `db:"journal_sequence"`
	EntryDate       time.Time       `db:"entry_date"`
	Description     string          `db:"description"`
	Debit           decimal.Decimal `db:"debit"`
	Credit          decimal.Decimal `db:"credit"`
	RunningBalance  decimal.Decimal `db:"running_balance"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
}
