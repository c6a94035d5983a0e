package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalStatus indicates the state of a journal entry.
type JournalStatus string

const (
	Draft    JournalStatus = "DRAFT"
	Posted   JournalStatus = "POSTED"
	Reversed JournalStatus = "REVERSED"
)

// Journal represents a journals table row.
type Journal struct {
	JournalID          string          `db:"journal_id"`
	SequenceNo         int64           `db:"sequence_no"`
	JournalDate        time.Time       `db:"journal_date"`
	Reference          string          `db:"reference"`
	Description        string          `db:"description"`
	CurrencyCode       string          `db:"currency_code"`
	Status             JournalStatus   `db:"status"`
	Notes              string          `db:"notes"`
	OriginalJournalID  *string         `db:"original_journal_id"`
	ReversingJournalID *string         `db:"reversing_journal_id"`
	Amount             decimal.Decimal `db:"amount"`
	AuditFields
}

// JournalLine represents a journal_lines table row.
type JournalLine struct {
	LineID      string          `db:"line_id"`
	JournalID   string          `db:"journal_id"`
	LineNo      int32           `db:"line_no"`
	AccountID   string          `db:"account_id"`
	Description string          `db:"description"`
	Debit       decimal.Decimal `db:"debit"`
	Credit      decimal.Decimal `db:"credit"`
	AuditFields
}
