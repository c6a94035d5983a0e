package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is one append-only row in an account's ledger, produced only by
// posting. Rows are never edited; a reversal appends new rows, it does not
// rewrite old ones. EntryNo records append order, and the running-balance
// chain follows EntryNo, not EntryDate: a backdated journal appends a row
// whose EntryDate precedes earlier rows.
type LedgerRow struct {
	RowID           string          `json:"rowID"`           // Primary Key (UUID)
	EntryNo         int64           `json:"entryNo"`         // Append-order serial; assigned by the store
	AccountID       string          `json:"accountID"`       // FK -> accounts.account_id
	JournalID       string          `json:"journalID"`       // FK -> journals.journal_id (source entry)
	JournalSequence int64           `json:"journalSequence"` // Denormalised journal sequence for stable ordering
	EntryDate       time.Time       `json:"entryDate"`       // Journal date of the source entry
	Description     string          `json:"description"`     // Line description at posting time
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	RunningBalance  decimal.Decimal `json:"runningBalance"` // Account balance after this row
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}
