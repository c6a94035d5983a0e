package domain

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

// Journal represents a single, balanced financial event composed of multiple lines.
// While DRAFT the journal and its lines are freely mutable; once POSTED both are
// immutable forever. The only legal transitions are DRAFT->POSTED and POSTED->REVERSED.
type Journal struct {
	JournalID    string        `json:"journalID"`    // Primary Key (UUID)
	SequenceNo   int64         `json:"sequenceNo"`   // Unique, monotonically increasing; assigned by the store
	JournalDate  time.Time     `json:"journalDate"`  // Date the event occurred
	Reference    string        `json:"reference"`    // External reference string (invoice number, etc.)
	Description  string        `json:"description"`  // User description
	CurrencyCode string        `json:"currencyCode"` // Currency of all lines (Not Null)
	Status       JournalStatus `json:"status"`
	Notes        string        `json:"notes"` // Nullable free-form notes

	// OriginalJournalID is set on a reversing journal and points at the journal it offsets.
	OriginalJournalID *string `json:"originalJournalID,omitempty"`
	// ReversingJournalID is set on a reversed journal and points at its reversal.
	ReversingJournalID *string `json:"reversingJournalID,omitempty"`

	// Amount is the journal's economic value: the debit-side total of a balanced journal.
	Amount decimal.Decimal `json:"amount"`

	Lines []JournalLine `json:"lines,omitempty"` // Often loaded separately
	AuditFields
}

// JournalLine is a single debit or credit against one leaf account.
// Exactly one of Debit/Credit is strictly positive; the other is exactly zero.
type JournalLine struct {
	LineID      string          `json:"lineID"`    // Primary Key (UUID)
	JournalID   string          `json:"journalID"` // FK -> journals.journal_id (Not Null)
	LineNo      int32           `json:"lineNo"`    // 1-based position within the journal as submitted
	AccountID   string          `json:"accountID"` // FK -> accounts.account_id (Not Null)
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	AuditFields
}

// IsDebit reports whether the line sits on the debit side.
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

// Amount returns the line's magnitude regardless of side.
func (l JournalLine) Amount() decimal.Decimal {
	if l.IsDebit() {
		return l.Debit
	}
	return l.Credit
}
