package dto

import (
	"time"

	"github.com/bizdash/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// GetLedgerParams holds filters for reading an account's ledger.
type GetLedgerParams struct {
	From      *time.Time `form:"from" time_format:"2006-01-02"`
	To        *time.Time `form:"to" time_format:"2006-01-02"`
	Limit     int        `form:"limit"`
	NextToken *string    `form:"nextToken"`
}

// LedgerRowResponse defines the data returned for one ledger row.
type LedgerRowResponse struct {
	RowID           string          `json:"rowID"`
	JournalID       string          `json:"journalID"`
	JournalSequence int64           `json:"journalSequence"`
	EntryDate       time.Time       `json:"entryDate"`
	Description     string          `json:"description"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	RunningBalance  decimal.Decimal `json:"runningBalance"`
}

// GetLedgerResponse is a page of ledger rows plus the cursor for the next page.
type GetLedgerResponse struct {
	AccountID string              `json:"accountID"`
	Rows      []LedgerRowResponse `json:"rows"`
	NextToken *string             `json:"nextToken,omitempty"`
}

// ToLedgerRowResponse converts a domain.LedgerRow to LedgerRowResponse DTO.
func ToLedgerRowResponse(row *domain.LedgerRow) LedgerRowResponse {
	return LedgerRowResponse{
		RowID:           row.RowID,
		JournalID:       row.JournalID,
		JournalSequence: row.JournalSequence,
		EntryDate:       row.EntryDate,
		Description:     row.Description,
		Debit:           row.Debit,
		Credit:          row.Credit,
		RunningBalance:  row.RunningBalance,
	}
}

// ToLedgerRowResponses converts a slice of domain.LedgerRow to []LedgerRowResponse.
func ToLedgerRowResponses(rows []domain.LedgerRow) []LedgerRowResponse {
	responses := make([]LedgerRowResponse, len(rows))
	for i := range rows {
		responses[i] = ToLedgerRowResponse(&rows[i])
	}
	return responses
}
