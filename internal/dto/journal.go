package dto

import (
	"time"

	"github.com/bizdash/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalLineRequest is one proposed debit or credit line.
// Exactly one of debit/credit must be strictly positive; the dgte0 rule keeps
// both sides non-negative and the validator enforces the rest.
type CreateJournalLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit" binding:"dgte0"`
	Credit      decimal.Decimal `json:"credit" binding:"dgte0"`
}

// CreateJournalRequest defines the data needed to create a draft journal.
type CreateJournalRequest struct {
	Date         time.Time                  `json:"date" binding:"required"`
	Reference    string                     `json:"reference"`
	Description  string                     `json:"description" binding:"required"`
	CurrencyCode string                     `json:"currencyCode" binding:"required,len=3,uppercase"`
	Notes        string                     `json:"notes"`
	Lines        []CreateJournalLineRequest `json:"lines" binding:"required,min=2,dive"`
}

// UpdateJournalRequest replaces the mutable parts of a draft journal.
// Nil fields are left untouched; non-nil Lines replace all existing lines.
type UpdateJournalRequest struct {
	Date        *time.Time                  `json:"date"`
	Reference   *string                     `json:"reference"`
	Description *string                     `json:"description"`
	Notes       *string                     `json:"notes"`
	Lines       *[]CreateJournalLineRequest `json:"lines" binding:"omitempty,min=2,dive"`
}

// ReverseJournalRequest carries the reason recorded on the reversal's notes.
type ReverseJournalRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListJournalsParams holds parameters for listing journals.
type ListJournalsParams struct {
	Status           *domain.JournalStatus `form:"status" binding:"omitempty,oneof=DRAFT POSTED REVERSED"`
	IncludeReversals bool                  `form:"includeReversals"`
	IncludeLines     bool                  `form:"includeLines"`
	Limit            int                   `form:"limit"`
	NextToken        *string               `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal line.
type JournalLineResponse struct {
	LineID      string          `json:"lineID"`
	LineNo      int32           `json:"lineNo"`
	AccountID   string          `json:"accountID"`
	Description string          `json:"description"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// JournalResponse defines the data returned for a journal entry.
type JournalResponse struct {
	JournalID          string                `json:"journalID"`
	SequenceNo         int64                 `json:"sequenceNo"`
	Date               time.Time             `json:"date"`
	Reference          string                `json:"reference"`
	Description        string                `json:"description"`
	CurrencyCode       string                `json:"currencyCode"`
	Status             domain.JournalStatus  `json:"status"`
	Notes              string                `json:"notes,omitempty"`
	Amount             decimal.Decimal       `json:"amount"`
	OriginalJournalID  *string               `json:"originalJournalID,omitempty"`
	ReversingJournalID *string               `json:"reversingJournalID,omitempty"`
	Lines              []JournalLineResponse `json:"lines,omitempty"`
	CreatedAt          time.Time             `json:"createdAt"`
	CreatedBy          string                `json:"createdBy"`
}

// ListJournalsResponse is a page of journals plus the cursor for the next page.
type ListJournalsResponse struct {
	Journals  []JournalResponse `json:"journals"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToJournalLineResponse converts a domain.JournalLine to JournalLineResponse DTO.
func ToJournalLineResponse(line *domain.JournalLine) JournalLineResponse {
	return JournalLineResponse{
		LineID:      line.LineID,
		LineNo:      line.LineNo,
		AccountID:   line.AccountID,
		Description: line.Description,
		Debit:       line.Debit,
		Credit:      line.Credit,
	}
}

// ToJournalResponse converts a domain.Journal to JournalResponse DTO.
func ToJournalResponse(j *domain.Journal) JournalResponse {
	resp := JournalResponse{
		JournalID:          j.JournalID,
		SequenceNo:         j.SequenceNo,
		Date:               j.JournalDate,
		Reference:          j.Reference,
		Description:        j.Description,
		CurrencyCode:       j.CurrencyCode,
		Status:             j.Status,
		Notes:              j.Notes,
		Amount:             j.Amount,
		OriginalJournalID:  j.OriginalJournalID,
		ReversingJournalID: j.ReversingJournalID,
		CreatedAt:          j.CreatedAt,
		CreatedBy:          j.CreatedBy,
	}
	if len(j.Lines) > 0 {
		resp.Lines = make([]JournalLineResponse, len(j.Lines))
		for i := range j.Lines {
			resp.Lines[i] = ToJournalLineResponse(&j.Lines[i])
		}
	}
	return resp
}
