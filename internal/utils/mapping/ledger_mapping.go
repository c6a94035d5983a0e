package mapping

import (
	"github.com/bizdash/backend/internal/core/domain"
	"github.com/bizdash/backend/internal/models"
)

// ToDomainLedgerRow converts a model LedgerRow to a domain LedgerRow
func ToDomainLedgerRow(m models.LedgerRow) domain.LedgerRow {
	return domain.LedgerRow{
		RowID:           m.RowID,
		EntryNo:         m.EntryNo,
		AccountID:       m.AccountID,
		JournalID:       m.JournalID,
		JournalSequence: m.JournalSequence,
		EntryDate:       m.EntryDate,
		Description:     m.Description,
		Debit:           m.Debit,
		Credit:          m.Credit,
		RunningBalance:  m.RunningBalance,
		CreatedAt:       m.CreatedAt,
		CreatedBy:       m.CreatedBy,
	}
}

// ToDomainLedgerRowSlice converts a slice of model LedgerRows to domain LedgerRows
func ToDomainLedgerRowSlice(ms []models.LedgerRow) []domain.LedgerRow {
	ds := make([]domain.LedgerRow, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerRow(m)
	}
	return ds
}

// ToDomainCurrency converts a model Currency to a domain Currency
func ToDomainCurrency(m models.Currency) domain.Currency {
	return domain.Currency{
		CurrencyCode: m.CurrencyCode,
		Symbol:       m.Symbol,
		Name:         m.Name,
		Precision:    m.Precision,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCurrency converts a domain Currency to a model Currency
func ToModelCurrency(d domain.Currency) models.Currency {
	return models.Currency{
		CurrencyCode: d.CurrencyCode,
		Symbol:       d.Symbol,
		Name:         d.Name,
		Precision:    d.Precision,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}
