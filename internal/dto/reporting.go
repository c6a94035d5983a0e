package dto

import (
	"time"

	"github.com/bizdash/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TrialBalanceRowResponse is one leaf account's net activity in the report.
type TrialBalanceRowResponse struct {
	AccountID   string             `json:"accountID"`
	AccountCode string             `json:"accountCode"`
	AccountName string             `json:"accountName"`
	AccountType domain.AccountType `json:"accountType"`
	Debit       decimal.Decimal    `json:"debit"`
	Credit      decimal.Decimal    `json:"credit"`
}

// TrialBalanceResponse is the full report with its verified totals.
type TrialBalanceResponse struct {
	AsOf        time.Time                 `json:"asOf"`
	Rows        []TrialBalanceRowResponse `json:"rows"`
	TotalDebit  decimal.Decimal           `json:"totalDebit"`
	TotalCredit decimal.Decimal           `json:"totalCredit"`
}

// ToTrialBalanceResponse converts a domain report to its DTO.
func ToTrialBalanceResponse(report *domain.TrialBalanceReport) TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(report.Rows))
	for i, r := range report.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:   r.AccountID,
			AccountCode: r.AccountCode,
			AccountName: r.AccountName,
			AccountType: r.AccountType,
			Debit:       r.Debit,
			Credit:      r.Credit,
		}
	}
	return TrialBalanceResponse{
		AsOf:        report.AsOf,
		Rows:        rows,
		TotalDebit:  report.TotalDebit,
		TotalCredit: report.TotalCredit,
	}
}
