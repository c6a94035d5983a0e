package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TrialBalanceRow is the net activity of one leaf account up to the report date.
// Exactly one of Debit/Credit is nonzero: the side the account's net falls on.
type TrialBalanceRow struct {
	AccountID   string          `json:"accountID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName"`
	AccountType AccountType     `json:"accountType"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
}

// TrialBalanceReport aggregates every leaf account with nonzero net activity.
// TotalDebit and TotalCredit are equal in a consistent ledger; the generator
// refuses to return a report for which they are not.
type TrialBalanceReport struct {
	AsOf        time.Time         `json:"asOf"`
	Rows        []TrialBalanceRow `json:"rows"`
	TotalDebit  decimal.Decimal   `json:"totalDebit"`
	TotalCredit decimal.Decimal   `json:"totalCredit"`
}
