package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Income    AccountType = "INCOME"
	Expense   AccountType = "EXPENSE"
)

// AccountStatus indicates whether an account accepts new postings.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountArchived AccountStatus = "ARCHIVED"
)

// Account represents a chart-of-accounts row.
// Note: ParentAccountID uses string for a nullable foreign key; DB handling may vary.
type Account struct {
	AccountID       string          `db:"account_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	CurrencyCode    string          `db:"currency_code"`
	ParentAccountID string          `db:"parent_account_id"` // Nullable
	Description     string          `db:"description"`
	IsHeader        bool            `db:"is_header"`
	Status          AccountStatus   `db:"status"`
	OpeningBalance  decimal.Decimal `db:"opening_balance"`
	Balance         decimal.Decimal `db:"balance"`
	AuditFields
}
