package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
// It is immutable after creation; all descendants of an account share its type.
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

// Account represents a node in the chart of accounts.
// Header accounts aggregate their children and are never posted to directly;
// only leaf accounts carry postings and an authoritative balance.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary Key (UUID)
	Code            string          `json:"code"`            // Unique hierarchical code, e.g. "1110"
	Name            string          `json:"name"`            // User-defined name
	AccountType     AccountType     `json:"accountType"`     // ASSET, LIABILITY, etc.
	CurrencyCode    string          `json:"currencyCode"`    // FK -> currencies.code (NON-NULL)
	ParentAccountID string          `json:"parentAccountID"` // Nullable FK -> accounts.account_id (self-referencing)
	Description     string          `json:"description"`     // Nullable user description
	IsHeader        bool            `json:"isHeader"`        // Aggregator node, not postable
	Status          AccountStatus   `json:"status"`          // ACTIVE or ARCHIVED
	OpeningBalance  decimal.Decimal `json:"openingBalance"`  // Signed balance the account started with
	Balance         decimal.Decimal `json:"balance"`         // Persisted balance; mutated only by posting
	AuditFields
}

// IsPostable reports whether the account may appear on a journal line.
func (a Account) IsPostable() bool {
	return !a.IsHeader && a.Status == AccountActive
}
