package dto

import (
	"time"

	"github.com/bizdash/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Code            string             `json:"code" binding:"required"`
	Name            string             `json:"name" binding:"required"`
	AccountType     domain.AccountType `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	CurrencyCode    string             `json:"currencyCode" binding:"required,len=3,uppercase"`
	ParentAccountID *string            `json:"parentAccountID"` // Optional, use pointer for nullability
	Description     string             `json:"description"`     // Optional
	IsHeader        bool               `json:"isHeader"`
	OpeningBalance  decimal.Decimal    `json:"openingBalance"`
}

// UpdateAccountRequest defines the data allowed for updating an account.
// Use pointers to distinguish between zero-value updates and fields not provided.
// Account type, code and header flag are immutable after creation.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

// ListAccountsParams holds filters for listing accounts.
type ListAccountsParams struct {
	AccountType     *domain.AccountType `form:"accountType" binding:"omitempty,oneof=ASSET LIABILITY EQUITY INCOME EXPENSE"`
	ParentAccountID *string             `form:"parentAccountID"`
	IncludeArchived bool                `form:"includeArchived"`
	Limit           int                 `form:"limit"`
	Offset          int                 `form:"offset"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountID       string             `json:"accountID"`
	Code            string             `json:"code"`
	Name            string             `json:"name"`
	AccountType     domain.AccountType `json:"accountType"`
	CurrencyCode    string             `json:"currencyCode"`
	ParentAccountID string             `json:"parentAccountID"` // Note: Empty string if null in DB
	Description     string             `json:"description"`
	IsHeader        bool               `json:"isHeader"`
	Status          domain.AccountStatus `json:"status"`
	OpeningBalance  decimal.Decimal    `json:"openingBalance"`
	Balance         decimal.Decimal    `json:"balance"`
	CreatedAt       time.Time          `json:"createdAt"`
	CreatedBy       string             `json:"createdBy"`
	LastUpdatedAt   time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy   string             `json:"lastUpdatedBy"`
}

// AccountBalanceResponse carries a computed balance, which for header accounts
// is the recursive sum of the children.
type AccountBalanceResponse struct {
	AccountID string          `json:"accountID"`
	IsHeader  bool            `json:"isHeader"`
	Balance   decimal.Decimal `json:"balance"`
}

// ListAccountsResponse wraps a list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       acc.AccountID,
		Code:            acc.Code,
		Name:            acc.Name,
		AccountType:     acc.AccountType,
		CurrencyCode:    acc.CurrencyCode,
		ParentAccountID: acc.ParentAccountID,
		Description:     acc.Description,
		IsHeader:        acc.IsHeader,
		Status:          acc.Status,
		OpeningBalance:  acc.OpeningBalance,
		Balance:         acc.Balance,
		CreatedAt:       acc.CreatedAt,
		CreatedBy:       acc.CreatedBy,
		LastUpdatedAt:   acc.LastUpdatedAt,
		LastUpdatedBy:   acc.LastUpdatedBy,
	}
}

// ToAccountResponses converts a slice of domain.Account to []AccountResponse.
func ToAccountResponses(accs []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accs))
	for i := range accs {
		responses[i] = ToAccountResponse(&accs[i])
	}
	return responses
}
