package domain_test

import (
	"testing"

	"github.com/bizdash/backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestJournalLine_Sides(t *testing.T) {
	tests := []struct {
		name       string
		line       domain.JournalLine
		wantDebit  bool
		wantAmount decimal.Decimal
	}{
		{
			name:       "debit line",
			line:       domain.JournalLine{Debit: decimal.NewFromInt(100), Credit: decimal.Zero},
			wantDebit:  true,
			wantAmount: decimal.NewFromInt(100),
		},
		{
			name:       "credit line",
			line:       domain.JournalLine{Debit: decimal.Zero, Credit: decimal.NewFromInt(250)},
			wantDebit:  false,
			wantAmount: decimal.NewFromInt(250),
		},
		{
			name:       "fractional credit line",
			line:       domain.JournalLine{Debit: decimal.Zero, Credit: decimal.RequireFromString("0.05")},
			wantDebit:  false,
			wantAmount: decimal.RequireFromString("0.05"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantDebit, tt.line.IsDebit())
			assert.True(t, tt.wantAmount.Equal(tt.line.Amount()))
		})
	}
}

func TestAccount_IsPostable(t *testing.T) {
	tests := []struct {
		name    string
		account domain.Account
		want    bool
	}{
		{
			name:    "active leaf account",
			account: domain.Account{Status: domain.AccountActive},
			want:    true,
		},
		{
			name:    "header account",
			account: domain.Account{IsHeader: true, Status: domain.AccountActive},
			want:    false,
		},
		{
			name:    "archived account",
			account: domain.Account{Status: domain.AccountArchived},
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.account.IsPostable())
		})
	}
}
