package accounting_test

import (
	"errors"
	"testing"

	"github.com/bizdash/backend/internal/apperrors"
	"github.com/bizdash/backend/internal/core/domain"
	"github.com/bizdash/backend/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debitLine(accountID string, amount decimal.Decimal) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: amount, Credit: decimal.Zero}
}

func creditLine(accountID string, amount decimal.Decimal) domain.JournalLine {
	return domain.JournalLine{AccountID: accountID, Debit: decimal.Zero, Credit: amount}
}

func activeAccount(accountID, code string, accountType domain.AccountType) domain.Account {
	return domain.Account{
		AccountID:   accountID,
		Code:        code,
		AccountType: accountType,
		Status:      domain.AccountActive,
	}
}

func TestSignedDelta(t *testing.T) {
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name        string
		line        domain.JournalLine
		accountType domain.AccountType
		want        decimal.Decimal
	}{
		{"debit increases asset", debitLine("a1", amount), domain.Asset, amount},
		{"credit decreases asset", creditLine("a1", amount), domain.Asset, amount.Neg()},
		{"debit increases expense", debitLine("a1", amount), domain.Expense, amount},
		{"credit decreases expense", creditLine("a1", amount), domain.Expense, amount.Neg()},
		{"debit decreases liability", debitLine("a1", amount), domain.Liability, amount.Neg()},
		{"credit increases liability", creditLine("a1", amount), domain.Liability, amount},
		{"debit decreases equity", debitLine("a1", amount), domain.Equity, amount.Neg()},
		{"credit increases equity", creditLine("a1", amount), domain.Equity, amount},
		{"debit decreases income", debitLine("a1", amount), domain.Income, amount.Neg()},
		{"credit increases income", creditLine("a1", amount), domain.Income, amount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := accounting.SignedDelta(tt.line, tt.accountType)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "expected %s, got %s", tt.want, got)
		})
	}
}

func TestSignedDelta_UnknownAccountType(t *testing.T) {
	_, err := accounting.SignedDelta(debitLine("a1", decimal.NewFromInt(10)), domain.AccountType("BOGUS"))
	assert.Error(t, err)
}

// Invoice scenario: 11800 receivable against 10000 of sales and 1800 of tax.
func TestValidateJournal_BalancedMultiLine(t *testing.T) {
	accounts := map[string]domain.Account{
		"ar":    activeAccount("ar", "1200", domain.Asset),
		"sales": activeAccount("sales", "4000", domain.Income),
		"tax":   activeAccount("tax", "2300", domain.Liability),
	}
	lines := []domain.JournalLine{
		debitLine("ar", decimal.NewFromInt(11800)),
		creditLine("sales", decimal.NewFromInt(10000)),
		creditLine("tax", decimal.NewFromInt(1800)),
	}

	err := accounting.ValidateJournal(lines, accounts, 2)
	assert.NoError(t, err)
}

func TestValidateJournal_Unbalanced(t *testing.T) {
	accounts := map[string]domain.Account{
		"rent": activeAccount("rent", "5100", domain.Expense),
		"cash": activeAccount("cash", "1100", domain.Asset),
	}
	lines := []domain.JournalLine{
		debitLine("rent", decimal.NewFromInt(3500)),
		creditLine("cash", decimal.NewFromInt(4130)),
	}

	err := accounting.ValidateJournal(lines, accounts, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.Contains(t, err.Error(), "does not balance")
	assert.Contains(t, err.Error(), "3500")
	assert.Contains(t, err.Error(), "4130")
}

func TestValidateJournal_LineShapeViolations(t *testing.T) {
	accounts := map[string]domain.Account{
		"a": activeAccount("a", "1000", domain.Asset),
		"b": activeAccount("b", "2000", domain.Liability),
	}

	tests := []struct {
		name    string
		lines   []domain.JournalLine
		wantMsg string
	}{
		{
			name:    "fewer than two lines",
			lines:   []domain.JournalLine{debitLine("a", decimal.NewFromInt(50))},
			wantMsg: "at least two lines",
		},
		{
			name: "all lines on one account",
			lines: []domain.JournalLine{
				debitLine("a", decimal.NewFromInt(50)),
				creditLine("a", decimal.NewFromInt(50)),
			},
			wantMsg: "two different accounts",
		},
		{
			name: "both sides set on one line",
			lines: []domain.JournalLine{
				{AccountID: "a", Debit: decimal.NewFromInt(50), Credit: decimal.NewFromInt(50)},
				creditLine("b", decimal.Zero),
			},
			wantMsg: "only one of debit or credit",
		},
		{
			name: "neither side set",
			lines: []domain.JournalLine{
				debitLine("a", decimal.NewFromInt(50)),
				{AccountID: "b", Debit: decimal.Zero, Credit: decimal.Zero},
			},
			wantMsg: "exactly one of debit or credit",
		},
		{
			name: "negative amount",
			lines: []domain.JournalLine{
				debitLine("a", decimal.NewFromInt(-50)),
				creditLine("b", decimal.NewFromInt(-50)),
			},
			wantMsg: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := accounting.ValidateJournal(tt.lines, accounts, 2)
			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrValidation))
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestValidateJournal_AccountViolations(t *testing.T) {
	header := activeAccount("hdr", "1000", domain.Asset)
	header.IsHeader = true
	archived := activeAccount("arc", "1150", domain.Asset)
	archived.Status = domain.AccountArchived

	accounts := map[string]domain.Account{
		"hdr":  header,
		"arc":  archived,
		"cash": activeAccount("cash", "1100", domain.Asset),
		"rev":  activeAccount("rev", "4000", domain.Income),
	}

	t.Run("header account rejected", func(t *testing.T) {
		lines := []domain.JournalLine{
			debitLine("hdr", decimal.NewFromInt(100)),
			creditLine("rev", decimal.NewFromInt(100)),
		}
		err := accounting.ValidateJournal(lines, accounts, 2)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrValidation))
		assert.Contains(t, err.Error(), "header account")
	})

	t.Run("archived account rejected", func(t *testing.T) {
		lines := []domain.JournalLine{
			debitLine("arc", decimal.NewFromInt(100)),
			creditLine("rev", decimal.NewFromInt(100)),
		}
		err := accounting.ValidateJournal(lines, accounts, 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "archived")
	})

	t.Run("unknown account rejected", func(t *testing.T) {
		lines := []domain.JournalLine{
			debitLine("missing", decimal.NewFromInt(100)),
			creditLine("rev", decimal.NewFromInt(100)),
		}
		err := accounting.ValidateJournal(lines, accounts, 2)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestValidateJournal_PrecisionEnforced(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash": activeAccount("cash", "1100", domain.Asset),
		"rev":  activeAccount("rev", "4000", domain.Income),
	}
	lines := []domain.JournalLine{
		debitLine("cash", decimal.RequireFromString("10.005")),
		creditLine("rev", decimal.RequireFromString("10.005")),
	}

	err := accounting.ValidateJournal(lines, accounts, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precision")

	// Trailing zeros beyond the precision are fine
	lines = []domain.JournalLine{
		debitLine("cash", decimal.RequireFromString("10.5000")),
		creditLine("rev", decimal.RequireFromString("10.50")),
	}
	assert.NoError(t, accounting.ValidateJournal(lines, accounts, 2))
}

func TestJournalAmount(t *testing.T) {
	lines := []domain.JournalLine{
		debitLine("ar", decimal.NewFromInt(11800)),
		creditLine("sales", decimal.NewFromInt(10000)),
		creditLine("tax", decimal.NewFromInt(1800)),
	}
	amount := accounting.JournalAmount(lines)
	assert.True(t, amount.Equal(decimal.NewFromInt(11800)), "journal amount should be the debit-side total, got %s", amount)
}

func TestBalanceChanges(t *testing.T) {
	accounts := map[string]domain.Account{
		"ar":    activeAccount("ar", "1200", domain.Asset),
		"sales": activeAccount("sales", "4000", domain.Income),
		"tax":   activeAccount("tax", "2300", domain.Liability),
	}
	lines := []domain.JournalLine{
		debitLine("ar", decimal.NewFromInt(11800)),
		creditLine("sales", decimal.NewFromInt(10000)),
		creditLine("tax", decimal.NewFromInt(1800)),
	}

	changes, err := accounting.BalanceChanges(lines, accounts)
	require.NoError(t, err)
	require.Len(t, changes, 3)
	assert.True(t, changes["ar"].Equal(decimal.NewFromInt(11800)))
	assert.True(t, changes["sales"].Equal(decimal.NewFromInt(10000)))
	assert.True(t, changes["tax"].Equal(decimal.NewFromInt(1800)))
}

func TestBalanceChanges_NetsLinesPerAccount(t *testing.T) {
	accounts := map[string]domain.Account{
		"cash": activeAccount("cash", "1100", domain.Asset),
		"rev":  activeAccount("rev", "4000", domain.Income),
	}
	lines := []domain.JournalLine{
		debitLine("cash", decimal.NewFromInt(100)),
		debitLine("cash", decimal.NewFromInt(40)),
		creditLine("rev", decimal.NewFromInt(140)),
	}

	changes, err := accounting.BalanceChanges(lines, accounts)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.True(t, changes["cash"].Equal(decimal.NewFromInt(140)))
}

func TestBalanceChanges_MissingAccount(t *testing.T) {
	lines := []domain.JournalLine{debitLine("ghost", decimal.NewFromInt(10))}
	_, err := accounting.BalanceChanges(lines, map[string]domain.Account{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestMirrorLines(t *testing.T) {
	original := []domain.JournalLine{
		{AccountID: "cash", LineNo: 1, Description: "settlement", Debit: decimal.NewFromInt(5000), Credit: decimal.Zero},
		{AccountID: "ar", LineNo: 2, Debit: decimal.Zero, Credit: decimal.NewFromInt(5000)},
	}

	mirrored := accounting.MirrorLines(original)
	require.Len(t, mirrored, 2)

	assert.True(t, mirrored[0].Debit.IsZero())
	assert.True(t, mirrored[0].Credit.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, "cash", mirrored[0].AccountID)
	assert.Equal(t, "settlement", mirrored[0].Description)
	assert.Equal(t, int32(1), mirrored[0].LineNo)
	assert.Equal(t, int32(2), mirrored[1].LineNo)

	assert.True(t, mirrored[1].Debit.Equal(decimal.NewFromInt(5000)))
	assert.True(t, mirrored[1].Credit.IsZero())

	// A mirrored journal balances against the original
	accounts := map[string]domain.Account{
		"cash": activeAccount("cash", "1100", domain.Asset),
		"ar":   activeAccount("ar", "1200", domain.Asset),
	}
	assert.NoError(t, accounting.ValidateJournal(mirrored, accounts, 2))

	originalChanges, err := accounting.BalanceChanges(original, accounts)
	require.NoError(t, err)
	mirroredChanges, err := accounting.BalanceChanges(mirrored, accounts)
	require.NoError(t, err)
	for accountID, delta := range originalChanges {
		assert.True(t, delta.Neg().Equal(mirroredChanges[accountID]),
			"mirror of account %s should negate the original delta", accountID)
	}
}
