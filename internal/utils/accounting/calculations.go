package accounting

import (
	"fmt"
	"strings"

	"github.com/bizdash/backend/internal/apperrors"
	"github.com/bizdash/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedDelta translates a line's (debit, credit) pair into the signed amount
// applied to the account's balance.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/INCOME -> Negative (-)
// CREDIT to LIABILITY/EQUITY/INCOME -> Positive (+)
func SignedDelta(line domain.JournalLine, accountType domain.AccountType) (decimal.Decimal, error) {
	signed := line.Amount()
	isDebit := line.IsDebit()

	switch accountType {
	case domain.Asset, domain.Expense:
		if !isDebit {
			signed = signed.Neg()
		}
	case domain.Liability, domain.Equity, domain.Income:
		if isDebit {
			signed = signed.Neg()
		}
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s' encountered for account ID %s", accountType, line.AccountID)
	}
	return signed, nil
}

// JournalAmount computes the economic value of a balanced journal: the sum of
// its debit-side lines.
func JournalAmount(lines []domain.JournalLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Debit)
	}
	return total
}

// ValidateJournal checks a proposed set of journal lines against the accounts
// they reference. It is pure: all violations are collected and returned as a
// single ErrValidation; any one violation fails the whole journal.
//
// Checks, in order:
//  1. at least 2 lines touching at least 2 distinct accounts
//  2. exactly one of debit/credit strictly positive per line, the other exactly zero
//  3. every referenced account exists, is active, and is not a header account
//  4. debit total equals credit total exactly, at the currency's precision
//
// Callers must re-run this immediately before posting, not only at draft time.
func ValidateJournal(lines []domain.JournalLine, accounts map[string]domain.Account, precision int32) error {
	var violations []string

	if len(lines) < 2 {
		violations = append(violations, "journal must have at least two lines")
	}
	distinct := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		distinct[line.AccountID] = struct{}{}
	}
	if len(lines) >= 2 && len(distinct) < 2 {
		violations = append(violations, "journal must touch at least two different accounts")
	}

	debitTotal := decimal.Zero
	creditTotal := decimal.Zero
	for i, line := range lines {
		switch {
		case line.Debit.IsNegative() || line.Credit.IsNegative():
			violations = append(violations, fmt.Sprintf("line %d: debit and credit must not be negative", i+1))
		case line.Debit.IsPositive() && line.Credit.IsPositive():
			violations = append(violations, fmt.Sprintf("line %d: only one of debit or credit may be set", i+1))
		case line.Debit.IsZero() && line.Credit.IsZero():
			violations = append(violations, fmt.Sprintf("line %d: exactly one of debit or credit must be positive", i+1))
		}

		if !line.Amount().Equal(line.Amount().Round(precision)) {
			violations = append(violations, fmt.Sprintf("line %d: amount %s exceeds currency precision of %d decimal places", i+1, line.Amount().String(), precision))
		}

		acc, found := accounts[line.AccountID]
		switch {
		case !found:
			violations = append(violations, fmt.Sprintf("line %d: account %s not found", i+1, line.AccountID))
		case acc.IsHeader:
			violations = append(violations, fmt.Sprintf("line %d: account %s is a header account and cannot be posted to", i+1, acc.Code))
		case acc.Status != domain.AccountActive:
			violations = append(violations, fmt.Sprintf("line %d: account %s is archived", i+1, acc.Code))
		}

		debitTotal = debitTotal.Add(line.Debit)
		creditTotal = creditTotal.Add(line.Credit)
	}

	if !debitTotal.Equal(creditTotal) {
		violations = append(violations, fmt.Sprintf("journal does not balance: debit total is %s, credit total is %s", debitTotal.String(), creditTotal.String()))
	}

	if len(violations) > 0 {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, strings.Join(violations, "; "))
	}
	return nil
}

// BalanceChanges folds a journal's lines into one net signed delta per account.
func BalanceChanges(lines []domain.JournalLine, accounts map[string]domain.Account) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(lines))
	for _, line := range lines {
		acc, ok := accounts[line.AccountID]
		if !ok {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, line.AccountID)
		}
		delta, err := SignedDelta(line, acc.AccountType)
		if err != nil {
			return nil, err
		}
		changes[line.AccountID] = changes[line.AccountID].Add(delta)
	}
	return changes, nil
}

// MirrorLines returns the exact offsetting lines of a posted journal: debit and
// credit swapped on every line, amounts untouched.
func MirrorLines(lines []domain.JournalLine) []domain.JournalLine {
	mirrored := make([]domain.JournalLine, len(lines))
	for i, line := range lines {
		mirrored[i] = line
		mirrored[i].Debit = line.Credit
		mirrored[i].Credit = line.Debit
	}
	return mirrored
}
