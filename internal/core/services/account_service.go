package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizdash/backend/internal/apperrors"
	"github.com/bizdash/backend/internal/core/domain"
	portsrepo "github.com/bizdash/backend/internal/core/ports/repositories"
	portssvc "github.com/bizdash/backend/internal/core/ports/services"
	"github.com/bizdash/backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService owns the chart of accounts: creation, lookup, archiving,
// and the header-balance rollup. Balances themselves are mutated only by the
// posting path in the journal repository.
type accountService struct {
	BaseService
	accountRepo  portsrepo.AccountRepositoryFacade
	currencyRepo portsrepo.CurrencyReader
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithCurrencyReader adds the currency registry dependency used to validate
// currency codes on account creation.
func WithCurrencyReader(repo portsrepo.CurrencyReader) AccountServiceOption {
	return func(s *accountService) {
		s.currencyRepo = repo
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	// Validate currency if currencyRepo is available
	if s.currencyRepo != nil {
		if _, err := s.currencyRepo.FindCurrencyByCode(ctx, req.CurrencyCode); err != nil {
			s.LogError(ctx, err, "Invalid currency code",
				slog.String("currency_code", req.CurrencyCode))
			return nil, fmt.Errorf("invalid currency code %s: %w", req.CurrencyCode, apperrors.ErrValidation)
		}
	}

	// Account codes are unique across the chart
	if existing, err := s.accountRepo.FindAccountByCode(ctx, req.Code); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check account code uniqueness", slog.String("code", req.Code))
		return nil, err
	} else if existing != nil {
		return nil, fmt.Errorf("account code %s is already in use: %w", req.Code, apperrors.ErrDuplicate)
	}

	parentID := ""
	if req.ParentAccountID != nil && *req.ParentAccountID != "" {
		parentID = *req.ParentAccountID
		parent, err := s.accountRepo.FindAccountByID(ctx, parentID)
		if err != nil {
			s.LogError(ctx, err, "Failed to find parent account", slog.String("parent_id", parentID))
			return nil, fmt.Errorf("invalid parent account: %w", err)
		}
		// The tree is typed: every descendant shares the root's account type
		if parent.AccountType != req.AccountType {
			return nil, fmt.Errorf("parent account type %s does not match %s: %w", parent.AccountType, req.AccountType, apperrors.ErrValidation)
		}
		if parent.CurrencyCode != req.CurrencyCode {
			return nil, fmt.Errorf("parent account currency %s does not match %s: %w", parent.CurrencyCode, req.CurrencyCode, apperrors.ErrValidation)
		}
	}

	if req.IsHeader && !req.OpeningBalance.IsZero() {
		return nil, fmt.Errorf("header accounts cannot carry an opening balance: %w", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            req.Code,
		Name:            req.Name,
		AccountType:     req.AccountType,
		CurrencyCode:    req.CurrencyCode,
		ParentAccountID: parentID,
		Description:     req.Description,
		IsHeader:        req.IsHeader,
		Status:          domain.AccountActive,
		OpeningBalance:  req.OpeningBalance,
		Balance:         req.OpeningBalance,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("code", account.Code))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("code", account.Code))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID",
				slog.String("account_id", accountID))
		}
		return nil, err // Propagate error (including NotFound)
	}
	return account, nil
}

func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs",
			slog.String("account_ids", fmt.Sprintf("%v", accountIDs)))
		return nil, err
	}
	return accounts, nil
}

func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.AccountListFilter{
		AccountType:     params.AccountType,
		ParentAccountID: params.ParentAccountID,
		IncludeArchived: params.IncludeArchived,
	}
	accounts, err := s.accountRepo.ListAccounts(ctx, filter, params.Limit, params.Offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil // Return empty slice if repo returns nil
	}
	return accounts, nil
}

func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err // GetAccountByID already logs errors
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}
	if !updated {
		s.LogDebug(ctx, "No fields provided for account update",
			slog.String("account_id", accountID))
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account",
			slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account updated successfully",
		slog.String("account_id", account.AccountID))
	return account, nil
}

func (s *accountService) ArchiveAccount(ctx context.Context, accountID string, userID string) error {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.Status == domain.AccountArchived {
		return fmt.Errorf("account %s is already archived: %w", account.Code, apperrors.ErrInvalidState)
	}

	// Header accounts with active children stay in place until the children go
	children, err := s.accountRepo.FindChildAccounts(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list child accounts", slog.String("account_id", accountID))
		return err
	}
	for _, child := range children {
		if child.Status == domain.AccountActive {
			return fmt.Errorf("account %s still has active child %s: %w", account.Code, child.Code, apperrors.ErrInvalidState)
		}
	}

	if err := s.accountRepo.ArchiveAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to archive account",
			slog.String("account_id", accountID))
		return err
	}

	s.LogInfo(ctx, "Account archived successfully",
		slog.String("account_id", accountID))
	return nil
}

// ComputeHeaderBalance returns the recursive sum of all descendant leaf
// balances for a header account. The result is derived on demand from the
// authoritative parent pointers, never stored, so it cannot drift.
func (s *accountService) ComputeHeaderBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	if !account.IsHeader {
		return account.Balance, nil
	}
	return s.sumSubtree(ctx, accountID)
}

func (s *accountService) sumSubtree(ctx context.Context, accountID string) (decimal.Decimal, error) {
	children, err := s.accountRepo.FindChildAccounts(ctx, accountID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load children of account %s: %w", accountID, err)
	}

	total := decimal.Zero
	for _, child := range children {
		if child.IsHeader {
			sub, err := s.sumSubtree(ctx, child.AccountID)
			if err != nil {
				return decimal.Zero, err
			}
			total = total.Add(sub)
			continue
		}
		total = total.Add(child.Balance)
	}
	return total, nil
}
