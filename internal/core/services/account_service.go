package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/validation"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountClock sets the clock used for timestamps.
func WithAccountClock(clock func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.Clock = clock
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

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	req.Name = strings.TrimSpace(req.Name)
	if result := validation.ValidateAccount(req); !result.Valid() {
		return nil, result.Err()
	}

	now := s.Now()
	account := domain.Account{
		AccountID:      uuid.NewString(),
		UserID:         userID,
		Name:           req.Name,
		AccountType:    req.AccountType,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("user_id", userID),
			slog.String("account_name", account.Name))
		return nil, err
	}

	s.LogInfo(ctx, "Account created",
		slog.String("account_id", account.AccountID),
		slog.String("user_id", userID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if account.UserID != userID {
		return nil, apperrors.NewNotFoundError("account " + accountID + " not found")
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, userID string, includeInactive bool) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, userID, includeInactive)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("user_id", userID))
		return nil, err
	}
	return accounts, nil
}

// UpdateAccount changes name and type only. The balances belong to the balance engine.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	if result := validation.ValidateAccountUpdate(req); !result.Valid() {
		return nil, result.Err()
	}

	account, err := s.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	changed := false
	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != account.Name {
			account.Name = name
			changed = true
		}
	}
	if req.AccountType != nil && *req.AccountType != account.AccountType {
		account.AccountType = *req.AccountType
		changed = true
	}
	if !changed {
		return account, nil
	}

	account.UpdatedAt = s.Now()
	if err := s.accountRepo.UpdateAccount(ctx, *account); err != nil {
		s.LogError(ctx, err, "Failed to update account", slog.String("account_id", accountID))
		return nil, err
	}
	return account, nil
}

func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	return s.setActive(ctx, accountID, userID, false)
}

func (s *accountService) ActivateAccount(ctx context.Context, accountID string, userID string) error {
	return s.setActive(ctx, accountID, userID, true)
}

func (s *accountService) setActive(ctx context.Context, accountID string, userID string, active bool) error {
	account, err := s.GetAccountByID(ctx, accountID, userID)
	if err != nil {
		return err
	}
	if account.IsActive == active {
		return nil
	}
	if err := s.accountRepo.SetAccountActive(ctx, accountID, active, s.Now()); err != nil {
		s.LogError(ctx, err, "Failed to change account status",
			slog.String("account_id", accountID),
			slog.Bool("active", active))
		return err
	}
	s.LogInfo(ctx, "Account status changed",
		slog.String("account_id", accountID),
		slog.Bool("active", active))
	return nil
}

// DeleteAccount removes the account and, through the foreign key, its transactions.
func (s *accountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	if _, err := s.GetAccountByID(ctx, accountID, userID); err != nil {
		return err
	}
	if err := s.accountRepo.DeleteAccount(ctx, accountID); err != nil {
		s.LogError(ctx, err, "Failed to delete account", slog.String("account_id", accountID))
		return err
	}
	s.LogInfo(ctx, "Account deleted", slog.String("account_id", accountID))
	return nil
}
