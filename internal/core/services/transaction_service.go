package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/validation"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/utils/pagination"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// transactionService validates transaction writes and hands them to the balance engine.
type transactionService struct {
	BaseService
	engine        portssvc.BalanceEngine
	txnRepo       portsrepo.TransactionReader
	accountRepo   portsrepo.AccountReader
	categoryRepo  portsrepo.CategoryReader
	reportingRepo portsrepo.ReportingRepository
}

// TransactionServiceOption is a functional option for configuring the transaction service
type TransactionServiceOption func(*transactionService)

// WithTransactionClock sets the clock used for timestamps and date validation.
func WithTransactionClock(clock func() time.Time) TransactionServiceOption {
	return func(s *transactionService) {
		s.Clock = clock
	}
}

// NewTransactionService creates a transaction service.
func NewTransactionService(
	engine portssvc.BalanceEngine,
	txnRepo portsrepo.TransactionReader,
	accountRepo portsrepo.AccountReader,
	categoryRepo portsrepo.CategoryReader,
	reportingRepo portsrepo.ReportingRepository,
	options ...TransactionServiceOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		engine:        engine,
		txnRepo:       txnRepo,
		accountRepo:   accountRepo,
		categoryRepo:  categoryRepo,
		reportingRepo: reportingRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// CreateTransaction validates req and records it, moving the account balance.
func (s *transactionService) CreateTransaction(ctx context.Context, req dto.TransactionRequest, userID string) (*dto.TransactionResult, error) {
	req = validation.NormalizeTransactionRequest(req)

	account, category, err := s.loadReferences(ctx, req)
	if err != nil {
		return nil, err
	}

	result := validation.ValidateTransaction(validation.TransactionInput{
		Request:     req,
		Account:     account,
		Category:    category,
		UserID:      userID,
		Today:       s.Today(),
		CheckActive: true,
	})
	if !result.Valid() {
		s.LogDebug(ctx, "Transaction rejected by validation", slog.Any("errors", result.Errors))
		return nil, result.Err()
	}

	now := s.Now()
	txn := domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          userID,
		AccountID:       req.AccountID,
		CategoryID:      req.CategoryID,
		Description:     req.Description,
		Amount:          req.Amount,
		TransactionDate: req.TransactionDate,
		TransactionType: req.TransactionType,
		AuditFields: domain.AuditFields{
			CreatedAt: now,
			UpdatedAt: now,
		},
	}

	if err := s.engine.ApplyCreate(ctx, txn); err != nil {
		return nil, err
	}

	withLabels(&txn, account, category)
	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", txn.AccountID),
		slog.String("user_id", userID))

	return &dto.TransactionResult{Transaction: txn, Warnings: warningsOrNil(result)}, nil
}

// UpdateTransaction validates req against the stored transaction and rewrites it.
// The stored row read here is the snapshot the engine re-checks under lock.
func (s *transactionService) UpdateTransaction(ctx context.Context, transactionID string, req dto.TransactionRequest, userID string) (*dto.TransactionResult, error) {
	old, err := s.GetTransactionByID(ctx, transactionID, userID)
	if err != nil {
		return nil, err
	}

	req = validation.NormalizeTransactionRequest(req)
	account, category, err := s.loadReferences(ctx, req)
	if err != nil {
		return nil, err
	}

	result := validation.ValidateTransaction(validation.TransactionInput{
		Request:     req,
		Account:     account,
		Category:    category,
		UserID:      userID,
		Today:       s.Today(),
		CheckActive: req.AccountID != old.AccountID,
	})
	if !result.Valid() {
		s.LogDebug(ctx, "Transaction update rejected by validation",
			slog.String("transaction_id", transactionID),
			slog.Any("errors", result.Errors))
		return nil, result.Err()
	}

	updated := *old
	updated.AccountID = req.AccountID
	updated.CategoryID = req.CategoryID
	updated.Description = req.Description
	updated.Amount = req.Amount
	updated.TransactionDate = req.TransactionDate
	updated.TransactionType = req.TransactionType
	updated.UpdatedAt = s.Now()

	if err := s.engine.ApplyUpdate(ctx, *old, updated); err != nil {
		return nil, err
	}

	withLabels(&updated, account, category)
	s.LogInfo(ctx, "Transaction updated",
		slog.String("transaction_id", transactionID),
		slog.String("old_account_id", old.AccountID),
		slog.String("account_id", updated.AccountID))

	return &dto.TransactionResult{Transaction: updated, Warnings: warningsOrNil(result)}, nil
}

// DeleteTransaction removes a transaction and reverses its effect on the balance.
func (s *transactionService) DeleteTransaction(ctx context.Context, transactionID string, userID string) error {
	old, err := s.GetTransactionByID(ctx, transactionID, userID)
	if err != nil {
		return err
	}

	if err := s.engine.ApplyDelete(ctx, *old); err != nil {
		return err
	}

	s.LogInfo(ctx, "Transaction deleted",
		slog.String("transaction_id", transactionID),
		slog.String("account_id", old.AccountID))
	return nil
}

// GetTransactionByID returns a transaction owned by userID.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if txn.UserID != userID {
		return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
	}
	return txn, nil
}

// ListTransactions returns one page of filtered transactions and the totals of the filter.
func (s *transactionService) ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if result := validation.ValidateFilter(params.Filter); !result.Valid() {
		return nil, result.Err()
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	var after *pagination.Cursor
	if params.NextToken != nil && *params.NextToken != "" {
		cursor, err := pagination.DecodeToken(*params.NextToken)
		if err != nil {
			return nil, apperrors.NewValidationErrors(map[string]string{"nextToken": "invalid page token"})
		}
		after = &cursor
	}

	// One extra row tells whether another page exists.
	txns, err := s.txnRepo.ListTransactions(ctx, userID, params.Filter, limit+1, after)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions", slog.String("user_id", userID))
		return nil, err
	}

	resp := &dto.ListTransactionsResponse{Transactions: txns}
	if len(txns) > limit {
		last := txns[limit-1]
		resp.Transactions = txns[:limit]
		resp.NextToken = pagination.EncodeToken(pagination.Cursor{
			TransactionDate: last.TransactionDate,
			CreatedAt:       last.CreatedAt,
			TransactionID:   last.TransactionID,
		})
	}

	totals, err := s.reportingRepo.GetTransactionTotals(ctx, userID, params.Filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute filter totals", slog.String("user_id", userID))
		return nil, err
	}
	resp.Totals = totals

	return resp, nil
}

// loadReferences fetches the account and category named by req. Missing rows come
// back as nil so validation can report them per field.
func (s *transactionService) loadReferences(ctx context.Context, req dto.TransactionRequest) (*domain.Account, *domain.Category, error) {
	var account *domain.Account
	if req.AccountID != "" {
		acc, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, err
		}
		account = acc
	}

	var category *domain.Category
	if req.CategoryID != "" {
		cat, err := s.categoryRepo.FindCategoryByID(ctx, req.CategoryID)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, err
		}
		category = cat
	}

	return account, category, nil
}

func withLabels(txn *domain.Transaction, account *domain.Account, category *domain.Category) {
	txn.AccountName = account.Name
	txn.CategoryName = category.Name
	txn.CategoryColor = category.Color
}

func warningsOrNil(r validation.Result) map[string]string {
	if len(r.Warnings) == 0 {
		return nil
	}
	return r.Warnings
}
