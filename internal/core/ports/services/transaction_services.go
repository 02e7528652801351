package services

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// BalanceEngine keeps account balances in step with transaction writes. Each call is
// one database transaction: the row write and the balance deltas commit or roll back together.
type BalanceEngine interface {
	// ApplyCreate inserts txn and adds its signed amount to its account.
	ApplyCreate(ctx context.Context, txn domain.Transaction) error

	// ApplyUpdate replaces the stored row described by old with updated, reversing the
	// old contribution and applying the new one.
	ApplyUpdate(ctx context.Context, old domain.Transaction, updated domain.Transaction) error

	// ApplyDelete removes the stored row described by old and reverses its contribution.
	ApplyDelete(ctx context.Context, old domain.Transaction) error
}

// TransactionReaderSvc defines read operations for transactions
type TransactionReaderSvc interface {
	GetTransactionByID(ctx context.Context, transactionID string, userID string) (*domain.Transaction, error)

	// ListTransactions returns one page of the filtered transactions plus the totals of the
	// whole filtered set.
	ListTransactions(ctx context.Context, userID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// TransactionWriterSvc defines the validated write path in front of the balance engine.
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, req dto.TransactionRequest, userID string) (*dto.TransactionResult, error)
	UpdateTransaction(ctx context.Context, transactionID string, req dto.TransactionRequest, userID string) (*dto.TransactionResult, error)
	DeleteTransaction(ctx context.Context, transactionID string, userID string) error
}

// TransactionSvcFacade combines all transaction-related service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
}
