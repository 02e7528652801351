package repositories

import (
	"context"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
)

// TransactionReader defines read operations for transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction with its account and category labels.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions returns up to limit transactions matching the filter, newest first,
	// starting after the cursor when one is given.
	ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter, limit int, after *pagination.Cursor) ([]domain.Transaction, error)
}

// TransactionTxSupport defines the transaction row writes performed by the balance engine.
// All of them run inside the caller's database transaction.
type TransactionTxSupport interface {
	SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error

	// FindTransactionByIDForUpdate reads the stored row and locks it until the tx ends.
	FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error)

	UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error
	DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string) error
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionTxSupport
}

// TransactionRepositoryWithTx extends TransactionRepositoryFacade with transaction capabilities
type TransactionRepositoryWithTx interface {
	TransactionRepositoryFacade
	TransactionManager
}
