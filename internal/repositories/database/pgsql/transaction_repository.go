package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/SscSPs/finance_tracker/internal/utils/mapping"
	"github.com/SscSPs/finance_tracker/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, user_id, account_id, category_id, description, amount, transaction_date, transaction_type, created_at, updated_at`

// transactionListSelect joins the labels shown next to a transaction.
const transactionListSelect = `
	SELECT t.transaction_id, t.user_id, t.account_id, t.category_id, t.description, t.amount,
	       t.transaction_date, t.transaction_type, t.created_at, t.updated_at,
	       a.name AS account_name, c.name AS category_name, c.color AS category_color
	FROM transactions t
	JOIN accounts a ON a.account_id = t.account_id
	JOIN categories c ON c.category_id = t.category_id
`

// Listing order. Must match the tuple compared by whereBuilder.addCursor.
const transactionListOrder = `ORDER BY t.transaction_date DESC, t.created_at DESC, t.transaction_id DESC`

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryWithTx {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryWithTx = (*PgxTransactionRepository)(nil)

// FindTransactionByID retrieves a transaction with its account and category labels.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, transactionListSelect+` WHERE t.transaction_id = $1;`, transactionID)
	if err != nil {
		return nil, mapPgError(err, "failed to find transaction "+transactionID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.TransactionListItem])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
		}
		return nil, mapPgError(err, "failed to scan transaction "+transactionID)
	}

	txn := mapping.ToDomainTransactionListItem(m)
	return &txn, nil
}

// ListTransactions retrieves up to limit filtered transactions, newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, userID string, filter domain.TransactionFilter, limit int, after *pagination.Cursor) ([]domain.Transaction, error) {
	w := transactionWhere(userID, filter)
	if after != nil {
		w.addCursor(*after)
	}
	query := fmt.Sprintf("%s %s %s LIMIT %s;", transactionListSelect, w.clause(), transactionListOrder, w.next())
	args := append(w.args, limit)

	return queryTransactionList(ctx, r.Pool, query, args...)
}

// SaveTransactionInTx inserts a transaction row.
func (r *PgxTransactionRepository) SaveTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.UserID,
		m.AccountID,
		m.CategoryID,
		m.Description,
		m.Amount,
		m.TransactionDate,
		m.TransactionType,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to insert transaction "+m.TransactionID)
	}
	return nil
}

// FindTransactionByIDForUpdate reads the stored row and locks it until the tx ends.
func (r *PgxTransactionRepository) FindTransactionByIDForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE;`

	rows, err := tx.Query(ctx, query, transactionID)
	if err != nil {
		return nil, mapPgError(err, "failed to lock transaction "+transactionID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.Transaction])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("transaction " + transactionID + " not found")
		}
		return nil, mapPgError(err, "failed to lock transaction "+transactionID)
	}

	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

// UpdateTransactionInTx overwrites every editable column of a transaction row.
func (r *PgxTransactionRepository) UpdateTransactionInTx(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
		UPDATE transactions
		SET account_id = $2, category_id = $3, description = $4, amount = $5,
		    transaction_date = $6, transaction_type = $7, updated_at = $8
		WHERE transaction_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.TransactionID,
		m.AccountID,
		m.CategoryID,
		m.Description,
		m.Amount,
		m.TransactionDate,
		m.TransactionType,
		m.UpdatedAt,
	)
	if err != nil {
		return mapPgError(err, "failed to update transaction "+m.TransactionID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewConsistencyError("transaction " + m.TransactionID + " vanished during update")
	}
	return nil
}

// DeleteTransactionInTx deletes a transaction row.
func (r *PgxTransactionRepository) DeleteTransactionInTx(ctx context.Context, tx pgx.Tx, transactionID string) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM transactions WHERE transaction_id = $1;`, transactionID)
	if err != nil {
		return mapPgError(err, "failed to delete transaction "+transactionID)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewConsistencyError("transaction " + transactionID + " vanished during delete")
	}
	return nil
}

// queryTransactionList runs a query built on transactionListSelect.
func queryTransactionList(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapPgError(err, "failed to query transactions")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.TransactionListItem])
	if err != nil {
		return nil, mapPgError(err, "failed to scan transactions")
	}
	return mapping.ToDomainTransactionSlice(ms), nil
}
