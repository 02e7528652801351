package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	"github.com/SscSPs/finance_tracker/internal/models"
	"github.com/SscSPs/finance_tracker/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// reportingRepository implements the ReportingRepository interface.
// Every query is a plain read; none of them lock rows.
type reportingRepository struct {
	BaseRepository
}

// newReportingRepository creates a new reporting repository
func newReportingRepository(db *pgxpool.Pool) portsrepo.ReportingRepository {
	return &reportingRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

var _ portsrepo.ReportingRepository = (*reportingRepository)(nil)

// GetTotalBalance sums current_balance over the user's active accounts.
func (r *reportingRepository) GetTotalBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(current_balance), 0)
		FROM accounts
		WHERE user_id = $1 AND is_active;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, userID).Scan(&total); err != nil {
		return decimal.Zero, mapPgError(err, "error querying total balance")
	}
	return total, nil
}

// GetTransactionTotals sums income and expense amounts over the filtered transactions.
func (r *reportingRepository) GetTransactionTotals(ctx context.Context, userID string, filter domain.TransactionFilter) (domain.PeriodTotals, error) {
	w := transactionWhere(userID, filter)
	query := fmt.Sprintf(`
		SELECT
			COALESCE(SUM(CASE WHEN t.transaction_type = 'income' THEN t.amount END), 0),
			COALESCE(SUM(CASE WHEN t.transaction_type = 'expense' THEN t.amount END), 0)
		FROM transactions t
		%s;
	`, w.clause())

	var totals domain.PeriodTotals
	if err := r.Pool.QueryRow(ctx, query, w.args...).Scan(&totals.Income, &totals.Expense); err != nil {
		return domain.PeriodTotals{}, mapPgError(err, "error querying transaction totals")
	}
	return totals, nil
}

// GetCategorySummary returns expense totals per category within [from, to].
// Ties are broken by category name, then id.
func (r *reportingRepository) GetCategorySummary(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.CategoryTotal, error) {
	w := transactionWhere(userID, domain.TransactionFilter{
		DateFrom:        &from,
		DateTo:          &to,
		TransactionType: domain.Expense,
	})
	query := `
		SELECT c.category_id, c.name, c.color, SUM(t.amount) AS total
		FROM transactions t
		JOIN categories c ON c.category_id = t.category_id
		` + w.clause() + `
		GROUP BY c.category_id, c.name, c.color
		ORDER BY total DESC, c.name ASC, c.category_id ASC
		LIMIT ` + w.next() + `;
	`
	rows, err := r.Pool.Query(ctx, query, append(w.args, limit)...)
	if err != nil {
		return nil, mapPgError(err, "error querying category summary")
	}
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CategoryTotal])
	if err != nil {
		return nil, mapPgError(err, "error scanning category summary")
	}
	return mapping.ToDomainCategoryTotals(ms), nil
}

// GetRecentTransactions returns the latest transactions by date, then creation time.
func (r *reportingRepository) GetRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	query := transactionListSelect + ` WHERE t.user_id = $1 ` + transactionListOrder + ` LIMIT $2;`
	return queryTransactionList(ctx, r.Pool, query, userID, limit)
}

// ListAccountIDs returns the ids of all the user's accounts, active or not, by name.
func (r *reportingRepository) ListAccountIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.Pool.Query(ctx, `SELECT account_id FROM accounts WHERE user_id = $1 ORDER BY name, account_id;`, userID)
	if err != nil {
		return nil, mapPgError(err, "error querying accounts to verify")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapPgError(err, "error scanning accounts to verify")
	}
	return ids, nil
}

// GetBalanceCheck recomputes one account's balance as its initial balance plus the
// signed amounts of its transactions, next to the stored balance.
func (r *reportingRepository) GetBalanceCheck(ctx context.Context, accountID string) (domain.BalanceCheck, error) {
	query := `
		SELECT
			a.account_id,
			a.name,
			a.current_balance AS stored_balance,
			a.initial_balance + COALESCE(SUM(CASE WHEN t.transaction_type = 'income' THEN t.amount ELSE -t.amount END), 0) AS expected_balance,
			COUNT(t.transaction_id) AS transaction_count
		FROM accounts a
		LEFT JOIN transactions t ON t.account_id = a.account_id
		WHERE a.account_id = $1
		GROUP BY a.account_id;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return domain.BalanceCheck{}, mapPgError(err, "error querying balance check for account "+accountID)
	}
	m, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[models.BalanceCheck])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.BalanceCheck{}, apperrors.NewNotFoundError("account " + accountID + " not found")
		}
		return domain.BalanceCheck{}, mapPgError(err, "error scanning balance check for account "+accountID)
	}
	return mapping.ToDomainBalanceCheck(m), nil
}
