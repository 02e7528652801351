package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingRepository defines the read-only aggregate queries. None of them take row locks.
type ReportingRepository interface {
	// GetTotalBalance sums current_balance over the user's active accounts.
	GetTotalBalance(ctx context.Context, userID string) (decimal.Decimal, error)

	// GetTransactionTotals sums income and expense amounts over the filtered transactions.
	GetTransactionTotals(ctx context.Context, userID string, filter domain.TransactionFilter) (domain.PeriodTotals, error)

	// GetCategorySummary returns expense totals per category within [from, to], largest first.
	GetCategorySummary(ctx context.Context, userID string, from, to time.Time, limit int) ([]domain.CategoryTotal, error)

	// GetRecentTransactions returns the latest transactions by date, then creation time.
	GetRecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)

	// ListAccountIDs returns the ids of all of the user's accounts.
	ListAccountIDs(ctx context.Context, userID string) ([]string, error)

	// GetBalanceCheck recomputes one account's balance from its transactions.
	GetBalanceCheck(ctx context.Context, accountID string) (domain.BalanceCheck, error)
}
