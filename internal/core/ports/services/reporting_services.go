package services

import (
	"context"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingService defines the read-only aggregations shown on the dashboard
type ReportingService interface {
	// TotalBalance sums the current balance of the user's active accounts.
	TotalBalance(ctx context.Context, userID string) (decimal.Decimal, error)

	// PeriodTotals sums income and expense within [from, to], both dates inclusive.
	PeriodTotals(ctx context.Context, userID string, from, to time.Time) (domain.PeriodTotals, error)

	// CategorySummary returns the topN expense categories within [from, to].
	CategorySummary(ctx context.Context, userID string, from, to time.Time, topN int) ([]domain.CategoryTotal, error)

	// RecentTransactions returns the user's latest transactions.
	RecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error)

	// Dashboard gathers the total balance, period totals, recent transactions and top
	// categories for the period.
	Dashboard(ctx context.Context, userID string, period domain.Period) (*domain.Dashboard, error)

	// VerifyBalances recomputes every account balance from its transactions.
	VerifyBalances(ctx context.Context, userID string, progress VerifyProgress) ([]domain.BalanceCheck, error)
}

// VerifyProgress is told after each account is checked how many of total are done.
type VerifyProgress func(done, total int)
