package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodTotals holds income and expense sums for a date range.
type PeriodTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
}

// Net returns income minus expense.
func (p PeriodTotals) Net() decimal.Decimal {
	return p.Income.Sub(p.Expense)
}

// CategoryTotal is one row of the expense-by-category summary.
type CategoryTotal struct {
	CategoryID string          `json:"categoryID"`
	Name       string          `json:"name"`
	Color      string          `json:"color"`
	Total      decimal.Decimal `json:"total"`
}

// Period is an inclusive calendar date range.
type Period struct {
	Preset string    `json:"preset"`
	From   time.Time `json:"from"`
	To     time.Time `json:"to"`
}

// Dashboard is the overview shown on the home screen.
type Dashboard struct {
	TotalBalance       decimal.Decimal `json:"totalBalance"`
	Period             Period          `json:"period"`
	Totals             PeriodTotals    `json:"totals"`
	RecentTransactions []Transaction   `json:"recentTransactions"`
	TopCategories      []CategoryTotal `json:"topCategories"`
}

// TransactionFilter narrows transaction listings. Zero values mean "any".
type TransactionFilter struct {
	DateFrom        *time.Time
	DateTo          *time.Time
	TransactionType TransactionType
	CategoryID      string
	AccountID       string
}

// BalanceCheck compares a stored balance with the one recomputed from transactions.
type BalanceCheck struct {
	AccountID        string          `json:"accountID"`
	Name             string          `json:"name"`
	StoredBalance    decimal.Decimal `json:"storedBalance"`
	ExpectedBalance  decimal.Decimal `json:"expectedBalance"`
	TransactionCount int             `json:"transactionCount"`
}

// Drift returns stored minus expected balance.
func (b BalanceCheck) Drift() decimal.Decimal {
	return b.StoredBalance.Sub(b.ExpectedBalance)
}

// Consistent reports whether the stored balance matches the recomputed one.
func (b BalanceCheck) Consistent() bool {
	return b.Drift().IsZero()
}
