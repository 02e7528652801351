package models

import "github.com/shopspring/decimal"

// CategoryTotal is one row of the expense-by-category aggregate.
type CategoryTotal struct {
	CategoryID string          `db:"category_id"`
	Name       string          `db:"name"`
	Color      string          `db:"color"`
	Total      decimal.Decimal `db:"total"`
}

// BalanceCheck is one row of the stored-vs-recomputed balance query.
type BalanceCheck struct {
	AccountID        string          `db:"account_id"`
	Name             string          `db:"name"`
	StoredBalance    decimal.Decimal `db:"stored_balance"`
	ExpectedBalance  decimal.Decimal `db:"expected_balance"`
	TransactionCount int             `db:"transaction_count"`
}
