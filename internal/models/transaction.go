package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction mirrors a row of the transactions table.
type Transaction struct {
	TransactionID   string          `db:"transaction_id"`
	UserID          string          `db:"user_id"`
	AccountID       string          `db:"account_id"`
	CategoryID      string          `db:"category_id"`
	Description     string          `db:"description"`
	Amount          decimal.Decimal `db:"amount"`
	TransactionDate time.Time       `db:"transaction_date"`
	TransactionType string          `db:"transaction_type"`
	AuditFields
}

// TransactionListItem is a transaction joined with its account and category labels.
type TransactionListItem struct {
	Transaction
	AccountName   string `db:"account_name"`
	CategoryName  string `db:"category_name"`
	CategoryColor string `db:"category_color"`
}
