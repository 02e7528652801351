package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates whether a transaction is income or expense.
type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// IsValid reports whether t is income or expense.
func (t TransactionType) IsValid() bool {
	return t == Income || t == Expense
}

// Matches reports whether a category of type c may classify transactions of type t.
func (t TransactionType) Matches(c CategoryType) bool {
	return string(t) == string(c)
}

// Transaction is a single money movement against one account and one category.
// Amount is always positive; the direction comes from TransactionType.
type Transaction struct {
	TransactionID   string          `json:"transactionID"`
	UserID          string          `json:"userID"`
	AccountID       string          `json:"accountID"`
	CategoryID      string          `json:"categoryID"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	TransactionDate time.Time       `json:"transactionDate"`
	TransactionType TransactionType `json:"transactionType"`
	AuditFields

	// Populated by read queries only
	AccountName   string `json:"accountName,omitempty"`
	CategoryName  string `json:"categoryName,omitempty"`
	CategoryColor string `json:"categoryColor,omitempty"`
}

// SameContribution reports whether t and other add the same signed amount to the same account.
func (t Transaction) SameContribution(other Transaction) bool {
	return t.TransactionID == other.TransactionID &&
		t.AccountID == other.AccountID &&
		t.TransactionType == other.TransactionType &&
		t.Amount.Equal(other.Amount)
}
