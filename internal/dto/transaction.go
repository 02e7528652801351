package dto

import (
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionRequest is the input of a transaction create or edit.
type TransactionRequest struct {
	AccountID       string                 `json:"accountID" validate:"required"`
	CategoryID      string                 `json:"categoryID" validate:"required"`
	Description     string                 `json:"description" validate:"required,max=255"`
	Amount          decimal.Decimal        `json:"amount"`
	TransactionDate time.Time              `json:"transactionDate" validate:"required"`
	TransactionType domain.TransactionType `json:"transactionType" validate:"required,oneof=income expense"`
}

// TransactionResult is a committed transaction plus any non-blocking warnings.
type TransactionResult struct {
	Transaction domain.Transaction `json:"transaction"`
	Warnings    map[string]string  `json:"warnings,omitempty"`
}

// ListTransactionsParams defines the filter and page of a transaction listing.
type ListTransactionsParams struct {
	Filter    domain.TransactionFilter
	Limit     int
	NextToken *string
}

// ListTransactionsResponse is one page of transactions plus the totals of the whole filtered set.
type ListTransactionsResponse struct {
	Transactions []domain.Transaction `json:"transactions"`
	NextToken    string               `json:"nextToken,omitempty"`
	Totals       domain.PeriodTotals  `json:"totals"`
}
