package validation

import (
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/shopspring/decimal"
)

const (
	// MaxPastDays is how far back a transaction date may go.
	MaxPastDays = 3650
	// FarFutureDays is the horizon beyond which a future date gets the stronger warning.
	FarFutureDays = 365
)

// maxAmount is the first value that no longer fits NUMERIC(12,2).
var maxAmount = decimal.New(1, 10)

// TransactionInput bundles a request with the stored rows it references.
// Account and Category are nil when the referenced row does not exist.
type TransactionInput struct {
	Request     dto.TransactionRequest
	Account     *domain.Account
	Category    *domain.Category
	UserID      string
	Today       time.Time
	CheckActive bool // false on edits that keep the same account
}

// NormalizeTransactionRequest trims the description and drops the time of day.
func NormalizeTransactionRequest(req dto.TransactionRequest) dto.TransactionRequest {
	req.Description = strings.TrimSpace(req.Description)
	if !req.TransactionDate.IsZero() {
		req.TransactionDate = domain.DateOnly(req.TransactionDate)
	}
	return req
}

// ValidateTransaction checks a normalized request against its account and category.
func ValidateTransaction(in TransactionInput) Result {
	r := newResult()
	req := in.Request

	checkStruct(&r, req)
	checkAmount(&r, req.Amount)
	if !req.TransactionDate.IsZero() {
		checkTransactionDate(&r, req.TransactionDate, in.Today)
	}

	switch {
	case in.Account == nil || in.Account.UserID != in.UserID:
		r.addError("accountID", "account not found")
	case in.CheckActive && !in.Account.IsActive:
		r.addError("accountID", "account is inactive")
	}

	switch {
	case in.Category == nil || in.Category.UserID != in.UserID:
		r.addError("categoryID", "category not found")
	case req.TransactionType.IsValid() && !req.TransactionType.Matches(in.Category.CategoryType):
		r.addError("categoryID", "category type does not match the transaction type")
	}

	return r
}

func checkAmount(r *Result, amount decimal.Decimal) {
	switch {
	case !amount.IsPositive():
		r.addError("amount", "must be greater than zero")
	case !amount.Equal(amount.Round(2)):
		r.addError("amount", "must have at most 2 decimal places")
	case amount.GreaterThanOrEqual(maxAmount):
		r.addError("amount", "must have at most 12 digits")
	}
}

func checkTransactionDate(r *Result, date, today time.Time) {
	date = domain.DateOnly(date)
	today = domain.DateOnly(today)

	switch {
	case date.Before(today.AddDate(0, 0, -MaxPastDays)):
		r.addError("transactionDate", "date is more than 10 years in the past")
	case date.After(today.AddDate(0, 0, FarFutureDays)):
		r.addWarning("transactionDate", "date is more than one year in the future")
	case date.After(today):
		r.addWarning("transactionDate", "date is in the future")
	}
}
