package validation

import (
	"strings"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
)

// ValidateAccount checks a new account. Negative initial balances are allowed.
func ValidateAccount(req dto.CreateAccountRequest) Result {
	r := newResult()
	req.Name = strings.TrimSpace(req.Name)

	checkStruct(&r, req)
	if !req.InitialBalance.Equal(req.InitialBalance.Round(2)) {
		r.addError("initialBalance", "must have at most 2 decimal places")
	} else if req.InitialBalance.Abs().GreaterThanOrEqual(maxAmount) {
		r.addError("initialBalance", "must have at most 12 digits")
	}
	return r
}

// ValidateAccountUpdate checks the provided fields of an account edit.
func ValidateAccountUpdate(req dto.UpdateAccountRequest) Result {
	r := newResult()
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
	}
	checkStruct(&r, req)
	return r
}

// ValidateFilter checks a transaction listing filter.
func ValidateFilter(f domain.TransactionFilter) Result {
	r := newResult()
	if f.DateFrom != nil && f.DateTo != nil && domain.DateOnly(*f.DateFrom).After(domain.DateOnly(*f.DateTo)) {
		r.addError("dateFrom", "start date must not be after end date")
	}
	if f.TransactionType != "" && !f.TransactionType.IsValid() {
		r.addError("transactionType", "must be one of: income, expense")
	}
	return r
}
