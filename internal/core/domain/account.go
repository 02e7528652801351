package domain

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the kind of bank account.
type AccountType string

const (
	Checking   AccountType = "checking"
	Savings    AccountType = "savings"
	Investment AccountType = "investment"
	OtherType  AccountType = "other"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Savings, Investment, OtherType:
		return true
	}
	return false
}

// Account represents a balance-bearing bank account owned by one user.
//
// CurrentBalance is maintained by the balance engine only; it always equals
// InitialBalance plus the signed amounts of the account's live transactions.
type Account struct {
	AccountID      string          `json:"accountID"`
	UserID         string          `json:"userID"`
	Name           string          `json:"name"`
	AccountType    AccountType     `json:"accountType"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsActive       bool            `json:"isActive"`
	AuditFields
}
