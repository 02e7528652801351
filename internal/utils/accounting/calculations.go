package accounting

import (
	"fmt"
	"sort"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the sign implied by the transaction type to a positive amount.
// Income increases the account balance, expense decreases it.
func SignedAmount(txnType domain.TransactionType, amount decimal.Decimal) (decimal.Decimal, error) {
	switch txnType {
	case domain.Income:
		return amount, nil
	case domain.Expense:
		return amount.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown transaction type '%s'", txnType)
	}
}

// Contribution returns the signed amount txn adds to its account's balance.
func Contribution(txn domain.Transaction) (decimal.Decimal, error) {
	signed, err := SignedAmount(txn.TransactionType, txn.Amount)
	if err != nil {
		return decimal.Zero, fmt.Errorf("transaction %s: %w", txn.TransactionID, err)
	}
	return signed, nil
}

// BalanceChangesForCreate returns the per-account delta of creating txn.
func BalanceChangesForCreate(txn domain.Transaction) (map[string]decimal.Decimal, error) {
	delta, err := Contribution(txn)
	if err != nil {
		return nil, err
	}
	return map[string]decimal.Decimal{txn.AccountID: delta}, nil
}

// BalanceChangesForDelete returns the per-account delta of deleting txn.
func BalanceChangesForDelete(txn domain.Transaction) (map[string]decimal.Decimal, error) {
	delta, err := Contribution(txn)
	if err != nil {
		return nil, err
	}
	return map[string]decimal.Decimal{txn.AccountID: delta.Neg()}, nil
}

// BalanceChangesForUpdate reverses old on its account and applies updated on its
// (possibly different) account. When both hit the same account the deltas are merged.
func BalanceChangesForUpdate(old domain.Transaction, updated domain.Transaction) (map[string]decimal.Decimal, error) {
	reversal, err := Contribution(old)
	if err != nil {
		return nil, err
	}
	apply, err := Contribution(updated)
	if err != nil {
		return nil, err
	}

	changes := map[string]decimal.Decimal{old.AccountID: reversal.Neg()}
	changes[updated.AccountID] = changes[updated.AccountID].Add(apply)
	return changes, nil
}

// AccountIDs returns the accounts a balance change set touches, in ascending order.
func AccountIDs(changes map[string]decimal.Decimal) []string {
	ids := make([]string, 0, len(changes))
	for id := range changes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ExpectedBalance recomputes a balance from the initial balance and the account's transactions.
func ExpectedBalance(initial decimal.Decimal, transactions []domain.Transaction) (decimal.Decimal, error) {
	balance := initial
	for _, txn := range transactions {
		signed, err := Contribution(txn)
		if err != nil {
			return decimal.Zero, err
		}
		balance = balance.Add(signed)
	}
	return balance, nil
}
