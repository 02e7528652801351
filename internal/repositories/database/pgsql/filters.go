package pgsql

import (
	"fmt"
	"strings"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/utils/pagination"
)

// whereBuilder accumulates AND-ed conditions with positional arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends a condition; every %d in cond is replaced by the placeholder number of v.
func (w *whereBuilder) add(cond string, v any) {
	w.args = append(w.args, v)
	n := len(w.args)
	w.conds = append(w.conds, strings.ReplaceAll(cond, "%d", fmt.Sprint(n)))
}

func (w *whereBuilder) next() string {
	return fmt.Sprintf("$%d", len(w.args)+1)
}

func (w *whereBuilder) clause() string {
	return "WHERE " + strings.Join(w.conds, " AND ")
}

// transactionWhere builds the conditions of a filtered transaction query over alias t.
// Both date bounds are inclusive.
func transactionWhere(userID string, f domain.TransactionFilter) *whereBuilder {
	w := &whereBuilder{}
	w.add("t.user_id = $%d", userID)
	if f.DateFrom != nil {
		w.add("t.transaction_date >= $%d", domain.DateOnly(*f.DateFrom))
	}
	if f.DateTo != nil {
		w.add("t.transaction_date <= $%d", domain.DateOnly(*f.DateTo))
	}
	if f.TransactionType != "" {
		w.add("t.transaction_type = $%d", string(f.TransactionType))
	}
	if f.CategoryID != "" {
		w.add("t.category_id = $%d", f.CategoryID)
	}
	if f.AccountID != "" {
		w.add("t.account_id = $%d", f.AccountID)
	}
	return w
}

// addCursor restricts the query to rows strictly after the cursor in listing order.
func (w *whereBuilder) addCursor(c pagination.Cursor) {
	w.args = append(w.args, c.TransactionDate, c.CreatedAt, c.TransactionID)
	n := len(w.args)
	w.conds = append(w.conds, fmt.Sprintf(
		"(t.transaction_date, t.created_at, t.transaction_id) < ($%d, $%d, $%d)", n-2, n-1, n))
}
