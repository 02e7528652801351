package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/utils/accounting"
	"github.com/jackc/pgx/v5"
)

// balanceEngine implements the BalanceEngine interface.
//
// Every operation runs in a single database transaction. Locks are taken in a fixed
// order: the stored transaction row, the category (shared), then the affected account
// rows by ascending account_id. The transaction row is committed together with the
// balance deltas. Lock failures surface as ErrConcurrency and are not retried here.
type balanceEngine struct {
	BaseService
	txManager    portsrepo.TransactionManager
	accountRepo  portsrepo.AccountTransactionSupport
	categoryRepo portsrepo.CategoryTransactionSupport
	txnRepo      portsrepo.TransactionTxSupport
}

// EngineOption is a functional option for configuring the balance engine
type EngineOption func(*balanceEngine)

// WithEngineClock sets the clock used for updated_at stamps.
func WithEngineClock(clock func() time.Time) EngineOption {
	return func(e *balanceEngine) {
		e.Clock = clock
	}
}

// NewBalanceEngine creates a balance engine over the given repositories.
func NewBalanceEngine(
	txManager portsrepo.TransactionManager,
	accountRepo portsrepo.AccountTransactionSupport,
	categoryRepo portsrepo.CategoryTransactionSupport,
	txnRepo portsrepo.TransactionTxSupport,
	options ...EngineOption,
) portssvc.BalanceEngine {
	e := &balanceEngine{
		txManager:    txManager,
		accountRepo:  accountRepo,
		categoryRepo: categoryRepo,
		txnRepo:      txnRepo,
	}
	for _, option := range options {
		option(e)
	}
	return e
}

var _ portssvc.BalanceEngine = (*balanceEngine)(nil)

// ApplyCreate locks the account, inserts txn and adds its signed amount.
func (e *balanceEngine) ApplyCreate(ctx context.Context, txn domain.Transaction) error {
	changes, err := accounting.BalanceChangesForCreate(txn)
	if err != nil {
		return apperrors.NewValidationError(err.Error())
	}

	return e.inTx(ctx, "create", txn.TransactionID, func(tx pgx.Tx) error {
		if err := e.checkCategory(ctx, tx, txn); err != nil {
			return err
		}
		locked, err := e.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accounting.AccountIDs(changes))
		if err != nil {
			return err
		}
		if err := checkLockedAccount(locked, txn.UserID, txn.AccountID, true); err != nil {
			return err
		}
		if err := e.txnRepo.SaveTransactionInTx(ctx, tx, txn); err != nil {
			return err
		}
		return e.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, e.Now())
	})
}

// ApplyUpdate re-reads the stored row under lock, checks it still matches old, then
// reverses the stored contribution and applies the updated one.
func (e *balanceEngine) ApplyUpdate(ctx context.Context, old domain.Transaction, updated domain.Transaction) error {
	if old.TransactionID != updated.TransactionID {
		return apperrors.NewInternalServerError("update must keep the transaction id", nil)
	}

	return e.inTx(ctx, "update", old.TransactionID, func(tx pgx.Tx) error {
		stored, err := e.lockStored(ctx, tx, old)
		if err != nil {
			return err
		}

		changes, err := accounting.BalanceChangesForUpdate(*stored, updated)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}

		if err := e.checkCategory(ctx, tx, updated); err != nil {
			return err
		}
		locked, err := e.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accounting.AccountIDs(changes))
		if err != nil {
			return err
		}
		// Moving onto an account requires it to be active; staying on one does not.
		moved := stored.AccountID != updated.AccountID
		if err := checkLockedAccount(locked, stored.UserID, stored.AccountID, false); err != nil {
			return err
		}
		if err := checkLockedAccount(locked, updated.UserID, updated.AccountID, moved); err != nil {
			return err
		}

		now := e.Now()
		updated.CreatedAt = stored.CreatedAt
		updated.UpdatedAt = now
		if err := e.txnRepo.UpdateTransactionInTx(ctx, tx, updated); err != nil {
			return err
		}
		return e.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, now)
	})
}

// ApplyDelete re-reads the stored row under lock, checks it still matches old, deletes
// it and reverses its contribution.
func (e *balanceEngine) ApplyDelete(ctx context.Context, old domain.Transaction) error {
	return e.inTx(ctx, "delete", old.TransactionID, func(tx pgx.Tx) error {
		stored, err := e.lockStored(ctx, tx, old)
		if err != nil {
			return err
		}

		changes, err := accounting.BalanceChangesForDelete(*stored)
		if err != nil {
			return apperrors.NewValidationError(err.Error())
		}

		if _, err := e.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accounting.AccountIDs(changes)); err != nil {
			return err
		}
		if err := e.txnRepo.DeleteTransactionInTx(ctx, tx, stored.TransactionID); err != nil {
			return err
		}
		return e.accountRepo.UpdateAccountBalancesInTx(ctx, tx, changes, e.Now())
	})
}

// checkCategory share-locks the transaction's category and re-checks owner and type
// against the locked row. A concurrent type change either waits for this transaction
// or has already committed and is seen here.
func (e *balanceEngine) checkCategory(ctx context.Context, tx pgx.Tx, txn domain.Transaction) error {
	category, err := e.categoryRepo.FindCategoryByIDForShare(ctx, tx, txn.CategoryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewValidationErrors(map[string]string{"categoryID": "category not found"})
		}
		return err
	}
	if category.UserID != txn.UserID {
		return apperrors.NewValidationErrors(map[string]string{"categoryID": "category not found"})
	}
	if !txn.TransactionType.Matches(category.CategoryType) {
		return apperrors.NewValidationErrors(map[string]string{"categoryID": "category type does not match the transaction type"})
	}
	return nil
}

// checkLockedAccount re-checks owner and, when required, the active flag on a locked
// account row.
func checkLockedAccount(locked map[string]domain.Account, userID, accountID string, mustBeActive bool) error {
	account, ok := locked[accountID]
	if !ok {
		return apperrors.NewConsistencyError("account " + accountID + " was not locked")
	}
	if account.UserID != userID {
		return apperrors.NewValidationErrors(map[string]string{"accountID": "account not found"})
	}
	if mustBeActive && !account.IsActive {
		return apperrors.NewValidationErrors(map[string]string{"accountID": "account is inactive"})
	}
	return nil
}

// lockStored reads the stored transaction FOR UPDATE and compares it with the snapshot
// the caller validated against.
func (e *balanceEngine) lockStored(ctx context.Context, tx pgx.Tx, snapshot domain.Transaction) (*domain.Transaction, error) {
	stored, err := e.txnRepo.FindTransactionByIDForUpdate(ctx, tx, snapshot.TransactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewConsistencyError("transaction " + snapshot.TransactionID + " no longer exists")
		}
		return nil, err
	}
	if !stored.SameContribution(snapshot) {
		return nil, apperrors.NewConsistencyError("transaction " + snapshot.TransactionID + " changed since it was read")
	}
	return stored, nil
}

// inTx runs fn inside a database transaction, committing on success and rolling back
// on any error.
func (e *balanceEngine) inTx(ctx context.Context, op string, transactionID string, fn func(tx pgx.Tx) error) error {
	tx, err := e.txManager.Begin(ctx)
	if err != nil {
		e.LogError(ctx, err, "Failed to begin balance transaction",
			slog.String("operation", op),
			slog.String("transaction_id", transactionID))
		return err
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		// The caller's context may already be cancelled.
		if rbErr := e.txManager.Rollback(context.WithoutCancel(ctx), tx); rbErr != nil {
			e.LogError(ctx, rbErr, "Failed to roll back balance transaction",
				slog.String("operation", op),
				slog.String("transaction_id", transactionID))
		}
	}()

	if err := fn(tx); err != nil {
		e.LogError(ctx, err, "Balance operation aborted",
			slog.String("operation", op),
			slog.String("transaction_id", transactionID),
			slog.Bool("retryable", apperrors.IsRetryable(err)))
		return err
	}

	if err := e.txManager.Commit(ctx, tx); err != nil {
		e.LogError(ctx, err, "Failed to commit balance transaction",
			slog.String("operation", op),
			slog.String("transaction_id", transactionID))
		return err
	}
	committed = true

	e.LogDebug(ctx, "Balance operation committed",
		slog.String("operation", op),
		slog.String("transaction_id", transactionID))
	return nil
}
