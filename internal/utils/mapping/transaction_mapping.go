package mapping

import (
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:   d.TransactionID,
		UserID:          d.UserID,
		AccountID:       d.AccountID,
		CategoryID:      d.CategoryID,
		Description:     d.Description,
		Amount:          d.Amount,
		TransactionDate: domain.DateOnly(d.TransactionDate),
		TransactionType: string(d.TransactionType),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID:   m.TransactionID,
		UserID:          m.UserID,
		AccountID:       m.AccountID,
		CategoryID:      m.CategoryID,
		Description:     m.Description,
		Amount:          m.Amount,
		TransactionDate: domain.DateOnly(m.TransactionDate),
		TransactionType: domain.TransactionType(m.TransactionType),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionListItem converts a joined row, keeping the account and category labels.
func ToDomainTransactionListItem(m models.TransactionListItem) domain.Transaction {
	t := ToDomainTransaction(m.Transaction)
	t.AccountName = m.AccountName
	t.CategoryName = m.CategoryName
	t.CategoryColor = m.CategoryColor
	return t
}

// ToDomainTransactionSlice converts joined rows to domain Transactions
func ToDomainTransactionSlice(ms []models.TransactionListItem) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionListItem(m)
	}
	return ds
}
