package mapping

import (
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/models"
)

// ToDomainCategoryTotals converts aggregate rows to domain CategoryTotals
func ToDomainCategoryTotals(ms []models.CategoryTotal) []domain.CategoryTotal {
	ds := make([]domain.CategoryTotal, len(ms))
	for i, m := range ms {
		ds[i] = domain.CategoryTotal{
			CategoryID: m.CategoryID,
			Name:       m.Name,
			Color:      m.Color,
			Total:      m.Total,
		}
	}
	return ds
}

// ToDomainBalanceCheck converts a verification row to a domain BalanceCheck
func ToDomainBalanceCheck(m models.BalanceCheck) domain.BalanceCheck {
	return domain.BalanceCheck(m)
}
