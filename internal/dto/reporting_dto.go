package dto

import (
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PeriodSummaryResponse holds income, expense and their difference for a period.
type PeriodSummaryResponse struct {
	FromDate string          `json:"fromDate"`
	ToDate   string          `json:"toDate"`
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Balance  decimal.Decimal `json:"balance"`
}

// ToPeriodSummaryResponse converts a period and its totals to a DTO response
func ToPeriodSummaryResponse(p domain.Period, totals domain.PeriodTotals) PeriodSummaryResponse {
	return PeriodSummaryResponse{
		FromDate: p.From.Format("2006-01-02"),
		ToDate:   p.To.Format("2006-01-02"),
		Income:   totals.Income,
		Expense:  totals.Expense,
		Balance:  totals.Net(),
	}
}

// BalanceVerificationResponse summarises a balance verification run.
type BalanceVerificationResponse struct {
	Checked int                   `json:"checked"`
	Drifted []domain.BalanceCheck `json:"drifted"`
}
