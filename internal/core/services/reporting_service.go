package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	reportingRepo portsrepo.ReportingRepository
	topCategories int
	recentLimit   int
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithDashboardLimits sets how many categories and recent transactions the dashboard shows.
func WithDashboardLimits(topCategories, recentTransactions int) ReportingServiceOption {
	return func(s *reportingService) {
		if topCategories > 0 {
			s.topCategories = topCategories
		}
		if recentTransactions > 0 {
			s.recentLimit = recentTransactions
		}
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(repo portsrepo.ReportingRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		reportingRepo: repo,
		topCategories: 5,
		recentLimit:   5,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

func (s *reportingService) TotalBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	total, err := s.reportingRepo.GetTotalBalance(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get total balance", slog.String("user_id", userID))
		return decimal.Zero, err
	}
	return total, nil
}

func (s *reportingService) PeriodTotals(ctx context.Context, userID string, from, to time.Time) (domain.PeriodTotals, error) {
	from, to = domain.DateOnly(from), domain.DateOnly(to)
	if from.After(to) {
		return domain.PeriodTotals{}, apperrors.NewValidationErrors(map[string]string{
			"dateFrom": "start date must not be after end date",
		})
	}

	totals, err := s.reportingRepo.GetTransactionTotals(ctx, userID, domain.TransactionFilter{DateFrom: &from, DateTo: &to})
	if err != nil {
		s.LogError(ctx, err, "Failed to get period totals",
			slog.String("user_id", userID),
			slog.Time("from", from),
			slog.Time("to", to))
		return domain.PeriodTotals{}, err
	}
	return totals, nil
}

func (s *reportingService) CategorySummary(ctx context.Context, userID string, from, to time.Time, topN int) ([]domain.CategoryTotal, error) {
	if topN <= 0 {
		topN = s.topCategories
	}
	rows, err := s.reportingRepo.GetCategorySummary(ctx, userID, domain.DateOnly(from), domain.DateOnly(to), topN)
	if err != nil {
		s.LogError(ctx, err, "Failed to get category summary", slog.String("user_id", userID))
		return nil, err
	}
	return rows, nil
}

func (s *reportingService) RecentTransactions(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = s.recentLimit
	}
	txns, err := s.reportingRepo.GetRecentTransactions(ctx, userID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to get recent transactions", slog.String("user_id", userID))
		return nil, err
	}
	return txns, nil
}

// Dashboard runs the independent dashboard queries concurrently.
func (s *reportingService) Dashboard(ctx context.Context, userID string, period domain.Period) (*domain.Dashboard, error) {
	d := &domain.Dashboard{Period: period}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.TotalBalance(gctx, userID)
		d.TotalBalance = total
		return err
	})
	g.Go(func() error {
		totals, err := s.PeriodTotals(gctx, userID, period.From, period.To)
		d.Totals = totals
		return err
	})
	g.Go(func() error {
		txns, err := s.RecentTransactions(gctx, userID, s.recentLimit)
		d.RecentTransactions = txns
		return err
	})
	g.Go(func() error {
		cats, err := s.CategorySummary(gctx, userID, period.From, period.To, s.topCategories)
		d.TopCategories = cats
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return d, nil
}

// VerifyBalances recomputes every account balance, one account at a time, and reports
// each finished account to progress when it is not nil. When any account drifted the
// checks are still returned, together with an error wrapping ErrConsistency.
func (s *reportingService) VerifyBalances(ctx context.Context, userID string, progress portssvc.VerifyProgress) ([]domain.BalanceCheck, error) {
	accountIDs, err := s.reportingRepo.ListAccountIDs(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts to verify", slog.String("user_id", userID))
		return nil, err
	}

	checks := make([]domain.BalanceCheck, 0, len(accountIDs))
	for i, accountID := range accountIDs {
		check, err := s.reportingRepo.GetBalanceCheck(ctx, accountID)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			// Deleted while the run was in progress.
			s.LogDebug(ctx, "Account vanished during verification", slog.String("account_id", accountID))
		case err != nil:
			s.LogError(ctx, err, "Failed to verify balance", slog.String("account_id", accountID))
			return nil, err
		default:
			checks = append(checks, check)
		}
		if progress != nil {
			progress(i+1, len(accountIDs))
		}
	}

	drifted := 0
	for _, c := range checks {
		if !c.Consistent() {
			drifted++
			s.GetLogger(ctx).WarnContext(ctx, "Account balance drift detected",
				slog.String("account_id", c.AccountID),
				slog.String("stored", c.StoredBalance.StringFixed(2)),
				slog.String("expected", c.ExpectedBalance.StringFixed(2)))
		}
	}
	if drifted > 0 {
		return checks, apperrors.NewConsistencyError(fmt.Sprintf("%d of %d accounts have a drifted balance", drifted, len(checks)))
	}
	return checks, nil
}
