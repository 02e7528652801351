package services

import (
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The engine takes its database transactions from the transaction repository; the
	// account and category repositories join them through the pgx.Tx they are handed.
	container.Engine = NewBalanceEngine(repos.TransactionRepo, repos.AccountRepo, repos.CategoryRepo, repos.TransactionRepo)

	container.Account = NewAccountService(repos.AccountRepo)
	container.Category = NewCategoryService(repos.CategoryRepo)
	container.Transaction = NewTransactionService(
		container.Engine,
		repos.TransactionRepo,
		repos.AccountRepo,
		repos.CategoryRepo,
		repos.ReportingRepo,
	)
	container.Reporting = NewReportingService(
		repos.ReportingRepo,
		WithDashboardLimits(cfg.DashboardTopCategories, cfg.RecentTransactionsLimit),
	)

	return container
}
