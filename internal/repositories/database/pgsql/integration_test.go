package pgsql_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portsrepo "github.com/SscSPs/finance_tracker/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/platform/config"
	"github.com/SscSPs/finance_tracker/internal/repositories/database/pgsql"
	"github.com/SscSPs/finance_tracker/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// PostgresIntegrationSuite runs against a real database when PGSQL_TEST_URL is set.
// Every test works under its own user id so runs do not interfere.
type PostgresIntegrationSuite struct {
	suite.Suite
	ctx   context.Context
	url   string
	pool  *pgxpool.Pool
	repos portsrepo.RepositoryProvider
	svc   *portssvc.ServiceContainer
	user  string
	cats  map[string]domain.Category
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.url = os.Getenv("PGSQL_TEST_URL")
	if s.url == "" {
		s.T().Skip("PGSQL_TEST_URL not set, skipping PostgreSQL integration tests")
	}
	s.ctx = context.Background()

	_, err := pgsql.RunMigrations(s.url)
	s.Require().NoError(err)
	applied, err := pgsql.RunMigrations(s.url)
	s.Require().NoError(err)
	s.False(applied, "second migration run should be a no-op")

	s.pool, err = database.NewPgxPool(s.ctx, s.url, database.PoolOptions{
		MaxConns:    20,
		LockTimeout: 5 * time.Second,
		Ping:        true,
	})
	s.Require().NoError(err)

	s.repos = pgsql.NewRepositoryProvider(s.pool)
	s.svc = services.NewServiceContainer(&config.Config{DashboardTopCategories: 5, RecentTransactionsLimit: 5}, s.repos)
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	database.ClosePgxPool(s.pool)
}

func (s *PostgresIntegrationSuite) SetupTest() {
	s.user = "it-" + uuid.NewString()
	resp, err := s.svc.Category.EnsureDefaultCategories(s.ctx, s.user)
	s.Require().NoError(err)
	s.Require().Equal(11, resp.Created)

	list, err := s.svc.Category.ListCategories(s.ctx, s.user, "")
	s.Require().NoError(err)
	s.cats = map[string]domain.Category{}
	for _, c := range list {
		s.cats[string(c.CategoryType)+":"+c.Name] = c
	}
}

func (s *PostgresIntegrationSuite) account(name, initial string) domain.Account {
	acc, err := s.svc.Account.CreateAccount(s.ctx, dto.CreateAccountRequest{
		Name:           name,
		AccountType:    domain.Checking,
		InitialBalance: decimal.RequireFromString(initial),
	}, s.user)
	s.Require().NoError(err)
	return *acc
}

func (s *PostgresIntegrationSuite) balance(accountID string) decimal.Decimal {
	acc, err := s.svc.Account.GetAccountByID(s.ctx, accountID, s.user)
	s.Require().NoError(err)
	return acc.CurrentBalance
}

func (s *PostgresIntegrationSuite) request(accountID string, txnType domain.TransactionType, amount string, date time.Time) dto.TransactionRequest {
	category := s.cats["expense:Alimentação"]
	if txnType == domain.Income {
		category = s.cats["income:Salário"]
	}
	return dto.TransactionRequest{
		AccountID:       accountID,
		CategoryID:      category.CategoryID,
		Description:     "integration",
		Amount:          decimal.RequireFromString(amount),
		TransactionDate: date,
		TransactionType: txnType,
	}
}

func (s *PostgresIntegrationSuite) today() time.Time {
	return domain.DateOnly(time.Now().UTC())
}

func (s *PostgresIntegrationSuite) TestSeedIsIdempotent() {
	resp, err := s.svc.Category.EnsureDefaultCategories(s.ctx, s.user)
	s.Require().NoError(err)
	s.Equal(0, resp.Created)
	s.Equal(11, resp.Existing)
}

func (s *PostgresIntegrationSuite) TestCreateUpdateDeleteKeepBalances() {
	a := s.account("Conta A", "1000.00")
	b := s.account("Conta B", "250.00")

	res, err := s.svc.Transaction.CreateTransaction(s.ctx, s.request(a.AccountID, domain.Expense, "100.00", s.today()), s.user)
	s.Require().NoError(err)
	s.True(s.balance(a.AccountID).Equal(decimal.NewFromInt(900)))

	_, err = s.svc.Transaction.UpdateTransaction(s.ctx, res.Transaction.TransactionID,
		s.request(b.AccountID, domain.Income, "50.00", s.today()), s.user)
	s.Require().NoError(err)
	s.True(s.balance(a.AccountID).Equal(decimal.NewFromInt(1000)))
	s.True(s.balance(b.AccountID).Equal(decimal.NewFromInt(300)))

	s.Require().NoError(s.svc.Transaction.DeleteTransaction(s.ctx, res.Transaction.TransactionID, s.user))
	s.True(s.balance(b.AccountID).Equal(decimal.NewFromInt(250)))

	checks, err := s.svc.Reporting.VerifyBalances(s.ctx, s.user, nil)
	s.Require().NoError(err)
	s.Len(checks, 2)
}

func (s *PostgresIntegrationSuite) TestConcurrentWritesOnOneAccount() {
	a := s.account("Concorrente", "1000.00")

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := s.request(a.AccountID, domain.Income, "30.00", s.today())
			if i%2 == 1 {
				req = s.request(a.AccountID, domain.Expense, "20.00", s.today())
			}
			var err error
			for attempt := 0; attempt < 5; attempt++ {
				if _, err = s.svc.Transaction.CreateTransaction(s.ctx, req, s.user); !apperrors.IsRetryable(err) {
					break
				}
			}
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	// 10 x +30 and 10 x -20
	s.True(s.balance(a.AccountID).Equal(decimal.RequireFromString("1100.00")), "got %s", s.balance(a.AccountID))
	_, err := s.svc.Reporting.VerifyBalances(s.ctx, s.user, nil)
	s.NoError(err)
}

func (s *PostgresIntegrationSuite) TestLockTimeoutIsConcurrencyError() {
	a := s.account("Travada", "10.00")

	shortPool, err := database.NewPgxPool(s.ctx, s.url, database.PoolOptions{MaxConns: 2, LockTimeout: 200 * time.Millisecond})
	s.Require().NoError(err)
	defer shortPool.Close()
	short := pgsql.NewRepositoryProvider(shortPool)
	engine := services.NewBalanceEngine(short.TransactionRepo, short.AccountRepo, short.CategoryRepo, short.TransactionRepo)

	holder, err := s.pool.Begin(s.ctx)
	s.Require().NoError(err)
	defer holder.Rollback(s.ctx)
	_, err = holder.Exec(s.ctx, `SELECT 1 FROM accounts WHERE account_id = $1 FOR UPDATE`, a.AccountID)
	s.Require().NoError(err)

	err = engine.ApplyCreate(s.ctx, domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          s.user,
		AccountID:       a.AccountID,
		CategoryID:      s.cats["expense:Lazer"].CategoryID,
		Description:     "blocked",
		Amount:          decimal.NewFromInt(1),
		TransactionDate: s.today(),
		TransactionType: domain.Expense,
	})

	s.ErrorIs(err, apperrors.ErrConcurrency)
	s.True(apperrors.IsRetryable(err))
	s.True(s.balance(a.AccountID).Equal(decimal.NewFromInt(10)))
}

func (s *PostgresIntegrationSuite) TestPeriodBoundaries() {
	a := s.account("Período", "0")
	lastOfMarch := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)
	firstOfApril := lastOfMarch.AddDate(0, 0, 1)

	_, err := s.svc.Transaction.CreateTransaction(s.ctx, s.request(a.AccountID, domain.Income, "10.00", lastOfMarch), s.user)
	s.Require().NoError(err)
	_, err = s.svc.Transaction.CreateTransaction(s.ctx, s.request(a.AccountID, domain.Income, "99.00", firstOfApril), s.user)
	s.Require().NoError(err)

	totals, err := s.svc.Reporting.PeriodTotals(s.ctx, s.user, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), lastOfMarch)
	s.Require().NoError(err)
	s.True(totals.Income.Equal(decimal.NewFromInt(10)), "got %s", totals.Income)

	summary, err := s.svc.Reporting.CategorySummary(s.ctx, s.user, firstOfApril, firstOfApril, 0)
	s.Require().NoError(err)
	s.Empty(summary, "only expense categories are summarized")
}

func (s *PostgresIntegrationSuite) TestListFollowsPageTokens() {
	a := s.account("Paginada", "0")
	for i := 0; i < 5; i++ {
		_, err := s.svc.Transaction.CreateTransaction(s.ctx,
			s.request(a.AccountID, domain.Expense, fmt.Sprintf("%d.00", i+1), s.today().AddDate(0, 0, -i)), s.user)
		s.Require().NoError(err)
	}

	seen := map[string]bool{}
	var token *string
	for pages := 0; pages < 5; pages++ {
		resp, err := s.svc.Transaction.ListTransactions(s.ctx, s.user, dto.ListTransactionsParams{Limit: 2, NextToken: token})
		s.Require().NoError(err)
		s.True(resp.Totals.Expense.Equal(decimal.NewFromInt(15)))
		for _, txn := range resp.Transactions {
			s.False(seen[txn.TransactionID], "duplicate row across pages")
			seen[txn.TransactionID] = true
			s.Equal("Paginada", txn.AccountName)
		}
		if resp.NextToken == "" {
			break
		}
		next := resp.NextToken
		token = &next
	}
	s.Len(seen, 5)
}

func (s *PostgresIntegrationSuite) TestReferencedCategoryCannotBeDeleted() {
	a := s.account("Referência", "0")
	pets, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{
		Name: "Pets", CategoryType: domain.CategoryExpense, Color: "#123abc",
	}, s.user)
	s.Require().NoError(err)

	req := s.request(a.AccountID, domain.Expense, "12.00", s.today())
	req.CategoryID = pets.CategoryID
	_, err = s.svc.Transaction.CreateTransaction(s.ctx, req, s.user)
	s.Require().NoError(err)

	s.ErrorIs(s.svc.Category.DeleteCategory(s.ctx, pets.CategoryID, s.user), apperrors.ErrReferential)
	// The foreign key backs the service check.
	s.ErrorIs(s.repos.CategoryRepo.DeleteCategory(s.ctx, pets.CategoryID), apperrors.ErrReferential)

	_, err = s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{
		Name: "PETS", CategoryType: domain.CategoryExpense, Color: "#123abc",
	}, s.user)
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *PostgresIntegrationSuite) TestCategoryNamesAreUniqueAcrossTypes() {
	_, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{
		Name: "LAZER", CategoryType: domain.CategoryIncome, Color: "#123abc",
	}, s.user)
	s.ErrorIs(err, apperrors.ErrValidation, "Lazer already exists as an expense category")

	bonus, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{
		Name: "Bônus", CategoryType: domain.CategoryIncome, Color: "#123abc",
	}, s.user)
	s.Require().NoError(err)

	// The index backs the service check.
	clash := *bonus
	clash.CategoryID = uuid.NewString()
	clash.Name = "BÔNUS"
	clash.CategoryType = domain.CategoryExpense
	s.ErrorIs(s.repos.CategoryRepo.SaveCategory(s.ctx, clash), apperrors.ErrDuplicate)
}

func (s *PostgresIntegrationSuite) TestSeedSkipsNamesTheUserAlreadyUses() {
	user := "it-" + uuid.NewString()
	_, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{
		Name: "lazer", CategoryType: domain.CategoryIncome, Color: "#123abc",
	}, user)
	s.Require().NoError(err)

	resp, err := s.svc.Category.EnsureDefaultCategories(s.ctx, user)
	s.Require().NoError(err)
	s.Equal(10, resp.Created)
	s.Equal(1, resp.Existing)

	list, err := s.svc.Category.ListCategories(s.ctx, user, "")
	s.Require().NoError(err)
	s.Len(list, 11)
}

func (s *PostgresIntegrationSuite) TestRetypedCategoryRejectsMismatchedWrites() {
	a := s.account("Recategorizada", "0")
	gifts, err := s.svc.Category.CreateCategory(s.ctx, dto.CreateCategoryRequest{
		Name: "Presentes", CategoryType: domain.CategoryExpense, Color: "#123abc",
	}, s.user)
	s.Require().NoError(err)

	income := domain.CategoryIncome
	_, err = s.svc.Category.UpdateCategory(s.ctx, gifts.CategoryID, dto.UpdateCategoryRequest{CategoryType: &income}, s.user)
	s.Require().NoError(err)

	// The engine re-reads the category under lock, even when the caller skipped validation.
	err = s.svc.Engine.ApplyCreate(s.ctx, domain.Transaction{
		TransactionID:   uuid.NewString(),
		UserID:          s.user,
		AccountID:       a.AccountID,
		CategoryID:      gifts.CategoryID,
		Description:     "stale",
		Amount:          decimal.NewFromInt(3),
		TransactionDate: s.today(),
		TransactionType: domain.Expense,
	})
	s.ErrorIs(err, apperrors.ErrValidation)
	s.True(s.balance(a.AccountID).IsZero())
}

func (s *PostgresIntegrationSuite) TestDeletingAccountRemovesItsTransactions() {
	a := s.account("Temporária", "0")
	res, err := s.svc.Transaction.CreateTransaction(s.ctx, s.request(a.AccountID, domain.Expense, "5.00", s.today()), s.user)
	s.Require().NoError(err)

	s.Require().NoError(s.svc.Account.DeleteAccount(s.ctx, a.AccountID, s.user))

	_, err = s.svc.Transaction.GetTransactionByID(s.ctx, res.Transaction.TransactionID, s.user)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestVerifyBalancesDetectsDrift() {
	a := s.account("Deriva", "100.00")
	_, err := s.svc.Transaction.CreateTransaction(s.ctx, s.request(a.AccountID, domain.Expense, "40.00", s.today()), s.user)
	s.Require().NoError(err)

	_, err = s.pool.Exec(s.ctx, `UPDATE accounts SET current_balance = current_balance + 1 WHERE account_id = $1`, a.AccountID)
	s.Require().NoError(err)

	checks, err := s.svc.Reporting.VerifyBalances(s.ctx, s.user, nil)
	s.True(errors.Is(err, apperrors.ErrConsistency))
	s.Require().Len(checks, 1)
	s.True(checks[0].ExpectedBalance.Equal(decimal.NewFromInt(60)))
	s.True(checks[0].Drift().Equal(decimal.NewFromInt(1)))
	s.Equal(1, checks[0].TransactionCount)
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}
