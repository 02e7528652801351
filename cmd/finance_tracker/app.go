package main

import (
	"context"
	"fmt"
	"time"

	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/repositories/database/pgsql"
	"github.com/SscSPs/finance_tracker/internal/utils"
	"github.com/SscSPs/finance_tracker/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

// app holds what a command needs to talk to the database.
type app struct {
	pool     *pgxpool.Pool
	services *portssvc.ServiceContainer
}

// openApp is swapped out in tests to run commands against stub services.
var openApp = openDatabaseApp

func openDatabaseApp(ctx context.Context) (*app, error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxConns:    cfg.DBMaxConns,
		LockTimeout: cfg.DBLockTimeout,
		Ping:        cfg.EnableDBCheck,
	})
	if err != nil {
		return nil, err
	}

	repos := pgsql.NewRepositoryProvider(pool)
	return &app{
		pool:     pool,
		services: services.NewServiceContainer(cfg, repos),
	}, nil
}

func (a *app) Close() {
	database.ClosePgxPool(a.pool)
}

// withApp opens the database for the duration of one command.
func withApp(fn func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		return fn(ctx, cmd, a, args)
	}
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return &t, nil
}

func parseAmount(flag, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q", flag, value)
	}
	return d, nil
}

func money(d decimal.Decimal) string {
	return utils.FormatMoney(d)
}
