package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/SscSPs/finance_tracker/internal/core/domain"
	portssvc "github.com/SscSPs/finance_tracker/internal/core/ports/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func balancesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Inspect stored account balances",
	}
	cmd.AddCommand(verifyBalancesCmd())
	return cmd
}

func verifyBalancesCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Recompute every balance from its transactions and report drift",
		Long: `Recompute initial balance plus income minus expenses for each of the user's
accounts and compare it with the stored balance. Nothing is modified; the command
exits non-zero when any account has drifted.`,
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, _ []string) error {
			var progress portssvc.VerifyProgress
			var bar *progressbar.ProgressBar
			if !jsonOutput {
				progress = func(done, total int) {
					if bar == nil {
						bar = newVerifyBar(total)
					}
					_ = bar.Set(done)
				}
			}

			checks, verifyErr := a.services.Reporting.VerifyBalances(ctx, user, progress)
			if bar != nil {
				_ = bar.Finish()
			}
			if verifyErr != nil && !errors.Is(verifyErr, apperrors.ErrConsistency) {
				return verifyErr
			}

			drifted := []domain.BalanceCheck{}
			for _, c := range checks {
				if !c.Consistent() {
					drifted = append(drifted, c)
				}
			}

			if jsonOutput {
				if err := printJSON(dto.BalanceVerificationResponse{Checked: len(checks), Drifted: drifted}); err != nil {
					return err
				}
				return verifyErr
			}

			for _, c := range checks {
				status := incomeStyle.Render("ok")
				if !c.Consistent() {
					status = expenseStyle.Render("drift " + money(c.Drift()))
				}
				fmt.Printf("%-24s stored %12s  expected %12s  (%d transactions)  %s\n",
					c.Name, money(c.StoredBalance), money(c.ExpectedBalance), c.TransactionCount, status)
			}

			if len(drifted) == 0 {
				fmt.Printf("All %d accounts are consistent.\n", len(checks))
				return nil
			}
			return verifyErr
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// newVerifyBar draws progress on stderr so stdout stays a clean report.
func newVerifyBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan]Checking accounts...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
