package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/spf13/cobra"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage bank accounts",
	}

	cmd.AddCommand(createAccountCmd())
	cmd.AddCommand(listAccountsCmd())
	cmd.AddCommand(updateAccountCmd())
	cmd.AddCommand(setAccountActiveCmd("deactivate", false))
	cmd.AddCommand(setAccountActiveCmd("activate", true))
	cmd.AddCommand(deleteAccountCmd())

	return cmd
}

func createAccountCmd() *cobra.Command {
	var (
		user        string
		name        string
		accountType string
		initial     string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account with an opening balance",
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, _ []string) error {
			initialBalance, err := parseAmount("initial balance", initial)
			if err != nil {
				return err
			}

			account, err := a.services.Account.CreateAccount(ctx, dto.CreateAccountRequest{
				Name:           name,
				AccountType:    domain.AccountType(accountType),
				InitialBalance: initialBalance,
			}, user)
			if err != nil {
				return err
			}
			fmt.Printf("Account %q created (%s), balance %s\n", account.Name, account.AccountID, money(account.CurrentBalance))
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	cmd.Flags().StringVar(&name, "name", "", "account name")
	cmd.Flags().StringVar(&accountType, "type", string(domain.Checking), "checking, savings, investment or other")
	cmd.Flags().StringVar(&initial, "initial", "0", "opening balance, may be negative")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func listAccountsCmd() *cobra.Command {
	var (
		user string
		all  bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's accounts",
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, _ []string) error {
			accounts, err := a.services.Account.ListAccounts(ctx, user, all)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(dto.ToListAccountResponse(accounts))
			}
			if len(accounts) == 0 {
				fmt.Println(mutedStyle.Render("No accounts found."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
			defer w.Flush()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Name"),
				headerStyle.Render("Type"),
				headerStyle.Render("Initial"),
				headerStyle.Render("Balance"))
			for _, acc := range accounts {
				name := acc.Name
				if !acc.IsActive {
					name += mutedStyle.Render(" (inactive)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
					acc.AccountID, name, acc.AccountType, money(acc.InitialBalance), money(acc.CurrentBalance))
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	cmd.Flags().BoolVar(&all, "all", false, "include inactive accounts")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func updateAccountCmd() *cobra.Command {
	var (
		user        string
		name        string
		accountType string
	)

	cmd := &cobra.Command{
		Use:   "update <account-id>",
		Short: "Rename an account or change its type",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			req := dto.UpdateAccountRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("type") {
				t := domain.AccountType(accountType)
				req.AccountType = &t
			}

			account, err := a.services.Account.UpdateAccount(ctx, args[0], req, user)
			if err != nil {
				return err
			}
			fmt.Printf("Account %q (%s) is %s.\n", account.Name, account.AccountID, account.AccountType)
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&accountType, "type", "", "checking, savings, investment or other")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func setAccountActiveCmd(use string, active bool) *cobra.Command {
	var user string

	short := "Stop new transactions from using an account"
	if active {
		short = "Allow new transactions on an account again"
	}

	cmd := &cobra.Command{
		Use:   use + " <account-id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, args []string) error {
			var err error
			if active {
				err = a.services.Account.ActivateAccount(ctx, args[0], user)
			} else {
				err = a.services.Account.DeactivateAccount(ctx, args[0], user)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Account %s %sd.\n", args[0], use)
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func deleteAccountCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "delete <account-id>",
		Short: "Delete an account and all of its transactions",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, args []string) error {
			if err := a.services.Account.DeleteAccount(ctx, args[0], user); err != nil {
				return err
			}
			fmt.Println("Account deleted.")
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
