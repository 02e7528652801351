package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/SscSPs/finance_tracker/internal/utils"
	"github.com/spf13/cobra"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transactions",
		Short: "Record, edit and list income and expenses",
	}

	cmd.AddCommand(createTransactionCmd())
	cmd.AddCommand(updateTransactionCmd())
	cmd.AddCommand(deleteTransactionCmd())
	cmd.AddCommand(listTransactionsCmd())

	return cmd
}

// transactionFlags are shared by create and update.
type transactionFlags struct {
	user        string
	account     string
	category    string
	description string
	amount      string
	date        string
	txnType     string
}

func (f *transactionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.user, "user", "", "owner user id")
	cmd.Flags().StringVar(&f.account, "account", "", "account id")
	cmd.Flags().StringVar(&f.category, "category", "", "category id")
	cmd.Flags().StringVar(&f.description, "description", "", "description")
	cmd.Flags().StringVar(&f.amount, "amount", "", "positive amount with up to 2 decimals")
	cmd.Flags().StringVar(&f.date, "date", "", "transaction date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.txnType, "type", "", "income or expense")
	_ = cmd.MarkFlagRequired("user")
}

// apply overwrites req with every flag the user set.
func (f *transactionFlags) apply(cmd *cobra.Command, req *dto.TransactionRequest) error {
	flags := cmd.Flags()
	if flags.Changed("account") {
		req.AccountID = f.account
	}
	if flags.Changed("category") {
		req.CategoryID = f.category
	}
	if flags.Changed("description") {
		req.Description = f.description
	}
	if flags.Changed("amount") {
		amount, err := parseAmount("amount", f.amount)
		if err != nil {
			return err
		}
		req.Amount = amount
	}
	if flags.Changed("date") {
		date, err := parseDate(f.date)
		if err != nil {
			return err
		}
		if date != nil {
			req.TransactionDate = *date
		}
	}
	if flags.Changed("type") {
		req.TransactionType = domain.TransactionType(f.txnType)
	}
	return nil
}

func createTransactionCmd() *cobra.Command {
	f := &transactionFlags{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Record a transaction and update the account balance",
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, _ []string) error {
			req := dto.TransactionRequest{TransactionDate: time.Now()}
			if err := f.apply(cmd, &req); err != nil {
				return err
			}

			result, err := a.services.Transaction.CreateTransaction(ctx, req, f.user)
			if err != nil {
				return err
			}
			printTransactionResult("created", result)
			return nil
		}),
	}

	f.register(cmd)
	return cmd
}

func updateTransactionCmd() *cobra.Command {
	f := &transactionFlags{}

	cmd := &cobra.Command{
		Use:   "update <transaction-id>",
		Short: "Edit a transaction; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			current, err := a.services.Transaction.GetTransactionByID(ctx, args[0], f.user)
			if err != nil {
				return err
			}

			req := dto.TransactionRequest{
				AccountID:       current.AccountID,
				CategoryID:      current.CategoryID,
				Description:     current.Description,
				Amount:          current.Amount,
				TransactionDate: current.TransactionDate,
				TransactionType: current.TransactionType,
			}
			if err := f.apply(cmd, &req); err != nil {
				return err
			}

			result, err := a.services.Transaction.UpdateTransaction(ctx, args[0], req, f.user)
			if err != nil {
				return err
			}
			printTransactionResult("updated", result)
			return nil
		}),
	}

	f.register(cmd)
	return cmd
}

func deleteTransactionCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete a transaction and reverse its effect on the balance",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, args []string) error {
			if err := a.services.Transaction.DeleteTransaction(ctx, args[0], user); err != nil {
				return err
			}
			fmt.Println("Transaction deleted.")
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func listTransactionsCmd() *cobra.Command {
	var (
		user     string
		from     string
		to       string
		txnType  string
		account  string
		category string
		limit    int
		token    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions, newest first",
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, _ []string) error {
			dateFrom, err := parseDate(from)
			if err != nil {
				return err
			}
			dateTo, err := parseDate(to)
			if err != nil {
				return err
			}

			params := dto.ListTransactionsParams{
				Filter: domain.TransactionFilter{
					DateFrom:        dateFrom,
					DateTo:          dateTo,
					TransactionType: domain.TransactionType(txnType),
					AccountID:       account,
					CategoryID:      category,
				},
				Limit: limit,
			}
			if token != "" {
				params.NextToken = &token
			}

			resp, err := a.services.Transaction.ListTransactions(ctx, user, params)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				headerStyle.Render("Date"),
				headerStyle.Render("Amount"),
				headerStyle.Render("Category"),
				headerStyle.Render("Account"),
				headerStyle.Render("Description"))
			for _, t := range resp.Transactions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					t.TransactionDate.Format(dateLayout),
					signedMoney(t),
					swatch(t.CategoryColor)+" "+t.CategoryName,
					t.AccountName,
					t.Description)
			}
			_ = w.Flush()

			fmt.Printf("\nIncome %s  Expense %s  Net %s\n",
				money(resp.Totals.Income), money(resp.Totals.Expense), money(resp.Totals.Net()))
			if resp.NextToken != "" {
				fmt.Println(mutedStyle.Render("more: --token " + resp.NextToken))
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	cmd.Flags().StringVar(&from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "last date, YYYY-MM-DD (inclusive)")
	cmd.Flags().StringVar(&txnType, "type", "", "income or expense")
	cmd.Flags().StringVar(&account, "account", "", "account id")
	cmd.Flags().StringVar(&category, "category", "", "category id")
	cmd.Flags().IntVar(&limit, "limit", 20, "page size (max 100)")
	cmd.Flags().StringVar(&token, "token", "", "page token from a previous listing")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func printTransactionResult(verb string, result *dto.TransactionResult) {
	t := result.Transaction
	fmt.Printf("Transaction %s (%s): %s %s on %s, %s\n",
		verb, t.TransactionID, signedMoney(t), swatch(t.CategoryColor)+" "+t.CategoryName,
		t.AccountName, t.TransactionDate.Format(dateLayout))
	if len(result.Warnings) > 0 {
		fmt.Fprintln(os.Stderr, warnStyle.Render("warnings"))
		printFields(result.Warnings, warnStyle)
	}
}

func signedMoney(t domain.Transaction) string {
	if t.TransactionType == domain.Expense {
		return utils.FormatSigned(t.Amount.Neg())
	}
	return utils.FormatSigned(t.Amount)
}
