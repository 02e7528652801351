package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/core/services"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

const barWidth = 30

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")).MarginBottom(1)
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func dashboardCmd() *cobra.Command {
	var (
		user   string
		period string
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show balances, period totals, top expense categories and recent activity",
		Long: `Show the dashboard for a period. Presets: current_month (default), last_month,
last_3_months, current_year and custom (with --from and --to).`,
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, _ []string) error {
			dateFrom, err := parseDate(from)
			if err != nil {
				return err
			}
			dateTo, err := parseDate(to)
			if err != nil {
				return err
			}

			p, err := services.ResolvePeriod(period, time.Now(), dateFrom, dateTo)
			if err != nil {
				return err
			}

			d, err := a.services.Reporting.Dashboard(ctx, user, p)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(d)
			}
			fmt.Println(renderDashboard(d))
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	cmd.Flags().StringVar(&period, "period", services.PeriodCurrentMonth, "period preset")
	cmd.Flags().StringVar(&from, "from", "", "custom period start, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "custom period end, YYYY-MM-DD (inclusive)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func summaryCmd() *cobra.Command {
	var (
		user   string
		period string
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print income, expense and net for a period",
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, _ []string) error {
			dateFrom, err := parseDate(from)
			if err != nil {
				return err
			}
			dateTo, err := parseDate(to)
			if err != nil {
				return err
			}

			p, err := services.ResolvePeriod(period, time.Now(), dateFrom, dateTo)
			if err != nil {
				return err
			}
			totals, err := a.services.Reporting.PeriodTotals(ctx, user, p.From, p.To)
			if err != nil {
				return err
			}

			resp := dto.ToPeriodSummaryResponse(p, totals)
			if jsonOutput {
				return printJSON(resp)
			}
			fmt.Printf("%s → %s  income %s  expense %s  net %s\n",
				resp.FromDate, resp.ToDate, money(resp.Income), money(resp.Expense), money(resp.Balance))
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	cmd.Flags().StringVar(&period, "period", services.PeriodCurrentMonth, "period preset")
	cmd.Flags().StringVar(&from, "from", "", "custom period start, YYYY-MM-DD")
	cmd.Flags().StringVar(&to, "to", "", "custom period end, YYYY-MM-DD (inclusive)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func renderDashboard(d *domain.Dashboard) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Dashboard %s → %s",
		d.Period.From.Format(dateLayout), d.Period.To.Format(dateLayout))))
	b.WriteString("\n")

	net := d.Totals.Net()
	netStyle := incomeStyle
	if net.IsNegative() {
		netStyle = expenseStyle
	}
	summary := fmt.Sprintf("Total balance  %s\nIncome         %s\nExpense        %s\nNet            %s",
		money(d.TotalBalance),
		incomeStyle.Render(money(d.Totals.Income)),
		expenseStyle.Render(money(d.Totals.Expense)),
		netStyle.Render(money(net)))
	b.WriteString(boxStyle.Render(summary))
	b.WriteString("\n\n")

	b.WriteString(headerStyle.Render("Top expense categories"))
	b.WriteString("\n")
	if len(d.TopCategories) == 0 {
		b.WriteString(mutedStyle.Render("  no expenses in this period"))
		b.WriteString("\n")
	}
	for _, c := range d.TopCategories {
		b.WriteString(fmt.Sprintf("  %-16s %s %s\n", c.Name, categoryBar(c, d.Totals.Expense), money(c.Total)))
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("Recent transactions"))
	b.WriteString("\n")
	if len(d.RecentTransactions) == 0 {
		b.WriteString(mutedStyle.Render("  none yet"))
		b.WriteString("\n")
	}
	for _, t := range d.RecentTransactions {
		amount := incomeStyle.Render(signedMoney(t))
		if t.TransactionType == domain.Expense {
			amount = expenseStyle.Render(signedMoney(t))
		}
		b.WriteString(fmt.Sprintf("  %s  %s %-14s %s  %s\n",
			t.TransactionDate.Format(dateLayout), swatch(t.CategoryColor), t.CategoryName, amount,
			mutedStyle.Render(t.Description)))
	}

	return b.String()
}

// categoryBar draws the category's share of all expenses in its own color.
func categoryBar(c domain.CategoryTotal, totalExpense decimal.Decimal) string {
	if !totalExpense.IsPositive() {
		return ""
	}
	n := int(c.Total.Div(totalExpense).Mul(decimal.NewFromInt(barWidth)).Round(0).IntPart())
	if n < 1 {
		n = 1
	}
	bar := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render(strings.Repeat("█", n))
	return bar + strings.Repeat(" ", barWidth-min(n, barWidth))
}
