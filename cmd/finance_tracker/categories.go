package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/SscSPs/finance_tracker/internal/core/domain"
	"github.com/SscSPs/finance_tracker/internal/dto"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage income and expense categories",
	}

	cmd.AddCommand(seedCategoriesCmd())
	cmd.AddCommand(listCategoriesCmd())
	cmd.AddCommand(addCategoryCmd())
	cmd.AddCommand(updateCategoryCmd())
	cmd.AddCommand(deleteCategoryCmd())

	return cmd
}

func seedCategoriesCmd() *cobra.Command {
	var users []string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the default categories for one or more users",
		Long: `Create the default income and expense categories for each user.
Categories that already exist are left alone, so the command can be re-run.`,
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, _ []string) error {
			for _, user := range users {
				resp, err := a.services.Category.EnsureDefaultCategories(ctx, user)
				if err != nil {
					return fmt.Errorf("seeding categories for %s: %w", user, err)
				}
				fmt.Printf("%s: %d created, %d already present\n", resp.UserID, resp.Created, resp.Existing)
			}
			return nil
		}),
	}

	cmd.Flags().StringSliceVar(&users, "user", nil, "user id to seed (repeatable)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func listCategoriesCmd() *cobra.Command {
	var (
		user         string
		categoryType string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a user's categories",
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, _ []string) error {
			categories, err := a.services.Category.ListCategories(ctx, user, domain.CategoryType(categoryType))
			if err != nil {
				return err
			}
			if len(categories) == 0 {
				fmt.Println(mutedStyle.Render("No categories found. Use 'finance_tracker categories seed' to create the defaults."))
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			defer w.Flush()
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				headerStyle.Render("ID"),
				headerStyle.Render("Name"),
				headerStyle.Render("Type"),
				headerStyle.Render("Color"))
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				strings.Repeat("-", 36), strings.Repeat("-", 20), strings.Repeat("-", 7), strings.Repeat("-", 9))
			for _, c := range categories {
				name := c.Name
				if c.IsDefault {
					name += mutedStyle.Render(" (default)")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.CategoryID, name, c.CategoryType, swatch(c.Color)+" "+c.Color)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	cmd.Flags().StringVar(&categoryType, "type", "", "only income or expense categories")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func addCategoryCmd() *cobra.Command {
	var (
		user         string
		categoryType string
		color        string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a custom category",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, args []string) error {
			category, err := a.services.Category.CreateCategory(ctx, dto.CreateCategoryRequest{
				Name:         args[0],
				CategoryType: domain.CategoryType(categoryType),
				Color:        color,
			}, user)
			if err != nil {
				return err
			}
			fmt.Printf("%s Category %q created (%s)\n", swatch(category.Color), category.Name, category.CategoryID)
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	cmd.Flags().StringVar(&categoryType, "type", "", "income or expense")
	cmd.Flags().StringVar(&color, "color", "#6b7280", "display color as #rrggbb")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func updateCategoryCmd() *cobra.Command {
	var (
		user         string
		name         string
		categoryType string
		color        string
	)

	cmd := &cobra.Command{
		Use:   "update <category-id>",
		Short: "Edit a custom category; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, cmd *cobra.Command, a *app, args []string) error {
			req := dto.UpdateCategoryRequest{}
			if cmd.Flags().Changed("name") {
				req.Name = &name
			}
			if cmd.Flags().Changed("type") {
				t := domain.CategoryType(categoryType)
				req.CategoryType = &t
			}
			if cmd.Flags().Changed("color") {
				req.Color = &color
			}

			category, err := a.services.Category.UpdateCategory(ctx, args[0], req, user)
			if err != nil {
				return err
			}
			fmt.Printf("%s Category %q updated.\n", swatch(category.Color), category.Name)
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	cmd.Flags().StringVar(&name, "name", "", "new name")
	cmd.Flags().StringVar(&categoryType, "type", "", "income or expense")
	cmd.Flags().StringVar(&color, "color", "", "display color as #rrggbb")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func deleteCategoryCmd() *cobra.Command {
	var user string

	cmd := &cobra.Command{
		Use:   "delete <category-id>",
		Short: "Delete a custom category that no transaction uses",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, _ *cobra.Command, a *app, args []string) error {
			if err := a.services.Category.DeleteCategory(ctx, args[0], user); err != nil {
				return err
			}
			fmt.Println("Category deleted.")
			return nil
		}),
	}

	cmd.Flags().StringVar(&user, "user", "", "owner user id")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

// swatch renders a block in the category's own color.
func swatch(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("■")
}
