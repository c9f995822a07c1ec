package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"riepilogo/internal/backend"
	"riepilogo/internal/cli"
	"riepilogo/internal/core"
)

func (a *app) expensesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses",
		Short: "List and record expenses",
	}
	cmd.AddCommand(a.expensesListCmd())
	cmd.AddCommand(a.expensesAddCmd())
	return cmd
}

func (a *app) expensesListCmd() *cobra.Command {
	var (
		pf       periodFlags
		all      bool
		asJSON   bool
		category string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the expenses of a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				p   core.Period
				err error
			)
			if !all {
				if p, err = pf.period(time.Now()); err != nil {
					return err
				}
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, b backend.Backend) error {
				expenses, err := b.ListExpenses(ctx)
				if err != nil {
					return err
				}
				out := make([]core.Expense, 0, len(expenses))
				for _, e := range expenses {
					if all || p.Contains(e.Date) {
						out = append(out, e)
					}
				}
				if cmd.Flags().Changed("category") {
					out = core.FilterByCategory(out, category)
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), out)
				}
				if len(out) == 0 {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.SubtleStyle.Render("no expenses"))
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tTITLE")
				for _, e := range out {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, core.FormatAmount(e.Amount), e.Title)
				}
				return tw.Flush()
			})
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&all, "all", false, "list every expense regardless of period")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().StringVar(&category, "category", "", "only list expenses in this exact category")
	return cmd
}

func (a *app) expensesAddCmd() *cobra.Command {
	var title, amount, category, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := buildExpense(title, amount, category, date, time.Now())
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, b backend.Backend) error {
				created, err := b.Create(ctx, e)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s expense %s: %s %s (%s)\n",
					cli.TitleStyle.Render("Recorded"), created.ID, core.FormatAmount(created.Amount), created.Category, created.Date)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "expense title")
	cmd.Flags().StringVar(&amount, "amount", "", "amount, dot or comma decimal separator")
	cmd.Flags().StringVar(&category, "category", "", "category label")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	return cmd
}

func buildExpense(title, amount, category, date string, now time.Time) (core.Expense, error) {
	amt, err := core.ParseAmount(amount)
	if err != nil {
		return core.Expense{}, fmt.Errorf("amount %q: %w", amount, err)
	}
	d := core.NewDate(now.Year(), int(now.Month()), now.Day())
	if date != "" {
		if d, err = core.ParseDate(date); err != nil {
			return core.Expense{}, err
		}
	}
	e := core.Expense{Title: title, Amount: amt, Category: category, Date: d}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}
