package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"riepilogo/internal/backend"
	"riepilogo/internal/cli"
	"riepilogo/internal/core"
	"riepilogo/internal/report"
	"riepilogo/internal/summary"
)

// periodFlags holds --year and --month; zero means the current one.
type periodFlags struct {
	year  int
	month int
}

func (p *periodFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&p.year, "year", 0, "year of the period (default: current year)")
	cmd.Flags().IntVar(&p.month, "month", 0, "month of the period, 1-12 (default: current month)")
}

func (p *periodFlags) period(now time.Time) (core.Period, error) {
	period := core.NewPeriod(now.Year(), int(now.Month()))
	if p.year != 0 {
		period.Year = p.year
	}
	if p.month != 0 {
		period.Month = p.month
	}
	if err := period.Validate(); err != nil {
		return core.Period{}, err
	}
	return period, nil
}

func (a *app) summaryCmd() *cobra.Command {
	var (
		pf     periodFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the totals of one month",
		Long:  `Aggregate one calendar month: total, per-category breakdown, average per category and top category.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := pf.period(time.Now())
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, b backend.Backend) error {
				s, err := summary.NewEngine(b, a.logger).Aggregate(ctx, p)
				if err != nil {
					return err
				}
				stats := report.Stats(s)
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), stats)
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderStats(stats))
				return err
			})
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a rendered view")
	return cmd
}

func (a *app) compareCmd() *cobra.Command {
	var (
		pf         periodFlags
		noPrevious bool
		asJSON     bool
	)
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare a month with the month before it",
		Long: `Aggregate a month and the one before it, then report the percentage change
of the total. January is compared with December of the previous year.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := pf.period(time.Now())
			if err != nil {
				return err
			}
			return a.withStore(cmd.Context(), func(ctx context.Context, b backend.Backend) error {
				cmp, cmpErr := summary.NewEngine(b, a.logger).Compare(ctx, p, !noPrevious)
				vm := report.NewAssembler(a.logger).View(ctx, cmp, cmpErr)
				if !vm.Loaded() {
					return cmpErr
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), vm)
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), cli.RenderView(vm))
				return err
			})
		},
	}
	pf.register(cmd)
	cmd.Flags().BoolVar(&noPrevious, "no-previous", false, "only show the selected month")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a rendered view")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
