package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"riepilogo/internal/amqp"
	"riepilogo/internal/backend"
	"riepilogo/internal/cli"
	"riepilogo/internal/export/xlsx"
	"riepilogo/internal/report"
)

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every expense to a workbook",
	}
	cmd.AddCommand(a.exportXLSXCmd())
	cmd.AddCommand(a.exportSheetsCmd())
	return cmd
}

func (a *app) exportXLSXCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "xlsx",
		Short: "Write an Excel workbook with the Expenses and Summary sheets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, b backend.Backend) error {
				expenses, err := b.ListExpenses(ctx)
				if err != nil {
					return err
				}
				wb := report.NewAssembler(a.logger).Workbook(expenses)
				if err := wb.Verify(); err != nil {
					return err
				}
				return writeWorkbookFile(out, wb)
			})
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", cli.TitleStyle.Render("Saved"), out)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", report.FileName, "output file")
	return cmd
}

func writeWorkbookFile(path string, wb report.Workbook) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return xlsx.Write(f, wb)
}

func (a *app) exportSheetsCmd() *cobra.Command {
	var spreadsheetID string
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Queue a Google Sheets export for riepilogo-worker",
		Long: `Publish an export request on the AMQP exchange. riepilogo-worker picks it up
and rewrites the Expenses and Summary tabs of the spreadsheet. Without
--spreadsheet the worker's default spreadsheet is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			url := a.v.GetString("amqp-url")
			if url == "" {
				return errors.New("amqp url not configured (set --amqp-url or RIEPILOGO_AMQP_URL)")
			}
			client, err := amqp.NewClient(url, a.v.GetString("amqp-exchange"), a.v.GetString("amqp-queue"))
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout())
			defer cancel()
			msg := amqp.NewExportRequestMessage(spreadsheetID)
			if err := client.PublishExportRequest(ctx, msg); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s export request %s\n", cli.TitleStyle.Render("Queued"), msg.RequestID)
			return err
		},
	}
	cmd.Flags().StringVar(&spreadsheetID, "spreadsheet", "", "target spreadsheet id")
	cmd.Flags().String("amqp-url", "", "AMQP broker URL")
	cmd.Flags().String("amqp-exchange", "riepilogo", "AMQP exchange")
	cmd.Flags().String("amqp-queue", "export_requests", "AMQP queue")
	for _, name := range []string{"amqp-url", "amqp-exchange", "amqp-queue"} {
		_ = a.v.BindPFlag(name, cmd.Flags().Lookup(name))
	}
	return cmd
}
