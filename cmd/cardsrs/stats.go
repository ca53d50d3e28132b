package main

import (
	"bytes"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/cardsrs/internal/pdf"
	"github.com/at-ishikawa/cardsrs/internal/statistics"
)

func newStatsCommand() *cobra.Command {
	var generatePDF bool

	command := &cobra.Command{
		Use:   "stats",
		Short: "Show study statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := currentUser()
			if err != nil {
				return err
			}
			env, err := setupEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				_ = env.Close()
			}()

			stats, err := env.svc.Statistics(cmd.Context(), user)
			if err != nil {
				return fmt.Errorf("svc.Statistics() > %w", err)
			}

			date := time.Now().Format("2006-01-02")
			var report bytes.Buffer
			if err := statistics.RenderMarkdown(&report, stats, date); err != nil {
				return fmt.Errorf("statistics.RenderMarkdown() > %w", err)
			}
			out := cmd.OutOrStdout()
			if _, err := out.Write(report.Bytes()); err != nil {
				return fmt.Errorf("out.Write() > %w", err)
			}

			if !generatePDF {
				return nil
			}
			pdfPath, err := pdf.WriteReport(env.cfg.Outputs.ReportDirectory, "statistics-"+date, report.Bytes())
			if err != nil {
				return fmt.Errorf("pdf.WriteReport() > %w", err)
			}
			_, _ = color.New(color.FgGreen).Fprintf(out, "PDF report written to %s\n", pdfPath)
			return nil
		},
	}
	command.Flags().BoolVar(&generatePDF, "pdf", false, "Generate a PDF report in the report directory")
	return command
}
