package batch

import (
	"context"
	"fmt"
	"log"

	"github.com/cloo-solutions/yuholens/internal/cli"
	"github.com/cloo-solutions/yuholens/internal/report"
	"github.com/cloo-solutions/yuholens/internal/service"
	"github.com/spf13/cobra"
)

// ReportCmd renders the year-over-year Markdown report.
func ReportCmd() *cobra.Command {
	var (
		years cli.YearRange
		out   string
	)

	cmd := &cobra.Command{
		Use:     "report",
		Short:   "Write the year-over-year filing report",
		Long:    "Compares each company's filing with the previous year's and writes a Markdown report.",
		Example: "  yuholens report -y 2018 -o report_2018.md",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				analysis, err := app.Analysis()
				if err != nil {
					return err
				}
				svc, err := service.NewReportService(analysis, service.ReportConfig{
					MaxLength:           app.Config.MaxTextLength,
					SimilarityThreshold: app.Config.SimilarityThreshold,
					SummaryRatio:        app.Config.SummaryRatio,
				}, app.RunRecorder())
				if err != nil {
					return err
				}

				w, closeOut, err := output(cmd, out)
				if err != nil {
					return err
				}
				defer closeOut()

				for _, year := range years.Years(app.Config.TargetYear) {
					records, err := app.CompanyRecords(ctx, year)
					if err != nil {
						return err
					}
					reports, err := svc.BuildAll(ctx, year, records)
					if err != nil {
						return fmt.Errorf("report %d: %w", year, err)
					}
					if err := report.Render(w, reports); err != nil {
						return fmt.Errorf("failed to write report: %w", err)
					}
					log.Printf("report: %d companies written (%d)", len(reports), year)
				}
				return nil
			})
		},
	}

	cli.AddYearFlag(cmd.Flags(), &years)
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: stdout)")

	return cmd
}
