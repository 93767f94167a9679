package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloo-solutions/yuholens/internal/cli"
	"github.com/cloo-solutions/yuholens/internal/report"
	"github.com/cloo-solutions/yuholens/internal/service"
	"github.com/spf13/cobra"
)

// CohortCmd compares the attribute distributions of profitable and unprofitable
// companies.
func CohortCmd() *cobra.Command {
	var (
		years        cli.YearRange
		out          string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "cohort",
		Short: "Compare reader attributes of profitable and unprofitable companies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				svc := service.NewCohortService(app.Source())

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
					comparison, err := svc.Compare(ctx, year, records)
					if err != nil {
						return fmt.Errorf("cohort %d: %w", year, err)
					}

					if outputFormat == "json" {
						if err := printJSON(w, comparison); err != nil {
							return err
						}
						continue
					}
					if err := report.RenderCohorts(w, year, comparison.Profitable, comparison.Unprofitable); err != nil {
						return fmt.Errorf("failed to write cohorts: %w", err)
					}
					if len(comparison.Skipped) > 0 {
						fmt.Fprintf(cmd.ErrOrStderr(), "%d: skipped %s\n", year, strings.Join(comparison.Skipped, ", "))
					}
				}
				return nil
			})
		},
	}

	cli.AddYearFlag(cmd.Flags(), &years)
	cmd.Flags().StringVarP(&out, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&outputFormat, "format", "markdown", "Output format (markdown or json)")

	return cmd
}
