package batch

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/cloo-solutions/yuholens/internal/cli"
	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/repository"
	"github.com/cloo-solutions/yuholens/internal/service"
	"github.com/spf13/cobra"
)

// AttributesCmd groups the reader attribute commands.
func AttributesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "attributes",
		Aliases: []string{"attrs"},
		Short:   "Collect and inspect reader attribute distributions",
	}

	cmd.AddCommand(AttributesCollectCmd())
	cmd.AddCommand(AttributesSyncCmd())
	cmd.AddCommand(AttributesShowCmd())

	return cmd
}

func AttributesCollectCmd() *cobra.Command {
	var years cli.YearRange

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Infer and store the reader attributes of every company",
		Long: `Infers reader attributes from the previous year's management and finance
narrative of each company and stores them under the fiscal year. Records are written
to the record files and, when a database is configured, to Postgres.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				analysis, err := app.Analysis()
				if err != nil {
					return err
				}
				svc, err := service.NewAttributeService(analysis, app.Config.AttributeTextLength, app.RunRecorder(), app.Stores()...)
				if err != nil {
					return err
				}

				for _, year := range years.Years(app.Config.TargetYear) {
					records, err := app.CompanyRecords(ctx, year)
					if err != nil {
						return err
					}
					result, err := svc.Collect(ctx, year, records)
					if err != nil {
						return fmt.Errorf("collect %d: %w", year, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%d: %d stored, %d skipped\n", year, len(result.Processed), len(result.Skipped))
				}
				return nil
			})
		},
	}

	cli.AddYearFlag(cmd.Flags(), &years)

	return cmd
}

func AttributesSyncCmd() *cobra.Command {
	var years cli.YearRange

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Copy the record files into Postgres",
		Long:  "Replaces the stored distributions of each year with the contents of its record file.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if app.Pool == nil {
					return errors.New("sync requires YUHO_DATABASE_URL")
				}
				runner := repository.NewTxRunner(app.Pool)
				for _, year := range years.Years(app.Config.TargetYear) {
					n, err := runner.SyncYear(ctx, app.Records, year)
					if err != nil {
						return fmt.Errorf("sync %d: %w", year, err)
					}
					log.Printf("attributes: synced %d companies (%d)", n, year)
					fmt.Fprintf(cmd.OutOrStdout(), "%d: %d synced\n", year, n)
				}
				return nil
			})
		},
	}

	cli.AddYearFlag(cmd.Flags(), &years)

	return cmd
}

func AttributesShowCmd() *cobra.Command {
	var (
		years        cli.YearRange
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "show <company>",
		Short: "Print the stored distribution of a company",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				for _, year := range years.Years(app.Config.TargetYear) {
					d, err := app.Source().Load(ctx, year, args[0])
					if err != nil {
						return fmt.Errorf("%s (%d): %w", args[0], year, err)
					}
					if outputFormat == "json" {
						if err := printJSON(cmd.OutOrStdout(), d); err != nil {
							return err
						}
						continue
					}
					writeDistribution(cmd, year, args[0], d)
				}
				return nil
			})
		},
	}

	cli.AddYearFlag(cmd.Flags(), &years)
	cmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text or json)")

	return cmd
}

func writeDistribution(cmd *cobra.Command, year int, company string, d *domain.AttributeDistribution) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%s (%d)\n", company, year)
	for _, c := range domain.AllCategories {
		values := d.Values(c)
		if len(values) == 0 {
			fmt.Fprintf(w, "  %-20s -\n", c)
			continue
		}
		fmt.Fprintf(w, "  %-20s", c)
		for _, v := range values {
			fmt.Fprintf(w, " %s=%.3f", v.Label, v.Weight)
		}
		fmt.Fprintln(w)
	}
}
