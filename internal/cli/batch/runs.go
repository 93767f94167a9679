package batch

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/cloo-solutions/yuholens/internal/cli"
	"github.com/spf13/cobra"
)

// RunsCmd lists recent analysis runs.
func RunsCmd() *cobra.Command {
	var (
		limit        int
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent analysis runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				if app.Runs == nil {
					return errors.New("runs requires YUHO_DATABASE_URL")
				}
				runs, err := app.Runs.Recent(ctx, limit)
				if err != nil {
					return fmt.Errorf("failed to list runs: %w", err)
				}

				if outputFormat == "json" {
					return printJSON(cmd.OutOrStdout(), runs)
				}

				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tKIND\tYEAR\tSTATUS\tPROCESSED\tSKIPPED\tSTARTED\tDURATION")
				for _, r := range runs {
					duration := "-"
					if r.FinishedAt != nil {
						duration = r.FinishedAt.Sub(r.StartedAt).Round(time.Second).String()
					}
					fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\t%s\t%s\n",
						r.ID, r.Kind, r.Year, r.Status, r.Processed, r.Skipped,
						r.StartedAt.Local().Format(time.DateTime), duration)
				}
				return tw.Flush()
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs")
	cmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text or json)")

	return cmd
}
