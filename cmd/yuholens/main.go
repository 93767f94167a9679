package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/yuholens/internal/cli"
	"github.com/cloo-solutions/yuholens/internal/cli/batch"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "yuholens",
		Short: "Annual securities report analysis",
		Long: `yuholens reads the annual securities reports of a company universe, reports
year-over-year changes and studies the readers each narrative speaks to.

Environment variables (prefix YUHO_, also read from .env):
  YUHO_NLP_PROVIDER      openai (default) or anthropic
  YUHO_OPENAI_API_KEY    OpenAI API key
  YUHO_ANTHROPIC_API_KEY Anthropic API key
  YUHO_DATA_DIR          Filing directory (default: ./data)
  YUHO_RECORD_DIR        Attribute record directory (default: ./records)
  YUHO_DATABASE_URL      Postgres URL (optional)
  YUHO_TARGET_YEAR       Fiscal year analyzed by default (default: 2018)`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(batch.ReportCmd())
	rootCmd.AddCommand(batch.AttributesCmd())
	rootCmd.AddCommand(batch.CohortCmd())
	rootCmd.AddCommand(batch.ScreenCmd())
	rootCmd.AddCommand(batch.RunsCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
