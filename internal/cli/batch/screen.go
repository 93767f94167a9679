package batch

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/cloo-solutions/yuholens/internal/cli"
	"github.com/cloo-solutions/yuholens/internal/domain"
	"github.com/cloo-solutions/yuholens/internal/service"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ScreenCmd lists the companies whose stored distribution passes a screen.
func ScreenCmd() *cobra.Command {
	var (
		years        cli.YearRange
		rulePath     string
		outputFormat string
	)

	cmd := &cobra.Command{
		Use:   "screen",
		Short: "List companies whose readers match a screen",
		Long: `Screens the stored attribute distributions of each year. Without --rule the
promising-company screen is used. A rule file looks like:

  require:
    location: [関東]
    earnings: [-1M, 1M-3M]
  exclude:
    hobby: [SPORT]`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rule := domain.DefaultScreenRule()
			if rulePath != "" {
				var err error
				if rule, err = LoadScreenRule(rulePath); err != nil {
					return err
				}
			}

			return withApp(cmd, func(ctx context.Context, app *cli.App) error {
				svc := service.NewScreenService(app.Source())
				w := cmd.OutOrStdout()
				for _, year := range years.Years(app.Config.TargetYear) {
					matches, err := svc.Screen(ctx, year, rule)
					if err != nil {
						return fmt.Errorf("screen %d: %w", year, err)
					}
					if outputFormat == "json" {
						if err := printJSON(w, map[string]any{"year": year, "matches": matches}); err != nil {
							return err
						}
						continue
					}
					fmt.Fprintf(w, "%d: %d companies\n", year, len(matches))
					for _, m := range matches {
						fmt.Fprintf(w, "  %s\t%s\n", m.Company, formatTop(m.Top))
					}
				}
				return nil
			})
		},
	}

	cli.AddYearFlag(cmd.Flags(), &years)
	cmd.Flags().StringVar(&rulePath, "rule", "", "YAML or JSON screen rule file")
	cmd.Flags().StringVar(&outputFormat, "format", "text", "Output format (text or json)")

	return cmd
}

// LoadScreenRule reads and validates a rule file. JSON is valid YAML.
func LoadScreenRule(path string) (domain.ScreenRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ScreenRule{}, fmt.Errorf("failed to read rule: %w", err)
	}
	var rule domain.ScreenRule
	if err := yaml.Unmarshal(data, &rule); err != nil {
		return domain.ScreenRule{}, fmt.Errorf("failed to parse rule %s: %w", path, err)
	}
	if err := rule.Validate(); err != nil {
		return domain.ScreenRule{}, err
	}
	return rule, nil
}

func formatTop(top map[domain.AttributeCategory][]string) string {
	parts := make([]string, 0, len(top))
	for c, values := range top {
		parts = append(parts, fmt.Sprintf("%s=%s", c, strings.Join(values, "/")))
	}
	sort.Strings(parts)
	return strings.Join(parts, " ")
}
