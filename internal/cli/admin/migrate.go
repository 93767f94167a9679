package admin

import (
	"errors"

	"github.com/cloo-solutions/yuholens/internal/config"
	"github.com/cloo-solutions/yuholens/internal/database"
	"github.com/spf13/cobra"
)

// MigrateCmd applies pending database migrations.
func MigrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.HasDatabase() {
				return errors.New("migrate requires YUHO_DATABASE_URL")
			}
			return database.Migrate(cfg.DatabaseURL, dir)
		},
	}

	cmd.Flags().StringVar(&dir, "migrations", database.DefaultMigrationsDir, "Migrations directory")

	return cmd
}
