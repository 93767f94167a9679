// Package admin implements the yuholensd server commands.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloo-solutions/yuholens/internal/api/handlers"
	"github.com/cloo-solutions/yuholens/internal/cli"
	"github.com/cloo-solutions/yuholens/internal/config"
	"github.com/cloo-solutions/yuholens/internal/database"
	"github.com/cloo-solutions/yuholens/internal/jobs"
	"github.com/cloo-solutions/yuholens/internal/repository"
	"github.com/cloo-solutions/yuholens/internal/server"
	"github.com/cloo-solutions/yuholens/internal/service"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Serve stored attribute distributions and screens over HTTP",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "", "Port to listen on (default: YUHO_PORT)")
	cmd.Flags().Bool("no-migrate", false, "Skip automatic database migrations on startup")
	cmd.Flags().String("migrations", database.DefaultMigrationsDir, "Migrations directory")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.Port = port
	}

	noMigrate, _ := cmd.Flags().GetBool("no-migrate")
	if cfg.HasDatabase() && !noMigrate {
		dir, _ := cmd.Flags().GetString("migrations")
		if err := database.Migrate(cfg.DatabaseURL, dir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	app, err := cli.OpenWithConfig(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	if cfg.APIToken == "" {
		log.Println("serve: YUHO_API_TOKEN not set, API is unauthenticated")
	}

	source := app.Source()
	routerCfg := server.RouterConfig{
		APIToken:       cfg.APIToken,
		CompanyHandler: handlers.NewCompanyHandler(source),
		ScreenHandler:  handlers.NewScreenHandler(service.NewScreenService(source)),
	}
	if app.Runs != nil {
		routerCfg.RunHandler = handlers.NewRunHandler(app.Runs)
	}

	var syncWorker *jobs.Worker
	if app.Pool != nil && cfg.SyncInterval > 0 {
		var years []int
		for year := cfg.FirstYear + 1; year <= cfg.TargetYear; year++ {
			years = append(years, year)
		}
		syncer := repository.NewRecordSyncer(repository.NewTxRunner(app.Pool), app.Records)
		syncWorker = jobs.NewWorker("record_sync", jobs.NewRecordSync(app.Records, syncer, years), cfg.SyncInterval)
		go syncWorker.Start(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	}
	log.Println("shutting down...")

	if syncWorker != nil {
		syncWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
