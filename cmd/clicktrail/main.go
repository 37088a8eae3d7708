package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/vadimbarashkov/clicktrail/internal/app"
	"github.com/vadimbarashkov/clicktrail/internal/config"
	"github.com/vadimbarashkov/clicktrail/migrations"
	"github.com/vadimbarashkov/clicktrail/pkg/postgres"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "clicktrail",
		Short:        "URL shortener with click analytics",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("CONFIG_PATH"),
		"path to the YAML config file (defaults to $CONFIG_PATH)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), configPath)
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate(cmd, configPath)
		},
	}

	rootCmd.RunE = serveCmd.RunE
	rootCmd.AddCommand(serveCmd, migrateCmd)

	return rootCmd
}

func serve(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := app.NewLogger(cfg)

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Error("service stopped with error", "err", err)
		return err
	}

	return nil
}

func migrate(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	version, err := postgres.RunMigrations(migrations.FS, cfg.Postgres.DSN())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "schema at version %d\n", version)

	return nil
}
