package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"offlineReplay/internal/config"
	"offlineReplay/internal/storage/sqlite"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a capture database to Parquet",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}

	cmd.Flags().String("db", "capture/capture.db", "SQLite database to export")
	cmd.Flags().String("out", "", "output directory (defaults to the database directory)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadExport(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if _, err := os.Stat(cfg.DB); err != nil {
		return fmt.Errorf("open %s: %w", cfg.DB, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.Open(ctx, cfg.DB)
	if err != nil {
		return err
	}
	defer store.Close()

	dir := cfg.Out
	if dir == "" {
		dir = filepath.Dir(cfg.DB)
	}

	return exportTables(ctx, cmd, store, dir, logger)
}
