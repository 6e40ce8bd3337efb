package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"offlineReplay/internal/config"
	"offlineReplay/internal/replay"
	"offlineReplay/internal/storage"
	"offlineReplay/internal/storage/postgres"
	"offlineReplay/internal/storage/sqlite"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "offline-replay",
		Short:        "Load a Parquet replay dataset into SQLite",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE:         runLoad,
	}

	root.PersistentFlags().String("config", "", "config file path")
	root.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.Flags().StringP("data", "d", ".", "directory containing blocks.parquet, transactions.parquet, logs.parquet")
	root.Flags().StringP("out", "o", "ethereum.db", "output SQLite file, or a postgres:// URL")

	root.AddCommand(newCaptureCmd(), newExportCmd())
	return root
}

func runLoad(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadReplay(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Report a missing input before the destination is created.
	if err := replay.CheckInputs(cfg.Data); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Output: %s\n", displayOut(cfg.Out))

	dest, err := openDestination(ctx, cfg.Out)
	if err != nil {
		return err
	}
	defer dest.Close()

	logger.Info("load start",
		zap.String("data", cfg.Data),
		zap.String("out", displayOut(cfg.Out)),
		zap.Int64("batch_size", cfg.BatchSize),
	)

	runner := replay.NewRunner(replay.RunConfig{
		DataDir:   cfg.Data,
		BatchSize: cfg.BatchSize,
	}, dest, nil, logger)

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	printSummary(out, cfg.Out, summary)
	return nil
}

func openDestination(ctx context.Context, out string) (storage.Destination, error) {
	if postgres.IsDSN(out) {
		store, err := postgres.NewStore(ctx, out)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return store, nil
	}
	store, err := sqlite.Open(ctx, out)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", out, err)
	}
	return store, nil
}

func printSummary(w io.Writer, out string, summary replay.Summary) {
	fmt.Fprintln(w, "\nDone.")
	fmt.Fprintf(w, "  %d blocks\n", summary.Blocks)
	fmt.Fprintf(w, "  %d transactions\n", summary.Transactions)
	fmt.Fprintf(w, "  %d logs\n", summary.Logs)
	if !postgres.IsDSN(out) {
		fmt.Fprintf(w, "\nQuery with:  sqlite3 %s\n", out)
	}
}

// displayOut hides the password of a Postgres URL.
func displayOut(out string) string {
	if !postgres.IsDSN(out) {
		return out
	}
	u, err := url.Parse(out)
	if err != nil {
		return "postgres"
	}
	return u.Redacted()
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
