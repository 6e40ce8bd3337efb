package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"offlineReplay/internal/capture"
	"offlineReplay/internal/chain"
	"offlineReplay/internal/config"
	"offlineReplay/internal/dataset"
	"offlineReplay/internal/storage/sqlite"
)

const captureDBName = "capture.db"

func newCaptureCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "capture",
		Short: "Capture a block range from an archive RPC into SQLite and Parquet",
		Args:  cobra.NoArgs,
		RunE:  runCapture,
	}

	cmd.Flags().String("rpc", "", "archive JSON-RPC URL")
	cmd.Flags().Uint64("start", 0, "first block (inclusive)")
	cmd.Flags().Uint64("end", 0, "last block (inclusive), 0 means latest")
	cmd.Flags().String("out", "capture", "output directory")
	cmd.Flags().Bool("traces", true, "fetch call traces via debug_traceBlockByNumber")
	cmd.Flags().Duration("block-delay", 500*time.Millisecond, "pause between blocks")
	cmd.Flags().Int("max-retries", 8, "maximum retry attempts per RPC call")
	cmd.Flags().Duration("retry-backoff", 2*time.Second, "initial retry backoff")

	return cmd
}

func runCapture(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadCapture(cfgFile, cmd.Flags())
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

	chainClient, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer chainClient.Close()

	if chainID, err := chainClient.GetChainID(ctx); err == nil {
		logger.Info("connected", zap.String("chain_id", chainID.String()))
	}

	dbPath := filepath.Join(cfg.Out, captureDBName)
	store, err := sqlite.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Output: %s\n", dbPath)

	runner := capture.NewRunner(capture.RunConfig{
		StartBlock: cfg.StartBlock,
		EndBlock:   cfg.EndBlock,
		Traces:     cfg.Traces,
		BlockDelay: cfg.BlockDelay,
		Retry: capture.Retry{
			MaxRetries: cfg.MaxRetries,
			Backoff:    cfg.RetryBackoff,
		},
	}, chainClient, store, logger)

	res, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if res.UpToDate {
		fmt.Fprintf(out, "Already captured up to block %d. Nothing to do.\n", res.From-1)
	} else {
		fmt.Fprintf(out, "Captured %d blocks (%d to %d)\n", res.Blocks, res.From, res.To)
	}

	fmt.Fprintln(out, "\nExporting to Parquet...")
	return exportTables(ctx, cmd, store, cfg.Out, logger)
}

// exportTables writes every export table the database holds; a loaded
// replay database has no traces table.
func exportTables(ctx context.Context, cmd *cobra.Command, store *sqlite.Store, dir string, logger *zap.Logger) error {
	tables := make([]dataset.Table, 0, len(dataset.ExportTables))
	for _, table := range dataset.ExportTables {
		ok, err := store.HasTable(ctx, table.Name)
		if err != nil {
			return err
		}
		if ok {
			tables = append(tables, table)
		}
	}

	results, err := dataset.NewExporter(store.DB(), logger).Export(ctx, dir, tables)
	if err != nil {
		return fmt.Errorf("export parquet: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, r := range results {
		fmt.Fprintf(out, "  %s: %d rows -> %s\n", r.Table, r.Rows, r.Path)
	}
	fmt.Fprintf(out, "\nDone. Output in %s\n", dir)
	return nil
}
