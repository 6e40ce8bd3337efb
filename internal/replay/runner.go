package replay

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"offlineReplay/internal/dataset"
	"offlineReplay/internal/storage"
)

var (
	// ErrInputMissing is returned when a required input file does not exist.
	ErrInputMissing = errors.New("missing input file")
	// ErrMalformedInput is returned when an input file is not readable Parquet.
	ErrMalformedInput = dataset.ErrMalformed
)

// RunConfig holds settings for one load run.
type RunConfig struct {
	DataDir   string
	BatchSize int64
}

// Summary holds the rows stored per table.
type Summary struct {
	Blocks       int64
	Transactions int64
	Logs         int64
}

// Runner loads a replay dataset directory into a destination.
type Runner struct {
	cfg    RunConfig
	dest   storage.Destination
	loader *Loader
	logger *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, dest storage.Destination, progress Progress, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		dest:   dest,
		loader: NewLoader(cfg.BatchSize, progress, logger),
		logger: logger,
	}
}

// InputPaths returns the blocks, transactions and logs file paths under dir.
func InputPaths(dir string) []string {
	return []string{
		filepath.Join(dir, dataset.BlocksFile),
		filepath.Join(dir, dataset.TransactionsFile),
		filepath.Join(dir, dataset.LogsFile),
	}
}

// CheckInputs fails with ErrInputMissing naming the first absent file.
func CheckInputs(dir string) error {
	for _, path := range InputPaths(dir) {
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return fmt.Errorf("%w: %s", ErrInputMissing, path)
			}
			return fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return nil
}

type tableStep struct {
	table storage.Table
	path  string
	load  func(context.Context, storage.TableTx, string) (int64, error)
}

// Run validates inputs, initializes the schema and loads blocks, then
// transactions, then logs. Each table commits on its own: a failure leaves
// earlier tables committed and the failing table untouched.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if r.dest == nil {
		return Summary{}, fmt.Errorf("destination is nil")
	}
	if err := CheckInputs(r.cfg.DataDir); err != nil {
		return Summary{}, err
	}
	if err := r.dest.Init(ctx); err != nil {
		return Summary{}, fmt.Errorf("init schema: %w", err)
	}

	paths := InputPaths(r.cfg.DataDir)
	var summary Summary
	steps := []struct {
		tableStep
		count *int64
	}{
		{tableStep{storage.Blocks, paths[0], r.loader.LoadBlocks}, &summary.Blocks},
		{tableStep{storage.Transactions, paths[1], r.loader.LoadTransactions}, &summary.Transactions},
		{tableStep{storage.Logs, paths[2], r.loader.LoadLogs}, &summary.Logs},
	}

	for _, step := range steps {
		n, err := r.loadTable(ctx, step.tableStep)
		if err != nil {
			return summary, fmt.Errorf("load %s: %w", step.table.Name, err)
		}
		*step.count = n
	}

	r.logger.Info("load complete",
		zap.Int64("blocks", summary.Blocks),
		zap.Int64("transactions", summary.Transactions),
		zap.Int64("logs", summary.Logs),
	)
	return summary, nil
}

func (r *Runner) loadTable(ctx context.Context, step tableStep) (n int64, err error) {
	tx, err := r.dest.Begin(ctx, step.table)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				r.logger.Warn("rollback failed", zap.String("table", step.table.Name), zap.Error(rbErr))
			}
		}
	}()

	n, err = step.load(ctx, tx, step.path)
	if err != nil {
		return 0, err
	}
	if err = tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}
