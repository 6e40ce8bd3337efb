package replay

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"go.uber.org/zap"

	"offlineReplay/internal/dataset"
	"offlineReplay/internal/storage"
)

type row interface {
	Args() []any
}

// Loader streams one Parquet file into an open table transaction.
type Loader struct {
	batchSize int64
	progress  Progress
	logger    *zap.Logger
}

// NewLoader builds a Loader. A nil progress falls back to log-based progress.
func NewLoader(batchSize int64, progress Progress, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	if progress == nil {
		progress = NewLogProgress(logger)
	}
	return &Loader{batchSize: batchSize, progress: progress, logger: logger}
}

// LoadBlocks loads a blocks file; duplicates by number are ignored.
func (l *Loader) LoadBlocks(ctx context.Context, tx storage.TableTx, path string) (int64, error) {
	return load(ctx, l, tx, storage.Blocks.Name, path, MapBlocks)
}

// LoadTransactions loads a transactions file; duplicates by hash are ignored.
func (l *Loader) LoadTransactions(ctx context.Context, tx storage.TableTx, path string) (int64, error) {
	return load(ctx, l, tx, storage.Transactions.Name, path, MapTransactions)
}

// LoadLogs loads a logs file; every input row is inserted.
func (l *Loader) LoadLogs(ctx context.Context, tx storage.TableTx, path string) (int64, error) {
	return load(ctx, l, tx, storage.Logs.Name, path, MapLogs)
}

// load returns the number of rows the destination actually stored, which
// excludes ignored duplicates.
func load[T row](
	ctx context.Context,
	l *Loader,
	tx storage.TableTx,
	table string,
	path string,
	mapRows func(arrow.Record) ([]T, error),
) (int64, error) {
	reader, err := dataset.Open(ctx, path, l.batchSize)
	if err != nil {
		return 0, err
	}
	defer reader.Close()

	l.progress.Start(table, reader.NumRows())

	var inserted int64
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, err
		}

		// Rows may reference the record's buffers; insert before the next read.
		rows, err := mapRows(rec)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		for _, r := range rows {
			n, err := tx.Insert(ctx, r.Args()...)
			if err != nil {
				return 0, fmt.Errorf("insert %s: %w", table, err)
			}
			inserted += n
		}
		l.progress.Advance(table, len(rows))
	}

	l.progress.Finish(table, inserted)
	return inserted, nil
}
