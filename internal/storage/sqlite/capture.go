package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"offlineReplay/internal/model"
	"offlineReplay/internal/storage"
)

// InitCapture creates the replay schema plus the traces and sync_state
// tables used while capturing from an RPC node.
func (s *Store) InitCapture(ctx context.Context) error {
	if err := s.Init(ctx); err != nil {
		return err
	}
	if err := s.exec(ctx, captureSchema); err != nil {
		return fmt.Errorf("create capture schema: %w", err)
	}
	return nil
}

// LastBlock returns the last fully captured block number.
func (s *Store) LastBlock(ctx context.Context) (uint64, bool, error) {
	var last int64
	row := s.db.QueryRowContext(ctx, `SELECT last_block FROM sync_state WHERE id = 1`)
	if err := row.Scan(&last); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("load sync state: %w", err)
	}
	return uint64(last), true, nil
}

// WriteBlock stores one captured block and advances sync_state in a single
// transaction.
func (s *Store) WriteBlock(ctx context.Context, b model.CapturedBlock) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin block %d: %w", b.Block.Number, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, insertSQL(storage.Blocks), b.Block.Args()...); err != nil {
		return fmt.Errorf("insert block %d: %w", b.Block.Number, err)
	}
	if err = execEach(ctx, tx, storage.Transactions, b.Transactions); err != nil {
		return err
	}
	if err = execEach(ctx, tx, storage.Logs, b.Logs); err != nil {
		return err
	}
	if err = execEach(ctx, tx, storage.Traces, b.Traces); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sync_state (id, last_block) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET last_block = excluded.last_block
	`, b.Block.Number)
	if err != nil {
		return fmt.Errorf("save sync state: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit block %d: %w", b.Block.Number, err)
	}
	return nil
}

type argsRow interface {
	Args() []any
}

func execEach[T argsRow](ctx context.Context, tx *sql.Tx, table storage.Table, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL(table))
	if err != nil {
		return fmt.Errorf("prepare insert %s: %w", table.Name, err)
	}
	defer stmt.Close()

	for _, row := range rows {
		if _, err := stmt.ExecContext(ctx, row.Args()...); err != nil {
			return fmt.Errorf("insert %s: %w", table.Name, err)
		}
	}
	return nil
}
