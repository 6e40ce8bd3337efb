package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"offlineReplay/internal/storage"
)

// Store loads replay tables into Postgres.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Destination = (*Store)(nil)

// IsDSN reports whether out names a Postgres database rather than a file.
func IsDSN(out string) bool {
	return strings.HasPrefix(out, "postgres://") || strings.HasPrefix(out, "postgresql://")
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pg dsn: %w", err)
	}
	// One writer at a time.
	cfg.MaxConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Init creates the replay schema if absent.
func (s *Store) Init(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Begin opens a transaction with the table's insert statement prepared.
func (s *Store) Begin(ctx context.Context, table storage.Table) (storage.TableTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin %s: %w", table.Name, err)
	}
	name := "insert_" + table.Name
	if _, err := tx.Prepare(ctx, name, insertSQL(table)); err != nil {
		_ = tx.Rollback(ctx)
		return nil, fmt.Errorf("prepare insert %s: %w", table.Name, err)
	}
	return &tableTx{tx: tx, stmt: name}, nil
}

func insertSQL(table storage.Table) string {
	suffix := ""
	if table.IgnoreDuplicates {
		suffix = "ON CONFLICT DO NOTHING"
	}
	return storage.InsertSQL(table, "INSERT", suffix, func(n int) string {
		return fmt.Sprintf("$%d", n)
	})
}

type tableTx struct {
	tx   pgx.Tx
	stmt string
}

func (t *tableTx) Insert(ctx context.Context, args ...any) (int64, error) {
	tag, err := t.tx.Exec(ctx, t.stmt, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (t *tableTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *tableTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}
