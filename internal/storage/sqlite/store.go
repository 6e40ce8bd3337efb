// Package sqlite is the default replay destination: a single SQLite file
// written through one connection.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"offlineReplay/internal/storage"
)

// Store is a SQLite database file.
type Store struct {
	db   *sql.DB
	path string
}

var _ storage.Destination = (*Store)(nil)

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	// Pragmas and transactions are per connection; keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &Store{db: db, path: path}, nil
}

// DB exposes the underlying handle for read-only queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Init applies the tuning pragmas and creates the replay schema. Running it
// again against an initialized file changes nothing.
func (s *Store) Init(ctx context.Context) error {
	if err := s.exec(ctx, pragmas); err != nil {
		return fmt.Errorf("apply pragmas: %w", err)
	}
	if err := s.exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// HasTable reports whether a table exists.
func (s *Store) HasTable(ctx context.Context, name string) (bool, error) {
	var n int
	row := s.db.QueryRowContext(ctx, `SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, name)
	if err := row.Scan(&n); err != nil {
		return false, fmt.Errorf("lookup table %s: %w", name, err)
	}
	return n > 0, nil
}

func (s *Store) exec(ctx context.Context, stmts []string) error {
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Begin starts a transaction and prepares the insert statement for table.
func (s *Store) Begin(ctx context.Context, table storage.Table) (storage.TableTx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin %s: %w", table.Name, err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL(table))
	if err != nil {
		_ = tx.Rollback()
		return nil, fmt.Errorf("prepare insert %s: %w", table.Name, err)
	}
	return &tableTx{tx: tx, stmt: stmt}, nil
}

func insertSQL(table storage.Table) string {
	verb := "INSERT"
	if table.IgnoreDuplicates {
		verb = "INSERT OR IGNORE"
	}
	return storage.InsertSQL(table, verb, "", func(int) string { return "?" })
}

type tableTx struct {
	tx   *sql.Tx
	stmt *sql.Stmt
}

func (t *tableTx) Insert(ctx context.Context, args ...any) (int64, error) {
	res, err := t.stmt.ExecContext(ctx, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *tableTx) Commit(ctx context.Context) error {
	t.stmt.Close()
	return t.tx.Commit()
}

func (t *tableTx) Rollback(ctx context.Context) error {
	t.stmt.Close()
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
