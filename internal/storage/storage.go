package storage

import (
	"context"
	"fmt"
	"strings"

	"offlineReplay/internal/model"
)

// Table describes a destination table and its insert policy.
type Table struct {
	Name    string
	Columns []string
	// IgnoreDuplicates skips rows whose primary key already exists.
	IgnoreDuplicates bool
}

var (
	Blocks       = Table{Name: "blocks", Columns: model.BlockColumns, IgnoreDuplicates: true}
	Transactions = Table{Name: "transactions", Columns: model.TransactionColumns, IgnoreDuplicates: true}
	Logs         = Table{Name: "logs", Columns: model.LogColumns}
	Traces       = Table{Name: "traces", Columns: model.TraceColumns}
)

// Destination is a relational database the replay tables are loaded into.
type Destination interface {
	// Init creates the schema if it does not exist yet.
	Init(ctx context.Context) error
	// Begin opens a transaction scoped to loading one table.
	Begin(ctx context.Context, table Table) (TableTx, error)
	Close() error
}

// TableTx inserts rows into one table inside a single transaction.
type TableTx interface {
	// Insert returns the number of rows stored, 0 when a duplicate was ignored.
	Insert(ctx context.Context, args ...any) (int64, error)
	Commit(ctx context.Context) error
	// Rollback is a no-op after Commit.
	Rollback(ctx context.Context) error
}

// Placeholder renders the bind parameter for 1-based position n.
type Placeholder func(n int) string

// InsertSQL builds "<verb> INTO table (cols) VALUES (params) <suffix>".
func InsertSQL(table Table, verb, suffix string, placeholder Placeholder) string {
	params := make([]string, len(table.Columns))
	for i := range table.Columns {
		params[i] = placeholder(i + 1)
	}
	stmt := fmt.Sprintf("%s INTO %s (%s) VALUES (%s)",
		verb,
		table.Name,
		strings.Join(table.Columns, ", "),
		strings.Join(params, ", "),
	)
	if suffix != "" {
		stmt += " " + suffix
	}
	return stmt
}
