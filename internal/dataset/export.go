package dataset

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"go.uber.org/zap"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// ExportResult describes one exported table.
type ExportResult struct {
	Table string
	Path  string
	Rows  int64
}

// Exporter copies database tables into Parquet files.
type Exporter struct {
	db        Querier
	batchSize int
	logger    *zap.Logger
}

func NewExporter(db Querier, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{db: db, batchSize: DefaultBatchSize, logger: logger}
}

// Export writes each table to dir/<table>.parquet. Empty tables are skipped
// and produce no file.
func (e *Exporter) Export(ctx context.Context, dir string, tables []Table) ([]ExportResult, error) {
	results := make([]ExportResult, 0, len(tables))
	for _, table := range tables {
		path := filepath.Join(dir, table.File)
		rows, err := e.ExportTable(ctx, table, path)
		if err != nil {
			return results, err
		}
		if rows == 0 {
			e.logger.Info("table empty, skipping", zap.String("table", table.Name))
			continue
		}
		e.logger.Info("table exported", zap.String("table", table.Name), zap.Int64("rows", rows), zap.String("path", path))
		results = append(results, ExportResult{Table: table.Name, Path: path, Rows: rows})
	}
	return results, nil
}

// ExportTable streams one table into a Parquet file at path and returns the
// number of rows written.
func (e *Exporter) ExportTable(ctx context.Context, table Table, path string) (int64, error) {
	query := fmt.Sprintf("SELECT %s FROM %s", strings.Join(selectList(table.Schema), ", "), table.Name)
	rows, err := e.db.QueryContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("query %s: %w", table.Name, err)
	}
	defer rows.Close()

	builder := array.NewRecordBuilder(memory.DefaultAllocator, table.Schema)
	defer builder.Release()

	cells, err := newScanTargets(table.Schema)
	if err != nil {
		return 0, err
	}
	dest := make([]any, len(cells))
	for i, c := range cells {
		dest[i] = c.target()
	}

	var (
		writer  *Writer
		pending int
	)
	flush := func() error {
		if pending == 0 {
			return nil
		}
		rec := builder.NewRecord()
		defer rec.Release()
		pending = 0
		if writer == nil {
			w, err := Create(path, table.Schema)
			if err != nil {
				return err
			}
			writer = w
		}
		return writer.Write(rec)
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			closeQuietly(writer)
			return 0, fmt.Errorf("scan %s: %w", table.Name, err)
		}
		for i, c := range cells {
			c.append(builder.Field(i))
			if bc, ok := c.(*binaryCell); ok && bc.err != nil {
				closeQuietly(writer)
				return 0, fmt.Errorf("decode %s.%s: %w", table.Name, table.Schema.Field(i).Name, bc.err)
			}
		}
		pending++
		if pending >= e.batchSize {
			if err := flush(); err != nil {
				closeQuietly(writer)
				return 0, err
			}
		}
	}
	if err := rows.Err(); err != nil {
		closeQuietly(writer)
		return 0, fmt.Errorf("read %s: %w", table.Name, err)
	}
	if err := flush(); err != nil {
		closeQuietly(writer)
		return 0, err
	}
	if writer == nil {
		return 0, nil
	}
	if err := writer.Close(); err != nil {
		return 0, err
	}
	return writer.Rows(), nil
}

func closeQuietly(w *Writer) {
	if w != nil {
		_ = w.Close()
	}
}

type scanCell interface {
	target() any
	append(b array.Builder)
}

type int64Cell struct{ v sql.NullInt64 }

func (c *int64Cell) target() any { return &c.v }

func (c *int64Cell) append(b array.Builder) {
	if !c.v.Valid {
		b.AppendNull()
		return
	}
	b.(*array.Int64Builder).Append(c.v.Int64)
}

type textCell struct{ v sql.NullString }

func (c *textCell) target() any { return &c.v }

func (c *textCell) append(b array.Builder) {
	if !c.v.Valid {
		b.AppendNull()
		return
	}
	b.(*array.StringBuilder).Append(c.v.String)
}

// binaryCell reads blobs hex encoded: the driver returns a zero-length blob
// as nil, which would turn an empty value into NULL.
type binaryCell struct {
	v   sql.NullString
	err error
}

func (c *binaryCell) target() any { return &c.v }

func (c *binaryCell) append(b array.Builder) {
	if !c.v.Valid {
		b.AppendNull()
		return
	}
	raw, err := hex.DecodeString(c.v.String)
	if err != nil {
		c.err = err
		b.AppendNull()
		return
	}
	b.(*array.BinaryBuilder).Append(raw)
}

func selectList(schema *arrow.Schema) []string {
	cols := make([]string, schema.NumFields())
	for i, f := range schema.Fields() {
		if f.Type.ID() == arrow.BINARY {
			cols[i] = fmt.Sprintf("CASE WHEN %[1]s IS NULL THEN NULL ELSE hex(%[1]s) END", f.Name)
			continue
		}
		cols[i] = f.Name
	}
	return cols
}

func newScanTargets(schema *arrow.Schema) ([]scanCell, error) {
	cells := make([]scanCell, schema.NumFields())
	for i, f := range schema.Fields() {
		switch f.Type.ID() {
		case arrow.INT64:
			cells[i] = &int64Cell{}
		case arrow.STRING:
			cells[i] = &textCell{}
		case arrow.BINARY:
			cells[i] = &binaryCell{}
		default:
			return nil, fmt.Errorf("unsupported export type for column %q: %s", f.Name, f.Type)
		}
	}
	return cells, nil
}
