package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
)

// Writer appends record batches to a zstd-compressed Parquet file.
type Writer struct {
	path   string
	file   *os.File
	writer *pqarrow.FileWriter
	rows   int64
}

// Create truncates or creates path and prepares a writer for schema.
func Create(path string, schema *arrow.Schema) (*Writer, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}

	props := parquet.NewWriterProperties(parquet.WithCompression(compress.Codecs.Zstd))
	fw, err := pqarrow.NewFileWriter(schema, f, props, pqarrow.DefaultWriterProps())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("parquet writer %s: %w", path, err)
	}

	return &Writer{path: path, file: f, writer: fw}, nil
}

// Write appends one record batch.
func (w *Writer) Write(rec arrow.Record) error {
	if err := w.writer.Write(rec); err != nil {
		return fmt.Errorf("write %s: %w", w.path, err)
	}
	w.rows += rec.NumRows()
	return nil
}

// Rows returns the number of rows written so far.
func (w *Writer) Rows() int64 {
	return w.rows
}

// Close flushes the footer and closes the file.
func (w *Writer) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close %s: %w", w.path, err)
	}
	if err := w.file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fmt.Errorf("close %s: %w", w.path, err)
	}
	return nil
}
