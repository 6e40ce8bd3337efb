package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet/file"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
)

// DefaultBatchSize is the number of rows per record batch.
const DefaultBatchSize = 8192

// ErrMalformed marks an input file that cannot be read as Parquet.
var ErrMalformed = errors.New("malformed parquet input")

// Reader streams record batches out of a single Parquet file.
type Reader struct {
	path    string
	file    *os.File
	parquet *file.Reader
	records pqarrow.RecordReader
}

// Open opens a Parquet file for batch reading.
func Open(ctx context.Context, path string, batchSize int64) (*Reader, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrMalformed, path, err)
	}

	pf, err := file.NewParquetReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: read footer %s: %w", ErrMalformed, path, err)
	}

	fr, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{BatchSize: batchSize}, memory.DefaultAllocator)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: arrow schema %s: %w", ErrMalformed, path, err)
	}

	records, err := fr.GetRecordReader(ctx, nil, nil)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: record reader %s: %w", ErrMalformed, path, err)
	}

	return &Reader{
		path:    path,
		file:    f,
		parquet: pf,
		records: records,
	}, nil
}

// Path returns the file path.
func (r *Reader) Path() string {
	return r.path
}

// NumRows returns the row count recorded in the file metadata.
func (r *Reader) NumRows() int64 {
	return r.parquet.NumRows()
}

// Next returns the next batch, or io.EOF after the last one. The record is
// owned by the reader and released on the following call to Next or Close.
func (r *Reader) Next() (arrow.Record, error) {
	if r.records.Next() {
		return r.records.Record(), nil
	}
	if err := r.records.Err(); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: read batch %s: %w", ErrMalformed, r.path, err)
	}
	return nil, io.EOF
}

// Close releases the record reader and the file handle.
func (r *Reader) Close() error {
	if r.records != nil {
		r.records.Release()
		r.records = nil
	}
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
