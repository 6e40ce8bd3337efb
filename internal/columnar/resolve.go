// Package columnar resolves named columns of an Arrow record batch into typed,
// null-aware views.
package columnar

import (
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
)

// Kind is the logical type a caller expects a column to have.
type Kind int

const (
	KindText Kind = iota + 1
	KindInteger
	KindBinary
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindInteger:
		return "integer"
	case KindBinary:
		return "binary"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Accepts reports whether an Arrow type is a valid physical encoding of k.
func (k Kind) Accepts(dt arrow.DataType) bool {
	if dt == nil {
		return false
	}
	switch k {
	case KindText:
		return dt.ID() == arrow.STRING || dt.ID() == arrow.LARGE_STRING
	case KindInteger:
		return dt.ID() == arrow.INT64
	case KindBinary:
		return dt.ID() == arrow.BINARY || dt.ID() == arrow.LARGE_BINARY
	default:
		return false
	}
}

// Resolve looks up a column by name and checks its physical type against kind.
func Resolve(rec arrow.Record, name string, kind Kind) (arrow.Array, error) {
	indices := rec.Schema().FieldIndices(name)
	if len(indices) == 0 {
		return nil, &ColumnError{Column: name, Kind: kind, Row: -1, Err: ErrMissingColumn}
	}
	arr := rec.Column(indices[0])
	if !kind.Accepts(arr.DataType()) {
		return nil, mismatch(name, kind, arr.DataType())
	}
	return arr, nil
}

// Text resolves a utf8 or large_utf8 column.
func Text(rec arrow.Record, name string) (Column[string], error) {
	arr, err := Resolve(rec, name, KindText)
	if err != nil {
		return Column[string]{}, err
	}
	switch typed := arr.(type) {
	case *array.String:
		return newColumn[string](name, KindText, typed), nil
	case *array.LargeString:
		return newColumn[string](name, KindText, typed), nil
	}
	return Column[string]{}, mismatch(name, KindText, arr.DataType())
}

// Int64 resolves an int64 column.
func Int64(rec arrow.Record, name string) (Column[int64], error) {
	arr, err := Resolve(rec, name, KindInteger)
	if err != nil {
		return Column[int64]{}, err
	}
	typed, ok := arr.(*array.Int64)
	if !ok {
		return Column[int64]{}, mismatch(name, KindInteger, arr.DataType())
	}
	return newColumn[int64](name, KindInteger, typed), nil
}

// Binary resolves a binary or large_binary column.
func Binary(rec arrow.Record, name string) (Column[[]byte], error) {
	arr, err := Resolve(rec, name, KindBinary)
	if err != nil {
		return Column[[]byte]{}, err
	}
	switch typed := arr.(type) {
	case *array.Binary:
		return newColumn[[]byte](name, KindBinary, typed), nil
	case *array.LargeBinary:
		return newColumn[[]byte](name, KindBinary, typed), nil
	}
	return Column[[]byte]{}, mismatch(name, KindBinary, arr.DataType())
}

func mismatch(name string, kind Kind, actual arrow.DataType) error {
	return &ColumnError{Column: name, Kind: kind, Actual: actual, Row: -1, Err: ErrTypeMismatch}
}
