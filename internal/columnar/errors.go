package columnar

import (
	"errors"
	"fmt"

	"github.com/apache/arrow/go/v17/arrow"
)

var (
	// ErrMissingColumn is returned when a required column is absent from a batch.
	ErrMissingColumn = errors.New("missing column")
	// ErrTypeMismatch is returned when a column's physical type differs from the expected kind.
	ErrTypeMismatch = errors.New("column type mismatch")
	// ErrNullValue is returned when a required column holds a null.
	ErrNullValue = errors.New("null value in required column")
)

// ColumnError describes a column that could not be read as requested.
type ColumnError struct {
	Column string
	Kind   Kind
	// Actual is nil for ErrMissingColumn.
	Actual arrow.DataType
	// Row is -1 unless Err is ErrNullValue.
	Row int
	Err error
}

func (e *ColumnError) Error() string {
	switch {
	case errors.Is(e.Err, ErrMissingColumn):
		return fmt.Sprintf("missing column: %s", e.Column)
	case errors.Is(e.Err, ErrTypeMismatch):
		return fmt.Sprintf("column %s: expected %s, got %s", e.Column, e.Kind, e.actualName())
	case errors.Is(e.Err, ErrNullValue):
		return fmt.Sprintf("column %s: null value at row %d", e.Column, e.Row)
	default:
		return fmt.Sprintf("column %s: %v", e.Column, e.Err)
	}
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

func (e *ColumnError) actualName() string {
	if e.Actual == nil {
		return "none"
	}
	return e.Actual.Name()
}
