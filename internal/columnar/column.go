package columnar

type values[T any] interface {
	Len() int
	IsNull(i int) bool
	Value(i int) T
}

// Column is a read-only typed view over one column of a record batch. Values
// returned by a Column, byte slices included, share memory with the batch and
// are only valid until the batch is released.
type Column[T any] struct {
	name string
	kind Kind
	arr  values[T]
}

func newColumn[T any](name string, kind Kind, arr values[T]) Column[T] {
	return Column[T]{name: name, kind: kind, arr: arr}
}

// Name returns the column name.
func (c Column[T]) Name() string { return c.name }

// Len returns the number of rows.
func (c Column[T]) Len() int { return c.arr.Len() }

// IsNull reports whether row i is null.
func (c Column[T]) IsNull(i int) bool { return c.arr.IsNull(i) }

// Value returns row i without checking for null.
func (c Column[T]) Value(i int) T { return c.arr.Value(i) }

// Ptr returns a pointer to row i, or nil when the row is null.
func (c Column[T]) Ptr(i int) *T {
	if c.arr.IsNull(i) {
		return nil
	}
	v := c.arr.Value(i)
	return &v
}

// Required returns row i, failing with ErrNullValue when it is null.
func (c Column[T]) Required(i int) (T, error) {
	if c.arr.IsNull(i) {
		var zero T
		return zero, &ColumnError{Column: c.name, Kind: c.kind, Row: i, Err: ErrNullValue}
	}
	return c.arr.Value(i), nil
}
