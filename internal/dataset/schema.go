// Package dataset reads and writes the Parquet files of a replay dataset.
package dataset

import "github.com/apache/arrow/go/v17/arrow"

// File names of a replay dataset directory.
const (
	BlocksFile       = "blocks.parquet"
	TransactionsFile = "transactions.parquet"
	LogsFile         = "logs.parquet"
	TracesFile       = "traces.parquet"
)

var (
	int64Type  = arrow.PrimitiveTypes.Int64
	textType   = arrow.BinaryTypes.String
	binaryType = arrow.BinaryTypes.Binary
)

// Table pairs a database table with the Arrow schema it is exported as.
type Table struct {
	Name   string
	File   string
	Schema *arrow.Schema
}

// Columns returns the schema field names in order.
func (t Table) Columns() []string {
	fields := t.Schema.Fields()
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = f.Name
	}
	return cols
}

var (
	BlocksTable = Table{
		Name: "blocks",
		File: BlocksFile,
		Schema: schema(
			field("number", int64Type),
			field("hash", textType),
			field("parent_hash", textType),
			field("timestamp", int64Type),
			field("gas_used", int64Type),
			field("gas_limit", int64Type),
			field("base_fee", textType),
			field("tx_count", int64Type),
		),
	}

	TransactionsTable = Table{
		Name: "transactions",
		File: TransactionsFile,
		Schema: schema(
			field("hash", textType),
			field("block_number", int64Type),
			field("tx_index", int64Type),
			field("from_addr", textType),
			field("to_addr", textType),
			field("value", textType),
			field("gas_used", int64Type),
			field("gas_price", textType),
			field("input", binaryType),
			field("status", int64Type),
		),
	}

	LogsTable = Table{
		Name: "logs",
		File: LogsFile,
		Schema: schema(
			field("id", int64Type),
			field("block_number", int64Type),
			field("tx_hash", textType),
			field("log_index", int64Type),
			field("address", textType),
			field("topic0", textType),
			field("topic1", textType),
			field("topic2", textType),
			field("topic3", textType),
			field("data", binaryType),
		),
	}

	TracesTable = Table{
		Name: "traces",
		File: TracesFile,
		Schema: schema(
			field("id", int64Type),
			field("block_number", int64Type),
			field("tx_hash", textType),
			field("tx_index", int64Type),
			field("trace_json", textType),
		),
	}
)

// ExportTables is the order tables are exported in.
var ExportTables = []Table{BlocksTable, TransactionsTable, LogsTable, TracesTable}

// Exported columns are nullable, matching files written by pyarrow.
func field(name string, typ arrow.DataType) arrow.Field {
	return arrow.Field{Name: name, Type: typ, Nullable: true}
}

func schema(fields ...arrow.Field) *arrow.Schema {
	return arrow.NewSchema(fields, nil)
}
