package model

// TraceColumns lists the traces table columns in insert order.
var TraceColumns = []string{"block_number", "tx_hash", "tx_index", "trace_json"}

// Trace holds the callTracer output for one transaction.
type Trace struct {
	BlockNumber int64
	TxHash      string
	TxIndex     int64
	TraceJSON   string
}

// Args returns the row values ordered as TraceColumns.
func (t Trace) Args() []any {
	return []any{t.BlockNumber, t.TxHash, t.TxIndex, t.TraceJSON}
}

// CapturedBlock is everything recorded for a single block during capture.
type CapturedBlock struct {
	Block        Block
	Transactions []Transaction
	Logs         []Log
	Traces       []Trace
}
