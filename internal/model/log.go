package model

// LogColumns lists the logs table columns in insert order. The id column is
// assigned by the database and never inserted.
var LogColumns = []string{
	"block_number", "tx_hash", "log_index", "address",
	"topic0", "topic1", "topic2", "topic3", "data",
}

// Log is one row of the logs table.
type Log struct {
	BlockNumber int64
	TxHash      string
	LogIndex    int64
	Address     string
	Topics      [4]*string
	// Data is nil for NULL.
	Data []byte
}

// Args returns the row values ordered as LogColumns.
func (l Log) Args() []any {
	var data any
	if l.Data != nil {
		data = l.Data
	}
	return []any{
		l.BlockNumber,
		l.TxHash,
		l.LogIndex,
		l.Address,
		nullString(l.Topics[0]),
		nullString(l.Topics[1]),
		nullString(l.Topics[2]),
		nullString(l.Topics[3]),
		data,
	}
}

// TopicCount returns the number of leading non-null topics.
func (l Log) TopicCount() int {
	n := 0
	for _, topic := range l.Topics {
		if topic == nil {
			break
		}
		n++
	}
	return n
}
