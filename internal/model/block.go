package model

// BlockColumns lists the blocks table columns in insert order.
var BlockColumns = []string{
	"number", "hash", "parent_hash", "timestamp", "gas_used", "gas_limit", "base_fee", "tx_count",
}

// Block is one row of the blocks table.
type Block struct {
	Number     int64
	Hash       string
	ParentHash string
	Timestamp  int64
	GasUsed    int64
	GasLimit   int64
	BaseFee    *string
	TxCount    int64
}

// Args returns the row values ordered as BlockColumns.
func (b Block) Args() []any {
	return []any{
		b.Number,
		b.Hash,
		b.ParentHash,
		b.Timestamp,
		b.GasUsed,
		b.GasLimit,
		nullString(b.BaseFee),
		b.TxCount,
	}
}
