package model

// TransactionColumns lists the transactions table columns in insert order.
var TransactionColumns = []string{
	"hash", "block_number", "tx_index", "from_addr", "to_addr", "value",
	"gas_used", "gas_price", "input", "status",
}

// Transaction is one row of the transactions table.
// Value and GasPrice are decimal strings so large integers survive intact.
type Transaction struct {
	Hash        string
	BlockNumber int64
	TxIndex     int64
	From        string
	To          *string
	Value       string
	GasUsed     int64
	GasPrice    string
	Input       []byte
	Status      int64
}

// Args returns the row values ordered as TransactionColumns.
func (t Transaction) Args() []any {
	input := t.Input
	if input == nil {
		input = []byte{}
	}
	return []any{
		t.Hash,
		t.BlockNumber,
		t.TxIndex,
		t.From,
		nullString(t.To),
		t.Value,
		t.GasUsed,
		t.GasPrice,
		input,
		t.Status,
	}
}
