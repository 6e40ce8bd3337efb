package chain

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Block is the eth_getBlockByNumber result with full transactions.
type Block struct {
	Number       hexutil.Uint64 `json:"number"`
	Hash         string         `json:"hash"`
	ParentHash   string         `json:"parentHash"`
	Timestamp    hexutil.Uint64 `json:"timestamp"`
	GasUsed      hexutil.Uint64 `json:"gasUsed"`
	GasLimit     hexutil.Uint64 `json:"gasLimit"`
	BaseFee      *hexutil.Big   `json:"baseFeePerGas"`
	Transactions []Transaction  `json:"transactions"`
}

// Transaction is a full transaction object inside a block.
type Transaction struct {
	Hash              string        `json:"hash"`
	From              string        `json:"from"`
	To                *string       `json:"to"`
	Value             *hexutil.Big  `json:"value"`
	GasPrice          *hexutil.Big  `json:"gasPrice"`
	EffectiveGasPrice *hexutil.Big  `json:"effectiveGasPrice"`
	Input             hexutil.Bytes `json:"input"`
	// Data is the legacy name some nodes use for input.
	Data hexutil.Bytes `json:"data"`
}

// Receipt is one entry of eth_getBlockReceipts.
type Receipt struct {
	TransactionHash string          `json:"transactionHash"`
	GasUsed         hexutil.Uint64  `json:"gasUsed"`
	Status          *hexutil.Uint64 `json:"status"`
	Logs            []Log           `json:"logs"`
}

// Log is a receipt log.
type Log struct {
	Address  string         `json:"address"`
	Topics   []string       `json:"topics"`
	Data     hexutil.Bytes  `json:"data"`
	LogIndex hexutil.Uint64 `json:"logIndex"`
}

// Trace is one debug_traceBlockByNumber entry. Raw keeps the whole entry for
// nodes that return the call frame without the txHash/result wrapper.
type Trace struct {
	TxHash string
	Result json.RawMessage
	Raw    json.RawMessage
}

func (t *Trace) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		TxHash string          `json:"txHash"`
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	t.TxHash = wrapper.TxHash
	t.Result = wrapper.Result
	t.Raw = append(json.RawMessage(nil), data...)
	return nil
}

// Frame returns the call frame JSON.
func (t Trace) Frame() json.RawMessage {
	if len(t.Result) > 0 && string(t.Result) != "null" {
		return t.Result
	}
	return t.Raw
}
