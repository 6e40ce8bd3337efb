package capture

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"offlineReplay/internal/chain"
	"offlineReplay/internal/model"
)

// buildCapturedBlock turns one block and its receipts and traces into table
// rows. Transaction and log hashes and addresses are lowercased; block
// hashes are kept as the node returned them.
func buildCapturedBlock(block *chain.Block, receipts []chain.Receipt, traces []chain.Trace) model.CapturedBlock {
	number := int64(block.Number)

	out := model.CapturedBlock{
		Block: model.Block{
			Number:     number,
			Hash:       block.Hash,
			ParentHash: block.ParentHash,
			Timestamp:  int64(block.Timestamp),
			GasUsed:    int64(block.GasUsed),
			GasLimit:   int64(block.GasLimit),
			TxCount:    int64(len(block.Transactions)),
		},
		Transactions: make([]model.Transaction, 0, len(block.Transactions)),
	}
	if block.BaseFee != nil {
		fee := decimal(block.BaseFee)
		out.Block.BaseFee = &fee
	}

	byHash := make(map[string]chain.Receipt, len(receipts))
	for _, r := range receipts {
		byHash[strings.ToLower(r.TransactionHash)] = r
	}

	for i, tx := range block.Transactions {
		hash := strings.ToLower(tx.Hash)
		receipt, ok := byHash[hash]

		status := int64(1)
		if ok && receipt.Status != nil {
			status = int64(*receipt.Status)
		}

		var to *string
		if tx.To != nil {
			lower := strings.ToLower(*tx.To)
			to = &lower
		}

		out.Transactions = append(out.Transactions, model.Transaction{
			Hash:        hash,
			BlockNumber: number,
			TxIndex:     int64(i),
			From:        strings.ToLower(tx.From),
			To:          to,
			Value:       decimal(tx.Value),
			GasUsed:     int64(receipt.GasUsed),
			GasPrice:    gasPrice(tx),
			Input:       input(tx),
			Status:      status,
		})

		for _, l := range receipt.Logs {
			out.Logs = append(out.Logs, buildLog(number, hash, l))
		}
	}

	for i, t := range traces {
		out.Traces = append(out.Traces, model.Trace{
			BlockNumber: number,
			TxHash:      t.TxHash,
			TxIndex:     int64(i),
			TraceJSON:   string(t.Frame()),
		})
	}

	return out
}

func buildLog(blockNumber int64, txHash string, l chain.Log) model.Log {
	rec := model.Log{
		BlockNumber: blockNumber,
		TxHash:      txHash,
		LogIndex:    int64(l.LogIndex),
		Address:     strings.ToLower(l.Address),
		Data:        []byte(l.Data),
	}
	for i := 0; i < len(l.Topics) && i < len(rec.Topics); i++ {
		topic := l.Topics[i]
		rec.Topics[i] = &topic
	}
	// missing data is stored as an empty blob, never NULL
	if rec.Data == nil {
		rec.Data = []byte{}
	}
	return rec
}

func gasPrice(tx chain.Transaction) string {
	if tx.EffectiveGasPrice != nil {
		return decimal(tx.EffectiveGasPrice)
	}
	return decimal(tx.GasPrice)
}

func input(tx chain.Transaction) []byte {
	switch {
	case tx.Input != nil:
		return tx.Input
	case tx.Data != nil:
		return tx.Data
	default:
		return []byte{}
	}
}

func decimal(v *hexutil.Big) string {
	if v == nil {
		return "0"
	}
	return v.ToInt().String()
}
