package replay

import (
	"github.com/apache/arrow/go/v17/arrow"

	"offlineReplay/internal/columnar"
	"offlineReplay/internal/model"
)

// batch resolves columns of one record and keeps the first error, so a
// mapper can resolve every column and check once.
type batch struct {
	rec arrow.Record
	err error
}

func (b *batch) rows() int {
	return int(b.rec.NumRows())
}

func (b *batch) text(name string) columnar.Column[string] {
	if b.err != nil {
		return columnar.Column[string]{}
	}
	col, err := columnar.Text(b.rec, name)
	b.err = err
	return col
}

func (b *batch) integer(name string) columnar.Column[int64] {
	if b.err != nil {
		return columnar.Column[int64]{}
	}
	col, err := columnar.Int64(b.rec, name)
	b.err = err
	return col
}

func (b *batch) binary(name string) columnar.Column[[]byte] {
	if b.err != nil {
		return columnar.Column[[]byte]{}
	}
	col, err := columnar.Binary(b.rec, name)
	b.err = err
	return col
}

func required[T any](b *batch, col columnar.Column[T], i int) T {
	var zero T
	if b.err != nil {
		return zero
	}
	v, err := col.Required(i)
	if err != nil {
		b.err = err
		return zero
	}
	return v
}

// emptyIfNull reads a binary cell where NULL is not allowed.
func emptyIfNull(col columnar.Column[[]byte], i int) []byte {
	if col.IsNull(i) {
		return []byte{}
	}
	return nonNil(col.Value(i))
}

// nullableBytes reads a binary cell, nil meaning NULL.
func nullableBytes(col columnar.Column[[]byte], i int) []byte {
	if col.IsNull(i) {
		return nil
	}
	return nonNil(col.Value(i))
}

// Arrow hands out nil for empty values; keep them distinct from NULL.
func nonNil(v []byte) []byte {
	if v == nil {
		return []byte{}
	}
	return v
}

// MapBlocks converts a blocks batch into rows.
func MapBlocks(rec arrow.Record) ([]model.Block, error) {
	b := &batch{rec: rec}
	number := b.integer("number")
	hash := b.text("hash")
	parentHash := b.text("parent_hash")
	timestamp := b.integer("timestamp")
	gasUsed := b.integer("gas_used")
	gasLimit := b.integer("gas_limit")
	baseFee := b.text("base_fee")
	txCount := b.integer("tx_count")
	if b.err != nil {
		return nil, b.err
	}

	rows := make([]model.Block, b.rows())
	for i := range rows {
		rows[i] = model.Block{
			Number:     required(b, number, i),
			Hash:       required(b, hash, i),
			ParentHash: required(b, parentHash, i),
			Timestamp:  required(b, timestamp, i),
			GasUsed:    required(b, gasUsed, i),
			GasLimit:   required(b, gasLimit, i),
			BaseFee:    baseFee.Ptr(i),
			TxCount:    required(b, txCount, i),
		}
		if b.err != nil {
			return nil, b.err
		}
	}
	return rows, nil
}

// MapTransactions converts a transactions batch into rows.
func MapTransactions(rec arrow.Record) ([]model.Transaction, error) {
	b := &batch{rec: rec}
	hash := b.text("hash")
	blockNumber := b.integer("block_number")
	txIndex := b.integer("tx_index")
	from := b.text("from_addr")
	to := b.text("to_addr")
	value := b.text("value")
	gasUsed := b.integer("gas_used")
	gasPrice := b.text("gas_price")
	input := b.binary("input")
	status := b.integer("status")
	if b.err != nil {
		return nil, b.err
	}

	rows := make([]model.Transaction, b.rows())
	for i := range rows {
		rows[i] = model.Transaction{
			Hash:        required(b, hash, i),
			BlockNumber: required(b, blockNumber, i),
			TxIndex:     required(b, txIndex, i),
			From:        required(b, from, i),
			To:          to.Ptr(i),
			Value:       required(b, value, i),
			GasUsed:     required(b, gasUsed, i),
			GasPrice:    required(b, gasPrice, i),
			Input:       emptyIfNull(input, i),
			Status:      required(b, status, i),
		}
		if b.err != nil {
			return nil, b.err
		}
	}
	return rows, nil
}

// MapLogs converts a logs batch into rows. Any id column in the input is
// ignored; the destination assigns its own.
func MapLogs(rec arrow.Record) ([]model.Log, error) {
	b := &batch{rec: rec}
	blockNumber := b.integer("block_number")
	txHash := b.text("tx_hash")
	logIndex := b.integer("log_index")
	address := b.text("address")
	topics := [4]columnar.Column[string]{
		b.text("topic0"),
		b.text("topic1"),
		b.text("topic2"),
		b.text("topic3"),
	}
	data := b.binary("data")
	if b.err != nil {
		return nil, b.err
	}

	rows := make([]model.Log, b.rows())
	for i := range rows {
		rows[i] = model.Log{
			BlockNumber: required(b, blockNumber, i),
			TxHash:      required(b, txHash, i),
			LogIndex:    required(b, logIndex, i),
			Address:     required(b, address, i),
			Topics: [4]*string{
				topics[0].Ptr(i),
				topics[1].Ptr(i),
				topics[2].Ptr(i),
				topics[3].Ptr(i),
			},
			Data: nullableBytes(data, i),
		}
		if b.err != nil {
			return nil, b.err
		}
	}
	return rows, nil
}
