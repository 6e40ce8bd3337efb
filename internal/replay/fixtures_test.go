package replay

import (
	"path/filepath"
	"testing"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"offlineReplay/internal/dataset"
	"offlineReplay/internal/model"
)

func strPtr(s string) *string { return &s }

func writeRecord(t *testing.T, path string, schema *arrow.Schema, fill func(b *array.RecordBuilder)) {
	t.Helper()

	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	fill(b)
	rec := b.NewRecord()
	defer rec.Release()

	w, err := dataset.Create(path, schema)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	if err := w.Write(rec); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close %s: %v", path, err)
	}
}

func appendText(b array.Builder, v *string) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.(*array.StringBuilder).Append(*v)
}

func appendBytes(b array.Builder, v []byte) {
	if v == nil {
		b.AppendNull()
		return
	}
	b.(*array.BinaryBuilder).Append(v)
}

func blocksRecord(rows []model.Block) func(b *array.RecordBuilder) {
	return func(b *array.RecordBuilder) {
		for _, r := range rows {
			b.Field(0).(*array.Int64Builder).Append(r.Number)
			b.Field(1).(*array.StringBuilder).Append(r.Hash)
			b.Field(2).(*array.StringBuilder).Append(r.ParentHash)
			b.Field(3).(*array.Int64Builder).Append(r.Timestamp)
			b.Field(4).(*array.Int64Builder).Append(r.GasUsed)
			b.Field(5).(*array.Int64Builder).Append(r.GasLimit)
			appendText(b.Field(6), r.BaseFee)
			b.Field(7).(*array.Int64Builder).Append(r.TxCount)
		}
	}
}

func transactionsRecord(rows []model.Transaction) func(b *array.RecordBuilder) {
	return func(b *array.RecordBuilder) {
		for _, r := range rows {
			b.Field(0).(*array.StringBuilder).Append(r.Hash)
			b.Field(1).(*array.Int64Builder).Append(r.BlockNumber)
			b.Field(2).(*array.Int64Builder).Append(r.TxIndex)
			b.Field(3).(*array.StringBuilder).Append(r.From)
			appendText(b.Field(4), r.To)
			b.Field(5).(*array.StringBuilder).Append(r.Value)
			b.Field(6).(*array.Int64Builder).Append(r.GasUsed)
			b.Field(7).(*array.StringBuilder).Append(r.GasPrice)
			appendBytes(b.Field(8), r.Input)
			b.Field(9).(*array.Int64Builder).Append(r.Status)
		}
	}
}

func logsRecord(rows []model.Log) func(b *array.RecordBuilder) {
	return func(b *array.RecordBuilder) {
		for i, r := range rows {
			b.Field(0).(*array.Int64Builder).Append(int64(i + 1))
			b.Field(1).(*array.Int64Builder).Append(r.BlockNumber)
			b.Field(2).(*array.StringBuilder).Append(r.TxHash)
			b.Field(3).(*array.Int64Builder).Append(r.LogIndex)
			b.Field(4).(*array.StringBuilder).Append(r.Address)
			for j, topic := range r.Topics {
				appendText(b.Field(5+j), topic)
			}
			appendBytes(b.Field(9), r.Data)
		}
	}
}

func writeBlocks(t *testing.T, dir string, rows []model.Block) {
	t.Helper()
	writeRecord(t, filepath.Join(dir, dataset.BlocksFile), dataset.BlocksTable.Schema, blocksRecord(rows))
}

func writeTransactions(t *testing.T, dir string, rows []model.Transaction) {
	t.Helper()
	writeRecord(t, filepath.Join(dir, dataset.TransactionsFile), dataset.TransactionsTable.Schema, transactionsRecord(rows))
}

func writeLogs(t *testing.T, dir string, rows []model.Log) {
	t.Helper()
	writeRecord(t, filepath.Join(dir, dataset.LogsFile), dataset.LogsTable.Schema, logsRecord(rows))
}

func buildRecord(schema *arrow.Schema, fill func(b *array.RecordBuilder)) arrow.Record {
	b := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer b.Release()
	fill(b)
	return b.NewRecord()
}

func sampleBlocks() []model.Block {
	return []model.Block{
		{Number: 100, Hash: "0xA", ParentHash: "0x99", Timestamp: 1700000000, GasUsed: 21000, GasLimit: 30000000, BaseFee: strPtr("12000000000"), TxCount: 2},
		{Number: 101, Hash: "0xB", ParentHash: "0xA", Timestamp: 1700000012, GasUsed: 0, GasLimit: 30000000, TxCount: 0},
	}
}

func sampleTransactions() []model.Transaction {
	return []model.Transaction{
		{Hash: "0xt1", BlockNumber: 100, TxIndex: 0, From: "0xf1", To: strPtr("0xc1"), Value: "1000000000000000000000", GasUsed: 21000, GasPrice: "12000000000", Input: []byte{0xa9, 0x05, 0x9c, 0xbb}, Status: 1},
		{Hash: "0xt2", BlockNumber: 100, TxIndex: 1, From: "0xf2", Value: "0", GasUsed: 500000, GasPrice: "12000000000", Status: 0},
	}
}

func sampleLogs() []model.Log {
	return []model.Log{
		{BlockNumber: 100, TxHash: "0xt1", LogIndex: 0, Address: "0xc1", Topics: [4]*string{strPtr("0xddf2"), strPtr("0xfrom"), strPtr("0xto")}, Data: []byte{0x01}},
		{BlockNumber: 100, TxHash: "0xt1", LogIndex: 1, Address: "0xc1", Topics: [4]*string{strPtr("0xddf2"), strPtr("0xfrom")}},
		{BlockNumber: 100, TxHash: "0xt1", LogIndex: 2, Address: "0xc1"},
	}
}

func writeDataset(t *testing.T, dir string) {
	t.Helper()
	writeBlocks(t, dir, sampleBlocks())
	writeTransactions(t, dir, sampleTransactions())
	writeLogs(t, dir, sampleLogs())
}
