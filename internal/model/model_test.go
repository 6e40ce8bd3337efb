package model

import (
	"reflect"
	"testing"
)

func TestBlockArgsNullBaseFee(t *testing.T) {
	args := Block{Number: 1, Hash: "0x1"}.Args()
	if len(args) != len(BlockColumns) {
		t.Fatalf("expected %d args, got %d", len(BlockColumns), len(args))
	}
	if args[6] != nil {
		t.Fatalf("expected nil base_fee, got %v", args[6])
	}

	fee := "7"
	if got := (Block{BaseFee: &fee}).Args()[6]; got != "7" {
		t.Fatalf("expected base fee text, got %v", got)
	}
}

func TestTransactionArgsEmptyInput(t *testing.T) {
	args := Transaction{Hash: "0xt"}.Args()
	if len(args) != len(TransactionColumns) {
		t.Fatalf("expected %d args, got %d", len(TransactionColumns), len(args))
	}
	if args[4] != nil {
		t.Fatalf("expected nil to_addr, got %v", args[4])
	}
	input, ok := args[8].([]byte)
	if !ok || input == nil || len(input) != 0 {
		t.Fatalf("expected empty non-nil input, got %#v", args[8])
	}
}

func TestLogArgs(t *testing.T) {
	t0, t1 := "0xddf2", "0xa"
	l := Log{BlockNumber: 1, TxHash: "0xt", LogIndex: 2, Address: "0xc", Topics: [4]*string{&t0, &t1}}

	want := []any{int64(1), "0xt", int64(2), "0xc", "0xddf2", "0xa", nil, nil, nil}
	if got := l.Args(); !reflect.DeepEqual(got, want) {
		t.Fatalf("args mismatch:\n%#v\n%#v", got, want)
	}
	if l.TopicCount() != 2 {
		t.Fatalf("expected 2 topics, got %d", l.TopicCount())
	}

	l.Data = []byte{}
	if data, ok := l.Args()[8].([]byte); !ok || len(data) != 0 {
		t.Fatalf("expected empty data kept, got %#v", l.Args()[8])
	}
}
