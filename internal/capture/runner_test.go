package capture

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"offlineReplay/internal/chain"
	"offlineReplay/internal/storage/sqlite"
)

type fakeSource struct {
	latest      uint64
	fetched     []uint64
	failures    map[uint64]int
	traceErr    error
	traceCalled int
}

func (s *fakeSource) LatestBlockNumber(ctx context.Context) (uint64, error) {
	return s.latest, nil
}

func (s *fakeSource) BlockWithTransactions(ctx context.Context, number uint64) (*chain.Block, error) {
	if s.failures[number] > 0 {
		s.failures[number]--
		return nil, errors.New("503 service unavailable")
	}
	s.fetched = append(s.fetched, number)
	return &chain.Block{
		Number:     hexutil.Uint64(number),
		Hash:       fmt.Sprintf("0xb%d", number),
		ParentHash: fmt.Sprintf("0xb%d", number-1),
		Transactions: []chain.Transaction{
			{Hash: fmt.Sprintf("0xT%d", number), From: "0xF"},
		},
	}, nil
}

func (s *fakeSource) BlockReceipts(ctx context.Context, number uint64) ([]chain.Receipt, error) {
	return []chain.Receipt{{
		TransactionHash: fmt.Sprintf("0xt%d", number),
		GasUsed:         21000,
		Logs:            []chain.Log{{Address: "0xC", LogIndex: 0}},
	}}, nil
}

func (s *fakeSource) TraceBlock(ctx context.Context, number uint64) ([]chain.Trace, error) {
	s.traceCalled++
	if s.traceErr != nil {
		return nil, s.traceErr
	}
	return []chain.Trace{{TxHash: fmt.Sprintf("0xt%d", number), Result: []byte(`{"type":"CALL"}`)}}, nil
}

func openSink(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(context.Background(), filepath.Join(t.TempDir(), "capture.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func count(t *testing.T, store *sqlite.Store, table string) int {
	t.Helper()
	var n int
	if err := store.DB().QueryRow("SELECT count(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestRunCapturesRange(t *testing.T) {
	source := &fakeSource{}
	store := openSink(t)

	res, err := NewRunner(RunConfig{StartBlock: 10, EndBlock: 12, Traces: true}, source, store, nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.From != 10 || res.To != 12 || res.Blocks != 3 || res.Resumed {
		t.Fatalf("unexpected result: %+v", res)
	}
	if count(t, store, "blocks") != 3 || count(t, store, "logs") != 3 || count(t, store, "traces") != 3 {
		t.Fatalf("unexpected row counts")
	}
	last, ok, err := store.LastBlock(context.Background())
	if err != nil || !ok || last != 12 {
		t.Fatalf("unexpected sync state: %d %v %v", last, ok, err)
	}

	var hash string
	if err := store.DB().QueryRow("SELECT hash FROM transactions WHERE block_number = 10").Scan(&hash); err != nil {
		t.Fatalf("query tx: %v", err)
	}
	if hash != "0xt10" {
		t.Fatalf("expected lowercased hash, got %s", hash)
	}
}

func TestRunResumesFromSyncState(t *testing.T) {
	store := openSink(t)
	ctx := context.Background()

	if _, err := NewRunner(RunConfig{StartBlock: 10, EndBlock: 11}, &fakeSource{}, store, nil).Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}

	source := &fakeSource{}
	res, err := NewRunner(RunConfig{StartBlock: 10, EndBlock: 13}, source, store, nil).Run(ctx)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !res.Resumed || res.From != 12 || res.Blocks != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(source.fetched) != 2 || source.fetched[0] != 12 {
		t.Fatalf("unexpected fetched blocks: %v", source.fetched)
	}

	res, err = NewRunner(RunConfig{StartBlock: 10, EndBlock: 13}, &fakeSource{}, store, nil).Run(ctx)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if !res.UpToDate || res.Blocks != 0 {
		t.Fatalf("expected nothing to do, got %+v", res)
	}
}

func TestRunToLatest(t *testing.T) {
	source := &fakeSource{latest: 5}
	res, err := NewRunner(RunConfig{StartBlock: 4}, source, openSink(t), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.To != 5 || res.Blocks != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRunTraceFailureIsSilent(t *testing.T) {
	source := &fakeSource{traceErr: errors.New("method not found")}
	store := openSink(t)

	if _, err := NewRunner(RunConfig{StartBlock: 1, EndBlock: 2, Traces: true}, source, store, nil).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if source.traceCalled != 2 {
		t.Fatalf("expected trace attempted per block, got %d", source.traceCalled)
	}
	if count(t, store, "traces") != 0 || count(t, store, "blocks") != 2 {
		t.Fatalf("unexpected row counts")
	}
}

func TestRunSkipsTracesWhenDisabled(t *testing.T) {
	source := &fakeSource{}
	if _, err := NewRunner(RunConfig{StartBlock: 1, EndBlock: 1}, source, openSink(t), nil).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if source.traceCalled != 0 {
		t.Fatalf("expected no trace calls, got %d", source.traceCalled)
	}
}

func TestRunRetriesBlockFetch(t *testing.T) {
	source := &fakeSource{failures: map[uint64]int{7: 2}}
	cfg := RunConfig{StartBlock: 7, EndBlock: 7, Retry: Retry{MaxRetries: 2, Backoff: time.Millisecond}}

	res, err := NewRunner(cfg, source, openSink(t), nil).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Blocks != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}

	source = &fakeSource{failures: map[uint64]int{7: 3}}
	store := openSink(t)
	if _, err := NewRunner(cfg, source, store, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected failure after retries are spent")
	}
	if _, ok, _ := store.LastBlock(context.Background()); ok {
		t.Fatalf("sync state must not advance on failure")
	}
}

func TestRunRejectsInvertedRange(t *testing.T) {
	_, err := NewRunner(RunConfig{StartBlock: 9, EndBlock: 3}, &fakeSource{}, openSink(t), nil).Run(context.Background())
	if err == nil {
		t.Fatalf("expected error for start after end")
	}
}
