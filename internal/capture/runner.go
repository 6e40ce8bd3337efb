// Package capture pulls a block range from an archive JSON-RPC node into a
// SQLite capture database.
package capture

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"offlineReplay/internal/chain"
	"offlineReplay/internal/model"
)

// Source is the RPC surface capture needs.
type Source interface {
	LatestBlockNumber(ctx context.Context) (uint64, error)
	BlockWithTransactions(ctx context.Context, number uint64) (*chain.Block, error)
	BlockReceipts(ctx context.Context, number uint64) ([]chain.Receipt, error)
	TraceBlock(ctx context.Context, number uint64) ([]chain.Trace, error)
}

// Sink stores captured blocks and remembers the last one written.
type Sink interface {
	InitCapture(ctx context.Context) error
	LastBlock(ctx context.Context) (uint64, bool, error)
	WriteBlock(ctx context.Context, b model.CapturedBlock) error
}

// RunConfig holds runtime settings for a capture.
type RunConfig struct {
	StartBlock uint64
	// EndBlock of 0 means the latest block at start.
	EndBlock   uint64
	Traces     bool
	BlockDelay time.Duration
	Retry      Retry
}

// Result describes what a capture run did.
type Result struct {
	From     uint64
	To       uint64
	Blocks   int
	Resumed  bool
	UpToDate bool
}

// Runner captures blocks one at a time, committing each before moving on.
type Runner struct {
	cfg    RunConfig
	source Source
	sink   Sink
	logger *zap.Logger
}

// NewRunner builds a Runner with its dependencies.
func NewRunner(cfg RunConfig, source Source, sink Sink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{cfg: cfg, source: source, sink: sink, logger: logger}
}

// Run captures StartBlock..EndBlock inclusive. A database that already holds
// captured blocks resumes right after the last one.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	if r.source == nil {
		return Result{}, fmt.Errorf("rpc source is nil")
	}
	if r.sink == nil {
		return Result{}, fmt.Errorf("capture sink is nil")
	}

	if err := r.sink.InitCapture(ctx); err != nil {
		return Result{}, fmt.Errorf("init capture db: %w", err)
	}

	to := r.cfg.EndBlock
	if to == 0 {
		latest, err := call(ctx, r.cfg.Retry, r.warn("latest block", 0), r.source.LatestBlockNumber)
		if err != nil {
			return Result{}, fmt.Errorf("get latest block: %w", err)
		}
		to = latest
	}
	if r.cfg.StartBlock > to {
		return Result{}, fmt.Errorf("start block %d is after end block %d", r.cfg.StartBlock, to)
	}

	res := Result{From: r.cfg.StartBlock, To: to}

	last, ok, err := r.sink.LastBlock(ctx)
	if err != nil {
		return Result{}, err
	}
	if ok {
		res.From = last + 1
		res.Resumed = true
		r.logger.Info("resume from sync state", zap.Uint64("last_block", last), zap.Uint64("from", res.From))
	}

	if res.From > to {
		res.UpToDate = true
		r.logger.Info("nothing to capture", zap.Uint64("last_block", last), zap.Uint64("to", to))
		return res, nil
	}

	r.logger.Info("capture start", zap.Uint64("from", res.From), zap.Uint64("to", to), zap.Uint64("blocks", to-res.From+1))

	for number := res.From; number <= to; number++ {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		captured, err := r.fetch(ctx, number)
		if err != nil {
			return res, err
		}
		if err := r.sink.WriteBlock(ctx, captured); err != nil {
			return res, fmt.Errorf("write block %d: %w", number, err)
		}
		res.Blocks++

		r.logger.Debug("block captured",
			zap.Uint64("block", number),
			zap.Int("transactions", len(captured.Transactions)),
			zap.Int("logs", len(captured.Logs)),
			zap.Int("traces", len(captured.Traces)),
		)

		if number < to {
			if err := sleep(ctx, r.cfg.BlockDelay); err != nil {
				return res, err
			}
		}
	}

	r.logger.Info("capture complete", zap.Int("blocks", res.Blocks), zap.Uint64("last_block", to))
	return res, nil
}

func (r *Runner) fetch(ctx context.Context, number uint64) (model.CapturedBlock, error) {
	block, err := call(ctx, r.cfg.Retry, r.warn("fetch block", number), func(ctx context.Context) (*chain.Block, error) {
		return r.source.BlockWithTransactions(ctx, number)
	})
	if err != nil {
		return model.CapturedBlock{}, fmt.Errorf("fetch block %d: %w", number, err)
	}

	receipts, err := call(ctx, r.cfg.Retry, r.warn("fetch receipts", number), func(ctx context.Context) ([]chain.Receipt, error) {
		return r.source.BlockReceipts(ctx, number)
	})
	if err != nil {
		return model.CapturedBlock{}, fmt.Errorf("fetch receipts %d: %w", number, err)
	}

	var traces []chain.Trace
	if r.cfg.Traces {
		// tracing needs the debug namespace; without it the block has no traces
		traces, err = r.source.TraceBlock(ctx, number)
		if err != nil {
			r.logger.Debug("trace unavailable", zap.Uint64("block", number), zap.Error(err))
			traces = nil
		}
	}

	return buildCapturedBlock(block, receipts, traces), nil
}

func (r *Runner) warn(op string, number uint64) func(int, error) {
	return func(attempt int, err error) {
		r.logger.Warn(op+" failed", zap.Error(err), zap.Uint64("block", number), zap.Int("attempt", attempt+1))
	}
}
