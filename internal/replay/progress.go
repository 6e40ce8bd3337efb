package replay

import (
	"sync"

	"go.uber.org/zap"
)

// Progress observes a table load. Implementations render it; they never
// influence the result.
type Progress interface {
	Start(table string, total int64)
	Advance(table string, rows int)
	Finish(table string, inserted int64)
}

// LogProgress reports progress through the logger, at most once per tenth
// of the expected rows.
type LogProgress struct {
	logger *zap.Logger

	mu     sync.Mutex
	tables map[string]*tableProgress
}

type tableProgress struct {
	total    int64
	done     int64
	lastStep int64
}

func NewLogProgress(logger *zap.Logger) *LogProgress {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogProgress{logger: logger, tables: make(map[string]*tableProgress)}
}

func (p *LogProgress) Start(table string, total int64) {
	p.mu.Lock()
	p.tables[table] = &tableProgress{total: total}
	p.mu.Unlock()

	p.logger.Info("table load start", zap.String("table", table), zap.Int64("total", total))
}

func (p *LogProgress) Advance(table string, rows int) {
	p.mu.Lock()
	tp, ok := p.tables[table]
	if !ok {
		tp = &tableProgress{}
		p.tables[table] = tp
	}
	tp.done += int64(rows)
	step := int64(0)
	if tp.total > 0 {
		step = tp.done * 10 / tp.total
	}
	report := step > tp.lastStep
	if report {
		tp.lastStep = step
	}
	done, total := tp.done, tp.total
	p.mu.Unlock()

	if report {
		p.logger.Info("table progress", zap.String("table", table), zap.Int64("rows", done), zap.Int64("total", total))
	}
}

func (p *LogProgress) Finish(table string, inserted int64) {
	p.mu.Lock()
	delete(p.tables, table)
	p.mu.Unlock()

	p.logger.Info("table loaded", zap.String("table", table), zap.Int64("inserted", inserted))
}
