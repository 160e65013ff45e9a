package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Checkout tracks outcomes of checkout attempts across both pipelines.
type Checkout struct {
	Attempts       Counter
	Commits        Counter
	StockConflicts Counter
	LockTimeouts   Counter
}

type CheckoutSnapshot struct {
	Attempts       uint64 `json:"attempts"`
	Commits        uint64 `json:"commits"`
	StockConflicts uint64 `json:"stock_conflicts"`
	LockTimeouts   uint64 `json:"lock_timeouts"`
}

func (m *Checkout) Snapshot() CheckoutSnapshot {
	return CheckoutSnapshot{
		Attempts:       m.Attempts.Load(),
		Commits:        m.Commits.Load(),
		StockConflicts: m.StockConflicts.Load(),
		LockTimeouts:   m.LockTimeouts.Load(),
	}
}
