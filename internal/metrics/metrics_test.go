package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCounter(t *testing.T) {
	var c Counter
	c.Inc()
	c.Add(4)
	assert.Equal(t, uint64(5), c.Load())
}

func TestCounter_Concurrent(t *testing.T) {
	var c Counter
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(5000), c.Load())
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)
	assert.GreaterOrEqual(t, timer.Duration(), time.Millisecond)
}

func TestCheckoutSnapshot(t *testing.T) {
	var m Checkout
	m.Attempts.Add(3)
	m.Commits.Inc()
	m.StockConflicts.Inc()

	snap := m.Snapshot()
	assert.Equal(t, uint64(3), snap.Attempts)
	assert.Equal(t, uint64(1), snap.Commits)
	assert.Equal(t, uint64(1), snap.StockConflicts)
	assert.Equal(t, uint64(0), snap.LockTimeouts)
}
