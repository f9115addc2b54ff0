package worker

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPoolRunsAllTasks(t *testing.T) {
	pool := NewPool(2)

	var done int32
	for i := 0; i < 10; i++ {
		pool.Submit(func() {
			atomic.AddInt32(&done, 1)
		})
	}
	pool.Wait()

	assert.Equal(t, int32(10), atomic.LoadInt32(&done))
}

func TestPoolBoundsConcurrency(t *testing.T) {
	pool := NewPool(2)

	var mu sync.Mutex
	var running, peak int

	for i := 0; i < 8; i++ {
		pool.Submit(func() {
			mu.Lock()
			running++
			if running > peak {
				peak = running
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
		})
	}
	pool.Wait()

	assert.LessOrEqual(t, peak, 2)
	assert.Equal(t, 0, running)
}

func TestPoolSizeClamped(t *testing.T) {
	pool := NewPool(0)

	ran := false
	pool.Submit(func() { ran = true })
	pool.Wait()

	assert.True(t, ran)
}
