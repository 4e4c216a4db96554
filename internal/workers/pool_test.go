package workers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPool_Size(t *testing.T) {
	assert.Equal(t, int64(1), NewPool(0).Size())
	assert.Equal(t, int64(1), NewPool(-3).Size())
	assert.Equal(t, int64(4), NewPool(4).Size())

	var p *Pool
	assert.Equal(t, int64(0), p.Size())
}

func TestPool_Do_ReturnsFnError(t *testing.T) {
	p := NewPool(1)
	want := errors.New("boom")

	err := p.Do(context.Background(), func() error { return want })
	assert.ErrorIs(t, err, want)

	// the slot was released
	err = p.Do(context.Background(), func() error { return nil })
	assert.NoError(t, err)
}

func TestPool_Do_NilPoolRunsDirectly(t *testing.T) {
	var p *Pool
	called := false

	err := p.Do(context.Background(), func() error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestPool_Do_BoundsConcurrency(t *testing.T) {
	const size = 2
	p := NewPool(size)

	var running, peak atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = p.Do(context.Background(), func() error {
				n := running.Add(1)
				for {
					old := peak.Load()
					if n <= old || peak.CompareAndSwap(old, n) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				running.Add(-1)
				return nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(size))
	assert.Positive(t, peak.Load())
}

func TestPool_Do_ContextCancelledWhileWaiting(t *testing.T) {
	p := NewPool(1)
	release := make(chan struct{})
	holding := make(chan struct{})

	go func() {
		_ = p.Do(context.Background(), func() error {
			close(holding)
			<-release
			return nil
		})
	}()
	<-holding

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	called := false
	err := p.Do(ctx, func() error {
		called = true
		return nil
	})
	close(release)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, called)
}
