// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Run was called.
type mockWorker struct {
	runCount atomic.Int32
}

func (m *mockWorker) Run(ctx context.Context) {
	m.runCount.Add(1)
}

// blockingWorker stays in Run until ctx is cancelled.
type blockingWorker struct {
	started chan struct{}
	stopped atomic.Bool
}

func (b *blockingWorker) Run(ctx context.Context) {
	close(b.started)
	<-ctx.Done()
	b.stopped.Store(true)
}

func TestWorkers_Run_AllWorkersAreCalled(t *testing.T) {
	w1 := &mockWorker{}
	w2 := &mockWorker{}
	w3 := &mockWorker{}

	ws := NewWorkers(w1, w2, w3)
	ws.Run(context.Background())

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.runCount.Load() != 1 {
			t.Errorf("worker[%d]: expected runCount=1, got %d", i, w.runCount.Load())
		}
	}
}

func TestWorkers_Run_Empty(t *testing.T) {
	ws := NewWorkers()

	// Should not panic on empty workers list
	ws.Run(context.Background())
}

func TestWorkers_Run_Nil(t *testing.T) {
	ws := &Workers{}

	// Should not panic when workers field is nil
	ws.Run(context.Background())
}

func TestNewWorkers_SkipsNil(t *testing.T) {
	ws := NewWorkers(nil, &mockWorker{}, nil)
	assert.Equal(t, 1, ws.Len())
}

func TestWorkers_Run_WaitsForCancellation(t *testing.T) {
	b1 := &blockingWorker{started: make(chan struct{})}
	b2 := &blockingWorker{started: make(chan struct{})}
	ws := NewWorkers(b1, b2)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ws.Run(ctx)
		close(done)
	}()

	<-b1.started
	<-b2.started
	select {
	case <-done:
		t.Fatal("Run returned before cancellation")
	case <-time.After(20 * time.Millisecond):
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancellation")
	}
	assert.True(t, b1.stopped.Load())
	assert.True(t, b2.stopped.Load())
}

func TestWorkers_Run_MultipleRuns(t *testing.T) {
	w := &mockWorker{}
	ws := NewWorkers(w)

	ws.Run(context.Background())
	ws.Run(context.Background())
	ws.Run(context.Background())

	if w.runCount.Load() != 3 {
		t.Errorf("expected runCount=3 after 3 calls, got %d", w.runCount.Load())
	}
}

func TestWorkers_Run_Concurrent(t *testing.T) {
	const n = 5
	var wg sync.WaitGroup
	wg.Add(n)

	// each worker waits for all others to start, which only terminates when
	// they run concurrently
	ws := make([]Worker, 0, n)
	for i := 0; i < n; i++ {
		ws = append(ws, workerFunc(func(ctx context.Context) {
			wg.Done()
			wg.Wait()
		}))
	}

	done := make(chan struct{})
	go func() {
		NewWorkers(ws...).Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("workers did not run concurrently")
	}
}

type workerFunc func(ctx context.Context)

func (f workerFunc) Run(ctx context.Context) { f(ctx) }
