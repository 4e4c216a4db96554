package workers

import (
	"context"
	"sync"
)

type Workers struct {
	workers []Worker
}

// NewWorkers aggregates ws. Nil workers are skipped.
func NewWorkers(ws ...Worker) *Workers {
	all := make([]Worker, 0, len(ws))
	for _, w := range ws {
		if w != nil {
			all = append(all, w)
		}
	}
	return &Workers{workers: all}
}

// Len returns the number of aggregated workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker on its own goroutine and returns once all of them
// have stopped.
func (w *Workers) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, worker := range w.workers {
		wg.Add(1)
		go func(worker Worker) {
			defer wg.Done()
			worker.Run(ctx)
		}(worker)
	}
	wg.Wait()
}
