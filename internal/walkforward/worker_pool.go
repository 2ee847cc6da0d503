package walkforward

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/minhtran-quant/forecastval/internal/monitoring"
	"github.com/minhtran-quant/forecastval/pkg/types"
)

// windowResult carries one window's outcome back from a worker.
type windowResult struct {
	window  int
	metrics WindowMetrics
	err     error
}

// runParallel evaluates windows through a worker pool. Windows are pure
// functions of (train, test, forecaster) over a read-only bar series, so
// the only coordination needed is deterministic reassembly: results are
// sorted by window index before being returned, which keeps the output
// identical to the sequential path. Cancellation stops scheduling new
// windows; already-collected results are kept.
func (e *WalkForwardEngine) runParallel(ctx context.Context, bars []types.Bar, planned int) ([]WindowMetrics, int) {
	workers := e.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > planned {
		workers = planned
	}

	jobs := make(chan int)
	out := make(chan windowResult, planned)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for window := range jobs {
				wm, err := e.evaluateWindow(bars, window, planned)
				select {
				case out <- windowResult{window: window, metrics: wm, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := 0; i < planned; i++ {
			select {
			case jobs <- i:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(out)
	}()

	results := make([]WindowMetrics, 0, planned)
	failed := 0
	for res := range out {
		if res.err != nil {
			failed++
			e.recordFailure(res.window, res.err)
			continue
		}
		monitoring.RecordWindow(e.cfg.Ticker, res.metrics.Regime.Regime.String())
		results = append(results, res.metrics)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].WindowIndex < results[j].WindowIndex
	})
	return results, failed
}
