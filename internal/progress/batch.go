package progress

import (
	"context"
	"sync"
	"time"
)

// BatchTask is one independent unit of I/O work a batch flush can run
// concurrently with its siblings — writing one output file, one report
// section, anything with no shared mutable state across tasks. It must
// NOT be a write into a shared *sql.Tx: SQLite transactions are not
// safe for concurrent use from multiple goroutines, so within-stage
// persistence stays on the sequential path store.Store already uses.
type BatchTask func(ctx context.Context) error

// BatchResult carries one task's outcome back to the caller, keeping
// the same completed/failed accounting the teacher's worker.Pool
// reported through its onProgress callback.
type BatchResult struct {
	Index   int
	Err     error
	Elapsed time.Duration
}

// RunBatch runs tasks across workers concurrent goroutines, reporting
// through obs the same way a single-threaded stage does, and returns
// one BatchResult per task in task order. This is the teacher's
// worker.Pool generalised from "render this tile" to "flush this
// independent unit of output", since nothing in this repository's
// single-threaded generation pipeline (§1/§5 forbid parallelising a
// stage's own algorithm) can safely use a fan-out pool the way tile
// rendering could — docs generation, writing the schema document and
// the CLI reference tree side by side, is the one place in this module
// with genuinely independent concurrent I/O.
func RunBatch(ctx context.Context, workers int, obs Observer, label string, tasks []BatchTask) []BatchResult {
	if len(tasks) == 0 {
		return nil
	}
	if workers <= 0 {
		workers = 1
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	type indexed struct {
		index int
		task  BatchTask
	}
	in := make(chan indexed, len(tasks))
	for i, t := range tasks {
		in <- indexed{i, t}
	}
	close(in)

	results := make([]BatchResult, len(tasks))
	var completed, failed int
	var mu sync.Mutex

	obs.StartKnown(label, len(tasks))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range in {
				start := time.Now()
				err := item.task(ctx)
				elapsed := time.Since(start)

				mu.Lock()
				results[item.index] = BatchResult{Index: item.index, Err: err, Elapsed: elapsed}
				completed++
				if err != nil {
					failed++
				}
				n := completed
				mu.Unlock()

				obs.Update(n)
				if err != nil {
					obs.Warning("task %d: %v", item.index, err)
				}
			}
		}()
	}
	wg.Wait()
	obs.Finish()

	return results
}
