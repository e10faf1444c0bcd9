package coverage

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/dukbill/tally/internal/taxonomy"
)

// ErrNilRegistry indicates a scan started without a registry.
var ErrNilRegistry = errors.New("registry is required")

// ScanOptions configures a parallel scan.
type ScanOptions struct {
	// Progress, if set, is invoked after every tallied record with the
	// cumulative number processed. It is called from multiple
	// goroutines and must be safe for concurrent use.
	Progress func(processed int)
	// Workers is the number of scan goroutines. Values <= 0 default to
	// runtime.NumCPU().
	Workers int
}

// Scan drains records and tallies every one against reg, sharding the
// stream across workers and merging the per-worker accumulators. The
// per-record rules match Accumulator.Add; individual records never
// fail a scan.
//
// On context cancellation Scan stops consuming and returns the merged
// partial tally alongside the context error. The partial result is a
// valid accumulator for every record tallied before the stop.
func Scan(ctx context.Context, reg *taxonomy.Registry, records <-chan Record, opts ScanOptions) (*Accumulator, error) {
	if reg == nil {
		return nil, ErrNilRegistry
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make(chan *Accumulator, workers)

	var processed atomic.Int64
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			local := NewAccumulator(reg)
			defer func() { results <- local }()

			for {
				select {
				case <-ctx.Done():
					return
				case rec, ok := <-records:
					if !ok {
						return
					}
					local.Add(rec.Label)
					if opts.Progress != nil {
						opts.Progress(int(processed.Add(1)))
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	merged := NewAccumulator(reg)
	for local := range results {
		if err := merged.Merge(local); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return merged, err
	}
	return merged, nil
}

// ScanSlice tallies an in-memory batch sequentially. It is the
// synchronous counterpart to Scan for small batches and tests.
func ScanSlice(reg *taxonomy.Registry, records []Record) *Accumulator {
	acc := NewAccumulator(reg)
	for _, rec := range records {
		acc.Add(rec.Label)
	}
	return acc
}
