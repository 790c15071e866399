// Package parallel splits index ranges across CPU cores.
//
// Training is strictly sequential; these helpers are only used for read-only
// work over a frozen model such as batch prediction and evaluation.
package parallel

import (
	"runtime"
	"sync"
)

// DefaultThreshold is the row count below which work runs on the calling goroutine.
const DefaultThreshold = 1024

// Parallelize divides items into one contiguous range per CPU core and runs fn
// on each range concurrently. It returns once every range is done.
func Parallelize(items int, fn func(start, end int)) {
	if items <= 0 {
		return
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for i := 0; i < numWorkers; i++ {
		start := i * chunkSize
		end := start + chunkSize
		if end > items {
			end = items
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}

	wg.Wait()
}

// ParallelizeWithThreshold runs fn(0, items) sequentially when items does not
// exceed threshold, and falls back to Parallelize otherwise.
func ParallelizeWithThreshold(items int, threshold int, fn func(start, end int)) {
	if items <= 0 {
		return
	}
	if items <= threshold {
		fn(0, items)
		return
	}
	Parallelize(items, fn)
}

// Map applies fn to every element of in and returns the results in input order.
// fn must be safe for concurrent use.
func Map[T, R any](in []T, threshold int, fn func(T) R) []R {
	out := make([]R, len(in))
	ParallelizeWithThreshold(len(in), threshold, func(start, end int) {
		for i := start; i < end; i++ {
			out[i] = fn(in[i])
		}
	})
	return out
}
