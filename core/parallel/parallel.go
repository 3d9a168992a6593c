// Package parallel splits row ranges across CPU cores for batch prediction
// and scoring.
package parallel

import (
	"runtime"
	"sync"

	"github.com/YuminosukeSato/arithmath/pkg/errors"
)

// ParallelizeErr divides items into one contiguous [start, end) range per
// CPU core and runs fn on each range concurrently, returning when every range
// is done. A panic inside fn is recovered and reported as a
// *errors.PanicError. When several ranges fail, the error of the lowest range
// is returned.
func ParallelizeErr(items int, fn func(start, end int) error) error {
	if items <= 0 {
		return nil
	}

	numWorkers := runtime.NumCPU()
	if numWorkers > items {
		numWorkers = items
	}

	// ceiling division
	chunkSize := (items + numWorkers - 1) / numWorkers

	errs := make([]error, numWorkers)
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
		go func(idx, s, e int) {
			defer wg.Done()
			errs[idx] = errors.SafeExecute("parallel worker", func() error {
				return fn(s, e)
			})
		}(i, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// ParallelizeWithThresholdErr runs fn(0, items) on the calling goroutine when
// items <= threshold, and ParallelizeErr otherwise. Panics are recovered on
// both paths.
func ParallelizeWithThresholdErr(items int, threshold int, fn func(start, end int) error) error {
	if items <= threshold {
		return errors.SafeExecute("parallel worker", func() error {
			return fn(0, items)
		})
	}
	return ParallelizeErr(items, fn)
}
