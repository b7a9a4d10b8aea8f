package renderer

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"golang.org/x/sync/errgroup"
)

// Slice is a contiguous band of image rows [Start, End) rendered by one task
type Slice struct {
	Index int
	Start int
	End   int
}

// Rows returns the number of rows in the slice
func (s Slice) Rows() int {
	return s.End - s.Start
}

// WorkerPool runs one task per slice with a fixed number of goroutines.
// Work is split statically up front; there is no work stealing.
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a pool; numWorkers <= 0 uses the CPU count
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// NumWorkers returns the number of workers in the pool
func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

// Partition splits height rows into one contiguous slice per worker. Slice
// sizes differ by at most one row; the first slices take the remainder.
func (wp *WorkerPool) Partition(height int) []Slice {
	n := min(wp.numWorkers, height)
	if n <= 0 {
		return nil
	}

	slices := make([]Slice, n)
	rows, extra := height/n, height%n
	start := 0
	for i := range slices {
		size := rows
		if i < extra {
			size++
		}
		slices[i] = Slice{Index: i, Start: start, End: start + size}
		start += size
	}
	return slices
}

// Execute runs task for every slice and waits for all of them. The first
// error is returned. A panicking task is converted into an error instead of
// crashing the process.
func (wp *WorkerPool) Execute(slices []Slice, task func(Slice) error) error {
	var g errgroup.Group
	g.SetLimit(wp.numWorkers)

	for _, s := range slices {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("slice %d (rows %d-%d) panicked: %v\n%s", s.Index, s.Start, s.End, r, debug.Stack())
				}
			}()
			return task(s)
		})
	}
	return g.Wait()
}
