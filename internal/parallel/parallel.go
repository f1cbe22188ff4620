// Package parallel provides a bounded worker-pool fan-out for the
// embarrassingly data-parallel per-pulse stages of the pipeline
// (feature extraction, the initial PSD pass, pile-up counting).
// It does not schedule anything state-dependent across the index
// range; callers with an order-dependent fold (LED gain correction)
// must not use it.
package parallel

import (
	"runtime"
	"sync"
)

// For calls work(i) for every i in [0, n), distributing indices across
// up to runtime.GOMAXPROCS(0) goroutines. It blocks until every call
// returns. work must only touch index i's own slice of shared output
// state (e.g. results[i] = ...); it must not share mutable state across
// indices.
func For(n int, work func(i int)) {
	if n <= 0 {
		return
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		for i := 0; i < n; i++ {
			work(i)
		}
		return
	}

	var wg sync.WaitGroup
	chunk := (n + workers - 1) / workers
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if lo >= n {
			break
		}
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				work(i)
			}
		}(lo, hi)
	}
	wg.Wait()
}
