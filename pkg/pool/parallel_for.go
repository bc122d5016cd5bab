package pool

import "sync"

// ParallelFor runs fn(i, workerID) for every i in [begin, end), spread
// across numWorkers goroutines by contiguous range partition, and
// blocks until every index has completed exactly once (one barrier per
// call). Unlike WorkerPool, this is not a persistent queue: it exists
// purely for one range-partitioned parallel section, matching the
// solver/demixer concurrency model's parallel_for(begin, end,
// fn(i, worker_id)) primitive.
func ParallelFor(begin, end, numWorkers int, fn func(i, workerID int)) {
	if numWorkers < 1 {
		numWorkers = 1
	}
	n := end - begin
	if n <= 0 {
		return
	}
	if numWorkers > n {
		numWorkers = n
	}

	chunk := (n + numWorkers - 1) / numWorkers
	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		lo := begin + w*chunk
		hi := lo + chunk
		if hi > end {
			hi = end
		}
		if lo >= hi {
			continue
		}
		wg.Add(1)
		go func(lo, hi, workerID int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				fn(i, workerID)
			}
		}(lo, hi, w)
	}
	wg.Wait()
}
