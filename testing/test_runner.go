// Package testing provides helpers for materializing Collections in tests
package testing

import (
	"context"

	"github.com/go-strata/strata"
	"github.com/go-strata/strata/internal/pcache"
	"github.com/go-strata/strata/scheduler"
)

// LocalCompute materializes a Collection on a local Scheduler configured the
// way integration tests want it: a bounded worker pool, chain fusion, and a
// small compressed result cache. Panics from task functions surface as
// errors rather than crashing the test binary.
func LocalCompute(ctx context.Context, c strata.Collection, numWorkers int) (result strata.CollectedPartition, err error) {
	// handle panics
	defer func() {
		if r := recover(); r != nil {
			if anErr, ok := r.(error); ok {
				err = anErr
			} else {
				panic(r)
			}
		}
	}()

	cache := pcache.NewLRU(&pcache.LRUConfig{
		Size:               16,
		CompressedFraction: 0.25,
	})
	defer cache.Destroy()

	sched := scheduler.CreateLocal(&scheduler.LocalOptions{
		NumWorkers: numWorkers,
		Fuse:       true,
		Cache:      cache,
	})
	return c.Compute(ctx, sched)
}
