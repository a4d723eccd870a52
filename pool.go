package qmeasure

import (
	"context"

	"golang.org/x/sync/errgroup"
)

/*
evalPool fans the per-entry product computations out over a bounded
set of goroutines. Each index writes only its own slot of the result
slice, so the output order is fixed by catalog index regardless of
scheduling, and any downstream reduction over the slice stays
bit-reproducible across runs.
*/
type evalPool struct {
	workers int
}

func newEvalPool(cfg *Config) *evalPool {
	return &evalPool{workers: cfg.workerCount()}
}

// forEach runs fn for every index in [0, n). The first error cancels
// the remaining work and is returned.
func (p *evalPool) forEach(ctx context.Context, n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	// Not worth the goroutine handoff for tiny catalogs.
	if p.workers <= 1 || n == 1 {
		for i := 0; i < n; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
