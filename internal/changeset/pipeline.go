package changeset

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// runOrdered computes work(0..n-1) on up to workers goroutines and passes
// the results to emit strictly in index order. No new item is started once
// ctx is done, and ctx is checked again before each emission. The first
// error from work or emit stops the run and is returned.
func runOrdered[T any](ctx context.Context, n, workers int, work func(context.Context, int) (T, error), emit func(T) error) error {
	if n == 0 {
		return ctx.Err()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(runCtx)
	g.SetLimit(workers)

	results := make([]T, n)
	ok := make([]bool, n)
	done := make([]chan struct{}, n)
	for i := range done {
		done[i] = make(chan struct{})
	}

	dispatched := make(chan struct{})
	go func() {
		defer close(dispatched)
		for i := range n {
			if gctx.Err() != nil {
				return
			}
			g.Go(func() error {
				defer close(done[i])
				if err := gctx.Err(); err != nil {
					return err
				}
				r, err := work(gctx, i)
				if err != nil {
					return err
				}
				results[i] = r
				ok[i] = true
				return nil
			})
		}
	}()

	var emitErr error
	emitted := 0
emitLoop:
	for i := range n {
		select {
		case <-done[i]:
		case <-gctx.Done():
			break emitLoop
		}
		if !ok[i] {
			break
		}
		if err := ctx.Err(); err != nil {
			emitErr = err
			break
		}
		if err := emit(results[i]); err != nil {
			emitErr = err
			break
		}
		var zero T
		results[i] = zero
		emitted++
	}

	cancel()
	<-dispatched
	werr := g.Wait()

	switch {
	case emitErr != nil:
		return emitErr
	case emitted == n:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return werr
	}
}
