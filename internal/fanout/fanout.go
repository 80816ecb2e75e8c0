package fanout

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ForEach runs fn over every item with at most limit workers in flight.
//
// Every item is started exactly once and the call returns only after all
// started workers have settled. Completion order is not guaranteed.
//
// Error semantics follow the group contract: a worker that returns an error
// cancels the group context, which in-flight and not-yet-started workers
// observe through ctx. Callers that want partial-failure tolerance swallow
// errors inside fn (logging them there); callers that want a failure to
// abort the batch return it. All worker errors are collected and returned
// joined, so no outcome is lost.
func ForEach[T any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) error) error {
	if limit < 1 {
		return ErrInvalidLimit
	}
	if len(items) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	var (
		errMu   sync.Mutex
		joinErr error
	)

	for _, item := range items {
		item := item // per-iteration copy; required under Go <1.22 loop semantics
		g.Go(func() error {
			if err := fn(gctx, item); err != nil {
				errMu.Lock()
				joinErr = errors.Join(joinErr, err)
				errMu.Unlock()
				return err
			}
			return nil
		})
	}

	// Wait's first-error return is subsumed by joinErr.
	//nolint:errcheck
	g.Wait()

	return joinErr
}
