package decompose

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// BoundedMap applies fn to every item of items with at most limit calls in
// flight at once, and returns the results in input order.
//
// Workers share a single atomic cursor: each worker claims the next unclaimed
// index and processes it until no indices remain, so every index is handled
// exactly once no matter how long individual items take. results[i] is always
// derived from items[i] regardless of completion order.
//
// The first error returned by fn cancels the group context and stops workers
// from claiming further indices; in-flight siblings run to completion and the
// first error is returned. Callers wanting per-item fault isolation must
// recover inside fn.
func BoundedMap[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T, index int) (R, error)) ([]R, error) {
	if limit < 1 {
		return nil, fmt.Errorf("concurrency limit must be positive, got %d", limit)
	}

	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}
	if limit > len(items) {
		limit = len(items)
	}

	var cursor atomic.Int64
	g, ctx := errgroup.WithContext(ctx)

	for w := 0; w < limit; w++ {
		g.Go(func() error {
			for {
				i := int(cursor.Add(1)) - 1
				if i >= len(items) {
					return nil
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				r, err := fn(ctx, items[i], i)
				if err != nil {
					return err
				}
				// Each slot has exactly one owner, no lock needed.
				results[i] = r
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
