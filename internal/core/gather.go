// ABOUTME: Ordered scatter-gather over an errgroup
// ABOUTME: Results land in input order regardless of which goroutine finishes first
package core

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// gather runs fn for every item concurrently, at most limit at a time when
// limit > 0, waits for all of them and returns the results in input order.
// fn must not panic; callers recover inside fn.
func gather[T, R any](ctx context.Context, items []T, limit int, fn func(ctx context.Context, item T) R) []R {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results
	}

	g, gCtx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, item := range items {
		g.Go(func() error {
			results[i] = fn(gCtx, item)
			return nil
		})
	}
	_ = g.Wait()
	return results
}
