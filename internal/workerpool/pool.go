// Package workerpool sizes and runs the shared worker pool that the status
// and add phases fan out onto, sized to
// min(configured_threads, available_cores, 8).
package workerpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Size returns the worker count for a pool configured with the given
// thread count (0 meaning "auto"), capped at the available cores and at 8.
func Size(configured int) int {
	cores := runtime.NumCPU()
	n := configured
	if n <= 0 {
		n = cores
	}
	if n > cores {
		n = cores
	}
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Group wraps errgroup.Group with a concurrency limit derived from Size,
// giving every parallel phase (status scan, add hashing, object writes) the
// same bounded fan-out policy.
type Group struct {
	g *errgroup.Group
}

// New returns a Group bounded to Size(configured) concurrent goroutines.
func New(ctx context.Context, configured int) (*Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(Size(configured))
	return &Group{g: g}, gctx
}

// Go schedules fn, blocking if the concurrency limit is already reached.
func (p *Group) Go(fn func() error) {
	p.g.Go(fn)
}

// Wait blocks until every scheduled fn has returned, and returns the first
// non-nil error, if any.
func (p *Group) Wait() error {
	return p.g.Wait()
}
