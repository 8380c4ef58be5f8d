package transform

import (
	"context"

	"favtrax/internal/shared"
	"favtrax/internal/worker"
)

// Capability is the shared future over a possibly still-initializing search
// function. One Capability backs every session of a batch; resolving it (and
// the worker startup behind it) happens once.
type Capability struct {
	ready chan struct{}
	fn    worker.SearchFunc
	err   error
}

// NewCapability resolves setup on its own goroutine and completes the future
// with the outcome.
func NewCapability(ctx context.Context, setup func(context.Context) (worker.SearchFunc, error)) *Capability {
	c := &Capability{ready: make(chan struct{})}
	go func() {
		defer close(c.ready)
		c.fn, c.err = setup(ctx)
	}()
	return c
}

// ResolvedCapability wraps an already available search function.
func ResolvedCapability(fn worker.SearchFunc) *Capability {
	c := &Capability{ready: make(chan struct{}), fn: fn}
	close(c.ready)
	return c
}

// Await blocks until the capability resolves, the session owning done is
// released, or ctx is cancelled.
func (c *Capability) Await(ctx context.Context, done <-chan struct{}) (worker.SearchFunc, error) {
	select {
	case <-c.ready:
		return c.fn, c.err
	case <-done:
		return nil, shared.ErrTransformReleased
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
