package transform

import (
	"context"
	"sync"

	"favtrax/internal/search"
	"favtrax/internal/shared"
	"favtrax/internal/worker"
)

// Session grants one row transform queued, cancellable access to the shared
// search capability.
//
// Release is cooperative: it flips a per-session signal that [Session.Queue]
// and the returned wrapper re-check at every suspension point. A released
// session can never execute another search, even when the capability was
// already available.
type Session struct {
	capability *Capability
	done       chan struct{}
	once       sync.Once
}

// NewSession creates a session over the shared capability.
func NewSession(capability *Capability) *Session {
	return &Session{capability: capability, done: make(chan struct{})}
}

// Release flips the cancellation signal. In-flight and subsequent Queue and
// wrapper calls raise [shared.ErrTransformReleased] instead of proceeding.
func (s *Session) Release() {
	s.once.Do(func() { close(s.done) })
}

// Released reports whether the session has been released.
func (s *Session) Released() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// check raises the cancellation marker once the session is released.
func (s *Session) check() error {
	if s.Released() {
		return shared.ErrTransformReleased
	}
	return nil
}

// Queue awaits the shared capability and returns a guarded wrapper around it.
//
// Release is re-checked immediately before and after the await, and again on
// every invocation of the wrapper, so admission and execution both observe
// cancellation.
func (s *Session) Queue(ctx context.Context) (worker.SearchFunc, error) {
	if err := s.check(); err != nil {
		return nil, err
	}

	fn, err := s.capability.Await(ctx, s.done)
	if err != nil {
		return nil, err
	}

	if err := s.check(); err != nil {
		return nil, err
	}

	wrapper := func(ctx context.Context, q search.Query) (*search.Response, error) {
		if err := s.check(); err != nil {
			return nil, err
		}
		return fn(ctx, q)
	}

	return wrapper, nil
}
