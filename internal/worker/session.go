package worker

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"favtrax/internal/proxy"
	"favtrax/internal/search"
	"favtrax/internal/shared"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

const defaultRateLimit = 4.0

// SessionOpts contains configuration options for creating a Session.
type SessionOpts struct {
	Scheme      proxy.Scheme    // Initial proxy scheme for the worker's registry
	NewSearcher SearcherFactory // Builds the underlying search capability
	RateLimit   float64         // Search requests per second (0 uses the default)
	Logger      *log.Logger
}

// Session owns one background worker and its RPC channel.
//
// Starting the worker is expensive, so it happens lazily and at most once per
// Session; the process constructs a single Session at startup and injects it
// wherever the capability is needed. After [Session.Release] every pending
// and future exchange fails with [shared.ErrSessionReleased].
type Session struct {
	mu       sync.Mutex
	opts     SessionOpts
	worker   *remote
	released bool
}

// NewSession creates a Session. The worker is not started until the first RPC.
func NewSession(opts SessionOpts) *Session {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = defaultRateLimit
	}
	if opts.NewSearcher == nil {
		opts.NewSearcher = func(client *http.Client) (search.Searcher, error) {
			return search.NewClient(search.ClientOpts{HTTPClient: client, Logger: opts.Logger}), nil
		}
	}

	return &Session{opts: opts}
}

// ensureWorker starts the worker on first use.
func (s *Session) ensureWorker() (*remote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return nil, shared.ErrSessionReleased
	}
	if s.worker != nil {
		return s.worker, nil
	}

	registry, err := proxy.NewRegistry(s.opts.Scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize proxy registry: %w", err)
	}

	w := &remote{
		requests: make(chan request),
		done:     make(chan struct{}),
		registry: registry,
		factory:  s.opts.NewSearcher,
		limiter:  rate.NewLimiter(rate.Limit(s.opts.RateLimit), 1),
		logger:   shared.WithLogger(s.opts.Logger, "component", "worker"),
	}
	go w.run()

	s.worker = w
	s.opts.Logger.Debug("worker started", "scheme", s.opts.Scheme.Name)
	return w, nil
}

// SetupSearchCapability requests a dedicated search port from the worker and
// returns a directly callable function bound to it.
//
// Safe to call before the worker has finished initializing; the exchange
// synchronizes on port delivery. Failures are returned as-is, retrying is the
// caller's decision.
func (s *Session) SetupSearchCapability(ctx context.Context) (SearchFunc, error) {
	w, err := s.ensureWorker()
	if err != nil {
		return nil, err
	}

	resp, err := w.call(ctx, request{kind: reqSearchPort})
	if err != nil {
		return nil, err
	}
	if resp.err != nil {
		return nil, resp.err
	}

	port := resp.port
	fn := func(ctx context.Context, q search.Query) (*search.Response, error) {
		call := searchCall{ctx: ctx, query: q, reply: make(chan searchResult, 1)}

		select {
		case port <- call:
		case <-w.done:
			return nil, shared.ErrSessionReleased
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		select {
		case result := <-call.reply:
			return result.resp, result.err
		case <-w.done:
			return nil, shared.ErrSessionReleased
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return fn, nil
}

// ProxyScheme returns the worker's active rewrite scheme.
func (s *Session) ProxyScheme(ctx context.Context) (proxy.Scheme, error) {
	w, err := s.ensureWorker()
	if err != nil {
		return proxy.Scheme{}, err
	}

	resp, err := w.call(ctx, request{kind: reqGetScheme})
	if err != nil {
		return proxy.Scheme{}, err
	}
	return resp.scheme, resp.err
}

// SetProxyScheme replaces the worker's active scheme. The new scheme is in
// effect for every search dispatched after this call returns.
func (s *Session) SetProxyScheme(ctx context.Context, scheme proxy.Scheme) error {
	w, err := s.ensureWorker()
	if err != nil {
		return err
	}

	resp, err := w.call(ctx, request{kind: reqSetScheme, scheme: scheme})
	if err != nil {
		return err
	}
	return resp.err
}

// Release stops the worker. Pending and future RPCs fail fast; nothing
// half-completes after release.
func (s *Session) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.released {
		return
	}
	s.released = true

	if s.worker != nil {
		close(s.worker.done)
		s.opts.Logger.Debug("worker released")
	}
}
