// package worker hosts the search capability and proxy registry on a
// background goroutine, behind a message-channel RPC owned by [Session].
//
// The channel protocol is deliberately narrow: three request kinds, one of
// which hands back a dedicated port (a fresh channel with its own serving
// goroutine) that callers drive through a [SearchFunc]. Closing the session
// fails every pending and future exchange fast.
package worker

import (
	"context"
	"net/http"

	"favtrax/internal/proxy"
	"favtrax/internal/search"
	"favtrax/internal/shared"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// SearchFunc is a directly callable remote search capability bound to one port.
type SearchFunc func(ctx context.Context, q search.Query) (*search.Response, error)

// SearcherFactory builds the underlying capability inside the worker.
// The HTTP client it receives is already wired through the proxy registry.
type SearcherFactory func(client *http.Client) (search.Searcher, error)

type reqKind int

const (
	reqSearchPort reqKind = iota
	reqGetScheme
	reqSetScheme
)

// request is the closed union of worker RPC messages.
type request struct {
	kind   reqKind
	scheme proxy.Scheme
	reply  chan response
}

type response struct {
	port   chan searchCall
	scheme proxy.Scheme
	err    error
}

// searchCall is one invocation crossing a search port.
type searchCall struct {
	ctx   context.Context
	query search.Query
	reply chan searchResult
}

type searchResult struct {
	resp *search.Response
	err  error
}

// remote is the worker side: one goroutine servicing requests plus one
// serving goroutine per handed-out port.
type remote struct {
	requests chan request
	done     chan struct{}

	registry *proxy.Registry
	factory  SearcherFactory
	limiter  *rate.Limiter
	logger   *log.Logger

	// searcher init is idempotent; only the request loop touches these.
	initialized bool
	searcher    search.Searcher
	searcherErr error
}

func (r *remote) run() {
	for {
		select {
		case <-r.done:
			return
		case req := <-r.requests:
			r.handle(req)
		}
	}
}

func (r *remote) handle(req request) {
	switch req.kind {
	case reqGetScheme:
		req.reply <- response{scheme: r.registry.Scheme()}
	case reqSetScheme:
		err := r.registry.Set(req.scheme)
		if err == nil {
			r.logger.Info("proxy scheme replaced", "name", req.scheme.Name)
		}
		req.reply <- response{err: err}
	case reqSearchPort:
		searcher, err := r.setupSearcher()
		if err != nil {
			req.reply <- response{err: err}
			return
		}

		port := make(chan searchCall)
		go r.servePort(port, searcher)
		req.reply <- response{port: port}
	}
}

// setupSearcher initializes the underlying capability once and caches the
// outcome; every port request after the first reuses it.
func (r *remote) setupSearcher() (search.Searcher, error) {
	if !r.initialized {
		client := &http.Client{Transport: &proxy.Transport{Registry: r.registry}}
		r.searcher, r.searcherErr = r.factory(client)
		r.initialized = true
		if r.searcherErr != nil {
			r.logger.Error("search capability init failed", "err", r.searcherErr)
		}
	}
	return r.searcher, r.searcherErr
}

// servePort serves one handed-out port until the worker is released.
// Calls run concurrently; ordering across calls is not guaranteed.
func (r *remote) servePort(port chan searchCall, searcher search.Searcher) {
	for {
		select {
		case <-r.done:
			return
		case call := <-port:
			go r.serveCall(call, searcher)
		}
	}
}

func (r *remote) serveCall(call searchCall, searcher search.Searcher) {
	if err := r.limiter.Wait(call.ctx); err != nil {
		call.reply <- searchResult{err: err}
		return
	}

	resp, err := searcher.Search(call.ctx, call.query)
	call.reply <- searchResult{resp: resp, err: err}
}

// call performs one RPC exchange, failing fast on release or caller cancellation.
func (r *remote) call(ctx context.Context, req request) (response, error) {
	req.reply = make(chan response, 1)

	select {
	case r.requests <- req:
	case <-r.done:
		return response{}, shared.ErrSessionReleased
	case <-ctx.Done():
		return response{}, ctx.Err()
	}

	select {
	case resp := <-req.reply:
		return resp, nil
	case <-r.done:
		return response{}, shared.ErrSessionReleased
	case <-ctx.Done():
		return response{}, ctx.Err()
	}
}
