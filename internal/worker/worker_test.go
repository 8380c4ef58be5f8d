package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"favtrax/internal/proxy"
	"favtrax/internal/search"
	"favtrax/internal/shared"
	helpers "favtrax/internal/testing"
)

var testScheme = proxy.Scheme{Name: "passthrough", Encode: false, Pattern: "<%url%>"}

func newTestSession(t *testing.T, searcher search.Searcher) *Session {
	t.Helper()

	session := NewSession(SessionOpts{
		Scheme:    testScheme,
		RateLimit: 1000,
		NewSearcher: func(client *http.Client) (search.Searcher, error) {
			return searcher, nil
		},
	})
	t.Cleanup(session.Release)
	return session
}

func TestSession(t *testing.T) {
	ctx := context.Background()

	t.Run("SearchThroughPort", func(t *testing.T) {
		video := helpers.SampleVideo("abc123")
		session := newTestSession(t, helpers.StaticSearcher(&search.Response{Video: &video}, nil))

		fn, err := session.SetupSearchCapability(ctx)
		if err != nil {
			t.Fatalf("failed to set up capability: %v", err)
		}

		resp, err := fn(ctx, search.Query{VideoID: "abc123"})
		if err != nil {
			t.Fatalf("search failed: %v", err)
		}
		if resp.Video == nil || resp.Video.ID != "abc123" {
			t.Errorf("expected video abc123, got %+v", resp)
		}
	})

	t.Run("SearcherBuiltOnce", func(t *testing.T) {
		var builds atomic.Int32
		video := helpers.SampleVideo("abc123")

		session := NewSession(SessionOpts{
			Scheme:    testScheme,
			RateLimit: 1000,
			NewSearcher: func(client *http.Client) (search.Searcher, error) {
				builds.Add(1)
				return helpers.StaticSearcher(&search.Response{Video: &video}, nil), nil
			},
		})
		defer session.Release()

		for range 3 {
			if _, err := session.SetupSearchCapability(ctx); err != nil {
				t.Fatalf("failed to set up capability: %v", err)
			}
		}

		if got := builds.Load(); got != 1 {
			t.Errorf("expected searcher built once, got %d", got)
		}
	})

	t.Run("FactoryErrorSurfaces", func(t *testing.T) {
		session := NewSession(SessionOpts{
			Scheme: testScheme,
			NewSearcher: func(client *http.Client) (search.Searcher, error) {
				return nil, fmt.Errorf("no credentials")
			},
		})
		defer session.Release()

		if _, err := session.SetupSearchCapability(ctx); err == nil {
			t.Error("expected factory error to surface")
		}
	})

	t.Run("ConcurrentPortsShareTheWorker", func(t *testing.T) {
		video := helpers.SampleVideo("abc123")
		session := newTestSession(t, helpers.StaticSearcher(&search.Response{Video: &video}, nil))

		first, err := session.SetupSearchCapability(ctx)
		if err != nil {
			t.Fatalf("failed to set up first capability: %v", err)
		}
		second, err := session.SetupSearchCapability(ctx)
		if err != nil {
			t.Fatalf("failed to set up second capability: %v", err)
		}

		done := make(chan error, 2)
		for _, fn := range []SearchFunc{first, second} {
			go func(fn SearchFunc) {
				_, err := fn(ctx, search.Query{VideoID: "abc123"})
				done <- err
			}(fn)
		}
		for range 2 {
			if err := <-done; err != nil {
				t.Errorf("concurrent search failed: %v", err)
			}
		}
	})
}

func TestSessionProxyScheme(t *testing.T) {
	ctx := context.Background()

	t.Run("GetReturnsInitialScheme", func(t *testing.T) {
		session := newTestSession(t, helpers.StaticSearcher(nil, nil))

		scheme, err := session.ProxyScheme(ctx)
		if err != nil {
			t.Fatalf("failed to get scheme: %v", err)
		}
		if scheme.Name != "passthrough" {
			t.Errorf("expected passthrough, got %s", scheme.Name)
		}
	})

	t.Run("SetReplacesScheme", func(t *testing.T) {
		session := newTestSession(t, helpers.StaticSearcher(nil, nil))

		next := proxy.Scheme{Name: "relay", Encode: true, Pattern: "https://relay.example.com?url=<%url%>"}
		if err := session.SetProxyScheme(ctx, next); err != nil {
			t.Fatalf("failed to set scheme: %v", err)
		}

		scheme, err := session.ProxyScheme(ctx)
		if err != nil {
			t.Fatalf("failed to get scheme: %v", err)
		}
		if scheme.Name != "relay" {
			t.Errorf("expected relay, got %s", scheme.Name)
		}
	})

	t.Run("InvalidSchemeRejected", func(t *testing.T) {
		session := newTestSession(t, helpers.StaticSearcher(nil, nil))

		err := session.SetProxyScheme(ctx, proxy.Scheme{Name: "broken", Pattern: "no placeholders"})
		if err == nil {
			t.Fatal("expected invalid scheme to be rejected")
		}

		scheme, err := session.ProxyScheme(ctx)
		if err != nil {
			t.Fatalf("failed to get scheme: %v", err)
		}
		if scheme.Name != "passthrough" {
			t.Errorf("expected active scheme unchanged, got %s", scheme.Name)
		}
	})

	t.Run("InvalidInitialSchemeFailsFirstRPC", func(t *testing.T) {
		session := NewSession(SessionOpts{Scheme: proxy.Scheme{Pattern: "no placeholders"}})
		defer session.Release()

		if _, err := session.ProxyScheme(ctx); err == nil {
			t.Error("expected worker start to fail with an invalid scheme")
		}
	})
}

func TestSessionRelease(t *testing.T) {
	ctx := context.Background()

	t.Run("RPCAfterReleaseFails", func(t *testing.T) {
		session := newTestSession(t, helpers.StaticSearcher(nil, nil))
		if _, err := session.ProxyScheme(ctx); err != nil {
			t.Fatalf("failed to get scheme: %v", err)
		}

		session.Release()

		if _, err := session.ProxyScheme(ctx); !errors.Is(err, shared.ErrSessionReleased) {
			t.Errorf("expected ErrSessionReleased, got %v", err)
		}
		if _, err := session.SetupSearchCapability(ctx); !errors.Is(err, shared.ErrSessionReleased) {
			t.Errorf("expected ErrSessionReleased, got %v", err)
		}
	})

	t.Run("PortFailsAfterRelease", func(t *testing.T) {
		video := helpers.SampleVideo("abc123")
		session := newTestSession(t, helpers.StaticSearcher(&search.Response{Video: &video}, nil))

		fn, err := session.SetupSearchCapability(ctx)
		if err != nil {
			t.Fatalf("failed to set up capability: %v", err)
		}

		session.Release()

		if _, err := fn(ctx, search.Query{VideoID: "abc123"}); !errors.Is(err, shared.ErrSessionReleased) {
			t.Errorf("expected ErrSessionReleased, got %v", err)
		}
	})

	t.Run("InFlightCallFailsOnRelease", func(t *testing.T) {
		started := make(chan struct{})
		block := make(chan struct{})
		slow := &helpers.StubSearcher{Fn: func(ctx context.Context, q search.Query) (*search.Response, error) {
			close(started)
			<-block
			return nil, nil
		}}
		defer close(block)

		session := newTestSession(t, slow)
		fn, err := session.SetupSearchCapability(ctx)
		if err != nil {
			t.Fatalf("failed to set up capability: %v", err)
		}

		result := make(chan error, 1)
		go func() {
			_, err := fn(ctx, search.Query{VideoID: "abc123"})
			result <- err
		}()

		<-started
		session.Release()

		select {
		case err := <-result:
			if !errors.Is(err, shared.ErrSessionReleased) {
				t.Errorf("expected ErrSessionReleased, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("in-flight call did not fail after release")
		}
	})

	t.Run("ReleaseIsIdempotent", func(t *testing.T) {
		session := newTestSession(t, helpers.StaticSearcher(nil, nil))
		session.Release()
		session.Release()
	})

	t.Run("ReleaseBeforeFirstRPC", func(t *testing.T) {
		session := NewSession(SessionOpts{Scheme: testScheme})
		session.Release()

		if _, err := session.ProxyScheme(ctx); !errors.Is(err, shared.ErrSessionReleased) {
			t.Errorf("expected ErrSessionReleased, got %v", err)
		}
	})
}

func TestSearchCancellation(t *testing.T) {
	t.Run("CallerContextCancelsCall", func(t *testing.T) {
		started := make(chan struct{})
		block := make(chan struct{})
		slow := &helpers.StubSearcher{Fn: func(ctx context.Context, q search.Query) (*search.Response, error) {
			close(started)
			<-block
			return nil, nil
		}}
		defer close(block)

		session := newTestSession(t, slow)
		fn, err := session.SetupSearchCapability(context.Background())
		if err != nil {
			t.Fatalf("failed to set up capability: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		result := make(chan error, 1)
		go func() {
			_, err := fn(ctx, search.Query{VideoID: "abc123"})
			result <- err
		}()

		<-started
		cancel()

		select {
		case err := <-result:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("expected context.Canceled, got %v", err)
			}
		case <-time.After(time.Second):
			t.Fatal("cancelled call did not return")
		}
	})
}
