package proxy

import (
	"fmt"
	"net/http"
	"net/url"
)

// Transport is an [http.RoundTripper] that rewrites every outbound request
// URL through the registry's active scheme before dispatch.
//
// It is the interception point the search capability depends on: without the
// rewrite, requests to the video site would be blocked by the relay-less
// network path the tool is meant to avoid.
type Transport struct {
	Base     http.RoundTripper
	Registry *Registry
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

// RoundTrip rewrites the request URL and delegates to the base transport.
// The incoming request is cloned, not mutated.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	rewritten, err := t.Registry.Rewrite(req.URL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to rewrite request URL: %w", err)
	}

	target, err := url.Parse(rewritten)
	if err != nil {
		return nil, fmt.Errorf("rewritten URL %q is invalid: %w", rewritten, err)
	}

	proxied := req.Clone(req.Context())
	proxied.URL = target
	proxied.Host = ""

	return t.base().RoundTrip(proxied)
}
