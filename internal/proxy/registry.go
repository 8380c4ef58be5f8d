package proxy

import "sync"

// Registry holds the active rewrite scheme for one worker.
//
// The active scheme is process-wide for the worker that owns the registry:
// replacing it takes effect for every search dispatched afterwards, with no
// per-row pinning (last write wins).
type Registry struct {
	mu     sync.RWMutex
	active *ParsedScheme
}

// NewRegistry creates a registry with def as the active scheme.
func NewRegistry(def Scheme) (*Registry, error) {
	parsed, err := ParseScheme(def)
	if err != nil {
		return nil, err
	}
	return &Registry{active: parsed}, nil
}

// Set validates scheme and replaces the active scheme wholesale.
// An invalid scheme leaves the active scheme untouched.
func (r *Registry) Set(scheme Scheme) error {
	parsed, err := ParseScheme(scheme)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.active = parsed
	r.mu.Unlock()
	return nil
}

// Scheme returns the active scheme.
func (r *Registry) Scheme() Scheme {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.active.Scheme
}

// Rewrite routes raw through the active scheme.
func (r *Registry) Rewrite(raw string) (string, error) {
	r.mu.RLock()
	active := r.active
	r.mu.RUnlock()
	return active.Rewrite(raw)
}
