package storage

import (
	"context"
	"time"

	"go.uber.org/multierr"
)

// Logical keys mirrored by the storefront.
const (
	KeyCart      = "cart"
	KeyFavorites = "favorites"
	KeyUser      = "user"
)

// Scope separates durable (per browser profile) entries from per-tab session entries.
type Scope string

const (
	ScopeLocal   Scope = "local"
	ScopeSession Scope = "session"
)

// Storage is the string key/value surface a store mirrors itself to.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Backend persists entries for every owner of every scope. A zero ttl never expires.
type Backend interface {
	Get(ctx context.Context, scope Scope, owner, key string) (string, bool, error)
	Set(ctx context.Context, scope Scope, owner, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, scope Scope, owner, key string) error
	Close() error
}

// Provider hands out owner-scoped views over a shared backend.
type Provider struct {
	backend    Backend
	sessionTTL time.Duration
	closers    []func() error
}

// NewProvider binds a backend. Session entries are written with sessionTTL; local entries never expire.
// Extra closers (e.g. the underlying connection) run after the backend on Close.
func NewProvider(backend Backend, sessionTTL time.Duration, closers ...func() error) *Provider {
	if backend == nil {
		backend = NewMemory()
	}
	return &Provider{backend: backend, sessionTTL: sessionTTL, closers: closers}
}

// Local returns durable storage for a client id.
func (p *Provider) Local(clientID string) Storage {
	return &scoped{backend: p.backend, scope: ScopeLocal, owner: clientID}
}

// Session returns session storage for a tab session id.
func (p *Provider) Session(sessionID string) Storage {
	return &scoped{backend: p.backend, scope: ScopeSession, owner: sessionID, ttl: p.sessionTTL}
}

// Purger is implemented by backends that keep expired entries until swept.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Purger returns the backend's sweeper, if it needs one. Redis expires keys itself.
func (p *Provider) Purger() (Purger, bool) {
	purger, ok := p.backend.(Purger)
	return purger, ok
}

// Close releases the backend and any extra resources.
func (p *Provider) Close() error {
	err := p.backend.Close()
	for _, closeFn := range p.closers {
		if closeFn != nil {
			err = multierr.Append(err, closeFn())
		}
	}
	return err
}

type scoped struct {
	backend Backend
	scope   Scope
	owner   string
	ttl     time.Duration
}

// GetItem reads key. Session entries slide: a hit re-arms the ttl, so a marker only lapses
// after sessionTTL without any request from its tab.
func (s *scoped) GetItem(ctx context.Context, key string) (string, bool, error) {
	value, ok, err := s.backend.Get(ctx, s.scope, s.owner, key)
	if err != nil || !ok || s.ttl <= 0 {
		return value, ok, err
	}
	// A failed re-arm keeps the previous expiry; the read itself succeeded.
	_ = s.backend.Set(ctx, s.scope, s.owner, key, value, s.ttl)
	return value, true, nil
}

func (s *scoped) SetItem(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.scope, s.owner, key, value, s.ttl)
}

func (s *scoped) RemoveItem(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, s.scope, s.owner, key)
}
