package storage

import (
	"context"
	"errors"
	"time"
)

// KV is the subset of pkg/redis.Client the redis backend needs.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	LocalKey(clientID, key string) string
	SessionKey(sessionID, key string) string
}

// Redis stores entries under pw:<scope>:<owner>:<key>.
type Redis struct {
	kv KV
}

func NewRedis(kv KV) (*Redis, error) {
	if kv == nil {
		return nil, errors.New("redis client is required")
	}
	return &Redis{kv: kv}, nil
}

func (r *Redis) key(scope Scope, owner, key string) string {
	if scope == ScopeSession {
		return r.kv.SessionKey(owner, key)
	}
	return r.kv.LocalKey(owner, key)
}

func (r *Redis) Get(ctx context.Context, scope Scope, owner, key string) (string, bool, error) {
	return r.kv.Get(ctx, r.key(scope, owner, key))
}

func (r *Redis) Set(ctx context.Context, scope Scope, owner, key, value string, ttl time.Duration) error {
	return r.kv.Set(ctx, r.key(scope, owner, key), value, ttl)
}

func (r *Redis) Delete(ctx context.Context, scope Scope, owner, key string) error {
	return r.kv.Del(ctx, r.key(scope, owner, key))
}

// Close is a no-op; the connection is owned by whoever built the client.
func (r *Redis) Close() error { return nil }
