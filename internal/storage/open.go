package storage

import (
	"context"
	"fmt"

	"github.com/shivanimeena11/plantweb/pkg/config"
	"github.com/shivanimeena11/plantweb/pkg/db"
	"github.com/shivanimeena11/plantweb/pkg/logger"
	"github.com/shivanimeena11/plantweb/pkg/migrate"
	"github.com/shivanimeena11/plantweb/pkg/redis"
)

// Pinger reports backend reachability for readiness checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Open builds the provider for the configured backend. The returned pinger is nil for memory.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Provider, Pinger, error) {
	switch cfg.Storage.Backend {
	case config.StorageBackendRedis:
		client, err := redis.New(ctx, cfg.Redis, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("init redis storage: %w", err)
		}
		backend, err := NewRedis(client)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return NewProvider(backend, cfg.Session.SessionTTL, client.Close), client, nil
	case config.StorageBackendSQL:
		client, err := db.New(ctx, cfg.DB, logg)
		if err != nil {
			return nil, nil, fmt.Errorf("init sql storage: %w", err)
		}
		if err := migrate.MaybeRun(ctx, cfg, logg, client); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		backend, err := NewSQL(client.DB())
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return NewProvider(backend, cfg.Session.SessionTTL, client.Close), client, nil
	default:
		return NewProvider(NewMemory(), cfg.Session.SessionTTL), nil, nil
	}
}
