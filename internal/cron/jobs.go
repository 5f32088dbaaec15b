package cron

import (
	"context"
	"errors"
	"time"

	"github.com/shivanimeena11/plantweb/internal/storage"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

// Evicter drops idle in-memory shopper workspaces.
type Evicter interface {
	Evict(idle time.Duration) int
}

// EvictionJob forgets workspaces nobody has touched for idle. Their carts and favorites
// remain in storage and are reloaded on the next visit.
type EvictionJob struct {
	workspaces Evicter
	idle       time.Duration
	logg       *logger.Logger
}

func NewEvictionJob(workspaces Evicter, idle time.Duration, logg *logger.Logger) (*EvictionJob, error) {
	if workspaces == nil {
		return nil, errors.New("workspace registry required")
	}
	if idle <= 0 {
		return nil, errors.New("idle window must be positive")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &EvictionJob{workspaces: workspaces, idle: idle, logg: logg}, nil
}

func (j *EvictionJob) Name() string { return "evict_idle_workspaces" }

func (j *EvictionJob) Run(ctx context.Context) error {
	if n := j.workspaces.Evict(j.idle); n > 0 {
		j.logg.Info(j.logg.WithField(ctx, "evicted", n), "idle shopper workspaces evicted")
	}
	return nil
}

// PurgeJob sweeps expired session entries from backends that do not expire keys themselves.
type PurgeJob struct {
	purger storage.Purger
	logg   *logger.Logger
}

func NewPurgeJob(purger storage.Purger, logg *logger.Logger) (*PurgeJob, error) {
	if purger == nil {
		return nil, errors.New("purger required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &PurgeJob{purger: purger, logg: logg}, nil
}

func (j *PurgeJob) Name() string { return "purge_expired_sessions" }

func (j *PurgeJob) Run(ctx context.Context) error {
	n, err := j.purger.PurgeExpired(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		j.logg.Info(j.logg.WithField(ctx, "purged", n), "expired session entries purged")
	}
	return nil
}
