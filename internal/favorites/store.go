package favorites

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/shivanimeena11/plantweb/internal/cart"
	"github.com/shivanimeena11/plantweb/internal/events"
	"github.com/shivanimeena11/plantweb/internal/storage"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

const storeName = "favorites"

// Entry is a liked product with the display fields needed to render it without the catalog.
type Entry struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Image      string     `json:"image"`
	ImageHover string     `json:"image_hover,omitempty"`
	Price      cart.Price `json:"price"`
	Rating     float64    `json:"rating"`
}

// Snapshot is a copy of the favorites in the order they were liked.
type Snapshot []Entry

func (s Snapshot) Contains(id int) bool {
	for _, e := range s {
		if e.ID == id {
			return true
		}
	}
	return false
}

// Resolver upgrades a bare product id persisted by older clients into a full entry.
type Resolver func(id int) (Entry, bool)

type Recorder interface {
	IncFavoritesMutation(op string)
	IncStorageFailure(store, op string)
	ObservePersist(store string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) IncFavoritesMutation(string)          {}
func (nopRecorder) IncStorageFailure(string, string)     {}
func (nopRecorder) ObservePersist(string, time.Duration) {}

// StoreParams groups dependencies for the favorites store.
type StoreParams struct {
	Storage  storage.Storage
	Bus      *events.Bus
	Resolver Resolver
	Logger   *logger.Logger
	Metrics  Recorder
}

// Store keeps one shopper's favorites, unique by product id, mirrored to durable storage.
type Store struct {
	mu          sync.Mutex
	storage     storage.Storage
	bus         *events.Bus
	resolve     Resolver
	logg        *logger.Logger
	metrics     Recorder
	entries     []Entry
	initialized bool
}

func NewStore(params StoreParams) (*Store, error) {
	if params.Storage == nil {
		return nil, errors.New("favorites storage is required")
	}
	s := &Store{
		storage: params.Storage,
		bus:     params.Bus,
		resolve: params.Resolver,
		logg:    params.Logger,
		metrics: params.Metrics,
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}
	if s.resolve == nil {
		s.resolve = func(int) (Entry, bool) { return Entry{}, false }
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	return s, nil
}

func (s *Store) Initialize(ctx context.Context) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.snapshotLocked()
}

func (s *Store) ensureLoaded(ctx context.Context) {
	if s.initialized {
		return
	}
	s.initialized = true
	s.entries = nil

	raw, ok, err := s.storage.GetItem(ctx, storage.KeyFavorites)
	if err != nil {
		s.metrics.IncStorageFailure(storeName, "read")
		s.logg.WarnErr(ctx, "favorites mirror unreadable, starting empty", err)
		return
	}
	if !ok {
		return
	}
	entries, upgraded, err := s.decode(raw)
	if err != nil {
		s.metrics.IncStorageFailure(storeName, "parse")
		s.logg.WarnErr(ctx, "favorites mirror malformed, starting empty", err)
		return
	}
	s.entries = entries
	if upgraded {
		s.persistLocked(ctx)
	}
}

// decode accepts full entries and legacy bare ids. upgraded reports whether the stored form changed.
func (s *Store) decode(raw string) ([]Entry, bool, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, false, err
	}
	entries := make([]Entry, 0, len(items))
	seen := make(map[int]struct{}, len(items))
	upgraded := false
	for _, item := range items {
		item = bytes.TrimSpace(item)
		var entry Entry
		if len(item) > 0 && item[0] == '{' {
			if err := json.Unmarshal(item, &entry); err != nil {
				upgraded = true
				continue
			}
		} else {
			var id json.Number
			if err := json.Unmarshal(item, &id); err != nil {
				upgraded = true
				continue
			}
			n, err := id.Int64()
			if err != nil {
				upgraded = true
				continue
			}
			resolved, ok := s.resolve(int(n))
			upgraded = true
			if !ok {
				continue
			}
			entry = resolved
		}
		if _, dup := seen[entry.ID]; dup {
			upgraded = true
			continue
		}
		seen[entry.ID] = struct{}{}
		entries = append(entries, entry)
	}
	return entries, upgraded, nil
}

func (s *Store) Snapshot(ctx context.Context) Snapshot {
	return s.Initialize(ctx)
}

func (s *Store) Contains(ctx context.Context, id int) bool {
	return s.Snapshot(ctx).Contains(id)
}

// Subscribe registers fn for "favorites changed" notifications.
func (s *Store) Subscribe(fn func(ctx context.Context)) func() {
	if fn == nil {
		return func() {}
	}
	return s.bus.Subscribe(events.TopicFavoritesChanged, func(ctx context.Context, _ events.Topic) { fn(ctx) })
}

// Toggle removes entry.ID when present, otherwise appends entry. liked is the resulting state.
func (s *Store) Toggle(ctx context.Context, entry Entry) (bool, Snapshot) {
	liked := false
	snap := s.mutate(ctx, "toggle", func(entries []Entry) []Entry {
		if indexOf(entries, entry.ID) >= 0 {
			return without(entries, entry.ID)
		}
		liked = true
		return append(entries, entry)
	})
	return liked, snap
}

// Add is idempotent.
func (s *Store) Add(ctx context.Context, entry Entry) Snapshot {
	return s.mutate(ctx, "add", func(entries []Entry) []Entry {
		if indexOf(entries, entry.ID) >= 0 {
			return entries
		}
		return append(entries, entry)
	})
}

func (s *Store) Remove(ctx context.Context, id int) Snapshot {
	return s.mutate(ctx, "remove", func(entries []Entry) []Entry {
		return without(entries, id)
	})
}

// Clear drops every favorite and removes the mirror entirely.
func (s *Store) Clear(ctx context.Context) Snapshot {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	s.entries = nil
	if err := s.storage.RemoveItem(ctx, storage.KeyFavorites); err != nil {
		s.metrics.IncStorageFailure(storeName, "remove")
		s.logg.WarnErr(ctx, "favorites mirror remove failed", err)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.IncFavoritesMutation("clear")
	s.bus.Publish(ctx, events.TopicFavoritesChanged)
	return snap
}

func (s *Store) mutate(ctx context.Context, op string, fn func([]Entry) []Entry) Snapshot {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	s.entries = fn(s.entries)
	s.persistLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.IncFavoritesMutation(op)
	s.bus.Publish(ctx, events.TopicFavoritesChanged)
	return snap
}

func (s *Store) persistLocked(ctx context.Context) {
	started := time.Now()
	defer func() { s.metrics.ObservePersist(storeName, time.Since(started)) }()

	payload, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		s.metrics.IncStorageFailure(storeName, "encode")
		s.logg.WarnErr(ctx, "favorites encode failed, mirror not updated", err)
		return
	}
	if err := s.storage.SetItem(ctx, storage.KeyFavorites, string(payload)); err != nil {
		s.metrics.IncStorageFailure(storeName, "write")
		s.logg.WarnErr(ctx, "favorites mirror write failed", err)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	out := make(Snapshot, len(s.entries))
	copy(out, s.entries)
	return out
}

func indexOf(entries []Entry, id int) int {
	for i, e := range entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func without(entries []Entry, id int) []Entry {
	kept := entries[:0]
	for _, e := range entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	return kept
}
