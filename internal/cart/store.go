package cart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shivanimeena11/plantweb/internal/events"
	"github.com/shivanimeena11/plantweb/internal/storage"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

const storeName = "cart"

// Product is the catalog data denormalized onto a cart line.
type Product struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Price Price  `json:"price"`
	Image string `json:"image"`
}

// Line is one product in the cart. Quantity is always >= 1.
type Line struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal is the normalized unit price times quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Amount().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Snapshot is an immutable copy of the cart in insertion order.
type Snapshot []Line

// Totals are derived on demand and never stored.
type Totals struct {
	ItemCount  int
	TotalPrice decimal.Decimal
}

func (s Snapshot) Totals() Totals {
	t := Totals{TotalPrice: decimal.Zero}
	for _, line := range s {
		t.ItemCount += line.Quantity
		t.TotalPrice = t.TotalPrice.Add(line.Subtotal())
	}
	return t
}

// Find returns the line for id.
func (s Snapshot) Find(id int) (Line, bool) {
	for _, line := range s {
		if line.ID == id {
			return line, true
		}
	}
	return Line{}, false
}

// Recorder receives mutation and soft-failure counts; *metrics.Storefront satisfies it.
type Recorder interface {
	IncCartMutation(op string)
	IncStorageFailure(store, op string)
	ObservePersist(store string, d time.Duration)
}

type nopRecorder struct{}

func (nopRecorder) IncCartMutation(string)               {}
func (nopRecorder) IncStorageFailure(string, string)     {}
func (nopRecorder) ObservePersist(string, time.Duration) {}

// StoreParams groups dependencies for the cart store.
type StoreParams struct {
	Storage storage.Storage
	Bus     *events.Bus
	Logger  *logger.Logger
	Metrics Recorder
}

// Store owns one shopper's cart and mirrors every change to durable storage.
// Storage failures are logged and swallowed; no operation returns an error.
type Store struct {
	mu          sync.Mutex
	storage     storage.Storage
	bus         *events.Bus
	logg        *logger.Logger
	metrics     Recorder
	lines       []Line
	initialized bool
}

func NewStore(params StoreParams) (*Store, error) {
	if params.Storage == nil {
		return nil, errors.New("cart storage is required")
	}
	s := &Store{
		storage: params.Storage,
		bus:     params.Bus,
		logg:    params.Logger,
		metrics: params.Metrics,
	}
	if s.bus == nil {
		s.bus = events.NewBus()
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	if s.metrics == nil {
		s.metrics = nopRecorder{}
	}
	return s, nil
}

// Initialize loads the mirrored cart once. Absent, malformed or unreadable data yields an empty cart.
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
	s.lines = nil

	raw, ok, err := s.storage.GetItem(ctx, storage.KeyCart)
	if err != nil {
		s.metrics.IncStorageFailure(storeName, "read")
		s.logg.WarnErr(ctx, "cart mirror unreadable, starting empty", err)
		return
	}
	if !ok {
		return
	}
	lines, err := decodeLines(raw)
	if err != nil {
		s.metrics.IncStorageFailure(storeName, "parse")
		s.logg.WarnErr(ctx, "cart mirror malformed, starting empty", err)
		return
	}
	s.lines = lines
}

type storedLine struct {
	Product
	Quantity any `json:"quantity"`
}

// decodeLines repairs what it can: a line whose fields cannot be decoded is dropped and
// the rest of the cart is kept.
func decodeLines(raw string) ([]Line, error) {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(items))
	index := make(map[int]int, len(items))
	for _, rawItem := range items {
		var item *storedLine
		if err := json.Unmarshal(rawItem, &item); err != nil || item == nil {
			continue
		}
		qty := CoerceQuantity(item.Quantity, 1)
		if i, seen := index[item.ID]; seen {
			lines[i].Quantity += qty
			continue
		}
		index[item.ID] = len(lines)
		lines = append(lines, Line{Product: item.Product, Quantity: qty})
	}
	return lines, nil
}

// Snapshot returns the current cart.
func (s *Store) Snapshot(ctx context.Context) Snapshot {
	return s.Initialize(ctx)
}

// Totals returns the derived item count and normalized price total.
func (s *Store) Totals(ctx context.Context) Totals {
	return s.Snapshot(ctx).Totals()
}

// Subscribe registers fn for "cart changed" notifications.
func (s *Store) Subscribe(fn func(ctx context.Context)) func() {
	if fn == nil {
		return func() {}
	}
	return s.bus.Subscribe(events.TopicCartChanged, func(ctx context.Context, _ events.Topic) { fn(ctx) })
}

// AddToCart merges into the existing line for product.ID or appends a new one.
// qty below 1 counts as 1.
func (s *Store) AddToCart(ctx context.Context, product Product, qty int) Snapshot {
	qty = atLeastOne(qty)
	return s.mutate(ctx, "add", func(lines []Line) []Line {
		for i := range lines {
			if lines[i].ID == product.ID {
				lines[i].Quantity += qty
				return lines
			}
		}
		return append(lines, Line{Product: product, Quantity: qty})
	})
}

// RemoveFromCart drops the line for id; no-op when absent.
func (s *Store) RemoveFromCart(ctx context.Context, id int) Snapshot {
	return s.mutate(ctx, "remove", func(lines []Line) []Line {
		kept := lines[:0]
		for _, line := range lines {
			if line.ID != id {
				kept = append(kept, line)
			}
		}
		return kept
	})
}

func (s *Store) ClearCart(ctx context.Context) Snapshot {
	return s.mutate(ctx, "clear", func([]Line) []Line { return nil })
}

// TakeAll hands the whole cart to accept and, when accept returns true, clears it in the
// same critical section, so no concurrent mutation lands between the read and the clear.
// accept runs under the store lock and must not call back into the store.
func (s *Store) TakeAll(ctx context.Context, accept func(Snapshot) bool) (Snapshot, bool) {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	taken := s.snapshotLocked()
	if accept != nil && !accept(taken) {
		s.mu.Unlock()
		return taken, false
	}
	s.lines = nil
	s.persistLocked(ctx, s.snapshotLocked())
	s.mu.Unlock()

	s.metrics.IncCartMutation("checkout")
	s.bus.Publish(ctx, events.TopicCartChanged)
	return taken, true
}

func (s *Store) IncreaseQty(ctx context.Context, id int) Snapshot {
	return s.mutate(ctx, "increase", func(lines []Line) []Line {
		return updateQuantity(lines, id, func(q int) int { return q + 1 })
	})
}

// DecreaseQty floors at 1 and never removes the line.
func (s *Store) DecreaseQty(ctx context.Context, id int) Snapshot {
	return s.mutate(ctx, "decrease", func(lines []Line) []Line {
		return updateQuantity(lines, id, func(q int) int { return atLeastOne(q - 1) })
	})
}

// SetQuantity stores max(1, qty).
func (s *Store) SetQuantity(ctx context.Context, id int, qty int) Snapshot {
	qty = atLeastOne(qty)
	return s.mutate(ctx, "set_quantity", func(lines []Line) []Line {
		return updateQuantity(lines, id, func(int) int { return qty })
	})
}

func updateQuantity(lines []Line, id int, next func(int) int) []Line {
	for i := range lines {
		if lines[i].ID == id {
			lines[i].Quantity = next(lines[i].Quantity)
		}
	}
	return lines
}

// mutate applies fn, persists the whole collection, then notifies observers outside the lock.
func (s *Store) mutate(ctx context.Context, op string, fn func([]Line) []Line) Snapshot {
	s.mu.Lock()
	s.ensureLoaded(ctx)
	s.lines = fn(s.lines)
	snap := s.snapshotLocked()
	s.persistLocked(ctx, snap)
	s.mu.Unlock()

	s.metrics.IncCartMutation(op)
	s.bus.Publish(ctx, events.TopicCartChanged)
	return snap
}

func (s *Store) persistLocked(ctx context.Context, snap Snapshot) {
	started := time.Now()
	defer func() { s.metrics.ObservePersist(storeName, time.Since(started)) }()

	payload, err := json.Marshal(snap)
	if err != nil {
		s.metrics.IncStorageFailure(storeName, "encode")
		s.logg.WarnErr(ctx, "cart encode failed, mirror not updated", err)
		return
	}
	if err := s.storage.SetItem(ctx, storage.KeyCart, string(payload)); err != nil {
		s.metrics.IncStorageFailure(storeName, "write")
		s.logg.WarnErr(ctx, "cart mirror write failed", err)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	out := make(Snapshot, len(s.lines))
	copy(out, s.lines)
	return out
}
