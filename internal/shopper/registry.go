package shopper

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/shivanimeena11/plantweb/internal/cart"
	"github.com/shivanimeena11/plantweb/internal/catalog"
	"github.com/shivanimeena11/plantweb/internal/events"
	"github.com/shivanimeena11/plantweb/internal/favorites"
	"github.com/shivanimeena11/plantweb/internal/storage"
	"github.com/shivanimeena11/plantweb/pkg/logger"
	"github.com/shivanimeena11/plantweb/pkg/metrics"
)

// Workspace is one client's in-memory cart and favorites, the equivalent of an open tab.
type Workspace struct {
	ClientID  string
	Cart      *cart.Store
	Favorites *favorites.Store

	cartRevision      atomic.Uint64
	favoritesRevision atomic.Uint64
	lastSeen          atomic.Int64
}

// CartRevision counts cart change notifications seen since the workspace was opened.
func (w *Workspace) CartRevision() uint64 { return w.cartRevision.Load() }

func (w *Workspace) FavoritesRevision() uint64 { return w.favoritesRevision.Load() }

func (w *Workspace) touch(now time.Time) { w.lastSeen.Store(now.UnixNano()) }

// Params groups dependencies for the registry.
type Params struct {
	Storage *storage.Provider
	Catalog *catalog.Catalog
	Logger  *logger.Logger
	Metrics *metrics.Storefront
}

// Registry lazily opens one workspace per client id. Opening reads the client's mirrors
// outside mu; concurrent first requests for one client share a single open.
type Registry struct {
	mu         sync.Mutex
	workspaces map[string]*Workspace
	opening    singleflight.Group
	storage    *storage.Provider
	catalog    *catalog.Catalog
	logg       *logger.Logger
	metrics    *metrics.Storefront
	now        func() time.Time
}

func NewRegistry(params Params) (*Registry, error) {
	if params.Storage == nil {
		return nil, errors.New("storage provider is required")
	}
	if params.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Registry{
		workspaces: map[string]*Workspace{},
		storage:    params.Storage,
		catalog:    params.Catalog,
		logg:       logg,
		metrics:    params.Metrics,
		now:        time.Now,
	}, nil
}

// Get returns the client's workspace, opening and initializing it on first use.
func (r *Registry) Get(ctx context.Context, clientID string) (*Workspace, error) {
	if clientID == "" {
		return nil, errors.New("client id is required")
	}
	if ws, ok := r.lookup(clientID); ok {
		return ws, nil
	}
	v, err, _ := r.opening.Do(clientID, func() (any, error) {
		if ws, ok := r.lookup(clientID); ok {
			return ws, nil
		}
		// The workspace outlives this request; a canceled caller must not cache an empty cart.
		ws, err := r.open(context.WithoutCancel(ctx), clientID)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if existing, ok := r.workspaces[clientID]; ok {
			return existing, nil
		}
		r.workspaces[clientID] = ws
		return ws, nil
	})
	if err != nil {
		return nil, err
	}
	ws := v.(*Workspace)
	ws.touch(r.now())
	return ws, nil
}

func (r *Registry) lookup(clientID string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ws, ok := r.workspaces[clientID]
	if ok {
		ws.touch(r.now())
	}
	return ws, ok
}

func (r *Registry) open(ctx context.Context, clientID string) (*Workspace, error) {
	local := r.storage.Local(clientID)
	bus := events.NewBus()
	logg := r.logg

	cartStore, err := cart.NewStore(cart.StoreParams{
		Storage: local,
		Bus:     bus,
		Logger:  logg,
		Metrics: r.metrics,
	})
	if err != nil {
		return nil, err
	}
	favStore, err := favorites.NewStore(favorites.StoreParams{
		Storage:  local,
		Bus:      bus,
		Resolver: r.resolveFavorite,
		Logger:   logg,
		Metrics:  r.metrics,
	})
	if err != nil {
		return nil, err
	}

	ws := &Workspace{ClientID: clientID, Cart: cartStore, Favorites: favStore}
	ws.touch(r.now())
	cartStore.Subscribe(func(context.Context) { ws.cartRevision.Add(1) })
	favStore.Subscribe(func(context.Context) { ws.favoritesRevision.Add(1) })

	ctx = logg.WithClientID(ctx, clientID)
	cartStore.Initialize(ctx)
	favStore.Initialize(ctx)
	logg.Debug(ctx, "shopper workspace opened")
	return ws, nil
}

func (r *Registry) resolveFavorite(id int) (favorites.Entry, bool) {
	plant, ok := r.catalog.ByID(id)
	if !ok {
		return favorites.Entry{}, false
	}
	return EntryFromPlant(plant), true
}

// EntryFromPlant denormalizes a catalog plant into a favorites entry.
func EntryFromPlant(p catalog.Plant) favorites.Entry {
	return favorites.Entry{
		ID:         p.ID,
		Name:       p.Name,
		Image:      p.Image,
		ImageHover: p.ImageHover,
		Price:      cart.NewPrice(p.Price),
		Rating:     p.Rating,
	}
}

// ProductFromPlant denormalizes a catalog plant onto a cart line.
func ProductFromPlant(p catalog.Plant) cart.Product {
	return cart.Product{ID: p.ID, Name: p.Name, Price: cart.NewPrice(p.Price), Image: p.Image}
}

// Evict drops workspaces idle for longer than idle. Their mirrors stay in storage and are
// reloaded on the next request.
func (r *Registry) Evict(idle time.Duration) int {
	cutoff := r.now().Add(-idle).UnixNano()
	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, ws := range r.workspaces {
		if ws.lastSeen.Load() < cutoff {
			delete(r.workspaces, id)
			evicted++
		}
	}
	return evicted
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workspaces)
}
