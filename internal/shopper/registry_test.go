package shopper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanimeena11/plantweb/internal/catalog"
	"github.com/shivanimeena11/plantweb/internal/storage"
)

func newRegistry(t *testing.T, provider *storage.Provider) *Registry {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	r, err := NewRegistry(Params{Storage: provider, Catalog: cat})
	require.NoError(t, err)
	return r
}

func TestGetReusesWorkspace(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, storage.NewProvider(storage.NewMemory(), 0))

	a, err := r.Get(ctx, "client-a")
	require.NoError(t, err)
	again, err := r.Get(ctx, "client-a")
	require.NoError(t, err)
	b, err := r.Get(ctx, "client-b")
	require.NoError(t, err)

	assert.Same(t, a, again)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Len())

	_, err = r.Get(ctx, "")
	require.Error(t, err)
}

func TestRevisionsTrackNotifications(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, storage.NewProvider(storage.NewMemory(), 0))
	ws, err := r.Get(ctx, "client")
	require.NoError(t, err)

	plant, ok := r.catalog.ByID(1)
	require.True(t, ok)
	ws.Cart.AddToCart(ctx, ProductFromPlant(plant), 1)
	ws.Cart.IncreaseQty(ctx, 1)
	ws.Favorites.Toggle(ctx, EntryFromPlant(plant))

	assert.Equal(t, uint64(2), ws.CartRevision())
	assert.Equal(t, uint64(1), ws.FavoritesRevision())
}

func TestEvictReloadsFromMirror(t *testing.T) {
	ctx := context.Background()
	provider := storage.NewProvider(storage.NewMemory(), 0)
	r := newRegistry(t, provider)
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return now }

	ws, err := r.Get(ctx, "client")
	require.NoError(t, err)
	plant, _ := r.catalog.ByID(2)
	ws.Cart.AddToCart(ctx, ProductFromPlant(plant), 3)

	now = now.Add(time.Hour)
	assert.Equal(t, 1, r.Evict(30*time.Minute))
	assert.Equal(t, 0, r.Len())

	reopened, err := r.Get(ctx, "client")
	require.NoError(t, err)
	assert.NotSame(t, ws, reopened)
	snap := reopened.Cart.Snapshot(ctx)
	require.Len(t, snap, 1)
	assert.Equal(t, 3, snap[0].Quantity)
}

func TestLegacyFavoriteIDsResolveThroughCatalog(t *testing.T) {
	ctx := context.Background()
	provider := storage.NewProvider(storage.NewMemory(), 0)
	require.NoError(t, provider.Local("client").SetItem(ctx, storage.KeyFavorites, `[3, 4040]`))
	r := newRegistry(t, provider)

	ws, err := r.Get(ctx, "client")
	require.NoError(t, err)
	snap := ws.Favorites.Snapshot(ctx)
	require.Len(t, snap, 1)
	assert.Equal(t, "Peace Lily", snap[0].Name)
	assert.Equal(t, "₹349", snap[0].Price.String())
}

func TestNewRegistryValidatesParams(t *testing.T) {
	_, err := NewRegistry(Params{})
	require.Error(t, err)
	_, err = NewRegistry(Params{Storage: storage.NewProvider(nil, 0)})
	require.Error(t, err)
}

// blockingBackend holds reads for one owner until released.
type blockingBackend struct {
	*storage.Memory
	owner   string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (b *blockingBackend) Get(ctx context.Context, scope storage.Scope, owner, key string) (string, bool, error) {
	if owner == b.owner {
		b.once.Do(func() { close(b.entered) })
		<-b.release
	}
	return b.Memory.Get(ctx, scope, owner, key)
}

func TestSlowOpenDoesNotBlockOtherClients(t *testing.T) {
	ctx := context.Background()
	backend := &blockingBackend{
		Memory:  storage.NewMemory(),
		owner:   "slow",
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	r := newRegistry(t, storage.NewProvider(backend, 0))

	open, err := r.Get(ctx, "open")
	require.NoError(t, err)

	slowDone := make(chan *Workspace)
	go func() {
		ws, err := r.Get(ctx, "slow")
		assert.NoError(t, err)
		slowDone <- ws
	}()
	<-backend.entered

	got := make(chan *Workspace, 2)
	go func() {
		ws, _ := r.Get(ctx, "open")
		got <- ws
		fresh, _ := r.Get(ctx, "fresh")
		got <- fresh
	}()
	select {
	case ws := <-got:
		assert.Same(t, open, ws)
	case <-time.After(2 * time.Second):
		t.Fatal("open workspace waited on another client's storage read")
	}
	select {
	case ws := <-got:
		assert.Equal(t, "fresh", ws.ClientID)
	case <-time.After(2 * time.Second):
		t.Fatal("new client waited on another client's storage read")
	}

	close(backend.release)
	slow := <-slowDone
	require.NotNil(t, slow)
	assert.Equal(t, 3, r.Len())
}

func TestConcurrentFirstRequestsShareOneWorkspace(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, storage.NewProvider(storage.NewMemory(), 0))

	const n = 8
	results := make([]*Workspace, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ws, err := r.Get(ctx, "client")
			assert.NoError(t, err)
			results[i] = ws
		}(i)
	}
	wg.Wait()

	for _, ws := range results {
		assert.Same(t, results[0], ws)
	}
	assert.Equal(t, 1, r.Len())
}

// contextBackend fails reads for canceled contexts the way network backends do.
type contextBackend struct {
	*storage.Memory
}

func (b contextBackend) Get(ctx context.Context, scope storage.Scope, owner, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	return b.Memory.Get(ctx, scope, owner, key)
}

func TestCanceledFirstRequestStillLoadsMirror(t *testing.T) {
	provider := storage.NewProvider(contextBackend{Memory: storage.NewMemory()}, 0)
	require.NoError(t, provider.Local("client").SetItem(context.Background(), storage.KeyCart,
		`[{"id":2,"name":"Fern","price":"₹199","image":"","quantity":2}]`))
	r := newRegistry(t, provider)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ws, err := r.Get(ctx, "client")
	require.NoError(t, err)
	assert.Len(t, ws.Cart.Snapshot(context.Background()), 1)
}
