package gate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanimeena11/plantweb/internal/storage"
)

type stateCounter map[string]int

func (c stateCounter) IncGateDecision(state string) { c[state]++ }

type unreadable struct{}

func (unreadable) GetItem(context.Context, string) (string, bool, error) {
	return "", false, errors.New("down")
}
func (unreadable) SetItem(context.Context, string, string) error { return nil }
func (unreadable) RemoveItem(context.Context, string) error      { return nil }

func TestEvaluate(t *testing.T) {
	ctx := context.Background()
	provider := storage.NewProvider(storage.NewMemory(), 0)

	withMarker := provider.Session("a")
	require.NoError(t, withMarker.SetItem(ctx, storage.KeyUser, `{"name":"Asha","email":"a@b.co"}`))
	corrupt := provider.Session("b")
	require.NoError(t, corrupt.SetItem(ctx, storage.KeyUser, `{broken`))
	emailOnly := provider.Session("d")
	require.NoError(t, emailOnly.SetItem(ctx, storage.KeyUser, `{"email":"a@b.co"}`))
	bareString := provider.Session("e")
	require.NoError(t, bareString.SetItem(ctx, storage.KeyUser, `Asha`))
	emptyObject := provider.Session("f")
	require.NoError(t, emptyObject.SetItem(ctx, storage.KeyUser, `{}`))

	cases := []struct {
		name string
		st   storage.Storage
		want State
	}{
		{"marker present", withMarker, StateAuthorized},
		{"no marker", provider.Session("c"), StateUnauthorized},
		{"corrupt marker", corrupt, StateUnauthorized},
		{"email only marker", emailOnly, StateAuthorized},
		{"non json marker", bareString, StateUnauthorized},
		{"marker without name or email", emptyObject, StateUnauthorized},
		{"unreadable storage", unreadable{}, StateUnauthorized},
		{"no storage", nil, StateUnauthorized},
	}

	counts := stateCounter{}
	g := New(Options{Metrics: counts})
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, g.Evaluate(ctx, tc.st).State)
		})
	}
	assert.Equal(t, 2, counts["authorized"])
	assert.Equal(t, 6, counts["unauthorized"])
}

func TestEvaluateIsFreshEachTime(t *testing.T) {
	ctx := context.Background()
	st := storage.NewProvider(storage.NewMemory(), 0).Session("tab")
	g := New(Options{})

	assert.False(t, g.Evaluate(ctx, st).Authorized())
	require.NoError(t, st.SetItem(ctx, storage.KeyUser, `{"name":"Asha"}`))
	decision := g.Evaluate(ctx, st)
	assert.True(t, decision.Authorized())
	assert.Equal(t, "Asha", decision.Marker.Name)
	require.NoError(t, st.RemoveItem(ctx, storage.KeyUser))
	assert.False(t, g.Evaluate(ctx, st).Authorized())
}

func TestInterstitialDefaults(t *testing.T) {
	g := New(Options{})
	in := g.Interstitial()
	assert.Equal(t, "Access Restricted", in.Title)
	assert.Equal(t, "/api/v1/auth/login", in.LoginURL)
	assert.Equal(t, "/api/v1/gate/dismiss", in.DismissURL)
	assert.Equal(t, "/", g.RootURL())
}
