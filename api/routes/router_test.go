package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shivanimeena11/plantweb/internal/catalog"
	"github.com/shivanimeena11/plantweb/internal/checkout"
	"github.com/shivanimeena11/plantweb/internal/gate"
	"github.com/shivanimeena11/plantweb/internal/session"
	"github.com/shivanimeena11/plantweb/internal/shopper"
	"github.com/shivanimeena11/plantweb/internal/storage"
	"github.com/shivanimeena11/plantweb/pkg/config"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

func testConfig() *config.Config {
	return &config.Config{
		App:     config.AppConfig{Env: "test"},
		Storage: config.StorageConfig{Backend: config.StorageBackendMemory},
		Session: config.SessionConfig{
			ClientCookie:  "pw_client",
			SessionCookie: "pw_session",
		},
		CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func newTestRouter(t *testing.T, pinger stubPinger) http.Handler {
	t.Helper()
	provider := storage.NewProvider(storage.NewMemory(), 0)
	cat, err := catalog.Load()
	require.NoError(t, err)
	registry, err := shopper.NewRegistry(shopper.Params{Storage: provider, Catalog: cat})
	require.NoError(t, err)

	return NewRouter(Dependencies{
		Config:     testConfig(),
		Logger:     logger.Nop(),
		Pinger:     pinger,
		Sessions:   provider,
		Catalog:    cat,
		Workspaces: registry,
		Session:    session.NewService(nil),
		Checkout:   checkout.NewService(nil),
		Gate:       gate.New(gate.Options{}),
	})
}

// browser replays the shopper cookies between requests like a single tab would.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func newBrowser(t *testing.T, h http.Handler) *browser {
	return &browser{t: t, handler: h, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path, body string) *httptest.ResponseRecorder {
	b.t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Data
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope struct {
		Error map[string]any `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(t, stubPinger{})

	live := httptest.NewRecorder()
	router.ServeHTTP(live, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	assert.Equal(t, http.StatusOK, live.Code)
	assert.Equal(t, "test", live.Header().Get("X-Plantweb-Env"))

	ready := httptest.NewRecorder()
	router.ServeHTTP(ready, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, ready.Code)
}

func TestHealthReadyReportsStorageOutage(t *testing.T) {
	router := newTestRouter(t, stubPinger{err: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLandingIsPublic(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, stubPinger{}))

	rec := b.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := decodeData(t, rec)
	assert.Len(t, data["categories"], 3)
	assert.Contains(t, b.cookies, "pw_client")
	assert.Contains(t, b.cookies, "pw_session")
}

func TestGatedRouteShowsInterstitialThenDismissRedirectsHome(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, stubPinger{}))

	rec := b.do(http.MethodGet, "/api/v1/cart", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	apiErr := decodeError(t, rec)
	assert.Equal(t, "You must be logged in to view this page.", apiErr["message"])
	details, ok := apiErr["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Access Restricted", details["title"])
	assert.Equal(t, "/api/v1/auth/login", details["login_url"])

	dismiss := b.do(http.MethodGet, details["dismiss_url"].(string), "")
	assert.Equal(t, http.StatusSeeOther, dismiss.Code)
	assert.Equal(t, "/", dismiss.Header().Get("Location"))
}

func TestLoginValidationFailureLeavesGateClosed(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, stubPinger{}))

	rec := b.do(http.MethodPost, "/api/v1/auth/login", `{"name":"Asha","email":"asha@example.com","password":"123"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Password must be at least 6 characters", decodeError(t, rec)["message"])

	assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, "/api/v1/favorites", "").Code)
}

func TestShopperFlow(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, stubPinger{}))

	login := b.do(http.MethodPost, "/api/v1/auth/login", `{"name":"Asha Rao","email":"asha@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, login.Code)

	me := decodeData(t, b.do(http.MethodGet, "/api/v1/auth/me", ""))
	assert.Equal(t, true, me["logged_in"])

	add := b.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":1,"quantity":"2"}`)
	require.Equal(t, http.StatusOK, add.Code)
	cartData := decodeData(t, add)
	assert.EqualValues(t, 2, cartData["item_count"])

	inc := decodeData(t, b.do(http.MethodPost, "/api/v1/cart/items/1/increase", ""))
	assert.EqualValues(t, 3, inc["item_count"])

	set := decodeData(t, b.do(http.MethodPut, "/api/v1/cart/items/1/quantity", `{"quantity":"abc"}`))
	assert.EqualValues(t, 1, set["item_count"])

	toggle := decodeData(t, b.do(http.MethodPost, "/api/v1/favorites/1/toggle", ""))
	assert.Equal(t, true, toggle["liked"])

	product := decodeData(t, b.do(http.MethodGet, "/api/v1/products/1", ""))
	assert.EqualValues(t, 1, product["in_cart"])
	assert.Equal(t, true, product["favorited"])

	missing := b.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":9999}`)
	assert.Equal(t, http.StatusNotFound, missing.Code)

	quote := decodeData(t, b.do(http.MethodPost, "/api/v1/checkout/quote", `{"coupon":"green10"}`))
	assert.NotEqual(t, "0", quote["discount"])

	confirm := b.do(http.MethodPost, "/api/v1/checkout/confirm", `{"name":"Asha Rao","email":"asha@example.com","address":"12 MG Road","city":"Pune","zip":"411001","payment":"Cash on Delivery"}`)
	require.Equal(t, http.StatusCreated, confirm.Code)

	after := decodeData(t, b.do(http.MethodGet, "/api/v1/cart", ""))
	assert.EqualValues(t, 0, after["item_count"])

	logout := b.do(http.MethodPost, "/api/v1/auth/logout", "")
	require.Equal(t, http.StatusOK, logout.Code)
	assert.Equal(t, http.StatusUnauthorized, b.do(http.MethodGet, "/api/v1/cart", "").Code)
}

func TestNewTabSharesCartButNotLogin(t *testing.T) {
	router := newTestRouter(t, stubPinger{})
	first := newBrowser(t, router)

	require.Equal(t, http.StatusOK, first.do(http.MethodPost, "/api/v1/auth/login", `{"name":"Asha","email":"asha@example.com","password":"secret1"}`).Code)
	require.Equal(t, http.StatusOK, first.do(http.MethodPost, "/api/v1/cart/items", `{"product_id":2}`).Code)

	second := newBrowser(t, router)
	second.cookies["pw_client"] = first.cookies["pw_client"]
	assert.Equal(t, http.StatusUnauthorized, second.do(http.MethodGet, "/api/v1/cart", "").Code)

	require.Equal(t, http.StatusOK, second.do(http.MethodPost, "/api/v1/auth/login", `{"name":"Asha","email":"asha@example.com","password":"secret1"}`).Code)
	cartData := decodeData(t, second.do(http.MethodGet, "/api/v1/cart", ""))
	assert.EqualValues(t, 1, cartData["item_count"])
}

func TestCheckoutSuggest(t *testing.T) {
	b := newBrowser(t, newTestRouter(t, stubPinger{}))
	require.Equal(t, http.StatusOK, b.do(http.MethodPost, "/api/v1/auth/login", `{"name":"Asha","email":"asha@example.com","password":"secret1"}`).Code)

	rec := b.do(http.MethodGet, "/api/v1/checkout/suggest?field=city&q=zzz", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"zzz"}, decodeData(t, rec)["suggestions"])

	bad := b.do(http.MethodGet, "/api/v1/checkout/suggest?field=planet&q=x", "")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}
