package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shivanimeena11/plantweb/api/controllers"
	"github.com/shivanimeena11/plantweb/api/middleware"
	"github.com/shivanimeena11/plantweb/internal/catalog"
	"github.com/shivanimeena11/plantweb/internal/checkout"
	"github.com/shivanimeena11/plantweb/internal/gate"
	"github.com/shivanimeena11/plantweb/internal/session"
	"github.com/shivanimeena11/plantweb/pkg/config"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

// Dependencies wires the storefront services into the router.
type Dependencies struct {
	Config     *config.Config
	Logger     *logger.Logger
	Pinger     controllers.Pinger
	Sessions   middleware.SessionStorage
	Catalog    *catalog.Catalog
	Workspaces controllers.Workspaces
	Session    *session.Service
	Checkout   *checkout.Service
	Gate       *gate.Gate
	// Metrics serves /metrics when set.
	Metrics http.Handler
}

func NewRouter(deps Dependencies) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.Pinger, logg))
	})

	if deps.Metrics != nil {
		r.Handle("/metrics", deps.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.Shopper(cfg.Session, logg))

		r.Get("/", controllers.Landing(deps.Catalog))

		r.Route("/api/v1/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(deps.Session, deps.Sessions, logg))
			r.Post("/signup", controllers.AuthSignup(deps.Session, deps.Sessions, logg))
			r.Post("/logout", controllers.AuthLogout(deps.Session, deps.Sessions, logg))
			r.Get("/me", controllers.AuthMe(deps.Session, deps.Sessions, logg))
		})
		r.Get("/api/v1/gate/dismiss", controllers.GateDismiss(deps.Gate))

		r.Route("/api/v1", func(r chi.Router) {
			r.Use(middleware.Gate(deps.Gate, deps.Sessions, logg))

			r.Get("/plants/{category}", controllers.PlantsByCategory(deps.Catalog))
			r.Get("/products/{id}", controllers.ProductDetail(deps.Catalog, deps.Workspaces, logg))
			r.Get("/contact", controllers.Contact())

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(deps.Workspaces, logg))
				r.Delete("/", controllers.CartClear(deps.Workspaces, logg))
				r.Post("/items", controllers.CartAddItem(deps.Catalog, deps.Workspaces, logg))
				r.Delete("/items/{id}", controllers.CartRemoveItem(deps.Workspaces, logg))
				r.Post("/items/{id}/increase", controllers.CartIncrease(deps.Workspaces, logg))
				r.Post("/items/{id}/decrease", controllers.CartDecrease(deps.Workspaces, logg))
				r.Put("/items/{id}/quantity", controllers.CartSetQuantity(deps.Workspaces, logg))
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.FavoritesGet(deps.Workspaces, logg))
				r.Delete("/", controllers.FavoritesClear(deps.Workspaces, logg))
				r.Post("/{id}/toggle", controllers.FavoritesToggle(deps.Catalog, deps.Workspaces, logg))
				r.Delete("/{id}", controllers.FavoritesRemove(deps.Workspaces, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/options", controllers.CheckoutOptions())
				r.Get("/suggest", controllers.CheckoutSuggest(logg))
				r.Post("/quote", controllers.CheckoutQuote(deps.Checkout, deps.Workspaces, logg))
				r.Post("/confirm", controllers.CheckoutConfirm(deps.Checkout, deps.Workspaces, logg))
			})
		})
	})

	return r
}
