package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shivanimeena11/plantweb/api/responses"
	"github.com/shivanimeena11/plantweb/api/validators"
	"github.com/shivanimeena11/plantweb/internal/catalog"
	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

type landingResponse struct {
	Name        string             `json:"name"`
	Tagline     string             `json:"tagline"`
	Categories  []catalog.Category `json:"categories"`
	Bestsellers []catalog.Plant    `json:"bestsellers"`
	LoginURL    string             `json:"login_url"`
}

// Landing is the public root: storefront info only, no shopper data.
func Landing(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, landingResponse{
			Name:        "Plantweb",
			Tagline:     "Bring nature home",
			Categories:  cat.Categories(),
			Bestsellers: cat.Bestsellers(),
			LoginURL:    "/api/v1/auth/login",
		})
	}
}

type categoryResponse struct {
	Slug    string          `json:"slug"`
	Heading string          `json:"heading"`
	Plants  []catalog.Plant `json:"plants"`
}

func PlantsByCategory(cat *catalog.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "category")
		responses.WriteSuccess(w, categoryResponse{
			Slug:    slug,
			Heading: catalog.DisplayName(slug),
			Plants:  cat.ByCategory(slug),
		})
	}
}

type productResponse struct {
	catalog.Plant
	InCart    int  `json:"in_cart"`
	Favorited bool `json:"favorited"`
}

// ProductDetail returns a plant plus the shopper's cart quantity and favorite flag for it.
func ProductDetail(cat *catalog.Catalog, workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		plant, ok := cat.ByID(id)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "plant not found"))
			return
		}
		ws, err := workspaceFor(r, workspaces)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp := productResponse{Plant: plant, Favorited: ws.Favorites.Contains(r.Context(), id)}
		if line, ok := ws.Cart.Snapshot(r.Context()).Find(id); ok {
			resp.InCart = line.Quantity
		}
		responses.WriteSuccess(w, resp)
	}
}

type contactStage struct {
	Title string `json:"title"`
	Desc  string `json:"desc"`
}

type contactResponse struct {
	Heading string         `json:"heading"`
	Blurb   string         `json:"blurb"`
	Journey []contactStage `json:"journey"`
}

func Contact() http.HandlerFunc {
	body := contactResponse{
		Heading: "Contact Us",
		Blurb:   "Have a question or want to share your thoughts? We'd love to hear from you! Our team is here to assist with your orders, plant care, or any queries.",
		Journey: []contactStage{
			{Title: "Seed Stage", Desc: "Every dream begins as a small seed. With patience and hope, it starts to grow."},
			{Title: "Watering & Care", Desc: "Nurturing your growth with love, learning, and consistency."},
			{Title: "Sunlight of Knowledge", Desc: "Growth blooms under the light of knowledge and experience."},
			{Title: "Bloom & Shine", Desc: "Finally, you blossom into something beautiful and inspiring!"},
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, body)
	}
}
