package controllers

import (
	"net/http"

	"github.com/shivanimeena11/plantweb/api/responses"
	"github.com/shivanimeena11/plantweb/api/validators"
	"github.com/shivanimeena11/plantweb/internal/catalog"
	"github.com/shivanimeena11/plantweb/internal/favorites"
	"github.com/shivanimeena11/plantweb/internal/shopper"
	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

type favoritesResponse struct {
	Items    []favorites.Entry `json:"items"`
	Count    int               `json:"count"`
	Revision uint64            `json:"revision"`
}

type toggleResponse struct {
	favoritesResponse
	ID    int  `json:"id"`
	Liked bool `json:"liked"`
}

func newFavoritesResponse(snap favorites.Snapshot, revision uint64) favoritesResponse {
	items := []favorites.Entry(snap)
	if items == nil {
		items = []favorites.Entry{}
	}
	return favoritesResponse{Items: items, Count: len(items), Revision: revision}
}

func FavoritesGet(workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := workspaceFor(r, workspaces)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newFavoritesResponse(ws.Favorites.Snapshot(r.Context()), ws.FavoritesRevision()))
	}
}

// FavoritesToggle flips the heart on a catalog plant and reports the resulting state.
func FavoritesToggle(cat *catalog.Catalog, workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
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
		liked, snap := ws.Favorites.Toggle(r.Context(), shopper.EntryFromPlant(plant))
		responses.WriteSuccess(w, toggleResponse{
			favoritesResponse: newFavoritesResponse(snap, ws.FavoritesRevision()),
			ID:                id,
			Liked:             liked,
		})
	}
}

func FavoritesRemove(workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ws, err := workspaceFor(r, workspaces)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newFavoritesResponse(ws.Favorites.Remove(r.Context(), id), ws.FavoritesRevision()))
	}
}

func FavoritesClear(workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := workspaceFor(r, workspaces)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newFavoritesResponse(ws.Favorites.Clear(r.Context()), ws.FavoritesRevision()))
	}
}
