package controllers

import (
	"net/http"

	"github.com/shivanimeena11/plantweb/api/responses"
	"github.com/shivanimeena11/plantweb/api/validators"
	"github.com/shivanimeena11/plantweb/internal/cart"
	"github.com/shivanimeena11/plantweb/internal/catalog"
	"github.com/shivanimeena11/plantweb/internal/shopper"
	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

type cartLineResponse struct {
	ID       int        `json:"id"`
	Name     string     `json:"name"`
	Price    cart.Price `json:"price"`
	Image    string     `json:"image"`
	Quantity int        `json:"quantity"`
	Subtotal string     `json:"subtotal"`
}

type cartResponse struct {
	Items     []cartLineResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     string             `json:"total"`
	Revision  uint64             `json:"revision"`
}

func newCartResponse(snap cart.Snapshot, revision uint64) cartResponse {
	totals := snap.Totals()
	resp := cartResponse{
		Items:     make([]cartLineResponse, 0, len(snap)),
		ItemCount: totals.ItemCount,
		Total:     totals.TotalPrice.StringFixed(2),
		Revision:  revision,
	}
	for _, line := range snap {
		resp.Items = append(resp.Items, cartLineResponse{
			ID:       line.ID,
			Name:     line.Name,
			Price:    line.Price,
			Image:    line.Image,
			Quantity: line.Quantity,
			Subtotal: line.Subtotal().StringFixed(2),
		})
	}
	return resp
}

type addCartItemRequest struct {
	ProductID int `json:"product_id" validate:"required,min=1"`
	Quantity  any `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity any `json:"quantity"`
}

func CartGet(workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := workspaceFor(r, workspaces)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(ws.Cart.Snapshot(r.Context()), ws.CartRevision()))
	}
}

// CartAddItem adds a catalog plant; quantity may be a number or numeric string and defaults to 1.
func CartAddItem(cat *catalog.Catalog, workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		plant, ok := cat.ByID(payload.ProductID)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "plant not found"))
			return
		}
		ws, err := workspaceFor(r, workspaces)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		snap := ws.Cart.AddToCart(r.Context(), shopper.ProductFromPlant(plant), cart.CoerceQuantity(payload.Quantity, 1))
		responses.WriteSuccess(w, newCartResponse(snap, ws.CartRevision()))
	}
}

// cartLineMutation adapts an id-scoped store operation into a handler.
func cartLineMutation(workspaces Workspaces, logg *logger.Logger, apply func(*http.Request, *cart.Store, int) cart.Snapshot) http.HandlerFunc {
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
		snap := apply(r, ws.Cart, id)
		responses.WriteSuccess(w, newCartResponse(snap, ws.CartRevision()))
	}
}

func CartRemoveItem(workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return cartLineMutation(workspaces, logg, func(r *http.Request, c *cart.Store, id int) cart.Snapshot {
		return c.RemoveFromCart(r.Context(), id)
	})
}

func CartIncrease(workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return cartLineMutation(workspaces, logg, func(r *http.Request, c *cart.Store, id int) cart.Snapshot {
		return c.IncreaseQty(r.Context(), id)
	})
}

func CartDecrease(workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return cartLineMutation(workspaces, logg, func(r *http.Request, c *cart.Store, id int) cart.Snapshot {
		return c.DecreaseQty(r.Context(), id)
	})
}

// CartSetQuantity never rejects a quantity: anything non-numeric or below 1 stores 1.
func CartSetQuantity(workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload setQuantityRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		qty := cart.CoerceQuantity(payload.Quantity, 1)
		cartLineMutation(workspaces, logg, func(r *http.Request, c *cart.Store, id int) cart.Snapshot {
			return c.SetQuantity(r.Context(), id, qty)
		})(w, r)
	}
}

func CartClear(workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := workspaceFor(r, workspaces)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(ws.Cart.ClearCart(r.Context()), ws.CartRevision()))
	}
}
