package controllers

import (
	"net/http"

	"github.com/shivanimeena11/plantweb/api/responses"
	"github.com/shivanimeena11/plantweb/api/validators"
	"github.com/shivanimeena11/plantweb/internal/checkout"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

const maxSuggestQueryLen = 120

type suggestResponse struct {
	Field       string   `json:"field"`
	Suggestions []string `json:"suggestions"`
}

func CheckoutOptions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, checkout.DefaultOptions())
	}
}

// CheckoutSuggest filters one option list by what the shopper has typed so far.
func CheckoutSuggest(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := validators.ParseQueryString(r, "field", 32)
		typed := validators.ParseQueryString(r, "q", maxSuggestQueryLen)
		suggestions, err := checkout.Suggest(field, typed)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, suggestResponse{Field: field, Suggestions: suggestions})
	}
}

func CheckoutQuote(svc *checkout.Service, workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload checkout.QuoteRequest
		if err := validators.DecodeOptionalJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ws, err := workspaceFor(r, workspaces)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, svc.Quote(r.Context(), ws.Cart, payload))
	}
}

func CheckoutConfirm(svc *checkout.Service, workspaces Workspaces, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var form checkout.Form
		if err := validators.DecodeJSON(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ws, err := workspaceFor(r, workspaces)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		confirmation, err := svc.Confirm(r.Context(), ws.Cart, form)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, confirmation)
	}
}
