package controllers

import (
	"net/http"

	"github.com/shivanimeena11/plantweb/internal/gate"
)

// GateDismiss closes the interstitial by sending the shopper to the public root.
func GateDismiss(g *gate.Gate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, g.RootURL(), http.StatusSeeOther)
	}
}
