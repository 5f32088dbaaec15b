package middleware

import (
	"net/http"

	"github.com/shivanimeena11/plantweb/api/responses"
	"github.com/shivanimeena11/plantweb/internal/gate"
	"github.com/shivanimeena11/plantweb/internal/storage"
	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

// SessionStorage hands out the session-scoped storage for a tab.
type SessionStorage interface {
	Session(sessionID string) storage.Storage
}

// Gate evaluates the access gate on every request. Unauthorized requests get the
// interstitial as a 401 error envelope and never reach the wrapped handler.
func Gate(g *gate.Gate, sessions SessionStorage, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			var st storage.Storage
			if sid := SessionIDFromContext(ctx); sid != "" {
				st = sessions.Session(sid)
			}

			decision := g.Evaluate(ctx, st)
			if !decision.Authorized() {
				interstitial := g.Interstitial()
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, interstitial.Message).WithDetails(interstitial))
				return
			}

			next.ServeHTTP(w, r.WithContext(withDecision(ctx, decision)))
		})
	}
}
