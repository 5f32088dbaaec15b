package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/shivanimeena11/plantweb/pkg/config"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

// Shopper resolves the client (browser profile) and session (tab) identities from cookies,
// minting fresh ones when missing or malformed.
func Shopper(cfg config.SessionConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientID, fresh := cookieID(r, cfg.ClientCookie)
			if fresh {
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.ClientCookie,
					Value:    clientID,
					Path:     "/",
					MaxAge:   int(cfg.ClientMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   cfg.SecureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			sessionID, fresh := cookieID(r, cfg.SessionCookie)
			if fresh {
				// no MaxAge: the browser drops it when the session ends, like sessionStorage
				http.SetCookie(w, &http.Cookie{
					Name:     cfg.SessionCookie,
					Value:    sessionID,
					Path:     "/",
					HttpOnly: true,
					Secure:   cfg.SecureCookies,
					SameSite: http.SameSiteLaxMode,
				})
			}

			ctx := WithClientID(r.Context(), clientID)
			ctx = WithSessionID(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithClientID(ctx, clientID)
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func cookieID(r *http.Request, name string) (string, bool) {
	if c, err := r.Cookie(name); err == nil {
		if id, err := uuid.Parse(strings.TrimSpace(c.Value)); err == nil {
			return id.String(), false
		}
	}
	return uuid.NewString(), true
}
