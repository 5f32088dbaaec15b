package controllers

import (
	"net/http"

	"github.com/shivanimeena11/plantweb/api/middleware"
	"github.com/shivanimeena11/plantweb/api/responses"
	"github.com/shivanimeena11/plantweb/api/validators"
	"github.com/shivanimeena11/plantweb/internal/session"
	"github.com/shivanimeena11/plantweb/internal/storage"
	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

type meResponse struct {
	LoggedIn bool            `json:"logged_in"`
	User     *session.Marker `json:"user,omitempty"`
}

func sessionFor(r *http.Request, sessions middleware.SessionStorage) (storage.Storage, error) {
	sid := middleware.SessionIDFromContext(r.Context())
	if sid == "" || sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "session identity missing")
	}
	return sessions.Session(sid), nil
}

func AuthLogin(svc *session.Service, sessions middleware.SessionStorage, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload session.LoginInput
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st, err := sessionFor(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		marker, err := svc.Login(r.Context(), st, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, meResponse{LoggedIn: true, User: &marker})
	}
}

func AuthSignup(svc *session.Service, sessions middleware.SessionStorage, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload session.SignupInput
		if err := validators.DecodeJSON(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		st, err := sessionFor(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		marker, err := svc.Signup(r.Context(), st, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, meResponse{LoggedIn: true, User: &marker})
	}
}

func AuthLogout(svc *session.Service, sessions middleware.SessionStorage, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := sessionFor(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		svc.Logout(r.Context(), st)
		responses.WriteSuccess(w, meResponse{})
	}
}

func AuthMe(svc *session.Service, sessions middleware.SessionStorage, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := sessionFor(r, sessions)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		marker, ok := svc.Current(r.Context(), st)
		if !ok {
			responses.WriteSuccess(w, meResponse{})
			return
		}
		responses.WriteSuccess(w, meResponse{LoggedIn: true, User: &marker})
	}
}
