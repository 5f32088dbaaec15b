package controllers

import (
	"context"
	"net/http"

	"github.com/shivanimeena11/plantweb/api/middleware"
	"github.com/shivanimeena11/plantweb/internal/shopper"
	pkgerrors "github.com/shivanimeena11/plantweb/pkg/errors"
)

// Workspaces resolves the calling shopper's in-memory stores.
type Workspaces interface {
	Get(ctx context.Context, clientID string) (*shopper.Workspace, error)
}

func workspaceFor(r *http.Request, workspaces Workspaces) (*shopper.Workspace, error) {
	if workspaces == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "shopper registry unavailable")
	}
	clientID := middleware.ClientIDFromContext(r.Context())
	if clientID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "client identity missing")
	}
	ws, err := workspaces.Get(r.Context(), clientID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "open shopper workspace")
	}
	return ws, nil
}
