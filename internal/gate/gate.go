package gate

import (
	"context"

	"github.com/shivanimeena11/plantweb/internal/session"
	"github.com/shivanimeena11/plantweb/internal/storage"
	"github.com/shivanimeena11/plantweb/pkg/logger"
)

// State is the gate's resolution for one navigation.
type State string

const (
	StateChecking     State = "checking"
	StateAuthorized   State = "authorized"
	StateUnauthorized State = "unauthorized"
)

// Decision is the outcome of one evaluation. Nothing about it is persisted.
type Decision struct {
	State  State
	Marker session.Marker
}

func (d Decision) Authorized() bool {
	return d.State == StateAuthorized
}

// Interstitial is the blocking prompt shown instead of a protected view.
type Interstitial struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	LoginURL   string `json:"login_url"`
	DismissURL string `json:"dismiss_url"`
}

type Recorder interface {
	IncGateDecision(state string)
}

type Options struct {
	LoginURL   string
	DismissURL string
	// RootURL is where a dismissed interstitial sends the shopper.
	RootURL string
	Logger  *logger.Logger
	Metrics Recorder
}

// Gate decides whether a protected view is reachable from the presence of the session marker.
type Gate struct {
	opts Options
}

func New(opts Options) *Gate {
	if opts.LoginURL == "" {
		opts.LoginURL = "/api/v1/auth/login"
	}
	if opts.DismissURL == "" {
		opts.DismissURL = "/api/v1/gate/dismiss"
	}
	if opts.RootURL == "" {
		opts.RootURL = "/"
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop()
	}
	return &Gate{opts: opts}
}

// Evaluate resolves Checking synchronously. A missing, malformed or unreadable marker is
// Unauthorized; evaluation never fails.
func (g *Gate) Evaluate(ctx context.Context, st storage.Storage) Decision {
	decision := g.evaluate(ctx, st)
	if g.opts.Metrics != nil {
		g.opts.Metrics.IncGateDecision(string(decision.State))
	}
	return decision
}

func (g *Gate) evaluate(ctx context.Context, st storage.Storage) Decision {
	if st == nil {
		return Decision{State: StateUnauthorized}
	}
	raw, ok, err := st.GetItem(ctx, storage.KeyUser)
	if err != nil {
		g.opts.Logger.WarnErr(ctx, "gate could not read session marker", err)
		return Decision{State: StateUnauthorized}
	}
	if !ok {
		return Decision{State: StateUnauthorized}
	}
	marker, ok := session.Decode(raw)
	if !ok {
		return Decision{State: StateUnauthorized}
	}
	return Decision{State: StateAuthorized, Marker: marker}
}

func (g *Gate) Interstitial() Interstitial {
	return Interstitial{
		Title:      "Access Restricted",
		Message:    "You must be logged in to view this page.",
		LoginURL:   g.opts.LoginURL,
		DismissURL: g.opts.DismissURL,
	}
}

func (g *Gate) RootURL() string {
	return g.opts.RootURL
}
