package middleware

import (
	"context"

	"github.com/shivanimeena11/plantweb/internal/gate"
)

type contextKey string

const (
	ctxClientID  contextKey = "client_id"
	ctxSessionID contextKey = "session_id"
	ctxDecision  contextKey = "gate_decision"
)

func ClientIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxClientID).(string); ok {
		return v
	}
	return ""
}

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSessionID).(string); ok {
		return v
	}
	return ""
}

// DecisionFromContext returns the gate decision recorded for a protected request.
func DecisionFromContext(ctx context.Context) (gate.Decision, bool) {
	if ctx == nil {
		return gate.Decision{}, false
	}
	d, ok := ctx.Value(ctxDecision).(gate.Decision)
	return d, ok
}

// WithClientID injects the browser-profile identity into the context.
func WithClientID(ctx context.Context, clientID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClientID, clientID)
}

// WithSessionID injects the tab session identity into the context.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSessionID, sessionID)
}

func withDecision(ctx context.Context, d gate.Decision) context.Context {
	return context.WithValue(ctx, ctxDecision, d)
}
