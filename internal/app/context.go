package app

import (
	"context"
	"errors"
)

type ctxKey struct{}

// errNoApp means a command ran without the root PersistentPreRunE.
var errNoApp = errors.New("app not initialized")

// WithApp returns a copy of ctx carrying a.
func WithApp(ctx context.Context, a *App) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the App stored by WithApp.
func FromContext(ctx context.Context) (*App, error) {
	if ctx == nil {
		return nil, errNoApp
	}
	a, ok := ctx.Value(ctxKey{}).(*App)
	if !ok || a == nil {
		return nil, errNoApp
	}
	return a, nil
}
