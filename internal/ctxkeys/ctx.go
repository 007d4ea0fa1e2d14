package ctxkeys

import (
	"context"

	"github.com/templui/bikeshare/internal/config"
	"github.com/templui/bikeshare/internal/session"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	SessionKey   contextKey = "session"
	URLPathKey   contextKey = "url_path"
	ConfigKey    contextKey = "config"
	CSRFTokenKey contextKey = "csrf_token"
)

// Session returns the client's session state; logged out when none is attached
func Session(ctx context.Context) session.State {
	st, _ := ctx.Value(SessionKey).(session.State)
	return st
}

func WithSession(ctx context.Context, st session.State) context.Context {
	return context.WithValue(ctx, SessionKey, st)
}

func URLPath(ctx context.Context) string {
	path, _ := ctx.Value(URLPathKey).(string)
	return path
}

func WithURLPath(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, URLPathKey, path)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(ConfigKey).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, ConfigKey, cfg)
}

func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(CSRFTokenKey).(string)
	return token
}

func WithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, CSRFTokenKey, token)
}
