package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/bikeshare/internal/ctxkeys"
	"github.com/templui/bikeshare/internal/session"
)

// Paths that never need a session
var skipSessionPaths = []string{
	"/assets/",
	"/uploads/",
	"/metrics",
	"/healthz",
}

// Session attaches the client's session state to the request context.
// A first-time client gets a logged-out session and its cookie right away.
func Session(sessions *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skipSessionPaths {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			st, isNew, err := sessions.Load(r)
			if err != nil {
				slog.Warn("failed to load session", "error", err)
			}

			if isNew {
				err = sessions.Save(w, r, st)
				if err != nil {
					slog.Error("failed to create session", "error", err)
				}
			}

			ctx := ctxkeys.WithSession(r.Context(), st)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
