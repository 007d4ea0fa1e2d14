package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/bikeshare/internal/ctxkeys"
	"github.com/templui/bikeshare/internal/session"
	"github.com/templui/bikeshare/internal/ui"
	"github.com/templui/bikeshare/internal/ui/pages"
	"github.com/templui/bikeshare/internal/view"
)

// ViewHandler serves menu selections. It resolves the selected view
// against the client's session before handing over to the screen.
type ViewHandler struct {
	sessions *session.Manager
	screens  map[view.View]http.HandlerFunc
	notFound http.HandlerFunc
}

func NewViewHandler(sessions *session.Manager, screens map[view.View]http.HandlerFunc, notFound http.HandlerFunc) *ViewHandler {
	return &ViewHandler{
		sessions: sessions,
		screens:  screens,
		notFound: notFound,
	}
}

// Home serves the root path
func (h *ViewHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, view.Home)
}

// Select serves GET /{view}
func (h *ViewHandler) Select(w http.ResponseWriter, r *http.Request) {
	v, ok := view.Parse(r.PathValue("view"))
	if !ok {
		h.notFound(w, r)
		return
	}
	h.serve(w, r, v)
}

func (h *ViewHandler) serve(w http.ResponseWriter, r *http.Request, v view.View) {
	screen, ok := h.screens[v]
	if !ok {
		h.notFound(w, r)
		return
	}

	r, resolved := applyView(w, r, h.sessions, v)
	if resolved.Suppressed {
		ui.Render(w, r, pages.Suppressed(v))
		return
	}

	screen(w, r)
}

// applyView resolves v for the request's session and stores the resulting
// state when it changed. The returned request carries the new state.
func applyView(w http.ResponseWriter, r *http.Request, sessions *session.Manager, v view.View) (*http.Request, view.Screen) {
	current := ctxkeys.Session(r.Context())
	screen := view.Resolve(v, current)

	if screen.State != current {
		err := sessions.Save(w, r, screen.State)
		if err != nil {
			slog.Error("failed to save session", "error", err, "view", v)
		}
		r = r.WithContext(ctxkeys.WithSession(r.Context(), screen.State))
	}

	return r, screen
}
