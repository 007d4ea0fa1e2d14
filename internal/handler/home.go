package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/bikeshare/internal/ctxkeys"
	"github.com/templui/bikeshare/internal/service"
	"github.com/templui/bikeshare/internal/ui"
	"github.com/templui/bikeshare/internal/ui/pages"
)

type HomeHandler struct {
	contentService *service.ContentService
}

func NewHomeHandler(contentService *service.ContentService) *HomeHandler {
	return &HomeHandler{
		contentService: contentService,
	}
}

func (h *HomeHandler) HomePage(w http.ResponseWriter, r *http.Request) {
	page, err := h.contentService.Page("home", locale(r))
	if err != nil {
		slog.Warn("home content unavailable", "error", err)
	}
	ui.Render(w, r, pages.Home(page))
}

func (h *HomeHandler) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	ui.RenderStatus(w, r, http.StatusNotFound, pages.NotFound())
}

// locale is the configured UI language, English when unset
func locale(r *http.Request) string {
	cfg := ctxkeys.Config(r.Context())
	if cfg == nil || cfg.AppLocale == "" {
		return "en"
	}
	return cfg.AppLocale
}
