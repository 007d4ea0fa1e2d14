package handler

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/templui/bikeshare/internal/storage"
)

// UploadsHandler serves profile images kept on local disk
type UploadsHandler struct {
	storage *storage.LocalStorage
}

func NewUploadsHandler(storage *storage.LocalStorage) *UploadsHandler {
	return &UploadsHandler{
		storage: storage,
	}
}

func (h *UploadsHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	file, err := h.storage.Open(name)
	if errors.Is(err, storage.ErrInvalidKey) || errors.Is(err, fs.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		slog.Error("failed to open upload", "error", err, "name", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		slog.Error("failed to stat upload", "error", err, "name", name)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// Stored images keep the .jpg key whatever the uploaded format,
	// so the type comes from the bytes.
	w.Header().Set("Cache-Control", "no-cache")
	http.ServeContent(w, r, "", info.ModTime(), file)
}
