package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/templui/bikeshare/internal/ctxkeys"
	"github.com/templui/bikeshare/internal/metrics"
	"github.com/templui/bikeshare/internal/model"
	"github.com/templui/bikeshare/internal/service"
	"github.com/templui/bikeshare/internal/session"
	"github.com/templui/bikeshare/internal/ui"
	"github.com/templui/bikeshare/internal/ui/pages"
	"github.com/templui/bikeshare/internal/validation"
	"github.com/templui/bikeshare/internal/view"
)

type ProfileHandler struct {
	accountService *service.AccountService
	sessions       *session.Manager
	maxUploadSize  int64
}

func NewProfileHandler(accountService *service.AccountService, sessions *session.Manager, maxUploadSize int64) *ProfileHandler {
	return &ProfileHandler{
		accountService: accountService,
		sessions:       sessions,
		maxUploadSize:  maxUploadSize,
	}
}

// ProfilePage shows the edit form for the logged-in user. Selection goes
// through ViewHandler, which suppresses it for logged-out clients.
func (h *ProfileHandler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	st := ctxkeys.Session(r.Context())
	if !st.LoggedIn {
		ui.Render(w, r, pages.Suppressed(view.Profile))
		return
	}

	user, err := h.loadProfile(r, st.ActiveEmail)
	if err != nil {
		ui.Render(w, r, pages.Profile(nil, pages.Error("profile.failed")))
		return
	}

	ui.Render(w, r, pages.Profile(user, nil))
}

func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	r, screen := applyView(w, r, h.sessions, view.Profile)
	if screen.Suppressed {
		ui.Render(w, r, pages.Suppressed(view.Profile))
		return
	}
	email := screen.State.ActiveEmail

	user, err := h.loadProfile(r, email)
	if err != nil {
		metrics.ProfileUpdatesTotal.WithLabelValues(metrics.ResultError).Inc()
		ui.Render(w, r, pages.Profile(nil, pages.Error("profile.failed")))
		return
	}

	form := validation.ProfileForm{
		Name:   strings.TrimSpace(r.FormValue("name")),
		Gender: r.FormValue("gender"),
		Phone:  strings.TrimSpace(r.FormValue("phone")),
	}

	// Show what was submitted if the save does not go through
	submitted := *user
	submitted.Name, submitted.Gender, submitted.Phone = form.Name, form.Gender, form.Phone

	err = validation.ValidateForm(form)
	if err != nil {
		metrics.ProfileUpdatesTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		ui.Render(w, r, pages.Profile(&submitted, invalidForm(err)))
		return
	}

	imagePath, flash := h.storeImage(r, email, user.ProfileImage)
	if flash != nil {
		ui.Render(w, r, pages.Profile(&submitted, flash))
		return
	}

	err = h.accountService.SaveProfile(r.Context(), email, form.Name, form.Gender, form.Phone, imagePath)
	if err != nil {
		metrics.ProfileUpdatesTotal.WithLabelValues(metrics.ResultError).Inc()
		slog.Error("failed to save profile", "error", err, "email", email)
		ui.Render(w, r, pages.Profile(&submitted, pages.Error("profile.failed")))
		return
	}

	metrics.ProfileUpdatesTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	slog.Info("profile saved", "email", email, "image", imagePath != user.ProfileImage)

	updated, err := h.loadProfile(r, email)
	if err != nil {
		ui.Render(w, r, pages.Profile(&submitted, pages.Success("profile.saved")))
		return
	}
	ui.Render(w, r, pages.Profile(updated, pages.Success("profile.saved")))
}

// storeImage saves an uploaded image and returns its path. Without an
// upload the current path is kept.
func (h *ProfileHandler) storeImage(r *http.Request, email, current string) (string, *pages.Flash) {
	file, header, err := r.FormFile("profile_image")
	if errors.Is(err, http.ErrMissingFile) {
		return current, nil
	}
	if err != nil {
		metrics.ProfileUpdatesTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		slog.Warn("failed to read profile image", "error", err, "email", email)
		return "", pages.Error("profile.invalid_image")
	}
	defer func() {
		closeErr := file.Close()
		if closeErr != nil {
			slog.Error("failed to close file", "error", closeErr)
		}
	}()

	err = validation.ValidateFile(header, validation.ImageConstraints.WithMaxSize(h.maxUploadSize))
	if err != nil {
		metrics.ProfileUpdatesTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		slog.Info("profile image rejected", "error", err, "email", email, "filename", header.Filename)
		return "", pages.Error("profile.invalid_image")
	}

	path, err := h.accountService.ReplaceProfileImage(r.Context(), email, file)
	if err != nil {
		metrics.ProfileUpdatesTotal.WithLabelValues(metrics.ResultError).Inc()
		slog.Error("failed to store profile image", "error", err, "email", email)
		return "", pages.Error("profile.failed")
	}

	return path, nil
}

// loadProfile reads the user and maps the stored gender onto the form's
// options.
func (h *ProfileHandler) loadProfile(r *http.Request, email string) (*model.User, error) {
	user, err := h.accountService.LoadProfile(r.Context(), email)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			slog.Warn("profile not found", "email", email)
		} else {
			slog.Error("failed to load profile", "error", err, "email", email)
		}
		return nil, err
	}

	user.Gender = model.NormalizeGender(user.Gender)
	return user, nil
}
