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
)

type AccountHandler struct {
	accountService *service.AccountService
	sessions       *session.Manager
}

func NewAccountHandler(accountService *service.AccountService, sessions *session.Manager) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		sessions:       sessions,
	}
}

func (h *AccountHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Register(pages.RegisterForm{}, nil))
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := validation.RegisterForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Name:     strings.TrimSpace(r.FormValue("name")),
		Gender:   r.FormValue("gender"),
		Phone:    strings.TrimSpace(r.FormValue("phone")),
	}
	if form.Gender == "" {
		form.Gender = model.GenderUnspecified
	}

	echo := pages.RegisterForm{
		Email:  form.Email,
		Name:   form.Name,
		Gender: form.Gender,
		Phone:  form.Phone,
	}

	err := validation.ValidateForm(form)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(metrics.ResultInvalid).Inc()
		slog.Info("registration rejected", "reason", "invalid", "error", err, "email", form.Email)
		ui.Render(w, r, pages.Register(echo, pages.Error("register.failed")))
		return
	}

	_, err = h.accountService.RegisterUser(r.Context(), form.Email, form.Password, form.Name, form.Gender, form.Phone)
	if err != nil {
		if errors.Is(err, service.ErrDuplicateAccount) {
			metrics.RegistrationsTotal.WithLabelValues(metrics.ResultDuplicate).Inc()
			slog.Info("registration rejected", "reason", "duplicate", "email", form.Email)
		} else {
			metrics.RegistrationsTotal.WithLabelValues(metrics.ResultError).Inc()
			slog.Error("registration failed", "error", err, "email", form.Email)
		}
		// One message for both, the page does not reveal which emails exist
		ui.Render(w, r, pages.Register(echo, pages.Error("register.failed")))
		return
	}

	metrics.RegistrationsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	slog.Info("user registered", "email", form.Email)
	ui.Render(w, r, pages.Register(pages.RegisterForm{}, pages.Success("register.success")))
}

func (h *AccountHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Login("", nil))
}

// Login answers an unknown email and a wrong password with the same page.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	form := validation.LoginForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}

	err := validation.ValidateForm(form)
	if err == nil {
		var user *model.User
		user, err = h.accountService.Authenticate(r.Context(), form.Email, form.Password)
		if err == nil {
			h.login(w, r, user.Email)
			return
		}
	}

	switch {
	case errors.Is(err, service.ErrStorage):
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		slog.Error("login failed", "error", err, "email", form.Email)
	default:
		metrics.LoginsTotal.WithLabelValues(metrics.ResultFailure).Inc()
		slog.Info("login failed", "email", form.Email)
	}
	ui.Render(w, r, pages.Login(form.Email, pages.Error("login.failed")))
}

func (h *AccountHandler) login(w http.ResponseWriter, r *http.Request, email string) {
	st := ctxkeys.Session(r.Context()).Login(email)

	err := h.sessions.Save(w, r, st)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(metrics.ResultError).Inc()
		slog.Error("failed to save session", "error", err, "email", email)
		ui.Render(w, r, pages.Login(email, pages.Error("login.failed")))
		return
	}

	metrics.LoginsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	slog.Info("user logged in", "email", email)

	r = r.WithContext(ctxkeys.WithSession(r.Context(), st))
	ui.Render(w, r, pages.Login("", pages.Success("login.success")))
}

// LogoutPage confirms the logout. The session was reset when the view was
// selected.
func (h *AccountHandler) LogoutPage(w http.ResponseWriter, r *http.Request) {
	ui.Render(w, r, pages.Logout())
}

func invalidForm(err error) *pages.Flash {
	var fe *validation.FormError
	if errors.As(err, &fe) {
		return pages.Error("form.invalid", strings.Join(fe.Fields, ", "))
	}
	return pages.Error("form.invalid", "")
}
