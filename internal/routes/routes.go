package routes

import (
	"io/fs"
	"net/http"

	"github.com/templui/bikeshare/assets"
	"github.com/templui/bikeshare/internal/app"
	"github.com/templui/bikeshare/internal/handler"
	"github.com/templui/bikeshare/internal/metrics"
	"github.com/templui/bikeshare/internal/middleware"
	"github.com/templui/bikeshare/internal/storage"
	"github.com/templui/bikeshare/internal/view"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	home := handler.NewHomeHandler(app.ContentService)
	account := handler.NewAccountHandler(app.AccountService, app.Sessions)
	profile := handler.NewProfileHandler(app.AccountService, app.Sessions, app.Cfg.MaxUploadSize)
	eda := handler.NewEDAHandler(app.EDAEngine, app.Cfg.MaxUploadSize)
	health := handler.NewHealthHandler(app.DB)

	// Menu views, selected with GET /{view}
	views := handler.NewViewHandler(app.Sessions, map[view.View]http.HandlerFunc{
		view.Home:     home.HomePage,
		view.Register: account.RegisterPage,
		view.Login:    account.LoginPage,
		view.Profile:  profile.ProfilePage,
		view.EDA:      eda.EDAPage,
		view.Logout:   account.LogoutPage,
	}, home.NotFoundPage)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	// Static files
	sub, _ := fs.Sub(assets.AssetsFS, ".")
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.FS(sub))))

	// Profile images on local disk (S3 images are served by the bucket)
	if local, ok := app.Storage.(*storage.LocalStorage); ok {
		mux.HandleFunc("GET /uploads/{name}", handler.NewUploadsHandler(local).Serve)
	}

	// Operations
	mux.Handle("GET /metrics", metrics.Handler())
	mux.HandleFunc("GET /healthz", health.Check)

	// Views
	mux.HandleFunc("GET /{$}", views.Home)
	mux.HandleFunc("GET /{view}", views.Select)

	// Form submissions
	mux.HandleFunc("POST /register", account.Register)
	mux.HandleFunc("POST /login", account.Login)
	mux.HandleFunc("POST /profile", profile.Save)
	mux.HandleFunc("POST /eda", eda.Analyze)

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", home.NotFoundPage)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg), // Config must be first (needed by SecurityHeaders for S3 endpoint)
		middleware.NonceMiddleware, // Generate CSP nonce for each request (must be before SecurityHeaders)
		middleware.SecurityHeaders, // Security headers for all responses (XSS, clickjacking, etc.)
		middleware.Metrics,
		middleware.RequestLogging,
		middleware.MaxBodySize(app.Cfg.MaxUploadSize+1<<20), // Room for the form fields around the largest upload
		middleware.CSRFProtection, // CSRF protection for all state-changing requests
		middleware.Session(app.Sessions),
		middleware.WithURLPath,
	)

	return handler
}
