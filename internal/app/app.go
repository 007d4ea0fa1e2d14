package app

import (
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"github.com/jmoiron/sqlx"

	"github.com/templui/bikeshare"
	"github.com/templui/bikeshare/internal/config"
	"github.com/templui/bikeshare/internal/db"
	"github.com/templui/bikeshare/internal/eda"
	"github.com/templui/bikeshare/internal/metrics"
	"github.com/templui/bikeshare/internal/repository"
	"github.com/templui/bikeshare/internal/service"
	"github.com/templui/bikeshare/internal/session"
	"github.com/templui/bikeshare/internal/storage"
)

// How often idle sessions are swept
const sessionSweepInterval = time.Minute

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Storage        storage.Storage
	AccountService *service.AccountService
	ContentService *service.ContentService
	EDAEngine      *eda.Engine
	SessionStore   *session.MemoryStore
	Sessions       *session.Manager

	stopJanitor func()
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	digester, err := service.NewDigester(cfg.PasswordDigest)
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to initialize password digest: %w", err)
	}
	accountService := service.NewAccountService(userRepository, fileStorage, digester)

	content, err := fs.Sub(bikeshare.ContentFS, "content")
	if err != nil {
		_ = db.Close(database)
		return nil, fmt.Errorf("failed to open embedded content: %w", err)
	}
	contentService := service.NewContentService(cfg.ContentPath, content)

	// Sessions live in memory only; the cookie ends with the browser session
	store := session.NewMemoryStore(cfg.SessionIdleTimeout, &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.SecureCookies(),
		SameSite: http.SameSiteLaxMode,
	})
	metrics.RegisterSessionGauge(store.Len)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Storage:        fileStorage,
		AccountService: accountService,
		ContentService: contentService,
		EDAEngine:      eda.NewEngine(cfg.EDAPreviewRows),
		SessionStore:   store,
		Sessions:       session.NewManager(store, cfg.SessionName),
		stopJanitor:    store.StartJanitor(sessionSweepInterval),
	}, nil
}

func (a *App) Close() error {
	if a.stopJanitor != nil {
		a.stopJanitor()
	}
	if a.DB != nil {
		return db.Close(a.DB)
	}
	return nil
}
