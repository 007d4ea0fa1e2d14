package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageLocal = "local"
	StorageS3    = "s3"
)

type Config struct {
	// Application
	AppName     string
	AppEnv      string
	AppLocale   string // "en" or "ko"
	Port        string
	ContentPath string

	// Database (optional driver switch via ENV, default: sqlite)
	DBDriver     string
	DBConnection string

	// Accounts
	PasswordDigest     string // "sha256" or "blake2b"
	SessionName        string
	SessionIdleTimeout time.Duration
	CookieSecure       bool

	// Uploads
	StorageDriver  string // "local" or "s3"
	UploadPath     string
	MaxUploadSize  int64
	EDAPreviewRows int

	// Observability (optional)
	SentryDSN string

	// Storage (S3-compatible: MinIO, AWS S3, Cloudflare R2, DigitalOcean Spaces, etc.)
	S3Region              string
	S3Bucket              string
	S3AccessKey           string
	S3SecretKey           string
	S3Endpoint            string        // Optional: for S3-compatible services (MinIO, DO Spaces, R2, etc.)
	S3PresignExpiryPublic time.Duration // Expiry for profile image URLs - default: 7 days
}

func Load() *Config {
	// Load .env file if it exists
	err := godotenv.Load()
	if err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := &Config{
		// Application
		AppName:     envString("APP_NAME", "Bike Sharing App"),
		AppEnv:      envString("APP_ENV", "development"),
		AppLocale:   envString("APP_LOCALE", "en"),
		Port:        envString("PORT", "8090"),
		ContentPath: envString("CONTENT_PATH", "content"),

		// Database
		DBDriver:     envString("DB_DRIVER", "sqlite"),
		DBConnection: envString("DB_CONNECTION", "./users.db?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"),

		// Accounts
		PasswordDigest:     envString("PASSWORD_DIGEST", "sha256"),
		SessionName:        envString("SESSION_NAME", "bikeshare_session"),
		SessionIdleTimeout: envDuration("SESSION_IDLE_TIMEOUT", 12*time.Hour),

		// Uploads
		StorageDriver:  envString("STORAGE_DRIVER", StorageLocal),
		UploadPath:     envString("UPLOAD_PATH", "uploads"),
		MaxUploadSize:  envInt64("MAX_UPLOAD_SIZE", 200<<20), // 200 MB
		EDAPreviewRows: int(envInt64("EDA_PREVIEW_ROWS", 5)),

		// Observability
		SentryDSN: envString("SENTRY_DSN", ""),

		// Storage
		S3Region:              envString("S3_REGION", ""),
		S3Bucket:              envString("S3_BUCKET", ""),
		S3AccessKey:           envString("S3_ACCESS_KEY", ""),
		S3SecretKey:           envString("S3_SECRET_KEY", ""),
		S3Endpoint:            envString("S3_ENDPOINT", ""),
		S3PresignExpiryPublic: envDuration("S3_PRESIGN_EXPIRY_PUBLIC", 168*time.Hour),
	}

	// COOKIE_SECURE overrides the APP_ENV based default
	cfg.CookieSecure = envBool("COOKIE_SECURE", cfg.IsProduction())

	// S3 storage: bucket and credentials are mandatory
	if cfg.StorageDriver == StorageS3 {
		cfg.S3Region = envRequired("S3_REGION")
		cfg.S3Bucket = envRequired("S3_BUCKET")
		cfg.S3AccessKey = envRequired("S3_ACCESS_KEY")
		cfg.S3SecretKey = envRequired("S3_SECRET_KEY")
	}

	return cfg
}

func envString(key, def string) string {
	value := os.Getenv(key)
	if value == "" {
		value = def
	}
	return value
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("config invalid bool, using default", "key", key, "value", v, "default", def)
		return def
	}
	return b
}

func envInt64(key string, def int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		slog.Warn("config invalid integer, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("config invalid duration, using default", "key", key, "value", v, "default", def)
		return def
	}
	return d
}

func envRequired(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	slog.Error("config required env var missing", "key", key)
	os.Exit(1)
	return ""
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return c.CookieSecure
}

// Sanitized returns a copy of the config with only public/safe fields.
// Safe to expose in ctx and templates.
func (c *Config) Sanitized() *Config {
	return &Config{
		AppName:       c.AppName,
		AppEnv:        c.AppEnv,
		AppLocale:     c.AppLocale,
		Port:          c.Port,
		StorageDriver: c.StorageDriver,
		MaxUploadSize: c.MaxUploadSize,
		CookieSecure:  c.CookieSecure,

		S3Endpoint: c.S3Endpoint, // Needed for CSP policies
		S3Region:   c.S3Region,
	}
}
