package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	slogmulti "github.com/samber/slog-multi"
	slogsentry "github.com/samber/slog-sentry/v2"
)

// Init builds the process logger and installs it as the slog default.
// Development: text format with Debug level
// Production: JSON format with Info level
// Errors are additionally forwarded to Sentry when a DSN is configured.
func Init(isDev bool, sentryDSN string) {
	slog.SetDefault(New(os.Stdout, isDev, sentryDSN))
}

// New returns a logger writing to w without touching the slog default.
func New(w io.Writer, isDev bool, sentryDSN string) *slog.Logger {
	var handlers []slog.Handler

	if isDev {
		handlers = append(handlers, slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		handlers = append(handlers, slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}

	if sentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              sentryDSN,
			TracesSampleRate: 1.0,
		})
		if err == nil {
			handlers = append(handlers, slogsentry.Option{
				Level: slog.LevelError,
			}.NewSentryHandler())
		}
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = slogmulti.Fanout(handlers...)
	} else {
		handler = handlers[0]
	}

	return slog.New(handler).With("app", "bikeshare")
}
