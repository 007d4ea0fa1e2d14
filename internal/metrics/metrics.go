package metrics

import (
	"errors"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result label values
const (
	ResultSuccess   = "success"
	ResultDuplicate = "duplicate"
	ResultFailure   = "failure"
	ResultInvalid   = "invalid"
	ResultError     = "error"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bikeshare_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Account metrics
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_registrations_total",
			Help: "Registration attempts by result",
		},
		[]string{"result"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)

	ProfileUpdatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_profile_updates_total",
			Help: "Profile saves by result",
		},
		[]string{"result"},
	)

	// EDA metrics
	EDAUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bikeshare_eda_uploads_total",
			Help: "EDA uploads by result",
		},
		[]string{"result"},
	)

	EDARowsAnalyzed = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bikeshare_eda_rows",
			Help:    "Rows per analyzed EDA upload",
			Buckets: prometheus.ExponentialBuckets(10, 10, 6),
		},
	)
)

// RegisterSessionGauge exposes the number of live sessions. Calling it
// again keeps the first registration.
func RegisterSessionGauge(count func() int) {
	gauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "bikeshare_sessions_active",
			Help: "Sessions currently held in memory",
		},
		func() float64 { return float64(count()) },
	)

	err := prometheus.Register(gauge)
	var are prometheus.AlreadyRegisteredError
	if err != nil && !errors.As(err, &are) {
		panic(err)
	}
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// knownRoutes are label values kept verbatim; anything else collapses
var knownRoutes = map[string]bool{
	"/":         true,
	"/home":     true,
	"/login":    true,
	"/register": true,
	"/profile":  true,
	"/eda":      true,
	"/logout":   true,
	"/metrics":  true,
	"/healthz":  true,
}

// Route normalizes a URL path to a bounded label value
func Route(path string) string {
	switch {
	case knownRoutes[path]:
		return path
	case strings.HasPrefix(path, "/uploads/"):
		return "/uploads/{name}"
	case strings.HasPrefix(path, "/assets/"):
		return "/assets/"
	default:
		return "other"
	}
}
