package middleware

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/templui/bikeshare/internal/config"
	"github.com/templui/bikeshare/internal/ctxkeys"
)

// SecurityHeaders sets the browser hardening headers and a nonce based
// Content-Security-Policy. Needs NonceMiddleware and Config earlier in the chain.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Content-Security-Policy", contentSecurityPolicy(GetNonce(r.Context()), ctxkeys.Config(r.Context())))
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

		next.ServeHTTP(w, r)
	})
}

func contentSecurityPolicy(nonce string, cfg *config.Config) string {
	scriptSrc := "'self'"
	styleSrc := "'self'"
	if nonce != "" {
		scriptSrc += fmt.Sprintf(" 'nonce-%s'", nonce)
		styleSrc += fmt.Sprintf(" 'nonce-%s'", nonce)
	}

	// Charts are inline SVG data URIs; profile images may come from S3
	imgSrc := []string{"'self'", "data:"}
	if cfg != nil && cfg.StorageDriver == config.StorageS3 {
		imgSrc = append(imgSrc, s3ImageOrigin(cfg))
	}

	return strings.Join([]string{
		"default-src 'self'",
		"script-src " + scriptSrc,
		"style-src " + styleSrc,
		"img-src " + strings.Join(imgSrc, " "),
		"font-src 'self'",
		"connect-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
		"base-uri 'self'",
		"object-src 'none'",
	}, "; ")
}

// s3ImageOrigin is the custom endpoint origin, or any https origin for AWS
// where the bucket host varies by region.
func s3ImageOrigin(cfg *config.Config) string {
	if cfg.S3Endpoint == "" {
		return "https:"
	}
	u, err := url.Parse(cfg.S3Endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "https:"
	}
	return u.Scheme + "://" + u.Host
}
