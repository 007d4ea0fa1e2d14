package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/bikeshare/internal/ctxkeys"
)

const (
	csrfCookieName = "csrf_token"
	csrfFormField  = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
	csrfTokenLen   = 32
)

// multipartMemory is the in-memory budget for parsed file parts.
var multipartMemory int64 = 32 << 20

// CSRFProtection validates CSRF tokens on all state-changing requests
func CSRFProtection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Skip CSRF check for safe methods (GET, HEAD, OPTIONS)
		if r.Method == "GET" || r.Method == "HEAD" || r.Method == "OPTIONS" {
			token := getOrGenerateCSRFToken(w, r)
			ctx := ctxkeys.WithCSRFToken(r.Context(), token)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// Validate CSRF token for state-changing methods (POST, PUT, PATCH, DELETE)
		token := getOrGenerateCSRFToken(w, r)
		ctx := ctxkeys.WithCSRFToken(r.Context(), token)

		// Header first, then the form field. The body is parsed here either
		// way so handlers share one form; MaxBodySize runs before this.
		fieldToken, err := formToken(r)
		// net/http only cleans up forms parsed on the request it created
		defer removeMultipart(r)
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "Request body too large", http.StatusRequestEntityTooLarge)
			return
		}

		submittedToken := r.Header.Get(csrfHeader)
		if submittedToken == "" {
			submittedToken = fieldToken
		}

		// Validate token using constant-time comparison
		if !validCSRFToken(token, submittedToken) {
			slog.Warn("csrf validation failed",
				"path", r.URL.Path,
				"method", r.Method,
				"ip", getClientIP(r),
			)
			http.Error(w, "Invalid CSRF token", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// formToken reads the token field from a urlencoded or multipart body.
// File parts beyond multipartMemory spill to temp files.
func formToken(r *http.Request) (string, error) {
	err := r.ParseMultipartForm(multipartMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return "", err
	}
	return r.PostFormValue(csrfFormField), nil
}

func removeMultipart(r *http.Request) {
	if r.MultipartForm == nil {
		return
	}
	err := r.MultipartForm.RemoveAll()
	if err != nil {
		slog.Warn("failed to remove multipart temp files", "error", err, "path", r.URL.Path)
	}
}

// getOrGenerateCSRFToken retrieves existing token or generates new one
func getOrGenerateCSRFToken(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(csrfCookieName)
	if err == nil && cookie.Value != "" && len(cookie.Value) == base64.RawURLEncoding.EncodedLen(csrfTokenLen) {
		return cookie.Value
	}

	token := generateCSRFToken()

	cfg := ctxkeys.Config(r.Context())
	secure := cfg != nil && cfg.SecureCookies()

	// Set cookie with SameSite=Lax for CSRF protection
	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure, // from APP_ENV / COOKIE_SECURE, r.TLS is unreliable behind load balancers
		SameSite: http.SameSiteLaxMode,
		MaxAge:   86400 * 7, // 7 days
	})

	return token
}

// generateCSRFToken creates cryptographically secure random token
func generateCSRFToken() string {
	bytes := make([]byte, csrfTokenLen)
	_, err := rand.Read(bytes)
	if err != nil {
		panic("failed to generate csrf token: " + err.Error())
	}
	return base64.RawURLEncoding.EncodeToString(bytes)
}

// validCSRFToken performs constant-time comparison of tokens
func validCSRFToken(expected, actual string) bool {
	if expected == "" || actual == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(actual)) == 1
}
