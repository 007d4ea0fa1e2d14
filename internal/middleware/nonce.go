package middleware

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
)

// nonceKey is the context key for storing the generated nonce
// We use a separate key from templ's internal key so we can also access
// the nonce in SecurityHeaders middleware to inject into CSP header
type nonceKey struct{}

// NonceMiddleware generates a random nonce per request and stores it in
// the context, for page templates (templ.GetNonce) and for the CSP header
// written by SecurityHeaders. Only the inline script and style blocks
// carrying the nonce are allowed to run.
func NonceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Generate cryptographically secure random nonce
		nonce, err := generateNonce()
		if err != nil {
			slog.Error("failed to generate csp nonce", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		// Store nonce in context via templ's built-in method
		// This makes it available to templates via templ.GetNonce(ctx)
		ctx := templ.WithNonce(r.Context(), nonce)

		// Also store in our custom context key so SecurityHeaders can access it
		ctx = context.WithValue(ctx, nonceKey{}, nonce)

		// Continue with nonce in context
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetNonce retrieves the nonce from context for use in middleware
// (templates should use templ.GetNonce() instead)
func GetNonce(ctx context.Context) string {
	nonce, _ := ctx.Value(nonceKey{}).(string)
	return nonce
}

// generateNonce creates a cryptographically secure random nonce
// Returns a base64-encoded string of 16 random bytes (24 chars output)
func generateNonce() (string, error) {
	// 16 bytes = 128 bits of entropy (sufficient for CSP nonce)
	b := make([]byte, 16)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	// Base64 encode: 16 bytes -> 24 characters
	return base64.StdEncoding.EncodeToString(b), nil
}
