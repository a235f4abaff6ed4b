package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/streamvp/streamvp/internal/httputil"
)

// securityHeaders sets the response headers every page gets. The CSP
// whitelists exactly what the Telegram login widget needs: its loader
// script, the oauth iframe, and avatar images from t.me.
func securityHeaders(baseURL string) func(http.Handler) http.Handler {
	strictTransport := strings.HasPrefix(baseURL, "https://")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			nonce := httputil.GenerateNonce()
			ctx := httputil.ContextWithNonce(r.Context(), nonce)

			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "SAMEORIGIN")
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			csp := fmt.Sprintf(
				"default-src 'self'; img-src 'self' data: https://t.me https://*.telegram.org; media-src 'self'; script-src 'self' 'nonce-%s' https://telegram.org; style-src 'self' 'nonce-%s'; connect-src 'self'; frame-src https://oauth.telegram.org; frame-ancestors 'self';",
				nonce, nonce,
			)
			w.Header().Set("Content-Security-Policy", csp)

			if strictTransport {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
