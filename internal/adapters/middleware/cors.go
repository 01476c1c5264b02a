package middleware

import (
	"net/http"
)

// CORSMiddleware sets cross-origin headers for browsers talking to the API
// from another host. Preflight OPTIONS requests are answered directly and
// never reach the routed handlers.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if allowOrigin := resolveOrigin(origin, allowedOrigins); allowOrigin != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", allowOrigin)
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
				h.Set("Access-Control-Allow-Credentials", "true")
				h.Set("Access-Control-Max-Age", "86400") // 24 hours
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// resolveOrigin returns the Allow-Origin value to advertise, or "" when the
// request origin is not on the allow list. A configured "*" matches any
// origin; the echoed origin is preferred so credentialed requests work.
func resolveOrigin(origin string, allowedOrigins []string) string {
	for _, allowed := range allowedOrigins {
		if allowed != "*" && allowed != origin {
			continue
		}
		if origin != "" {
			return origin
		}
		if allowed == "*" {
			return "*"
		}
	}
	return ""
}
