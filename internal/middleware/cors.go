// internal/middleware/cors.go
//
// CORS headers and preflight handling.
//
// Context
// -------
// The admin dashboard is served from the same origin and needs nothing
// here, but external dashboards and scripted clients may live elsewhere.
// Allowed origins come from configuration (`cors.allow_origins`, CSV).
// An empty list, or a list containing "*", allows every origin.
//
// Notes
// -----
// • When the allow-list is explicit we echo the matching Origin back and
//   set `Vary: Origin`, matched or not, so caches key on the header.
// • Preflight OPTIONS requests short-circuit with 204.
// • Oxford commas, two spaces after periods.

package middleware

import "net/http"

// CORS returns a middleware that applies the origin allow-list.
func CORS(origins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			value, vary := resolveAllowOrigin(origins, r.Header.Get("Origin"))
			if value != "" {
				w.Header().Set("Access-Control-Allow-Origin", value)
			}
			if vary {
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func resolveAllowOrigin(origins []string, requestOrigin string) (value string, vary bool) {
	if len(origins) == 0 {
		return "*", false
	}
	for _, o := range origins {
		if o == "*" {
			return "*", false
		}
	}

	if requestOrigin == "" {
		return "", true
	}
	for _, o := range origins {
		if o == requestOrigin {
			return requestOrigin, true
		}
	}
	return "", true
}
