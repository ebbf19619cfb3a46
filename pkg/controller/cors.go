package controller

import (
	"net/http"
	"strings"
)

var (
	corsAllowHeaders = strings.Join([]string{ //nolint: gochecknoglobals
		"Accept", "Authorization", "Cache-Control", "Content-Type", "Content-Length", "Origin", RequestIDHeader,
	}, ", ")
	// downloads are named through Content-Disposition
	corsExposeHeaders = strings.Join([]string{"Content-Disposition", RequestIDHeader}, ", ") //nolint: gochecknoglobals
)

// corsMaxAge lets browsers cache a preflight answer for ten minutes.
const corsMaxAge = "600"

// WithCORS allows browser clients from any origin to call the API. Credentials
// are not allowed; the API authenticates with bearer tokens. Preflight requests
// are answered with 204 No Content without reaching next.
func WithCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Expose-Headers", corsExposeHeaders)

		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)
			w.WriteHeader(http.StatusNoContent)

			return
		}

		next.ServeHTTP(w, r)
	})
}
