package controller

import "net/http"

// WithBodyLimit returns a middleware that caps request bodies at limit bytes.
// Reads past the limit fail with *http.MaxBytesError.
func WithBodyLimit(limit int64, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && limit > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}

		next.ServeHTTP(w, r)
	})
}
