// Package middleware provides HTTP middleware for the assistant API.
package middleware

import "net/http"

// CORS sets the open-origin header on every response. Preflight
// specifics (allowed methods, max-age) are answered per route, since
// each handler allows a different method set.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		next.ServeHTTP(w, r)
	})
}
