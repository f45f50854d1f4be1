package middleware

import (
	"net/http"
	"strings"
)

// AuthMiddleware gates the API behind the 'authenticated=true' cookie.
// The login endpoint, static assets and the frame-upload endpoint stay open
// so capture clients can push without a browser session.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth/login" ||
			r.URL.Path == "/login" ||
			r.URL.Path == "/login.html" ||
			r.URL.Path == "/api/capture" ||
			strings.HasPrefix(r.URL.Path, "/static/") {
			next.ServeHTTP(w, r)
			return
		}

		cookie, err := r.Cookie("authenticated")
		if err != nil || cookie.Value != "true" {
			if r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
				strings.HasPrefix(r.URL.Path, "/api/") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
