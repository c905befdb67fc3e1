package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// Token restricts next to callers presenting token, either as a bearer token
// or in X-API-Key. An empty token leaves next open.
func Token(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := presentedToken(r)
			if got == "" || subtle.ConstantTimeCompare([]byte(token), []byte(got)) != 1 {
				w.Header().Set("WWW-Authenticate", `Bearer realm="metrics"`)
				http.Error(w, "unauthorized (request "+GetRequestID(r.Context())+")", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func presentedToken(r *http.Request) string {
	if auth, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(auth)
	}
	return r.Header.Get("X-API-Key")
}
