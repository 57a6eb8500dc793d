package auth

import (
	"net/http"
	"strings"

	"github.com/BuzzLyutic/taskflow-api/pkg/respond"
)

// Middleware проверяет Bearer-токен и кладет Identity в контекст запроса
func Middleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				respond.Error(w, r, http.StatusUnauthorized, "unauthenticated", "missing bearer token")
				return
			}

			ident, err := v.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				respond.Error(w, r, http.StatusUnauthorized, "unauthenticated", "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), ident)))
		})
	}
}
