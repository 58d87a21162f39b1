package middleware

import (
	"net/http"
	"time"

	"taxfill/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and
// stores it in the context, so every timestamp taken while serving one
// request agrees.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
