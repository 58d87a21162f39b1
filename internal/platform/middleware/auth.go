package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	id "taxfill/pkg/domain"
	dErrors "taxfill/pkg/domain-errors"
	"taxfill/pkg/platform/httputil"
	"taxfill/pkg/requestcontext"
)

// TokenValidator turns a bearer token into the authenticated user identity.
type TokenValidator interface {
	ExtractUserID(tokenString string) (id.UserID, error)
}

// RequireAuth rejects requests without a valid bearer token and puts the
// authenticated user ID on the request context.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized,
					"missing or invalid Authorization header"))
				return
			}

			userID, err := validator.ExtractUserID(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"request_id", requestcontext.RequestID(ctx),
					"error", err,
				)
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithUserID(ctx, userID)))
		})
	}
}
