// Package caller authenticates the calling principal from a bearer token.
package caller

import (
	"log/slog"
	"net/http"
	"strings"

	"vcissuer/pkg/domain"
	dErrors "vcissuer/pkg/domain-errors"
	"vcissuer/pkg/platform/httputil"
	"vcissuer/pkg/requestcontext"
)

// Validator turns a bearer token into a caller principal.
type Validator interface {
	Validate(tokenString string) (domain.Principal, error)
}

// Middleware resolves the caller principal. Requests without an
// Authorization header continue as the anonymous principal; requests with an
// invalid token are rejected with 401.
func Middleware(validator Validator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(ctx, domain.AnonymousPrincipal)))
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - malformed authorization header",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			principal, err := validator.Validate(strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(ctx, principal)))
		})
	}
}
