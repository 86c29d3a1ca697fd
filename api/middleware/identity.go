package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/lenditapp/lendit-backend/api/responses"
	pkgerrors "github.com/lenditapp/lendit-backend/pkg/errors"
	"github.com/lenditapp/lendit-backend/pkg/logger"
)

// IdentityHeader carries the caller-asserted numeric user identifier. It is
// trusted as-is; credential resolution is expected to happen upstream.
const IdentityHeader = "X-Sharer-User-Id"

// Identity parses the identity header when present and injects the caller id
// into the request context. A malformed header is rejected outright; absence
// is left for the handlers that require identity to report.
func Identity(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			raw := strings.TrimSpace(r.Header.Get(IdentityHeader))
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			callerID, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || callerID <= 0 {
				responses.WriteError(ctx, logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "identity header must be a positive integer").
						WithDetails(map[string]any{"header": IdentityHeader}))
				return
			}

			ctx = WithCallerID(ctx, callerID)
			if logg != nil {
				ctx = logg.WithUserID(ctx, callerID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireCaller extracts the caller id or returns the validation error the
// handler should surface.
func RequireCaller(r *http.Request) (int64, error) {
	callerID, ok := CallerFromContext(r.Context())
	if !ok {
		return 0, pkgerrors.Newf(pkgerrors.CodeValidation, "%s header is required", IdentityHeader)
	}
	return callerID, nil
}
