package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/kanworks/kanapi/app/observability/metrics"
	"github.com/kanworks/kanapi/internal/api"
	"github.com/kanworks/kanapi/internal/types"
)

// TokenSource selects where a route group reads its session token from.
// A route honors exactly one source; there is no fallback from header to
// cookie or back on a single route.
type TokenSource int

const (
	SourceBearer TokenSource = iota
	SourceCookie
)

type contextKey string

const userContextKey contextKey = "authenticatedUser"

// Authenticate returns middleware that resolves the request's session token
// via the given source and, on success, stores the fresh identity in the
// request context. Every failure in the taxonomy maps to the same 401 body;
// the distinction survives only in logs.
func Authenticate(service AuthService, source TokenSource, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "Authenticate"))

			token, err := extractToken(r, source)
			if err != nil {
				l.WarnContext(ctx, "Malformed session artifact", slog.Any("error", err))
				metrics.Get().TokenRejectionsTotal.Add(ctx, 1)
				api.ErrorResponse(w, r, http.StatusUnauthorized, "Could not validate credentials")
				return
			}

			user, err := service.Resolve(ctx, token)
			if err != nil {
				if Unauthorized(err) {
					l.WarnContext(ctx, "Session resolution rejected", slog.Any("error", err))
					metrics.Get().TokenRejectionsTotal.Add(ctx, 1)
					api.ErrorResponse(w, r, http.StatusUnauthorized, "Could not validate credentials")
					return
				}
				l.ErrorContext(ctx, "Session resolution failed on store lookup", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusServiceUnavailable, "Service temporarily unavailable")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, userContextKey, user)))
		})
	}
}

// extractToken reads the raw token from the configured source. An absent
// artifact yields an empty token (Resolve turns that into NotAuthenticated);
// a present but malformed Authorization header is an error here.
func extractToken(r *http.Request, source TokenSource) (string, error) {
	switch source {
	case SourceCookie:
		cookie, err := r.Cookie(SessionCookieName)
		if err != nil {
			return "", nil
		}
		return cookie.Value, nil
	default:
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			return "", nil
		}
		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
			return "", ErrNotAuthenticated
		}
		return headerParts[1], nil
	}
}

// GetUserFromContext returns the identity stored by the Authenticate middleware.
func GetUserFromContext(ctx context.Context) (*types.User, bool) {
	user, ok := ctx.Value(userContextKey).(*types.User)
	return user, ok
}
