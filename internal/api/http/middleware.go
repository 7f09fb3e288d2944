package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"bikeshare-backend/internal/logger"
	"bikeshare-backend/internal/security"
)

type contextKey string

const userIDKey contextKey = "user_id"

// userIDFrom returns the authenticated user's ID placed by authMiddleware.
func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// authMiddleware requires a valid Bearer access token and stores the
// caller's user ID on the request context.
func authMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				writeErrorCode(w, http.StatusUnauthorized, "MISSING_TOKEN", "missing bearer token")
				return
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				writeError(w, r, err)
				return
			}
			if claims.Type != security.TokenTypeAccess {
				writeError(w, r, security.ErrWrongTokenType)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.InfoContext(r.Context(), "request",
			"method", r.Method, "path", r.URL.Path, "duration_ms", time.Since(start).Milliseconds())
	})
}
