package middleware

import (
	"log/slog"
	"net/http"

	"github.com/ashureev/sproc-lineage/internal/identity"
	"github.com/ashureev/sproc-lineage/internal/logger"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// RequestLogger stores a logger tagged with the request and session IDs in
// the request context. It must run after chi's RequestID and identity.Middleware.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base.With(
				slog.String("request_id", chiMiddleware.GetReqID(r.Context())),
				slog.String("session_id", identity.SessionIDFromContext(r.Context())),
				slog.String("remote_ip", identity.IPFromRequest(r)),
			)
			next.ServeHTTP(w, r.WithContext(logger.WithContext(r.Context(), l)))
		})
	}
}
