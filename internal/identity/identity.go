// Package identity assigns each browser or API client an anonymous session ID.
package identity

import (
	"context"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	SessionCookieName = "lineage_session"
	SessionHeaderName = "X-Lineage-Session-ID"
	sessionCookieTTL  = 12 * time.Hour
)

type contextKey int

const sessionIDKey contextKey = iota

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// SessionIDFromContext extracts the session ID from the request context.
func SessionIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(sessionIDKey).(string); ok {
		return v
	}
	return ""
}

// WithSessionID stores a session ID in ctx.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

func isValidSessionID(id string) bool {
	return sessionIDPattern.MatchString(id)
}

func setSessionCookie(w http.ResponseWriter, id string, isDev bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessionCookieTTL.Seconds()),
		Expires:  time.Now().Add(sessionCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   !isDev,
	})
}

// sessionIDFromRequest prefers an explicit header (API clients), then the
// cookie, and mints a new ID otherwise.
func sessionIDFromRequest(w http.ResponseWriter, r *http.Request, isDev bool) string {
	if sid := strings.TrimSpace(r.Header.Get(SessionHeaderName)); isValidSessionID(sid) {
		return sid
	}
	if c, err := r.Cookie(SessionCookieName); err == nil && isValidSessionID(c.Value) {
		setSessionCookie(w, c.Value, isDev)
		return c.Value
	}
	id := uuid.NewString()
	setSessionCookie(w, id, isDev)
	return id
}

// Middleware injects the caller's session ID into the request context.
func Middleware(isDev bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := sessionIDFromRequest(w, r, isDev)
			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}

// IPFromRequest returns a normalized remote IP for optional request tracing.
func IPFromRequest(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
