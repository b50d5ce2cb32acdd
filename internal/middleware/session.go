package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"admin-console/internal/model"
	"admin-console/internal/session"
)

type sessionChecker interface {
	CheckAuth(ctx context.Context) (session.State, error)
}

type contextKey string

const sessionContextKey contextKey = "console_session"

// SessionGate lets a request through only while the stored credentials form
// a valid admin session.
type SessionGate struct {
	checker   sessionChecker
	loginPath string
}

func NewSessionGate(checker sessionChecker, loginPath string) *SessionGate {
	if loginPath == "" {
		loginPath = "/login"
	}
	return &SessionGate{checker: checker, loginPath: loginPath}
}

func (g *SessionGate) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, err := g.checker.CheckAuth(r.Context())
		if err != nil {
			slog.Error("session check failed", "error", err)
			writeJSONError(w, http.StatusServiceUnavailable, "SESSION_UNAVAILABLE", "Session state could not be read", "")
			return
		}

		if !state.Authenticated() {
			writeJSONError(w, http.StatusUnauthorized, "LOGIN_REQUIRED", "Session expired or missing, please log in", g.loginPath)
			return
		}

		noteUser(r.Context(), state.Session.User.ID)
		ctx := context.WithValue(r.Context(), sessionContextKey, *state.Session)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFromContext returns the session attached by RequireSession.
func SessionFromContext(ctx context.Context) (model.Session, bool) {
	s, ok := ctx.Value(sessionContextKey).(model.Session)
	return s, ok
}
