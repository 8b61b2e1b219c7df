package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/session"
	"github.com/frahmantamala/inventory-management/pkg/logger"
)

// SessionLoader reads the session a request carries.
type SessionLoader interface {
	Load(r *http.Request) (internal.Session, error)
}

// Session attaches the caller's session to the request context when the cookie
// is valid. Requests without one pass through anonymously; the guards and the
// services decide what that means.
func Session(loader SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := loader.Load(r)
			if err != nil {
				if !errors.Is(err, session.ErrNoSession) {
					logger.From(r.Context()).Debug("ignoring session cookie", "error", err)
				}
				next.ServeHTTP(w, r)
				return
			}

			ctx := internal.ContextWithSession(r.Context(), sess)
			ctx = logger.With(ctx, "user_id", sess.UserID, "role", sess.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose session is missing (401) or fails check (403).
func RequireRole(check internal.RoleCheck) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := internal.Authorize(r.Context(), check)
			if err != nil {
				if errors.Is(err, internal.ErrInsufficientRole) {
					logger.From(r.Context()).Warn("access denied", "user_id", sess.UserID, "role", sess.Role, "path", r.URL.Path)
				}
				writeAppError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSession rejects anonymous requests with 401.
func RequireSession(next http.Handler) http.Handler {
	return RequireRole(internal.AnyRole)(next)
}

func writeAppError(w http.ResponseWriter, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("Internal server error", err)
	}
	status, body := appErr.ToHTTPResponse()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
