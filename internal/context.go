package internal

import (
	"context"
	"time"
)

type Role string

const (
	RoleDirector Role = "director"
	RoleAdmin    Role = "admin"
	RoleViewer   Role = "viewer"
)

// Roles lists every assignable role.
var Roles = []Role{RoleDirector, RoleAdmin, RoleViewer}

func (r Role) Valid() bool {
	for _, known := range Roles {
		if r == known {
			return true
		}
	}
	return false
}

// Session is the authenticated identity bound to a client for the lifetime of its cookie.
type Session struct {
	ID       string `json:"-"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

func (s Session) IsAdminOrDirector() bool {
	return s.Role == RoleAdmin || s.Role == RoleDirector
}

func (s Session) IsDirector() bool {
	return s.Role == RoleDirector
}

// RoleCheck is an authorization predicate evaluated against the current session.
type RoleCheck func(Session) bool

var (
	AnyRole           RoleCheck = func(Session) bool { return true }
	IsAdminOrDirector RoleCheck = Session.IsAdminOrDirector
	IsDirector        RoleCheck = Session.IsDirector
)

type ctxKey string

const ContextSessionKey ctxKey = "session"

func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ContextSessionKey, s)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	s, ok := ctx.Value(ContextSessionKey).(Session)
	return s, ok
}

// Authorize checks session presence first and the role predicate second.
func Authorize(ctx context.Context, check RoleCheck) (Session, error) {
	s, ok := SessionFromContext(ctx)
	if !ok {
		return Session{}, ErrSessionRequired
	}
	if check != nil && !check(s) {
		return s, ErrInsufficientRole
	}
	return s, nil
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
