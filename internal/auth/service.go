package auth

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/audit"
	userDatamodel "github.com/frahmantamala/inventory-management/internal/core/datamodel/user"
	"github.com/frahmantamala/inventory-management/internal/user"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
}

type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, details string)
}

// Service is the main auth service with dependencies
type Service struct {
	users  UserRepository
	audit  AuditRecorder
	logger *slog.Logger
}

// NewService creates a new auth service
func NewService(users UserRepository, recorder AuditRecorder, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		audit:  recorder,
		logger: logger,
	}
}

// Authenticate checks credentials in a fixed order: the username must exist,
// the account must not be suspended, and only then is the password verified.
// A suspended account is refused whether or not the password matches.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (internal.Session, error) {
	if !dto.complete() {
		return internal.Session{}, internal.ErrInvalidCredentials
	}

	data, err := s.users.GetByUsername(ctx, dto.Username)
	if err != nil {
		s.logger.Error("failed to look up user", "error", err)
		return internal.Session{}, internal.NewInternalError("Login failed", err)
	}
	if data == nil {
		return internal.Session{}, internal.ErrInvalidCredentials
	}

	u := user.FromDataModel(data)
	if u.IsSuspended() {
		s.logger.Warn("login refused for suspended user", "user_id", u.ID)
		return internal.Session{}, internal.ErrUserSuspended
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return internal.Session{}, internal.ErrInvalidCredentials
	}

	return u.ToSession(), nil
}

// RecordLogin audits a login once the session for sess has been issued.
func (s *Service) RecordLogin(ctx context.Context, sess internal.Session) {
	s.audit.Record(internal.ContextWithSession(ctx, sess), audit.ActionUserLogin, "")
}

// RecordLogout audits a logout, attributed to the session in ctx if there is one.
func (s *Service) RecordLogout(ctx context.Context) {
	s.audit.Record(ctx, audit.ActionUserLogout, "")
}
