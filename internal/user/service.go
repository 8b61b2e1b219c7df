package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/audit"
	userDatamodel "github.com/frahmantamala/inventory-management/internal/core/datamodel/user"
	"golang.org/x/crypto/bcrypt"
)

// Repository is the credential store. Lookups return nil, nil for an absent
// user and writes return internal.ErrUsernameExists on a username collision.
type Repository interface {
	List(ctx context.Context) ([]*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	Update(ctx context.Context, id int64, changes map[string]interface{}) error
	SetStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
	InsertEach(ctx context.Context, users []*userDatamodel.User) ([]error, error)
}

// AuditRecorder receives an entry after each committed change.
type AuditRecorder interface {
	Record(ctx context.Context, action audit.Action, details string)
}

type Service struct {
	repo       Repository
	audit      AuditRecorder
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, recorder AuditRecorder, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		audit:      recorder,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", internal.NewInternalError("Failed to hash password", err)
	}
	return string(hash), nil
}

func (s *Service) ListUsers(ctx context.Context) ([]UserResponse, error) {
	if _, err := internal.Authorize(ctx, internal.IsDirector); err != nil {
		return nil, err
	}

	dataUsers, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, internal.NewInternalError("Failed to load users", err)
	}

	responses := make([]UserResponse, 0, len(dataUsers))
	for _, u := range dataUsers {
		responses = append(responses, FromDataModel(u).ToResponse())
	}
	return responses, nil
}

func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO) (*UserResponse, error) {
	if _, err := internal.Authorize(ctx, internal.IsDirector); err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, err
	}

	data := ToDataModel(NewUser(dto.Username, hash, internal.Role(dto.Role), StatusActive))
	if err := s.repo.Create(ctx, data); err != nil {
		return nil, s.storeError("create user", err)
	}

	s.audit.Record(ctx, audit.ActionUserCreated, fmt.Sprintf("Created user '%s' with role '%s'.", data.Username, data.Role))
	s.logger.Info("user created", "user_id", data.ID, "role", data.Role)

	resp := FromDataModel(data).ToResponse()
	return &resp, nil
}

// UpdateUser applies the fields of dto that differ from the stored user. A
// director may not move their own account away from the director role.
func (s *Service) UpdateUser(ctx context.Context, id int64, dto UpdateUserDTO) (*UserResponse, error) {
	sess, err := internal.Authorize(ctx, internal.IsDirector)
	if err != nil {
		return nil, err
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	data, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError("load user", err)
	}
	if data == nil {
		return nil, internal.ErrUserNotFound
	}
	current := FromDataModel(data)

	if current.IsDirector() && current.ID == sess.UserID && dto.Role != "" && internal.Role(dto.Role) != internal.RoleDirector {
		return nil, internal.NewForbiddenError("You cannot change your own role from director.", internal.ErrCodeSelfModification)
	}

	changes := map[string]interface{}{}
	var changed []string

	if dto.Username != "" && dto.Username != current.Username {
		changes["username"] = dto.Username
		changed = append(changed, fmt.Sprintf("username changed to '%s'", dto.Username))
	}
	if dto.Password != "" {
		hash, err := s.HashPassword(dto.Password)
		if err != nil {
			return nil, err
		}
		changes["password"] = hash
		changed = append(changed, "password changed")
	}
	if dto.Role != "" && internal.Role(dto.Role) != current.Role {
		changes["role"] = dto.Role
		changed = append(changed, fmt.Sprintf("role changed to '%s'", dto.Role))
	}

	if len(changes) == 0 {
		return nil, internal.ErrNoChanges
	}

	if err := s.repo.Update(ctx, id, changes); err != nil {
		return nil, s.storeError("update user", err)
	}

	details := fmt.Sprintf("Updated user '%s' (ID: %d): %s", current.Username, id, strings.Join(changed, ", "))
	s.audit.Record(ctx, audit.ActionUserUpdated, details)

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError("reload user", err)
	}
	if updated == nil {
		return nil, internal.ErrUserNotFound
	}

	resp := FromDataModel(updated).ToResponse()
	return &resp, nil
}

// SetStatus activates or suspends another user. An absent user is left alone.
func (s *Service) SetStatus(ctx context.Context, id int64, dto UpdateStatusDTO) error {
	sess, err := internal.Authorize(ctx, internal.IsDirector)
	if err != nil {
		return err
	}
	if id == sess.UserID {
		return internal.NewForbiddenError("You cannot change your own status.", internal.ErrCodeSelfModification)
	}
	if err := dto.Validate(); err != nil {
		return err
	}

	data, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.storeError("load user", err)
	}
	if data == nil {
		s.logger.Warn("status change for unknown user ignored", "user_id", id)
		return nil
	}

	if err := s.repo.SetStatus(ctx, id, dto.Status); err != nil {
		return s.storeError("set user status", err)
	}

	s.audit.Record(ctx, audit.ActionUserStatusChanged, fmt.Sprintf("Set status for user ID %d to '%s'.", id, dto.Status))
	return nil
}

// DeleteUser removes another user. Deleting an absent user succeeds without effect.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	sess, err := internal.Authorize(ctx, internal.IsDirector)
	if err != nil {
		return err
	}
	if id == sess.UserID {
		return internal.NewForbiddenError("You cannot delete your own account.", internal.ErrCodeSelfModification)
	}

	data, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return s.storeError("load user", err)
	}
	if data == nil {
		return nil
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return s.storeError("delete user", err)
	}

	s.audit.Record(ctx, audit.ActionUserDeleted, fmt.Sprintf("Deleted user '%s' (ID: %d).", data.Username, id))
	return nil
}

func (s *Service) storeError(op string, err error) error {
	if _, ok := internal.IsAppError(err); ok {
		return err
	}
	s.logger.Error("user store failure", "op", op, "error", err)
	return internal.NewInternalError("Failed to "+op, err)
}
