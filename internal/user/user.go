package user

import (
	"strings"

	"github.com/frahmantamala/inventory-management/internal"
	userDatamodel "github.com/frahmantamala/inventory-management/internal/core/datamodel/user"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusSuspended
}

// User is an account of the credential store. PasswordHash never leaves the service.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         internal.Role
	Status       Status
}

func (u *User) IsSuspended() bool {
	return u.Status == StatusSuspended
}

func (u *User) IsDirector() bool {
	return u.Role == internal.RoleDirector
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Role:     string(u.Role),
		Status:   string(u.Status),
	}
}

// ToSession returns the identity bound to a client after it logs in as u.
func (u *User) ToSession() internal.Session {
	return internal.Session{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

func NewUser(username, passwordHash string, role internal.Role, status Status) *User {
	return &User{
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		Status:       status,
	}
}

// ParseRole accepts a role in any letter case.
func ParseRole(raw string) (internal.Role, bool) {
	role := internal.Role(strings.ToLower(strings.TrimSpace(raw)))
	return role, role.Valid()
}

// ParseStatus accepts a status in any letter case.
func ParseStatus(raw string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	return status, status.Valid()
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         string(u.Role),
		Status:       string(u.Status),
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         internal.Role(u.Role),
		Status:       Status(u.Status),
	}
}
