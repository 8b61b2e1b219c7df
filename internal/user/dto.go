package user

import (
	"github.com/frahmantamala/inventory-management/internal"
	"github.com/frahmantamala/inventory-management/internal/core/common/validation"
)

type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

type CreateUserDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate reports missing fields first and an unknown role second.
func (d CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("username", d.Username).Required()
	v.Field("password", d.Password).Required()
	v.Field("role", d.Role).Required()
	if err := v.Validate(); err != nil {
		return err
	}

	v = validation.NewValidator()
	v.Field("role", d.Role).OneOf(roleNames(), internal.ErrCodeInvalidRole)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// UpdateUserDTO is a partial patch: empty fields are left unchanged.
type UpdateUserDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (d UpdateUserDTO) Validate() error {
	if d.Role == "" {
		return nil
	}
	v := validation.NewValidator()
	v.Field("role", d.Role).OneOf(roleNames(), internal.ErrCodeInvalidRole)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

type UpdateStatusDTO struct {
	Status string `json:"status"`
}

func (d UpdateStatusDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", d.Status).OneOf([]string{string(StatusActive), string(StatusSuspended)}, internal.ErrCodeInvalidStatus)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func roleNames() []string {
	names := make([]string, 0, len(internal.Roles))
	for _, r := range internal.Roles {
		names = append(names, string(r))
	}
	return names
}
