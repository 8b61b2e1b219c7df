package sqlstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/inventory-management/internal"
	userDatamodel "github.com/frahmantamala/inventory-management/internal/core/datamodel/user"
	"github.com/frahmantamala/inventory-management/internal/db"
	"github.com/frahmantamala/inventory-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	store *db.Store
}

func NewUserRepository(store *db.Store) user.Repository {
	return &UserRepository{store: store}
}

func (r *UserRepository) List(ctx context.Context) ([]*userDatamodel.User, error) {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return nil, err
	}

	var users []*userDatamodel.User
	err = tx.Order("username ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*userDatamodel.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	return r.first(ctx, "username = ?", username)
}

func (r *UserRepository) first(ctx context.Context, query string, arg interface{}) (*userDatamodel.User, error) {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return nil, err
	}

	var u userDatamodel.User
	err = tx.Where(query, arg).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *userDatamodel.User) error {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return err
	}
	return translate(tx.Create(u).Error)
}

func (r *UserRepository) Update(ctx context.Context, id int64, changes map[string]interface{}) error {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return err
	}
	return translate(tx.Model(&userDatamodel.User{}).Where("id = ?", id).Updates(changes).Error)
}

func (r *UserRepository) SetStatus(ctx context.Context, id int64, status string) error {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return err
	}
	return tx.Model(&userDatamodel.User{}).Where("id = ?", id).Update("status", status).Error
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return err
	}
	return tx.Where("id = ?", id).Delete(&userDatamodel.User{}).Error
}

// InsertEach inserts users in a single transaction, each under its own savepoint,
// so a username collision skips only that row. The returned slice is aligned with
// users and holds internal.ErrUsernameExists for every skipped row.
func (r *UserRepository) InsertEach(ctx context.Context, users []*userDatamodel.User) ([]error, error) {
	results := make([]error, len(users))
	if len(users) == 0 {
		return results, nil
	}

	tx, err := r.store.Gorm(ctx)
	if err != nil {
		return nil, err
	}

	err = tx.Transaction(func(tx *gorm.DB) error {
		for i, u := range users {
			err := tx.Transaction(func(row *gorm.DB) error {
				return row.Create(u).Error
			})
			if err == nil {
				continue
			}
			if db.IsUniqueViolation(err) {
				results[i] = internal.ErrUsernameExists
				continue
			}
			return fmt.Errorf("insert user %q: %w", u.Username, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func translate(err error) error {
	if db.IsUniqueViolation(err) {
		return internal.ErrUsernameExists.WithCause(err)
	}
	return err
}
