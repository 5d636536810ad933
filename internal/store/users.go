package store

import (
	"context"
	stderrors "errors"

	"VoxGate/internal/models"
	"VoxGate/pkg/errors"

	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts user, failing with a conflict when the email is taken.
// The existing record is left untouched. The unique index decides, so
// concurrent registrations for the same email cannot both win.
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Conflict("user with this email already exists")
		}
		return errors.Wrap(err, "creating user")
	}
	return nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("user not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying user by email")
	}
	return &user, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, id).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NotFound("user not found")
	}
	if err != nil {
		return nil, errors.Wrap(err, "querying user by id")
	}
	return &user, nil
}

// Update persists the mutable profile fields of user.
func (s *UserStore) Update(ctx context.Context, user *models.User) error {
	if user.Email != "" {
		var count int64
		err := s.db.WithContext(ctx).Model(&models.User{}).
			Where("email = ? AND id <> ?", user.Email, user.ID).Count(&count).Error
		if err != nil {
			return errors.Wrap(err, "checking email uniqueness")
		}
		if count > 0 {
			return errors.Conflict("user with this email already exists")
		}
	}
	if err := s.db.WithContext(ctx).Save(user).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.Conflict("user with this email already exists")
		}
		return errors.Wrap(err, "updating user")
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "deleting user")
	}
	if res.RowsAffected == 0 {
		return errors.NotFound("user not found")
	}
	return nil
}
