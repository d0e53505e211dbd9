package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/models"
	"gorm.io/gorm"
)

// CreateUser inserts a new user. Uniqueness violations on phone or email are
// reported as conflicts.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	result := r.db.WithContext(ctx).Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.Wrap(apperrors.KindConflict, "이미 등록된 전화번호 또는 이메일입니다.", result.Error)
		}
		return result.Error
	}
	return nil
}

// GetUser retrieves a user by ID.
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "사용자를 찾을 수 없습니다.")
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "사용자를 찾을 수 없습니다.")
		}
		return nil, result.Error
	}
	return &user, nil
}

// GetUserByPhone retrieves a user by phone number.
func (r *Repository) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	result := r.db.WithContext(ctx).First(&user, "phone = ?", phone)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "사용자를 찾을 수 없습니다.")
		}
		return nil, result.Error
	}
	return &user, nil
}

// UpdateUser applies a partial update and returns the updated row.
func (r *Repository) UpdateUser(ctx context.Context, id uuid.UUID, update *models.UserUpdate) (*models.User, error) {
	values := map[string]any{}
	if update.Name != nil {
		values["name"] = *update.Name
	}
	if update.Phone != nil {
		values["phone"] = *update.Phone
	}
	if update.Email != nil {
		// Email is uniquely indexed, so clearing it must write NULL rather
		// than an empty string.
		if *update.Email == "" {
			values["email"] = nil
		} else {
			values["email"] = *update.Email
		}
	}
	if update.Password != nil {
		values["password"] = *update.Password
	}

	if len(values) > 0 {
		result := r.db.WithContext(ctx).Model(&models.User{}).
			Where("id = ?", id).
			Updates(values)
		if result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return nil, apperrors.Wrap(apperrors.KindConflict, "이미 등록된 전화번호 또는 이메일입니다.", result.Error)
			}
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.New(apperrors.KindNotFound, "사용자를 찾을 수 없습니다.")
		}
	}

	return r.GetUser(ctx, id)
}

// SetUserVerified flips the verification flag.
func (r *Repository) SetUserVerified(ctx context.Context, id uuid.UUID, verified bool) error {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Update("verified", verified)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "사용자를 찾을 수 없습니다.")
	}
	return nil
}
