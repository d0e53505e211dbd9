package db

import (
	"context"
	"time"

	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/models"
)

// CreateResetToken stores a freshly issued password-reset token.
func (r *Repository) CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// ConsumeResetToken atomically validates and burns a reset token. The
// conditional update makes single-use enforcement a storage-level guarantee:
// a second caller with the same token matches zero rows.
func (r *Repository) ConsumeResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	var row models.PasswordResetToken
	err := r.db.WithContext(ctx).First(&row, "token = ?", token).Error
	if err != nil {
		return nil, apperrors.New(apperrors.KindValidation, "유효하지 않은 토큰입니다.")
	}
	if row.Used {
		return nil, apperrors.New(apperrors.KindValidation, "이미 사용된 토큰입니다.")
	}
	if time.Now().After(row.ExpiresAt) {
		return nil, apperrors.New(apperrors.KindValidation, "만료된 토큰입니다.")
	}

	result := r.db.WithContext(ctx).Model(&models.PasswordResetToken{}).
		Where("token = ? AND used = ?", token, false).
		Update("used", true)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.New(apperrors.KindValidation, "이미 사용된 토큰입니다.")
	}
	return &row, nil
}
