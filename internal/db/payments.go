package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/models"
)

// CreatePayment inserts a contact-unlock record.
func (r *Repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// HasPayment reports whether any payment exists for the (user, vehicle) pair.
// Existence alone is the paid flag.
func (r *Repository) HasPayment(ctx context.Context, userID, vehicleID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Payment{}).
		Where("user_id = ? AND vehicle_id = ?", userID, vehicleID).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
