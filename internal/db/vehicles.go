package db

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/models"
	"gorm.io/gorm"
)

// VehicleFilter narrows the public listing search.
type VehicleFilter struct {
	Region      string
	VehicleType string
	MinFee      *int
	MaxFee      *int
	Page        int
	Limit       int
}

// RegionStat is a per-region listing count.
type RegionStat struct {
	Region string `json:"region"`
	Count  int64  `json:"count"`
}

// TypeStat is a per-vehicle-type listing count.
type TypeStat struct {
	VehicleType string `json:"vehicleType"`
	Count       int64  `json:"count"`
}

// CreateVehicle inserts a new listing.
func (r *Repository) CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error {
	return r.db.WithContext(ctx).Create(vehicle).Error
}

// GetVehicle retrieves a listing by ID.
func (r *Repository) GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	var vehicle models.Vehicle
	result := r.db.WithContext(ctx).First(&vehicle, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "차량을 찾을 수 없습니다.")
		}
		return nil, result.Error
	}
	return &vehicle, nil
}

// ListVehicles returns a filtered page of listings, newest first, along with
// the total match count.
func (r *Repository) ListVehicles(ctx context.Context, filter VehicleFilter) ([]models.Vehicle, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Vehicle{})
	if filter.Region != "" {
		query = query.Where("region = ?", filter.Region)
	}
	if filter.VehicleType != "" {
		query = query.Where("vehicle_type = ?", filter.VehicleType)
	}
	if filter.MinFee != nil {
		query = query.Where("monthly_fee >= ?", *filter.MinFee)
	}
	if filter.MaxFee != nil {
		query = query.Where("monthly_fee <= ?", *filter.MaxFee)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}

	var vehicles []models.Vehicle
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&vehicles).Error
	if err != nil {
		return nil, 0, err
	}
	return vehicles, total, nil
}

// ListVehiclesByCompany returns every listing owned by a company.
func (r *Repository) ListVehiclesByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Vehicle, error) {
	var vehicles []models.Vehicle
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at DESC").
		Find(&vehicles).Error
	if err != nil {
		return nil, err
	}
	return vehicles, nil
}

// UpdateVehicleOwned applies a partial update scoped to the owning company.
// A listing owned by another company is indistinguishable from a missing one.
func (r *Repository) UpdateVehicleOwned(ctx context.Context, companyID, id uuid.UUID, update *models.VehicleUpdate) (*models.Vehicle, error) {
	values := map[string]any{}
	if update.VehicleNumber != nil {
		values["vehicle_number"] = *update.VehicleNumber
	}
	if update.VehicleType != nil {
		values["vehicle_type"] = *update.VehicleType
	}
	if update.Region != nil {
		values["region"] = *update.Region
	}
	if update.Tonnage != nil {
		values["tonnage"] = *update.Tonnage
	}
	if update.YearModel != nil {
		values["year_model"] = *update.YearModel
	}
	if update.MonthlyFee != nil {
		values["monthly_fee"] = *update.MonthlyFee
	}
	if update.InsuranceRate != nil {
		values["insurance_rate"] = *update.InsuranceRate
	}
	if update.Description != nil {
		values["description"] = *update.Description
	}
	if update.Phone != nil {
		values["phone"] = *update.Phone
	}

	if len(values) == 0 {
		var vehicle models.Vehicle
		err := r.db.WithContext(ctx).First(&vehicle, "id = ? AND company_id = ?", id, companyID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.New(apperrors.KindNotFound, "차량을 찾을 수 없습니다.")
			}
			return nil, err
		}
		return &vehicle, nil
	}

	result := r.db.WithContext(ctx).Model(&models.Vehicle{}).
		Where("id = ? AND company_id = ?", id, companyID).
		Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, apperrors.New(apperrors.KindNotFound, "차량을 찾을 수 없습니다.")
	}

	return r.GetVehicle(ctx, id)
}

// DeleteVehicleOwned removes a listing scoped to the owning company.
func (r *Repository) DeleteVehicleOwned(ctx context.Context, companyID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		Delete(&models.Vehicle{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "차량을 찾을 수 없습니다.")
	}
	return nil
}

// VehicleStatsByRegion groups listings by region, largest first.
func (r *Repository) VehicleStatsByRegion(ctx context.Context) ([]RegionStat, error) {
	var stats []RegionStat
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).
		Select("region, count(*) as count").
		Group("region").
		Order("count DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// VehicleStatsByType groups listings by vehicle type, largest first.
func (r *Repository) VehicleStatsByType(ctx context.Context) ([]TypeStat, error) {
	var stats []TypeStat
	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).
		Select("vehicle_type, count(*) as count").
		Group("vehicle_type").
		Order("count DESC").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}
