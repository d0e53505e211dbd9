package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/models"
	"gorm.io/gorm"
)

// CreateCompany inserts a new company. A duplicate business number is a
// conflict.
func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(company)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return apperrors.Wrap(apperrors.KindConflict, "이미 등록된 사업자등록번호입니다.", result.Error)
		}
		return result.Error
	}
	return nil
}

// GetCompany retrieves a company by ID.
func (r *Repository) GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "회사 정보를 찾을 수 없습니다.")
		}
		return nil, result.Error
	}
	return &company, nil
}

// GetCompanyByBusinessNumber retrieves a company by its business number.
func (r *Repository) GetCompanyByBusinessNumber(ctx context.Context, businessNumber string) (*models.Company, error) {
	var company models.Company
	result := r.db.WithContext(ctx).First(&company, "business_number = ?", businessNumber)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.KindNotFound, "회사 정보를 찾을 수 없습니다.")
		}
		return nil, result.Error
	}
	return &company, nil
}

// ListCompaniesByPhone returns every sibling company registered under the
// same phone number, newest first. Multi-company accounts share a phone.
func (r *Repository) ListCompaniesByPhone(ctx context.Context, phone string) ([]models.Company, error) {
	var companies []models.Company
	result := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at DESC").
		Find(&companies)
	if result.Error != nil {
		return nil, result.Error
	}
	return companies, nil
}

// GetCompanyByLogin finds a company by phone or email. When several sibling
// companies match, defaultCompanyID picks one; otherwise the newest wins.
func (r *Repository) GetCompanyByLogin(ctx context.Context, identifier string, isEmail bool, defaultCompanyID *uuid.UUID) (*models.Company, error) {
	var companies []models.Company
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if isEmail {
		query = query.Where("email = ?", identifier)
	} else {
		query = query.Where("phone = ?", identifier)
	}
	if err := query.Find(&companies).Error; err != nil {
		return nil, err
	}
	if len(companies) == 0 {
		return nil, apperrors.New(apperrors.KindNotFound, "회사 정보를 찾을 수 없습니다.")
	}
	if defaultCompanyID != nil {
		for i := range companies {
			if companies[i].ID == *defaultCompanyID {
				return &companies[i], nil
			}
		}
	}
	return &companies[0], nil
}

// UpdateCompany applies a partial update to a single company row and returns
// the updated record.
func (r *Repository) UpdateCompany(ctx context.Context, id uuid.UUID, update *models.CompanyUpdate) (*models.Company, error) {
	values := map[string]any{}
	if update.CompanyName != nil {
		values["company_name"] = *update.CompanyName
	}
	if update.Representative != nil {
		values["representative"] = *update.Representative
	}
	if update.Phone != nil {
		values["phone"] = *update.Phone
	}
	if update.Email != nil {
		values["email"] = *update.Email
	}
	if update.ContactPhone != nil {
		values["contact_phone"] = *update.ContactPhone
	}
	if update.Password != nil {
		values["password"] = *update.Password
	}

	if len(values) > 0 {
		result := r.db.WithContext(ctx).Model(&models.Company{}).
			Where("id = ?", id).
			Updates(values)
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			return nil, apperrors.New(apperrors.KindNotFound, "회사 정보를 찾을 수 없습니다.")
		}
	}

	return r.GetCompany(ctx, id)
}

// CompanyStats aggregates a company's marketplace activity.
type CompanyStats struct {
	TotalVehicles int64 `json:"totalVehicles"`
	TotalPayments int64 `json:"totalPayments"`
	TotalRevenue  int64 `json:"totalRevenue"`
}

// GetCompanyStats counts the company's listings and the contact-unlock
// payments they received.
func (r *Repository) GetCompanyStats(ctx context.Context, companyID uuid.UUID) (*CompanyStats, error) {
	var stats CompanyStats

	err := r.db.WithContext(ctx).Model(&models.Vehicle{}).
		Where("company_id = ?", companyID).
		Count(&stats.TotalVehicles).Error
	if err != nil {
		return nil, err
	}

	row := struct {
		Count int64
		Total int64
	}{}
	err = r.db.WithContext(ctx).Model(&models.Payment{}).
		Select("count(*) as count, coalesce(sum(payments.amount), 0) as total").
		Joins("JOIN vehicles ON vehicles.id = payments.vehicle_id").
		Where("vehicles.company_id = ?", companyID).
		Scan(&row).Error
	if err != nil {
		return nil, err
	}
	stats.TotalPayments = row.Count
	stats.TotalRevenue = row.Total

	return &stats, nil
}

// UpdateCompanyPassword rehashes the credential shared by every sibling
// company on the same phone.
func (r *Repository) UpdateCompanyPassword(ctx context.Context, phone, passwordHash string) error {
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("phone = ?", phone).
		Update("password", passwordHash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "회사 정보를 찾을 수 없습니다.")
	}
	return nil
}

// MarkCompanyVerified records an out-of-band business-number verification.
func (r *Repository) MarkCompanyVerified(ctx context.Context, businessNumber string) error {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.Company{}).
		Where("business_number = ?", businessNumber).
		Updates(map[string]any{"verified": true, "verified_at": now})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.New(apperrors.KindNotFound, "회사 정보를 찾을 수 없습니다.")
	}
	return nil
}
