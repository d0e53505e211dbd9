// Package company implements business-account management: profile reads and
// updates, the contact-phone shortcut, sibling-company creation under an
// existing account, and per-company marketplace statistics.
package company

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/auth"
	"github.com/vnrental/backend/internal/db"
	"github.com/vnrental/backend/internal/events"
	"github.com/vnrental/backend/internal/models"
	"go.uber.org/zap"
)

// Repository defines the storage operations the company service needs.
type Repository interface {
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetCompanyByBusinessNumber(ctx context.Context, businessNumber string) (*models.Company, error)
	CreateCompany(ctx context.Context, company *models.Company) error
	UpdateCompany(ctx context.Context, id uuid.UUID, update *models.CompanyUpdate) (*models.Company, error)
	GetCompanyStats(ctx context.Context, companyID uuid.UUID) (*db.CompanyStats, error)
}

// EventProducer publishes domain events.
type EventProducer interface {
	Produce(eventType events.EventType, entityID uuid.UUID, payload any)
}

// Service provides business-account operations.
type Service struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewService constructs the company service.
func NewService(repo Repository, producer EventProducer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("company_service"),
	}
}

// Profile returns the calling company's own record.
func (s *Service) Profile(ctx context.Context, companyID uuid.UUID) (*models.Company, error) {
	return s.repo.GetCompany(ctx, companyID)
}

// UpdateProfileInput carries a partial company-profile update. Changing the
// password through NewPassword requires the current one; the bare Password
// field is the legacy path without that check.
type UpdateProfileInput struct {
	CompanyName     *string `json:"companyName"`
	Representative  *string `json:"representative"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email"`
	ContactPhone    *string `json:"contactPhone"`
	Password        *string `json:"password"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
}

// UpdateProfile updates a single company row.
func (s *Service) UpdateProfile(ctx context.Context, companyID uuid.UUID, input UpdateProfileInput) (*models.Company, error) {
	company, err := s.repo.GetCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	update := &models.CompanyUpdate{
		CompanyName:    input.CompanyName,
		Representative: input.Representative,
		Phone:          input.Phone,
		Email:          input.Email,
		ContactPhone:   input.ContactPhone,
	}

	switch {
	case input.NewPassword != nil && strings.TrimSpace(*input.NewPassword) != "":
		if input.CurrentPassword == nil || strings.TrimSpace(*input.CurrentPassword) == "" {
			return nil, apperrors.New(apperrors.KindValidation, "기존 비밀번호를 입력해주세요.")
		}
		if !auth.CheckPassword(strings.TrimSpace(*input.CurrentPassword), company.Password) {
			return nil, apperrors.New(apperrors.KindValidation, "기존 비밀번호가 올바르지 않습니다.")
		}
		digest, err := hashValidated(strings.TrimSpace(*input.NewPassword))
		if err != nil {
			return nil, err
		}
		update.Password = &digest

	case input.Password != nil && strings.TrimSpace(*input.Password) != "":
		// Legacy clients send the new password without the current one.
		digest, err := hashValidated(strings.TrimSpace(*input.Password))
		if err != nil {
			return nil, err
		}
		update.Password = &digest
	}

	updated, err := s.repo.UpdateCompany(ctx, companyID, update)
	if err != nil {
		return nil, err
	}

	s.producer.Produce(events.CompanyUpdated, updated.ID, nil)
	return updated, nil
}

// UpdateContactPhone updates only the number exposed to paying renters.
func (s *Service) UpdateContactPhone(ctx context.Context, companyID uuid.UUID, contactPhone string) (*models.Company, error) {
	contactPhone = strings.TrimSpace(contactPhone)
	if contactPhone == "" {
		return nil, apperrors.New(apperrors.KindValidation, "연락받을 번호를 입력해주세요.")
	}

	updated, err := s.repo.UpdateCompany(ctx, companyID, &models.CompanyUpdate{ContactPhone: &contactPhone})
	if err != nil {
		return nil, err
	}

	s.producer.Produce(events.CompanyUpdated, updated.ID, nil)
	return updated, nil
}

// AddInput carries a new sibling company. Credentials come from the current
// account, not the request.
type AddInput struct {
	BusinessNumber string `json:"businessNumber"`
	CompanyName    string `json:"companyName"`
	Representative string `json:"representative"`
	ContactPhone   string `json:"contactPhone"`
}

var businessNumberPattern = regexp.MustCompile(`^(\d{3}-\d{2}-\d{5}|\d{10})$`)

// AddCompany registers a sibling company under the calling account. The new
// company inherits the account's phone, email and password, so it is
// reachable through the same login, and starts out verified.
func (s *Service) AddCompany(ctx context.Context, currentCompanyID uuid.UUID, input AddInput) (*models.Company, error) {
	if strings.TrimSpace(input.BusinessNumber) == "" ||
		strings.TrimSpace(input.CompanyName) == "" ||
		strings.TrimSpace(input.Representative) == "" {
		return nil, apperrors.New(apperrors.KindValidation, "사업자등록번호, 회사명, 대표자명을 입력해주세요.")
	}
	businessNumber := strings.TrimSpace(input.BusinessNumber)
	if !businessNumberPattern.MatchString(businessNumber) {
		return nil, apperrors.New(apperrors.KindValidation, "사업자등록번호 형식이 올바르지 않습니다.")
	}

	current, err := s.repo.GetCompany(ctx, currentCompanyID)
	if err != nil {
		return nil, err
	}
	if current.Email == "" {
		return nil, apperrors.New(apperrors.KindValidation, "기존 회사에 이메일이 등록되어 있지 않습니다.")
	}

	if _, err := s.repo.GetCompanyByBusinessNumber(ctx, businessNumber); err == nil {
		return nil, apperrors.New(apperrors.KindConflict, "이미 등록된 사업자등록번호입니다.")
	} else if apperrors.KindOf(err) != apperrors.KindNotFound {
		return nil, err
	}

	now := time.Now()
	sibling := &models.Company{
		ID:             uuid.New(),
		BusinessNumber: businessNumber,
		CompanyName:    strings.TrimSpace(input.CompanyName),
		Representative: strings.TrimSpace(input.Representative),
		Phone:          current.Phone,
		ContactPhone:   strings.TrimSpace(input.ContactPhone),
		Email:          current.Email,
		Password:       current.Password,
		Verified:       true,
		VerifiedAt:     &now,
	}
	if err := s.repo.CreateCompany(ctx, sibling); err != nil {
		return nil, err
	}

	s.producer.Produce(events.CompanyRegistered, sibling.ID, nil)
	return sibling, nil
}

// Stats returns the company's listing and payment aggregates.
func (s *Service) Stats(ctx context.Context, companyID uuid.UUID) (*db.CompanyStats, error) {
	return s.repo.GetCompanyStats(ctx, companyID)
}

func hashValidated(password string) (string, error) {
	if err := auth.ValidatePassword(password); err != nil {
		return "", err
	}
	digest, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return digest, nil
}
