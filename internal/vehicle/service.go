// Package vehicle implements the listing service: CRUD scoped to the owning
// company, filtered public search, and the regional/type statistics.
package vehicle

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/db"
	"github.com/vnrental/backend/internal/events"
	"github.com/vnrental/backend/internal/models"
	"go.uber.org/zap"
)

// Repository defines the storage operations the listing service needs.
type Repository interface {
	CreateVehicle(ctx context.Context, vehicle *models.Vehicle) error
	GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
	ListVehicles(ctx context.Context, filter db.VehicleFilter) ([]models.Vehicle, int64, error)
	ListVehiclesByCompany(ctx context.Context, companyID uuid.UUID) ([]models.Vehicle, error)
	UpdateVehicleOwned(ctx context.Context, companyID, id uuid.UUID, update *models.VehicleUpdate) (*models.Vehicle, error)
	DeleteVehicleOwned(ctx context.Context, companyID, id uuid.UUID) error
	VehicleStatsByRegion(ctx context.Context) ([]db.RegionStat, error)
	VehicleStatsByType(ctx context.Context) ([]db.TypeStat, error)
}

// EventProducer publishes domain events.
type EventProducer interface {
	Produce(eventType events.EventType, entityID uuid.UUID, payload any)
}

// Service provides listing operations.
type Service struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewService constructs the listing service.
func NewService(repo Repository, producer EventProducer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("vehicle_service"),
	}
}

// CreateInput carries a new listing.
type CreateInput struct {
	VehicleNumber string  `json:"vehicleNumber"`
	VehicleType   string  `json:"vehicleType"`
	Region        string  `json:"region"`
	Tonnage       string  `json:"tonnage"`
	YearModel     int     `json:"yearModel"`
	MonthlyFee    int     `json:"monthlyFee"`
	InsuranceRate float64 `json:"insuranceRate"`
	Description   string  `json:"description"`
	Phone         string  `json:"phone"`
}

// Create registers a listing owned by the calling company.
func (s *Service) Create(ctx context.Context, companyID uuid.UUID, input CreateInput) (*models.Vehicle, error) {
	if strings.TrimSpace(input.VehicleNumber) == "" ||
		strings.TrimSpace(input.VehicleType) == "" ||
		strings.TrimSpace(input.Region) == "" {
		return nil, apperrors.New(apperrors.KindValidation, "차량번호, 차종, 지역을 입력해주세요.")
	}
	if input.MonthlyFee <= 0 {
		return nil, apperrors.New(apperrors.KindValidation, "월 지입료를 입력해주세요.")
	}

	vehicle := &models.Vehicle{
		ID:            uuid.New(),
		CompanyID:     companyID,
		VehicleNumber: strings.TrimSpace(input.VehicleNumber),
		VehicleType:   strings.TrimSpace(input.VehicleType),
		Region:        strings.TrimSpace(input.Region),
		Tonnage:       strings.TrimSpace(input.Tonnage),
		YearModel:     input.YearModel,
		MonthlyFee:    input.MonthlyFee,
		InsuranceRate: input.InsuranceRate,
		Description:   input.Description,
		Phone:         strings.TrimSpace(input.Phone),
	}

	if err := s.repo.CreateVehicle(ctx, vehicle); err != nil {
		return nil, err
	}

	s.producer.Produce(events.VehicleCreated, vehicle.ID, nil)
	return vehicle, nil
}

// ListResult is the public search envelope.
type ListResult struct {
	Vehicles []models.Vehicle `json:"vehicles"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// List runs a filtered public search, newest first.
func (s *Service) List(ctx context.Context, filter db.VehicleFilter) (*ListResult, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	vehicles, total, err := s.repo.ListVehicles(ctx, filter)
	if err != nil {
		return nil, err
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	return &ListResult{Vehicles: vehicles, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

// Get returns a single public listing.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Vehicle, error) {
	return s.repo.GetVehicle(ctx, id)
}

// My returns every listing owned by the company.
func (s *Service) My(ctx context.Context, companyID uuid.UUID) ([]models.Vehicle, error) {
	vehicles, err := s.repo.ListVehiclesByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	return vehicles, nil
}

// Update applies a partial update. The lookup is ownership-scoped, so a
// listing owned by another company reports not-found rather than forbidden.
func (s *Service) Update(ctx context.Context, companyID, id uuid.UUID, update *models.VehicleUpdate) (*models.Vehicle, error) {
	vehicle, err := s.repo.UpdateVehicleOwned(ctx, companyID, id, update)
	if err != nil {
		return nil, err
	}

	s.producer.Produce(events.VehicleUpdated, vehicle.ID, nil)
	return vehicle, nil
}

// Delete removes a listing, ownership-scoped like Update.
func (s *Service) Delete(ctx context.Context, companyID, id uuid.UUID) error {
	if err := s.repo.DeleteVehicleOwned(ctx, companyID, id); err != nil {
		return err
	}

	s.producer.Produce(events.VehicleDeleted, id, nil)
	return nil
}

// StatsByRegion returns per-region listing counts, largest first.
func (s *Service) StatsByRegion(ctx context.Context) ([]db.RegionStat, error) {
	stats, err := s.repo.VehicleStatsByRegion(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []db.RegionStat{}
	}
	return stats, nil
}

// StatsByType returns per-vehicle-type listing counts, largest first.
func (s *Service) StatsByType(ctx context.Context) ([]db.TypeStat, error) {
	stats, err := s.repo.VehicleStatsByType(ctx)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []db.TypeStat{}
	}
	return stats, nil
}
