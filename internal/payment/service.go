// Package payment implements the contact-gate: a payment record for a
// (user, vehicle) pair is the sole condition for exposing the listing's
// contact phone number.
package payment

import (
	"context"

	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/events"
	"github.com/vnrental/backend/internal/models"
	"go.uber.org/zap"
)

// Repository defines the storage operations the contact-gate needs.
type Repository interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	HasPayment(ctx context.Context, userID, vehicleID uuid.UUID) (bool, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*models.Vehicle, error)
}

// EventProducer publishes domain events.
type EventProducer interface {
	Produce(eventType events.EventType, entityID uuid.UUID, payload any)
}

// Service provides contact-gate operations.
type Service struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
}

// NewService constructs the contact-gate service.
func NewService(repo Repository, producer EventProducer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("payment_service"),
	}
}

// Create records a contact-unlock payment. The referenced vehicle must
// exist; duplicates for the same pair are allowed and harmless.
func (s *Service) Create(ctx context.Context, userID, vehicleID uuid.UUID, amount int) (*models.Payment, error) {
	if amount <= 0 {
		return nil, apperrors.New(apperrors.KindValidation, "결제 금액이 올바르지 않습니다.")
	}
	if _, err := s.repo.GetVehicle(ctx, vehicleID); err != nil {
		return nil, err
	}

	payment := &models.Payment{
		ID:        uuid.New(),
		VehicleID: vehicleID,
		UserID:    userID,
		Amount:    amount,
	}
	if err := s.repo.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	s.producer.Produce(events.PaymentRecorded, payment.ID, nil)
	return payment, nil
}

// Status reports whether the pair has paid.
func (s *Service) Status(ctx context.Context, userID, vehicleID uuid.UUID) (bool, error) {
	return s.repo.HasPayment(ctx, userID, vehicleID)
}

// ContactResult carries the revealed contact phone.
type ContactResult struct {
	IsPaid bool   `json:"isPaid"`
	Phone  string `json:"phone,omitempty"`
}

// Contact reveals the listing's contact phone if any payment exists for the
// pair; otherwise it denies exposure.
func (s *Service) Contact(ctx context.Context, userID, vehicleID uuid.UUID) (*ContactResult, error) {
	vehicle, err := s.repo.GetVehicle(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	paid, err := s.repo.HasPayment(ctx, userID, vehicleID)
	if err != nil {
		return nil, err
	}
	if !paid {
		return nil, apperrors.New(apperrors.KindForbidden, "결제가 필요합니다.")
	}

	return &ContactResult{IsPaid: true, Phone: vehicle.Phone}, nil
}
