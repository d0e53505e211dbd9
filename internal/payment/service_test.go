package payment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/db"
	"github.com/vnrental/backend/internal/events"
	"github.com/vnrental/backend/internal/models"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockProducer discards events.
type MockProducer struct{}

func (MockProducer) Produce(events.EventType, uuid.UUID, any) {}

func newTestService(t *testing.T) (*Service, *db.Repository) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, gdb.AutoMigrate(models.All()...), "failed to migrate test database")
	repo := db.NewWithDB(gdb)
	return NewService(repo, MockProducer{}, zaptest.NewLogger(t)), repo
}

func seedVehicle(t *testing.T, repo *db.Repository, phone string) *models.Vehicle {
	t.Helper()
	v := &models.Vehicle{
		ID:            uuid.New(),
		CompanyID:     uuid.New(),
		VehicleNumber: "서울12바3456",
		VehicleType:   "카고",
		Region:        "서울",
		MonthlyFee:    500000,
		Phone:         phone,
	}
	require.NoError(t, repo.CreateVehicle(context.Background(), v))
	return v
}

func TestCreateValidation(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	v := seedVehicle(t, repo, "010-9999-0000")

	_, err := svc.Create(ctx, userID, v.ID, 0)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, userID, v.ID, -100)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Create(ctx, userID, uuid.New(), 10000)
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "payments require an existing vehicle")
}

func TestContactGate(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	v := seedVehicle(t, repo, "010-9999-0000")

	// Unpaid: status false, contact denied.
	paid, err := svc.Status(ctx, userID, v.ID)
	require.NoError(t, err)
	assert.False(t, paid)

	_, err = svc.Contact(ctx, userID, v.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	// Pay, then the phone is revealed.
	payment, err := svc.Create(ctx, userID, v.ID, 10000)
	require.NoError(t, err)
	assert.Equal(t, userID, payment.UserID)
	assert.Equal(t, v.ID, payment.VehicleID)

	paid, err = svc.Status(ctx, userID, v.ID)
	require.NoError(t, err)
	assert.True(t, paid)

	contact, err := svc.Contact(ctx, userID, v.ID)
	require.NoError(t, err)
	assert.True(t, contact.IsPaid)
	assert.Equal(t, "010-9999-0000", contact.Phone)

	// Another user is still gated.
	_, err = svc.Contact(ctx, uuid.New(), v.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestContactUnknownVehicle(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Contact(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDuplicatePaymentIsHarmless(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	v := seedVehicle(t, repo, "010-9999-0000")

	_, err := svc.Create(ctx, userID, v.ID, 10000)
	require.NoError(t, err)
	_, err = svc.Create(ctx, userID, v.ID, 10000)
	require.NoError(t, err, "paying twice is allowed")

	paid, err := svc.Status(ctx, userID, v.ID)
	require.NoError(t, err)
	assert.True(t, paid)
}
