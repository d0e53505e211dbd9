package vehicle

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
	"github.com/vnrental/backend/internal/pkg/utils"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MockProducer discards events.
type MockProducer struct{}

func (MockProducer) Produce(events.EventType, uuid.UUID, any) {}

// RecordingProducer captures produced events in call order.
type RecordingProducer struct {
	types []events.EventType
}

func (p *RecordingProducer) Produce(eventType events.EventType, _ uuid.UUID, _ any) {
	p.types = append(p.types, eventType)
}

func newTestService(t *testing.T) *Service {
	svc, _ := newTestServiceWithProducer(t, MockProducer{})
	return svc
}

func newTestServiceWithProducer(t *testing.T, producer EventProducer) (*Service, EventProducer) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, gdb.AutoMigrate(models.All()...), "failed to migrate test database")
	return NewService(db.NewWithDB(gdb), producer, zaptest.NewLogger(t)), producer
}

func validInput() CreateInput {
	return CreateInput{
		VehicleNumber: "서울12바3456",
		VehicleType:   "카고",
		Region:        "서울",
		Tonnage:       "5톤",
		YearModel:     2021,
		MonthlyFee:    500000,
		Phone:         "010-9999-0000",
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	companyID := uuid.New()

	tests := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{name: "missing vehicle number", mutate: func(i *CreateInput) { i.VehicleNumber = "" }},
		{name: "missing vehicle type", mutate: func(i *CreateInput) { i.VehicleType = " " }},
		{name: "missing region", mutate: func(i *CreateInput) { i.Region = "" }},
		{name: "zero monthly fee", mutate: func(i *CreateInput) { i.MonthlyFee = 0 }},
		{name: "negative monthly fee", mutate: func(i *CreateInput) { i.MonthlyFee = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(&input)
			_, err := svc.Create(ctx, companyID, input)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestCreateAndMy(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	companyID := uuid.New()

	created, err := svc.Create(ctx, companyID, validInput())
	require.NoError(t, err)
	assert.Equal(t, companyID, created.CompanyID)

	mine, err := svc.My(ctx, companyID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, created.ID, mine[0].ID)

	other, err := svc.My(ctx, uuid.New())
	require.NoError(t, err)
	assert.NotNil(t, other, "empty results must serialize as an array, not null")
	assert.Empty(t, other)
}

func TestListDefaults(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	result, err := svc.List(ctx, db.VehicleFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 20, result.Limit)
	assert.NotNil(t, result.Vehicles)
	assert.Empty(t, result.Vehicles)
	assert.EqualValues(t, 0, result.Total)
}

func TestListFiltered(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	companyID := uuid.New()

	_, err := svc.Create(ctx, companyID, validInput())
	require.NoError(t, err)

	busan := validInput()
	busan.Region = "부산"
	busan.MonthlyFee = 800000
	_, err = svc.Create(ctx, companyID, busan)
	require.NoError(t, err)

	result, err := svc.List(ctx, db.VehicleFilter{Region: "부산"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, result.Total)
	require.Len(t, result.Vehicles, 1)
	assert.Equal(t, "부산", result.Vehicles[0].Region)
}

func TestUpdateOwnershipScoped(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, created.ID, &models.VehicleUpdate{MonthlyFee: utils.Ptr(600000)})
	require.NoError(t, err)
	assert.Equal(t, 600000, updated.MonthlyFee)

	_, err = svc.Update(ctx, uuid.New(), created.ID, &models.VehicleUpdate{MonthlyFee: utils.Ptr(1)})
	assert.ErrorIs(t, err, apperrors.ErrNotFound, "a foreign listing must look missing")
}

func TestDeleteOwnershipScoped(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	err = svc.Delete(ctx, uuid.New(), created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	require.NoError(t, svc.Delete(ctx, owner, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEventsProducedSynchronously(t *testing.T) {
	recorder := &RecordingProducer{}
	svc, _ := newTestServiceWithProducer(t, recorder)
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, validInput())
	require.NoError(t, err)

	_, err = svc.Update(ctx, owner, created.ID, &models.VehicleUpdate{MonthlyFee: utils.Ptr(600000)})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, created.ID))

	// Each event is enqueued before the call returns, so the recorder sees
	// them immediately and in order.
	assert.Equal(t, []events.EventType{
		events.VehicleCreated,
		events.VehicleUpdated,
		events.VehicleDeleted,
	}, recorder.types)
}

func TestStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	companyID := uuid.New()

	regions, err := svc.StatsByRegion(ctx)
	require.NoError(t, err)
	assert.NotNil(t, regions)
	assert.Empty(t, regions)

	for _, region := range []string{"서울", "서울", "부산"} {
		input := validInput()
		input.Region = region
		_, err := svc.Create(ctx, companyID, input)
		require.NoError(t, err)
	}

	regions, err = svc.StatsByRegion(ctx)
	require.NoError(t, err)
	require.Len(t, regions, 2)
	assert.Equal(t, "서울", regions[0].Region)
	assert.EqualValues(t, 2, regions[0].Count)

	types, err := svc.StatsByType(ctx)
	require.NoError(t, err)
	require.Len(t, types, 1)
	assert.EqualValues(t, 3, types[0].Count)
}
