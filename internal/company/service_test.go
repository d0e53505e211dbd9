package company

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/auth"
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

func newTestService(t *testing.T) (*Service, *db.Repository) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to open test database")
	require.NoError(t, gdb.AutoMigrate(models.All()...), "failed to migrate test database")
	repo := db.NewWithDB(gdb)
	return NewService(repo, MockProducer{}, zaptest.NewLogger(t)), repo
}

func seedCompany(t *testing.T, repo *db.Repository, businessNumber, email, password string) *models.Company {
	t.Helper()
	digest, err := auth.HashPassword(password)
	require.NoError(t, err)
	c := &models.Company{
		ID:             uuid.New(),
		BusinessNumber: businessNumber,
		CompanyName:    "한빛운수",
		Representative: "김한빛",
		Phone:          "010-1234-5678",
		ContactPhone:   "010-1234-5678",
		Email:          email,
		Password:       digest,
		Verified:       true,
	}
	require.NoError(t, repo.CreateCompany(context.Background(), c))
	return c
}

func TestProfile(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	c := seedCompany(t, repo, "123-45-67890", "hanbit@example.com", "password1")

	got, err := svc.Profile(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.CompanyName, got.CompanyName)

	_, err = svc.Profile(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateProfileFields(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	c := seedCompany(t, repo, "123-45-67890", "hanbit@example.com", "password1")

	updated, err := svc.UpdateProfile(ctx, c.ID, UpdateProfileInput{
		CompanyName:  utils.Ptr("한빛물류"),
		ContactPhone: utils.Ptr("010-2222-3333"),
	})
	require.NoError(t, err)
	assert.Equal(t, "한빛물류", updated.CompanyName)
	assert.Equal(t, "010-2222-3333", updated.ContactPhone)
	assert.Equal(t, c.Representative, updated.Representative, "untouched fields are preserved")
}

func TestUpdateProfilePasswordChange(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	c := seedCompany(t, repo, "123-45-67890", "hanbit@example.com", "password1")

	tests := []struct {
		name    string
		input   UpdateProfileInput
		wantMsg string
	}{
		{
			name:    "new password without current",
			input:   UpdateProfileInput{NewPassword: utils.Ptr("newsecret2")},
			wantMsg: "기존 비밀번호를 입력해주세요.",
		},
		{
			name: "wrong current password",
			input: UpdateProfileInput{
				CurrentPassword: utils.Ptr("wrongpass9"),
				NewPassword:     utils.Ptr("newsecret2"),
			},
			wantMsg: "기존 비밀번호가 올바르지 않습니다.",
		},
		{
			name: "new password fails policy",
			input: UpdateProfileInput{
				CurrentPassword: utils.Ptr("password1"),
				NewPassword:     utils.Ptr("short"),
			},
			wantMsg: "비밀번호는 8자 이상이며 영어와 숫자를 포함해야 합니다.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProfile(ctx, c.ID, tt.input)
			require.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, tt.wantMsg, apperrors.Message(err))
		})
	}

	// Correct current password rehashes the credential.
	_, err := svc.UpdateProfile(ctx, c.ID, UpdateProfileInput{
		CurrentPassword: utils.Ptr("password1"),
		NewPassword:     utils.Ptr("newsecret2"),
	})
	require.NoError(t, err)

	stored, err := repo.GetCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("newsecret2", stored.Password))
	assert.False(t, auth.CheckPassword("password1", stored.Password))
}

func TestUpdateProfileLegacyPassword(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	c := seedCompany(t, repo, "123-45-67890", "hanbit@example.com", "password1")

	// The bare password field changes the credential without the current one.
	_, err := svc.UpdateProfile(ctx, c.ID, UpdateProfileInput{Password: utils.Ptr("legacypw33")})
	require.NoError(t, err)

	stored, err := repo.GetCompany(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("legacypw33", stored.Password))

	_, err = svc.UpdateProfile(ctx, c.ID, UpdateProfileInput{Password: utils.Ptr("short")})
	assert.ErrorIs(t, err, apperrors.ErrValidation, "policy still applies")
}

func TestUpdateContactPhone(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	c := seedCompany(t, repo, "123-45-67890", "hanbit@example.com", "password1")

	_, err := svc.UpdateContactPhone(ctx, c.ID, "  ")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "연락받을 번호를 입력해주세요.", apperrors.Message(err))

	updated, err := svc.UpdateContactPhone(ctx, c.ID, "010-7777-8888")
	require.NoError(t, err)
	assert.Equal(t, "010-7777-8888", updated.ContactPhone)
}

func TestAddCompany(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	c := seedCompany(t, repo, "123-45-67890", "hanbit@example.com", "password1")

	tests := []struct {
		name    string
		input   AddInput
		wantErr error
	}{
		{
			name:    "missing required fields",
			input:   AddInput{BusinessNumber: "222-33-44444"},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "malformed business number",
			input: AddInput{
				BusinessNumber: "22-333-4444",
				CompanyName:    "한빛익스프레스",
				Representative: "김한빛",
			},
			wantErr: apperrors.ErrValidation,
		},
		{
			name: "duplicate business number",
			input: AddInput{
				BusinessNumber: c.BusinessNumber,
				CompanyName:    "한빛익스프레스",
				Representative: "김한빛",
			},
			wantErr: apperrors.ErrConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddCompany(ctx, c.ID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	sibling, err := svc.AddCompany(ctx, c.ID, AddInput{
		BusinessNumber: "222-33-44444",
		CompanyName:    "한빛익스프레스",
		Representative: "김한빛",
		ContactPhone:   "010-5555-6666",
	})
	require.NoError(t, err)
	assert.Equal(t, c.Phone, sibling.Phone, "sibling shares the account phone")
	assert.Equal(t, c.Email, sibling.Email, "sibling shares the account email")
	assert.True(t, sibling.Verified)
	require.NotNil(t, sibling.VerifiedAt)

	// The shared credential works for the new company too.
	stored, err := repo.GetCompany(ctx, sibling.ID)
	require.NoError(t, err)
	assert.True(t, auth.CheckPassword("password1", stored.Password))

	siblings, err := repo.ListCompaniesByPhone(ctx, c.Phone)
	require.NoError(t, err)
	assert.Len(t, siblings, 2)
}

func TestAddCompanyRequiresEmail(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	c := seedCompany(t, repo, "123-45-67890", "", "password1")

	_, err := svc.AddCompany(ctx, c.ID, AddInput{
		BusinessNumber: "222-33-44444",
		CompanyName:    "한빛익스프레스",
		Representative: "김한빛",
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
	assert.Equal(t, "기존 회사에 이메일이 등록되어 있지 않습니다.", apperrors.Message(err))
}

func TestStats(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	c := seedCompany(t, repo, "123-45-67890", "hanbit@example.com", "password1")
	other := seedCompany(t, repo, "999-88-77777", "other@example.com", "password1")

	mine := &models.Vehicle{ID: uuid.New(), CompanyID: c.ID, VehicleNumber: "서울12바3456", VehicleType: "카고", Region: "서울", MonthlyFee: 500000}
	require.NoError(t, repo.CreateVehicle(ctx, mine))
	require.NoError(t, repo.CreateVehicle(ctx, &models.Vehicle{ID: uuid.New(), CompanyID: c.ID, VehicleNumber: "서울34바7890", VehicleType: "탑차", Region: "경기", MonthlyFee: 600000}))
	theirs := &models.Vehicle{ID: uuid.New(), CompanyID: other.ID, VehicleNumber: "부산56바1234", VehicleType: "카고", Region: "부산", MonthlyFee: 400000}
	require.NoError(t, repo.CreateVehicle(ctx, theirs))

	require.NoError(t, repo.CreatePayment(ctx, &models.Payment{ID: uuid.New(), VehicleID: mine.ID, UserID: uuid.New(), Amount: 10000}))
	require.NoError(t, repo.CreatePayment(ctx, &models.Payment{ID: uuid.New(), VehicleID: mine.ID, UserID: uuid.New(), Amount: 15000}))
	require.NoError(t, repo.CreatePayment(ctx, &models.Payment{ID: uuid.New(), VehicleID: theirs.ID, UserID: uuid.New(), Amount: 99999}))

	stats, err := svc.Stats(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalVehicles)
	assert.Equal(t, int64(2), stats.TotalPayments)
	assert.Equal(t, int64(25000), stats.TotalRevenue)

	empty, err := svc.Stats(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, int64(0), empty.TotalVehicles)
	assert.Equal(t, int64(0), empty.TotalPayments)
	assert.Equal(t, int64(0), empty.TotalRevenue)
}
