package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vnrental/backend/internal/apperrors"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret")
	id := uuid.New()

	token, err := m.Generate(id, UserTypeCompany)
	require.NoError(t, err)

	identity, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, id, identity.ID)
	assert.Equal(t, UserTypeCompany, identity.UserType)
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a").Generate(uuid.New(), UserTypeUser)
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b").Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrAuth)
}

func TestTokenGarbage(t *testing.T) {
	_, err := NewTokenManager("test-secret").Verify("not.a.jwt")
	assert.ErrorIs(t, err, apperrors.ErrAuth)
}

func TestTokenUnknownUserType(t *testing.T) {
	m := NewTokenManager("test-secret")
	token, err := m.Generate(uuid.New(), "admin")
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrAuth, "unknown user types must not verify")
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{name: "valid", password: "abcd1234", wantErr: false},
		{name: "too short", password: "ab12", wantErr: true},
		{name: "no digit", password: "abcdefgh", wantErr: true},
		{name: "no letter", password: "12345678", wantErr: true},
		{name: "empty", password: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	digest, err := HashPassword("abcd1234")
	require.NoError(t, err)

	assert.True(t, CheckPassword("abcd1234", digest))
	assert.False(t, CheckPassword("wrong999", digest))
}
