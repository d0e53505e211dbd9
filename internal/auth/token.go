package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/apperrors"
)

const tokenTTL = 7 * 24 * time.Hour

// UserType discriminates individual and company sessions.
const (
	UserTypeUser    = "user"
	UserTypeCompany = "company"
)

// Claims is the JWT payload bound to a session.
type Claims struct {
	UserID   string `json:"userId"`
	UserType string `json:"userType"`
	jwt.RegisteredClaims
}

// Identity is the verified principal attached to a request.
type Identity struct {
	ID       uuid.UUID
	UserType string
}

// TokenManager issues and verifies HS256 session tokens. There is no
// revocation list; logout is client-side token deletion.
type TokenManager struct {
	secret []byte
}

func NewTokenManager(secret string) *TokenManager {
	return &TokenManager{secret: []byte(secret)}
}

// Generate signs a token bound to (id, userType) with the fixed expiry.
func (m *TokenManager) Generate(id uuid.UUID, userType string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   id.String(),
		UserType: userType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token, returning the embedded identity.
func (m *TokenManager) Verify(tokenString string) (*Identity, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, apperrors.Wrap(apperrors.KindAuth, "유효하지 않은 토큰입니다.", err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindAuth, "유효하지 않은 토큰입니다.", err)
	}
	if claims.UserType != UserTypeUser && claims.UserType != UserTypeCompany {
		return nil, apperrors.New(apperrors.KindAuth, "유효하지 않은 토큰입니다.")
	}
	return &Identity{ID: id, UserType: claims.UserType}, nil
}
