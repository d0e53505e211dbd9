package auth

import (
	"unicode"

	"github.com/vnrental/backend/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

// HashPassword produces a bcrypt digest at the fixed cost factor.
func HashPassword(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// CheckPassword reports whether the password matches the stored digest.
func CheckPassword(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}

// ValidatePassword enforces the account password policy: at least 8
// characters containing at least one letter and one digit. OAuth-synthesized
// passwords bypass this; they are never used for login.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return apperrors.New(apperrors.KindValidation, "비밀번호는 8자 이상이며 영어와 숫자를 포함해야 합니다.")
	}
	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasLetter || !hasDigit {
		return apperrors.New(apperrors.KindValidation, "비밀번호는 8자 이상이며 영어와 숫자를 포함해야 합니다.")
	}
	return nil
}
