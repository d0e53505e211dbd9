package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/models"
	"go.uber.org/zap"
)

const resetTokenTTL = 30 * time.Minute

// ResetRequestResult is returned for every reset request. The message is the
// same whether or not the account exists; the token is only populated when it
// does. Delivery out-of-band is not part of this system.
type ResetRequestResult struct {
	Message   string     `json:"message"`
	Token     string     `json:"token,omitempty"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// RequestPasswordReset issues an opaque single-use token for the account
// matching the identifier.
func (s *Service) RequestPasswordReset(ctx context.Context, identifier string, isEmail bool) (*ResetRequestResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, apperrors.New(apperrors.KindValidation, "전화번호 또는 이메일을 입력해주세요.")
	}

	result := &ResetRequestResult{Message: "비밀번호 재설정 토큰이 발급되었습니다."}

	userType, accountID, ok := s.findResetAccount(ctx, identifier, isEmail)
	if !ok {
		// Do not reveal whether the account exists.
		return result, nil
	}

	token := &models.PasswordResetToken{
		ID:        uuid.New(),
		Token:     strings.ReplaceAll(uuid.NewString(), "-", ""),
		UserType:  userType,
		AccountID: accountID,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}
	if err := s.repo.CreateResetToken(ctx, token); err != nil {
		return nil, err
	}

	result.Token = token.Token
	result.ExpiresAt = &token.ExpiresAt
	return result, nil
}

// ResetPassword consumes the token and writes the new password. The token is
// burned at validation time: a policy failure after this point still leaves
// it unusable. Intentional-for-now; see DESIGN.md.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	row, err := s.repo.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}

	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	digest, err := HashPassword(newPassword)
	if err != nil {
		return err
	}

	switch row.UserType {
	case UserTypeUser:
		_, err = s.repo.UpdateUser(ctx, row.AccountID, &models.UserUpdate{Password: &digest})
		return err
	case UserTypeCompany:
		company, err := s.repo.GetCompany(ctx, row.AccountID)
		if err != nil {
			return err
		}
		// Sibling companies share the credential.
		return s.repo.UpdateCompanyPassword(ctx, company.Phone, digest)
	default:
		return apperrors.New(apperrors.KindValidation, "유효하지 않은 토큰입니다.")
	}
}

func (s *Service) findResetAccount(ctx context.Context, identifier string, isEmail bool) (string, uuid.UUID, bool) {
	var user *models.User
	var err error
	if isEmail {
		user, err = s.repo.GetUserByEmail(ctx, identifier)
	} else {
		user, err = s.repo.GetUserByPhone(ctx, identifier)
	}
	if err == nil {
		return UserTypeUser, user.ID, true
	}

	company, err := s.repo.GetCompanyByLogin(ctx, identifier, isEmail, nil)
	if err == nil {
		return UserTypeCompany, company.ID, true
	}

	s.logger.Info("password reset requested for unknown identifier",
		zap.Bool("is_email", isEmail),
	)
	return "", uuid.Nil, false
}
