// Package auth implements the credential service: registration, login,
// profile management, company switching and the password-reset lifecycle for
// both individual users and companies.
package auth

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/events"
	"github.com/vnrental/backend/internal/models"
	"go.uber.org/zap"
)

// Repository defines the storage operations the credential service needs.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByPhone(ctx context.Context, phone string) (*models.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, update *models.UserUpdate) (*models.User, error)

	CreateCompany(ctx context.Context, company *models.Company) error
	GetCompany(ctx context.Context, id uuid.UUID) (*models.Company, error)
	GetCompanyByLogin(ctx context.Context, identifier string, isEmail bool, defaultCompanyID *uuid.UUID) (*models.Company, error)
	ListCompaniesByPhone(ctx context.Context, phone string) ([]models.Company, error)
	UpdateCompanyPassword(ctx context.Context, phone, passwordHash string) error
	MarkCompanyVerified(ctx context.Context, businessNumber string) error

	CreateResetToken(ctx context.Context, token *models.PasswordResetToken) error
	ConsumeResetToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
}

// EventProducer publishes domain events.
type EventProducer interface {
	Produce(eventType events.EventType, entityID uuid.UUID, payload any)
}

// Session is the response for every successful authentication.
type Session struct {
	Token    string `json:"token"`
	UserType string `json:"userType"`
	User     any    `json:"user"`
}

// Service provides credential operations over the identity store.
type Service struct {
	repo     Repository
	tokens   *TokenManager
	producer EventProducer
	logger   *zap.Logger
}

// NewService constructs the credential service.
func NewService(repo Repository, tokens *TokenManager, producer EventProducer, logger *zap.Logger) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		producer: producer,
		logger:   logger.Named("auth_service"),
	}
}

// RegisterUserInput carries an individual registration request.
type RegisterUserInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterUser creates an individual account and issues a session.
func (s *Service) RegisterUser(ctx context.Context, input RegisterUserInput) (*Session, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Phone) == "" {
		return nil, apperrors.New(apperrors.KindValidation, "이름과 전화번호를 입력해주세요.")
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	digest, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:       uuid.New(),
		Name:     strings.TrimSpace(input.Name),
		Phone:    strings.TrimSpace(input.Phone),
		Password: digest,
	}
	if email := strings.TrimSpace(input.Email); email != "" {
		user.Email = &email
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.producer.Produce(events.UserRegistered, user.ID, nil)
	return s.sessionFor(user.ID, UserTypeUser, user)
}

// RegisterCompanyInput carries a company registration request.
type RegisterCompanyInput struct {
	BusinessNumber string `json:"businessNumber"`
	CompanyName    string `json:"companyName"`
	Representative string `json:"representative"`
	Phone          string `json:"phone"`
	ContactPhone   string `json:"contactPhone"`
	Email          string `json:"email"`
	Password       string `json:"password"`
}

// RegisterCompany creates a business account and issues a session.
func (s *Service) RegisterCompany(ctx context.Context, input RegisterCompanyInput) (*Session, error) {
	if strings.TrimSpace(input.BusinessNumber) == "" ||
		strings.TrimSpace(input.CompanyName) == "" ||
		strings.TrimSpace(input.Phone) == "" {
		return nil, apperrors.New(apperrors.KindValidation, "사업자등록번호, 회사명, 전화번호를 입력해주세요.")
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	digest, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	company := &models.Company{
		ID:             uuid.New(),
		BusinessNumber: strings.TrimSpace(input.BusinessNumber),
		CompanyName:    strings.TrimSpace(input.CompanyName),
		Representative: strings.TrimSpace(input.Representative),
		Phone:          strings.TrimSpace(input.Phone),
		ContactPhone:   strings.TrimSpace(input.ContactPhone),
		Email:          strings.TrimSpace(input.Email),
		Password:       digest,
	}

	if err := s.repo.CreateCompany(ctx, company); err != nil {
		return nil, err
	}

	s.producer.Produce(events.CompanyRegistered, company.ID, nil)
	return s.sessionFor(company.ID, UserTypeCompany, company)
}

// LoginInput carries a credential login. Identifier is a phone number unless
// IsEmail is set. DefaultCompanyID picks a sibling company of a multi-company
// account.
type LoginInput struct {
	Identifier       string     `json:"identifier"`
	IsEmail          bool       `json:"isEmail"`
	Password         string     `json:"password"`
	UserType         string     `json:"userType"`
	DefaultCompanyID *uuid.UUID `json:"defaultCompanyId"`
}

// Login verifies credentials and issues a session.
func (s *Service) Login(ctx context.Context, input LoginInput) (*Session, error) {
	if strings.TrimSpace(input.Identifier) == "" || strings.TrimSpace(input.Password) == "" || strings.TrimSpace(input.UserType) == "" {
		return nil, apperrors.New(apperrors.KindValidation, "전화번호/이메일, 비밀번호, 사용자 타입을 입력해주세요.")
	}

	identifier := strings.TrimSpace(input.Identifier)
	switch input.UserType {
	case UserTypeUser:
		var user *models.User
		var err error
		if input.IsEmail {
			user, err = s.repo.GetUserByEmail(ctx, identifier)
		} else {
			user, err = s.repo.GetUserByPhone(ctx, identifier)
		}
		if err != nil {
			return nil, apperrors.New(apperrors.KindAuth, "전화번호/이메일 또는 비밀번호가 잘못되었습니다.")
		}
		if !CheckPassword(input.Password, user.Password) {
			return nil, apperrors.New(apperrors.KindAuth, "전화번호/이메일 또는 비밀번호가 잘못되었습니다.")
		}
		return s.sessionFor(user.ID, UserTypeUser, user)

	case UserTypeCompany:
		company, err := s.repo.GetCompanyByLogin(ctx, identifier, input.IsEmail, input.DefaultCompanyID)
		if err != nil {
			return nil, apperrors.New(apperrors.KindAuth, "전화번호/이메일 또는 비밀번호가 잘못되었습니다.")
		}
		if !CheckPassword(input.Password, company.Password) {
			return nil, apperrors.New(apperrors.KindAuth, "전화번호/이메일 또는 비밀번호가 잘못되었습니다.")
		}
		return s.sessionFor(company.ID, UserTypeCompany, company)

	default:
		return nil, apperrors.New(apperrors.KindValidation, "사용자 타입이 올바르지 않습니다.")
	}
}

// Me returns the account projection for a verified identity.
func (s *Service) Me(ctx context.Context, identity Identity) (*Session, error) {
	switch identity.UserType {
	case UserTypeUser:
		user, err := s.repo.GetUser(ctx, identity.ID)
		if err != nil {
			return nil, err
		}
		return &Session{UserType: UserTypeUser, User: user}, nil
	case UserTypeCompany:
		company, err := s.repo.GetCompany(ctx, identity.ID)
		if err != nil {
			return nil, err
		}
		return &Session{UserType: UserTypeCompany, User: company}, nil
	default:
		return nil, apperrors.New(apperrors.KindValidation, "사용자 타입이 올바르지 않습니다.")
	}
}

// UpdateProfileInput carries a partial profile update for individual users.
// Changing the password requires the current one.
type UpdateProfileInput struct {
	Name            *string `json:"name"`
	Phone           *string `json:"phone"`
	Email           *string `json:"email"`
	CurrentPassword *string `json:"currentPassword"`
	NewPassword     *string `json:"newPassword"`
}

// UpdateUserProfile updates an individual account.
func (s *Service) UpdateUserProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	update := &models.UserUpdate{
		Name:  input.Name,
		Phone: input.Phone,
		Email: input.Email,
	}

	if input.NewPassword != nil && strings.TrimSpace(*input.NewPassword) != "" {
		if input.CurrentPassword == nil || strings.TrimSpace(*input.CurrentPassword) == "" {
			return nil, apperrors.New(apperrors.KindValidation, "기존 비밀번호를 입력해주세요.")
		}
		if !CheckPassword(strings.TrimSpace(*input.CurrentPassword), user.Password) {
			return nil, apperrors.New(apperrors.KindValidation, "기존 비밀번호가 올바르지 않습니다.")
		}
		if err := ValidatePassword(*input.NewPassword); err != nil {
			return nil, err
		}
		digest, err := HashPassword(strings.TrimSpace(*input.NewPassword))
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		update.Password = &digest
	}

	return s.repo.UpdateUser(ctx, userID, update)
}

// SwitchCompany re-authenticates a company session against a sibling company.
// The target must be registered under the current company's phone number.
func (s *Service) SwitchCompany(ctx context.Context, currentCompanyID, targetCompanyID uuid.UUID, password string) (*Session, error) {
	current, err := s.repo.GetCompany(ctx, currentCompanyID)
	if err != nil {
		return nil, err
	}

	siblings, err := s.repo.ListCompaniesByPhone(ctx, current.Phone)
	if err != nil {
		return nil, err
	}
	var target *models.Company
	for i := range siblings {
		if siblings[i].ID == targetCompanyID {
			target = &siblings[i]
			break
		}
	}
	if target == nil {
		return nil, apperrors.New(apperrors.KindForbidden, "전환 권한이 없습니다.")
	}
	if !CheckPassword(password, target.Password) {
		return nil, apperrors.New(apperrors.KindAuth, "비밀번호가 올바르지 않습니다.")
	}
	return s.sessionFor(target.ID, UserTypeCompany, target)
}

var businessNumberPattern = regexp.MustCompile(`^(\d{3}-\d{2}-\d{5}|\d{10})$`)

// VerifyBusinessNumber validates the registration-number format and records
// the verification on the matching company, if one is registered yet.
func (s *Service) VerifyBusinessNumber(ctx context.Context, businessNumber string) error {
	if !businessNumberPattern.MatchString(strings.TrimSpace(businessNumber)) {
		return apperrors.New(apperrors.KindValidation, "사업자등록번호 형식이 올바르지 않습니다.")
	}
	err := s.repo.MarkCompanyVerified(ctx, strings.TrimSpace(businessNumber))
	if err != nil && apperrors.KindOf(err) != apperrors.KindNotFound {
		return err
	}
	return nil
}

func (s *Service) sessionFor(id uuid.UUID, userType string, account any) (*Session, error) {
	token, err := s.tokens.Generate(id, userType)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return &Session{Token: token, UserType: userType, User: account}, nil
}
