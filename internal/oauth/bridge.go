package oauth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/auth"
	"github.com/vnrental/backend/internal/models"
	"go.uber.org/zap"
)

// Repository defines the identity-store operations the bridge needs.
type Repository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// Reconciler resolves a provider profile to a local user. The strategy is
// pluggable so a provider-linkage table can replace email correlation
// without touching the bridge's control flow.
type Reconciler interface {
	Reconcile(ctx context.Context, profile *Profile) (*models.User, error)
}

// MergeByEmail correlates provider identities by normalized email alone.
// Two provider accounts sharing an email deliberately collapse into one
// local account.
type MergeByEmail struct {
	repo   Repository
	logger *zap.Logger
}

// NewMergeByEmail constructs the email-correlation reconciler.
func NewMergeByEmail(repo Repository, logger *zap.Logger) *MergeByEmail {
	return &MergeByEmail{repo: repo, logger: logger.Named("oauth_reconcile")}
}

// Reconcile finds or creates the user for a provider profile. New accounts
// get an unusable random password, a synthesized unique phone, and are
// verified immediately.
func (m *MergeByEmail) Reconcile(ctx context.Context, profile *Profile) (*models.User, error) {
	user, err := m.repo.GetUserByEmail(ctx, profile.Email)
	if err == nil {
		return user, nil
	}
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		return nil, err
	}

	// Never used for login; only satisfies the non-empty credential column.
	seed := fmt.Sprintf("%s_%s_%d", profile.Provider, profile.ProviderUserID, time.Now().UnixNano())
	digest, err := auth.HashPassword(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	email := profile.Email
	user = &models.User{
		ID:       uuid.New(),
		Name:     profile.Name,
		Phone:    fmt.Sprintf("%s_%s", profile.Provider, profile.ProviderUserID),
		Email:    &email,
		Password: digest,
		Verified: true,
	}

	if createErr := m.repo.CreateUser(ctx, user); createErr != nil {
		if apperrors.KindOf(createErr) == apperrors.KindConflict {
			// A concurrent first login (or a reused provider id) may have
			// just created this account; the store's uniqueness constraint
			// rejected ours, so re-read by email.
			existing, lookupErr := m.repo.GetUserByEmail(ctx, profile.Email)
			if lookupErr == nil {
				m.logger.Info("recovered existing account after uniqueness conflict",
					zap.String("provider", profile.Provider),
				)
				return existing, nil
			}
			return nil, apperrors.Wrap(apperrors.KindConflict,
				"사용자 생성에 실패했습니다. 전화번호가 이미 사용 중입니다.", createErr)
		}
		return nil, createErr
	}

	m.logger.Info("created user from oauth profile",
		zap.String("provider", profile.Provider),
		zap.String("user_id", user.ID.String()),
	)
	return user, nil
}

// Bridge converts a provider authorization code into a local session.
type Bridge struct {
	providers  map[string]*Client
	reconciler Reconciler
	tokens     *auth.TokenManager
	logger     *zap.Logger
}

// NewBridge wires the provider clients to a reconciliation strategy.
func NewBridge(providers []*Client, reconciler Reconciler, tokens *auth.TokenManager, logger *zap.Logger) *Bridge {
	byName := make(map[string]*Client, len(providers))
	for _, p := range providers {
		byName[p.Name()] = p
	}
	return &Bridge{
		providers:  byName,
		reconciler: reconciler,
		tokens:     tokens,
		logger:     logger.Named("oauth_bridge"),
	}
}

// AuthURL returns the provider authorization URL for the login redirect.
func (b *Bridge) AuthURL(provider string) (string, error) {
	client, ok := b.providers[provider]
	if !ok {
		return "", apperrors.New(apperrors.KindValidation, "지원하지 않는 OAuth 제공자입니다.")
	}
	return client.AuthURL()
}

// Login runs the full callback pipeline: code exchange, profile fetch,
// identity reconciliation, session issuance. Terminal on first failure.
func (b *Bridge) Login(ctx context.Context, provider, code string) (*auth.Session, error) {
	client, ok := b.providers[provider]
	if !ok {
		return nil, apperrors.New(apperrors.KindValidation, "지원하지 않는 OAuth 제공자입니다.")
	}

	accessToken, err := client.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	profile, err := client.FetchProfile(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	user, err := b.reconciler.Reconcile(ctx, profile)
	if err != nil {
		return nil, err
	}

	token, err := b.tokens.Generate(user.ID, auth.UserTypeUser)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	b.logger.Info("oauth login",
		zap.String("provider", provider),
		zap.String("user_id", user.ID.String()),
	)
	return &auth.Session{Token: token, UserType: auth.UserTypeUser, User: user}, nil
}
