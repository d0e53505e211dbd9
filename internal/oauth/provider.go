// Package oauth implements the provider bridge: exchanging an authorization
// code for a provider access token, fetching the provider profile, and
// reconciling it against the identity store.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/config"
	"go.uber.org/zap"
)

// Provider names.
const (
	ProviderKakao  = "kakao"
	ProviderGoogle = "google"
)

// Profile is the normalized provider identity.
type Profile struct {
	ProviderUserID string
	Email          string
	Name           string
	Provider       string
}

// Endpoints holds a provider's OAuth URLs. Overridable in tests.
type Endpoints struct {
	AuthorizeURL string
	TokenURL     string
	UserInfoURL  string
}

var (
	kakaoEndpoints = Endpoints{
		AuthorizeURL: "https://kauth.kakao.com/oauth/authorize",
		TokenURL:     "https://kauth.kakao.com/oauth/token",
		UserInfoURL:  "https://kapi.kakao.com/v2/user/me",
	}
	googleEndpoints = Endpoints{
		AuthorizeURL: "https://accounts.google.com/o/oauth2/v2/auth",
		TokenURL:     "https://oauth2.googleapis.com/token",
		UserInfoURL:  "https://www.googleapis.com/oauth2/v2/userinfo",
	}
)

// Client talks to one OAuth provider.
type Client struct {
	name        string
	displayName string
	endpoints   Endpoints
	scope       string
	creds       config.OAuthProvider
	http        *http.Client
	logger      *zap.Logger
}

// New constructs a provider client. A nil httpClient gets a sane default.
func New(name, displayName string, endpoints Endpoints, scope string, creds config.OAuthProvider, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		name:        name,
		displayName: displayName,
		endpoints:   endpoints,
		scope:       scope,
		creds:       creds,
		http:        httpClient,
		logger:      logger.Named(name + "_oauth"),
	}
}

// NewKakao builds the Kakao client.
func NewKakao(creds config.OAuthProvider, logger *zap.Logger) *Client {
	return New(ProviderKakao, "카카오", kakaoEndpoints, "", creds, nil, logger)
}

// NewGoogle builds the Google client.
func NewGoogle(creds config.OAuthProvider, logger *zap.Logger) *Client {
	return New(ProviderGoogle, "구글", googleEndpoints, "email profile", creds, nil, logger)
}

// Name returns the provider identifier.
func (c *Client) Name() string {
	return c.name
}

// AuthURL builds the provider authorization URL. The redirect URI must match
// the provider-console registration exactly; it is passed through untouched
// apart from trimming.
func (c *Client) AuthURL() (string, error) {
	if c.creds.ClientID == "" {
		return "", apperrors.New(apperrors.KindInternal, c.displayName+" 클라이언트 ID가 설정되지 않았습니다.")
	}
	if c.creds.RedirectURI == "" {
		return "", apperrors.New(apperrors.KindInternal, c.displayName+" Redirect URI가 설정되지 않았습니다.")
	}

	authURL := fmt.Sprintf("%s?client_id=%s&redirect_uri=%s&response_type=code",
		c.endpoints.AuthorizeURL,
		url.QueryEscape(c.creds.ClientID),
		url.QueryEscape(strings.TrimSpace(c.creds.RedirectURI)),
	)
	if c.scope != "" {
		authURL += "&scope=" + url.QueryEscape(c.scope)
	}
	return authURL, nil
}

type tokenResponse struct {
	AccessToken      string `json:"access_token"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// Exchange trades an authorization code for an access token. The redirect
// URI sent here must exactly match the one used to obtain the code; the
// provider rejects the exchange otherwise and its error payload is surfaced.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{
		"grant_type":    {"authorization_code"},
		"client_id":     {c.creds.ClientID},
		"client_secret": {c.creds.ClientSecret},
		"redirect_uri":  {strings.TrimSpace(c.creds.RedirectURI)},
		"code":          {code},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoints.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.KindUpstream, c.displayName+" 토큰 요청에 실패했습니다.", err)
	}
	defer resp.Body.Close()

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", apperrors.Wrap(apperrors.KindUpstream, c.displayName+" 토큰 요청에 실패했습니다.", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := token.ErrorDescription
		if msg == "" {
			msg = token.Error
		}
		if msg == "" {
			msg = c.displayName + " 토큰 요청에 실패했습니다."
		}
		c.logger.Error("token exchange failed",
			zap.Int("status", resp.StatusCode),
			zap.String("provider_error", token.Error),
		)
		return "", apperrors.New(apperrors.KindUpstream, msg)
	}
	if token.AccessToken == "" {
		return "", apperrors.New(apperrors.KindUpstream, c.displayName+" 액세스 토큰을 받을 수 없습니다.")
	}
	return token.AccessToken, nil
}

// FetchProfile retrieves and normalizes the provider user profile.
func (c *Client) FetchProfile(ctx context.Context, accessToken string) (*Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoints.UserInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstream, c.displayName+" 사용자 정보를 가져올 수 없습니다.", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.Wrap(apperrors.KindUpstream, c.displayName+" 사용자 정보를 가져올 수 없습니다.", err)
	}

	profile, err := c.normalizeProfile(body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUpstream, c.displayName+" 사용자 정보를 가져올 수 없습니다.", err)
	}
	return profile, nil
}

func (c *Client) normalizeProfile(body []byte) (*Profile, error) {
	switch c.name {
	case ProviderKakao:
		var raw struct {
			ID           json.Number `json:"id"`
			KakaoAccount struct {
				Email   string `json:"email"`
				Profile struct {
					Nickname string `json:"nickname"`
				} `json:"profile"`
			} `json:"kakao_account"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, err
		}
		id := raw.ID.String()
		if id == "" {
			return nil, fmt.Errorf("missing kakao user id")
		}
		email := raw.KakaoAccount.Email
		if email == "" {
			email = id + "@kakao.com"
		}
		name := raw.KakaoAccount.Profile.Nickname
		if name == "" {
			name = "카카오사용자" + id
		}
		return &Profile{ProviderUserID: id, Email: email, Name: name, Provider: ProviderKakao}, nil

	case ProviderGoogle:
		var raw struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Name  string `json:"name"`
		}
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, err
		}
		if raw.ID == "" {
			return nil, fmt.Errorf("missing google user id")
		}
		email := raw.Email
		if email == "" {
			email = raw.ID + "@google.com"
		}
		name := raw.Name
		if name == "" {
			name = strings.SplitN(email, "@", 2)[0]
		}
		return &Profile{ProviderUserID: raw.ID, Email: email, Name: name, Provider: ProviderGoogle}, nil

	default:
		return nil, fmt.Errorf("unknown provider %q", c.name)
	}
}
