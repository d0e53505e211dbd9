package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/oauth"
	"go.uber.org/zap"
)

type oauthHandler struct {
	bridge      *oauth.Bridge
	frontendURL string
	logger      *zap.Logger
}

func newOAuthHandler(bridge *oauth.Bridge, frontendURL string, logger *zap.Logger) *oauthHandler {
	return &oauthHandler{bridge: bridge, frontendURL: frontendURL, logger: logger.Named("oauth_handler")}
}

// AuthURL returns the provider authorization URL as JSON for the frontend to
// redirect to.
func (h *oauthHandler) AuthURL(c *gin.Context) {
	authURL, err := h.bridge.AuthURL(c.Param("provider"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"authUrl": authURL})
}

// Callback lands the browser after provider consent. Every outcome, success
// or failure, is a redirect back to the frontend so the user never sees a
// bare JSON page.
func (h *oauthHandler) Callback(c *gin.Context) {
	provider := c.Param("provider")

	code := c.Query("code")
	if code == "" {
		h.redirectLoginError(c, "인증 코드가 없습니다.")
		return
	}

	session, err := h.bridge.Login(c.Request.Context(), provider, code)
	if err != nil {
		h.logger.Warn("oauth callback failed",
			zap.String("provider", provider),
			zap.Error(err),
		)
		h.redirectLoginError(c, apperrors.Message(err))
		return
	}

	userJSON, err := json.Marshal(session.User)
	if err != nil {
		h.logger.Error("failed to encode oauth user", zap.Error(err))
		h.redirectLoginError(c, "서버 오류가 발생했습니다.")
		return
	}

	target := fmt.Sprintf("%s/oauth/callback?token=%s&userType=%s&user=%s",
		h.frontendURL,
		url.QueryEscape(session.Token),
		url.QueryEscape(session.UserType),
		url.QueryEscape(string(userJSON)),
	)
	c.Redirect(http.StatusFound, target)
}

func (h *oauthHandler) redirectLoginError(c *gin.Context, message string) {
	c.Redirect(http.StatusFound, h.frontendURL+"/login?error="+url.QueryEscape(message))
}
