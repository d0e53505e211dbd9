package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/auth"
	"go.uber.org/zap"
)

const identityKey = "identity"

// RequireAuth verifies the bearer token and stores the identity on the
// request context.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
			return
		}

		identity, err := tokens.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(apperrors.HTTPStatus(err), gin.H{"message": apperrors.Message(err)})
			return
		}

		c.Set(identityKey, *identity)
		c.Next()
	}
}

// RequireUserType rejects identities of the wrong type. Must run after
// RequireAuth.
func RequireUserType(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := identityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
			return
		}
		if identity.UserType != userType {
			var msg string
			if userType == auth.UserTypeCompany {
				msg = "회사 계정만 사용할 수 있습니다."
			} else {
				msg = "개인 계정만 사용할 수 있습니다."
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": msg})
			return
		}
		c.Next()
	}
}

func identityFrom(c *gin.Context) (auth.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return auth.Identity{}, false
	}
	identity, ok := v.(auth.Identity)
	return identity, ok
}

// respondError writes the uniform JSON error envelope. Unclassified errors
// are logged with their cause; clients only ever see the mapped message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	if apperrors.KindOf(err) == apperrors.KindInternal {
		logger.Error("request failed",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	c.JSON(apperrors.HTTPStatus(err), gin.H{"message": apperrors.Message(err)})
}
