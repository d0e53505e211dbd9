package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/auth"
	"go.uber.org/zap"
)

type authHandler struct {
	svc    *auth.Service
	logger *zap.Logger
}

func newAuthHandler(svc *auth.Service, logger *zap.Logger) *authHandler {
	return &authHandler{svc: svc, logger: logger.Named("auth_handler")}
}

func (h *authHandler) RegisterUser(c *gin.Context) {
	var input auth.RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	session, err := h.svc.RegisterUser(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *authHandler) RegisterCompany(c *gin.Context) {
	var input auth.RegisterCompanyInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	session, err := h.svc.RegisterCompany(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *authHandler) Login(c *gin.Context) {
	var input auth.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	session, err := h.svc.Login(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *authHandler) Me(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}

	session, err := h.svc.Me(c.Request.Context(), identity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *authHandler) UpdateProfile(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}

	var input auth.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	user, err := h.svc.UpdateUserProfile(c.Request.Context(), identity.ID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *authHandler) SwitchCompany(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}

	var input struct {
		CompanyID uuid.UUID `json:"companyId"`
		Password  string    `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.CompanyID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "전환할 회사를 선택해주세요."})
		return
	}

	session, err := h.svc.SwitchCompany(c.Request.Context(), identity.ID, input.CompanyID, input.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *authHandler) VerifyBusiness(c *gin.Context) {
	var input struct {
		BusinessNumber string `json:"businessNumber"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	if err := h.svc.VerifyBusinessNumber(c.Request.Context(), input.BusinessNumber); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"verified": true, "message": "사업자등록번호가 확인되었습니다."})
}

func (h *authHandler) RequestPasswordReset(c *gin.Context) {
	var input struct {
		Identifier string `json:"identifier"`
		IsEmail    bool   `json:"isEmail"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	result, err := h.svc.RequestPasswordReset(c.Request.Context(), input.Identifier, input.IsEmail)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *authHandler) ResetPassword(c *gin.Context) {
	var input struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	if err := h.svc.ResetPassword(c.Request.Context(), input.Token, input.NewPassword); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "비밀번호가 변경되었습니다."})
}
