package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/vnrental/backend/internal/company"
	"go.uber.org/zap"
)

type companyHandler struct {
	svc    *company.Service
	logger *zap.Logger
}

func newCompanyHandler(svc *company.Service, logger *zap.Logger) *companyHandler {
	return &companyHandler{svc: svc, logger: logger.Named("company_handler")}
}

func (h *companyHandler) Profile(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}

	profile, err := h.svc.Profile(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": profile})
}

func (h *companyHandler) UpdateProfile(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}

	var input company.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	updated, err := h.svc.UpdateProfile(c.Request.Context(), identity.ID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": updated})
}

func (h *companyHandler) UpdateContactPhone(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}

	var input struct {
		ContactPhone string `json:"contactPhone"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	updated, err := h.svc.UpdateContactPhone(c.Request.Context(), identity.ID, input.ContactPhone)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": updated})
}

func (h *companyHandler) Add(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}

	var input company.AddInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	sibling, err := h.svc.AddCompany(c.Request.Context(), identity.ID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": sibling})
}

func (h *companyHandler) Stats(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
