package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/apperrors"
	"github.com/vnrental/backend/internal/payment"
	"go.uber.org/zap"
)

type paymentHandler struct {
	svc    *payment.Service
	logger *zap.Logger
}

func newPaymentHandler(svc *payment.Service, logger *zap.Logger) *paymentHandler {
	return &paymentHandler{svc: svc, logger: logger.Named("payment_handler")}
}

func (h *paymentHandler) Create(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}

	var input struct {
		VehicleID uuid.UUID `json:"vehicleId"`
		Amount    int       `json:"amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil || input.VehicleID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	p, err := h.svc.Create(c.Request.Context(), identity.ID, input.VehicleID, input.Amount)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *paymentHandler) Status(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}
	vehicleID, err := uuid.Parse(c.Param("vehicleId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "차량을 찾을 수 없습니다."})
		return
	}

	paid, err := h.svc.Status(c.Request.Context(), identity.ID, vehicleID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"isPaid": paid})
}

func (h *paymentHandler) Contact(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}
	vehicleID, err := uuid.Parse(c.Param("vehicleId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "차량을 찾을 수 없습니다."})
		return
	}

	result, err := h.svc.Contact(c.Request.Context(), identity.ID, vehicleID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindForbidden {
			c.JSON(http.StatusForbidden, gin.H{"isPaid": false, "message": apperrors.Message(err)})
			return
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
