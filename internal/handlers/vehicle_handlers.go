package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vnrental/backend/internal/db"
	"github.com/vnrental/backend/internal/models"
	"github.com/vnrental/backend/internal/vehicle"
	"go.uber.org/zap"
)

type vehicleHandler struct {
	svc    *vehicle.Service
	logger *zap.Logger
}

func newVehicleHandler(svc *vehicle.Service, logger *zap.Logger) *vehicleHandler {
	return &vehicleHandler{svc: svc, logger: logger.Named("vehicle_handler")}
}

func (h *vehicleHandler) List(c *gin.Context) {
	filter := db.VehicleFilter{
		Region:      c.Query("region"),
		VehicleType: c.Query("vehicleType"),
		Page:        intQuery(c, "page", 1),
		Limit:       intQuery(c, "limit", 20),
	}
	if v, err := strconv.Atoi(c.Query("minFee")); err == nil {
		filter.MinFee = &v
	}
	if v, err := strconv.Atoi(c.Query("maxFee")); err == nil {
		filter.MaxFee = &v
	}

	result, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *vehicleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "차량을 찾을 수 없습니다."})
		return
	}

	v, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *vehicleHandler) Create(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}

	var input vehicle.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	v, err := h.svc.Create(c.Request.Context(), identity.ID, input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *vehicleHandler) My(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}

	vehicles, err := h.svc.My(c.Request.Context(), identity.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, vehicles)
}

func (h *vehicleHandler) Update(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "차량을 찾을 수 없습니다."})
		return
	}

	var update models.VehicleUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "잘못된 요청입니다."})
		return
	}

	v, err := h.svc.Update(c.Request.Context(), identity.ID, id, &update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *vehicleHandler) Delete(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "인증이 필요합니다."})
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "차량을 찾을 수 없습니다."})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), identity.ID, id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "차량이 삭제되었습니다."})
}

func (h *vehicleHandler) StatsByRegion(c *gin.Context) {
	stats, err := h.svc.StatsByRegion(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *vehicleHandler) StatsByType(c *gin.Context) {
	stats, err := h.svc.StatsByType(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
