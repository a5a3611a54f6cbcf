package alerts

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ThresholdRequest struct {
	Threshold int `json:"threshold" binding:"required,gt=0"`
}

type AlertHandler struct {
	Service             *AlertService
	AlertRepository     *AlertRepository
	ThresholdRepository *ThresholdRepository
}

func NewAlertHandler(s *AlertService, r *AlertRepository, t *ThresholdRepository) *AlertHandler {
	return &AlertHandler{
		Service:             s,
		AlertRepository:     r,
		ThresholdRepository: t,
	}
}

func (h *AlertHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/alerts/scan", h.Scan)
	router.GET("/alerts", h.GetAlerts)
	router.PATCH("/alerts/:id/read", h.MarkRead)
	router.PUT("/alerts/thresholds/:productCode", h.SetThreshold)
}

func (h *AlertHandler) Scan(c *gin.Context) {
	alerts, err := h.Service.Scan()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan inventory for alerts"})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) GetAlerts(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"

	alerts, err := h.AlertRepository.GetAlertList(unreadOnly)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch alerts"})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (h *AlertHandler) MarkRead(c *gin.Context) {
	if err := h.AlertRepository.MarkRead(c.Param("id")); err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AlertHandler) SetThreshold(c *gin.Context) {
	var thresholdRequest ThresholdRequest

	if err := c.ShouldBindJSON(&thresholdRequest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	if err := h.ThresholdRepository.SetThreshold(c.Param("productCode"), thresholdRequest.Threshold); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to set threshold"})
		return
	}

	c.Status(http.StatusNoContent)
}
