package dispatch

import (
	"net/http"
	"strconv"

	"pharmhouse/pkg/auditlog"

	"github.com/gin-gonic/gin"
)

type DispatchRequest struct {
	ProductCode  string `json:"product_code" binding:"required"`
	Quantity     int    `json:"quantity" binding:"required,gt=0"`
	DispatchedBy string `json:"dispatched_by" binding:"required"`
}

type PlanRequest struct {
	ProductCode string `json:"product_code" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
}

type DispatchHandler struct {
	Service  *DispatchService
	AuditLog *auditlog.Auditlog
}

func NewDispatchHandler(s *DispatchService, a *auditlog.Auditlog) *DispatchHandler {
	return &DispatchHandler{
		Service:  s,
		AuditLog: a,
	}
}

func (h *DispatchHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/dispatch/plan", h.PlanDispatch)
	router.POST("/dispatch", h.PerformDispatch)
	router.GET("/dispatch/availability", h.CheckAvailability)
}

// PlanDispatch returns the FEFO allocation proposal without committing stock.
func (h *DispatchHandler) PlanDispatch(c *gin.Context) {
	var planRequest PlanRequest

	if err := c.ShouldBindJSON(&planRequest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	plan, err := h.Service.Plan(planRequest.ProductCode, planRequest.Quantity)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to plan dispatch"})
		return
	}

	c.JSON(http.StatusOK, plan)
}

func (h *DispatchHandler) PerformDispatch(c *gin.Context) {
	var dispatchRequest DispatchRequest

	if err := c.ShouldBindJSON(&dispatchRequest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	plan, err := h.Service.Dispatch(dispatchRequest.ProductCode, dispatchRequest.Quantity)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to perform dispatch"})
		return
	}

	for _, allocation := range plan.Allocations {
		lot := allocation.Lot
		go h.AuditLog.Log(
			"dispatch",
			dispatchRequest.DispatchedBy,
			map[string]interface{}{
				"product_code": lot.ProductCode,
				"lot_code":     lot.LotCode,
				"taken":        allocation.Quantity,
				"requested":    dispatchRequest.Quantity,
			},
			&lot,
		)
	}

	c.JSON(http.StatusOK, plan)
}

func (h *DispatchHandler) CheckAvailability(c *gin.Context) {
	productCode := c.Query("product")
	if productCode == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing product query parameter"})
		return
	}

	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || quantity <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Quantity must be a positive integer"})
		return
	}

	availability, err := h.Service.Availability(productCode, quantity)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to check availability"})
		return
	}

	c.JSON(http.StatusOK, availability)
}
