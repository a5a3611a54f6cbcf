package lots

import (
	"net/http"

	"pharmhouse/internal/fefo"
	"pharmhouse/pkg/auditlog"
	custom_error "pharmhouse/pkg/errors"
	"pharmhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/gin-gonic/gin"
)

type LotHandler struct {
	IntakeService *IntakeService
	LotRepository *LotRepository
	AuditLog      *auditlog.Auditlog
}

func NewLotHandler(s *IntakeService, r *LotRepository, a *auditlog.Auditlog) *LotHandler {
	return &LotHandler{
		IntakeService: s,
		LotRepository: r,
		AuditLog:      a,
	}
}

func (h *LotHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/lots/intake", h.RegisterIntake)
	router.GET("/lots", h.GetLots)
	router.GET("/lots/pending", h.GetPendingLots)
	router.GET("/lots/fefo", h.GetFEFOOrder)
	router.GET("/lots/:id", h.GetLot)
}

func (h *LotHandler) RegisterIntake(c *gin.Context) {
	var intakeRequest IntakeRequest

	if err := c.ShouldBindJSON(&intakeRequest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	lot, verdict, err := h.IntakeService.RegisterLot(intakeRequest)
	if err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to register lot"})
		return
	}

	go h.AuditLog.Log(
		"add_item",
		intakeRequest.RegisteredBy,
		map[string]interface{}{
			"product_code": lot.ProductCode,
			"lot_code":     lot.LotCode,
			"quantity":     lot.Quantity,
			"msg":          "Register lot at warehouse intake",
		},
		lot,
	)
	go h.AuditLog.Log(
		"validate_item",
		intakeRequest.RegisteredBy,
		map[string]interface{}{
			"is_valid": verdict.IsValid,
			"errors":   verdict.Errors,
			"warnings": verdict.Warnings,
		},
		lot,
	)

	status := http.StatusCreated
	if !verdict.IsValid {
		status = http.StatusOK
	}

	c.JSON(status, gin.H{"lot": lot, "verdict": verdict})
}

func (h *LotHandler) GetLots(c *gin.Context) {
	conditions := goqu.Ex{}

	if productCode := c.Query("product"); productCode != "" {
		conditions["product_code"] = productCode
	}
	if status := c.Query("status"); status != "" {
		if !models.LotStatus(status).IsValid() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Unknown lot status"})
			return
		}
		conditions["status"] = status
	}

	lots, err := h.LotRepository.GetLotsBy(conditions)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lots"})
		return
	}

	c.JSON(http.StatusOK, lots)
}

func (h *LotHandler) GetPendingLots(c *gin.Context) {
	lots, err := h.LotRepository.GetLotsBy(goqu.Ex{"status": string(models.LotStatusPendingValidation)})
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lots"})
		return
	}

	c.JSON(http.StatusOK, lots)
}

// GetFEFOOrder returns active lots in consumption order, the view the
// dispatch screens work from.
func (h *LotHandler) GetFEFOOrder(c *gin.Context) {
	conditions := goqu.Ex{"status": string(models.LotStatusActive)}
	if productCode := c.Query("product"); productCode != "" {
		conditions["product_code"] = productCode
	}

	lots, err := h.LotRepository.GetLotsBy(conditions)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lots"})
		return
	}

	c.JSON(http.StatusOK, fefo.Sort(lots))
}

func (h *LotHandler) GetLot(c *gin.Context) {
	lot, err := h.LotRepository.GetLot(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch lot"})
		return
	}
	if lot == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Lot not found"})
		return
	}

	c.JSON(http.StatusOK, lot)
}
