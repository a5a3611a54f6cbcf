package purchases

import (
	"net/http"
	"time"

	"pharmhouse/internal/alerting"
	"pharmhouse/pkg/auditlog"
	custom_error "pharmhouse/pkg/errors"
	"pharmhouse/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type PurchaseOrderItemRequest struct {
	ProductCode string          `json:"product_code" binding:"required"`
	ProductName string          `json:"product_name" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
}

type PurchaseOrderRequest struct {
	ID        string                     `json:"id"`
	Supplier  string                     `json:"supplier" binding:"required"`
	CreatedBy string                     `json:"created_by" binding:"required"`
	Items     []PurchaseOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type PurchaseHandler struct {
	Repository *PurchaseRepository
	AuditLog   *auditlog.Auditlog
	IDs        alerting.IDGenerator
}

func NewPurchaseHandler(r *PurchaseRepository, a *auditlog.Auditlog, ids alerting.IDGenerator) *PurchaseHandler {
	return &PurchaseHandler{
		Repository: r,
		AuditLog:   a,
		IDs:        ids,
	}
}

func (h *PurchaseHandler) RegisterRoutes(router *gin.Engine) {
	router.POST("/purchase-orders", h.CreatePurchaseOrder)
	router.GET("/purchase-orders", h.GetPurchaseOrders)
	router.GET("/purchase-orders/:id", h.GetPurchaseOrder)
}

func (h *PurchaseHandler) CreatePurchaseOrder(c *gin.Context) {
	var orderRequest PurchaseOrderRequest

	if err := c.ShouldBindJSON(&orderRequest); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload"})
		return
	}

	po := models.PurchaseOrder{
		ID:        orderRequest.ID,
		Supplier:  orderRequest.Supplier,
		OrderedAt: time.Now(),
		Status:    models.PurchaseOrderStatusPending,
		CreatedBy: orderRequest.CreatedBy,
	}
	if po.ID == "" {
		po.ID = "PO-" + h.IDs.NewID()
	}

	for _, item := range orderRequest.Items {
		po.Items = append(po.Items, models.PurchaseOrderItem{
			ProductCode: item.ProductCode,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}
	po.Total = po.ComputeTotal()

	if err := h.Repository.PersistPurchaseOrder(po); err != nil {
		if _, ok := err.(*custom_error.UniqueViolationError); ok {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create purchase order"})
		return
	}

	go h.AuditLog.Log(
		"create",
		orderRequest.CreatedBy,
		map[string]interface{}{
			"supplier": po.Supplier,
			"total":    po.Total.String(),
			"items":    len(po.Items),
			"msg":      "Register purchase order",
		},
		&po,
	)

	c.JSON(http.StatusCreated, po)
}

func (h *PurchaseHandler) GetPurchaseOrders(c *gin.Context) {
	orders, err := h.Repository.GetPurchaseOrderList()
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase orders"})
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *PurchaseHandler) GetPurchaseOrder(c *gin.Context) {
	po, err := h.Repository.GetPurchaseOrder(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purchase order"})
		return
	}
	if po == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Purchase order not found"})
		return
	}

	c.JSON(http.StatusOK, po)
}
