package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending   PurchaseOrderStatus = "pending"
	PurchaseOrderStatusPartial   PurchaseOrderStatus = "partial"
	PurchaseOrderStatusCompleted PurchaseOrderStatus = "completed"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusPartial,
		PurchaseOrderStatusCompleted, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

type PurchaseOrderItem struct {
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

type PurchaseOrder struct {
	ID        string              `json:"id"`
	Supplier  string              `json:"supplier"`
	OrderedAt time.Time           `json:"ordered_at"`
	Status    PurchaseOrderStatus `json:"status"`
	Items     []PurchaseOrderItem `json:"items"`
	Total     decimal.Decimal     `json:"total"`
	CreatedBy string              `json:"created_by"`
}

// ComputeTotal sums quantity x unit price over the line items. It is computed
// once at creation; the stored total is never recalculated afterwards.
func (po *PurchaseOrder) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range po.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func (po *PurchaseOrder) FindItem(productCode string) *PurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].ProductCode == productCode {
			return &po.Items[i]
		}
	}
	return nil
}

type FlatPurchaseOrderRecord struct {
	ID        string    `db:"id"`
	Supplier  string    `db:"supplier"`
	OrderedAt time.Time `db:"ordered_at"`
	Status    string    `db:"status"`
	Total     string    `db:"total"`
	CreatedBy string    `db:"created_by"`
}

type FlatPurchaseOrderItemRecord struct {
	PurchaseOrderID string `db:"purchase_order_id"`
	ProductCode     string `db:"product_code"`
	ProductName     string `db:"product_name"`
	Quantity        int    `db:"quantity"`
	UnitPrice       string `db:"unit_price"`
}

func (fp *FlatPurchaseOrderRecord) TransformToPurchaseOrder() (PurchaseOrder, error) {
	total, err := decimal.NewFromString(fp.Total)
	if err != nil {
		return PurchaseOrder{}, err
	}

	return PurchaseOrder{
		ID:        fp.ID,
		Supplier:  fp.Supplier,
		OrderedAt: fp.OrderedAt,
		Status:    PurchaseOrderStatus(fp.Status),
		Total:     total,
		CreatedBy: fp.CreatedBy,
	}, nil
}

func (fi *FlatPurchaseOrderItemRecord) TransformToItem() (PurchaseOrderItem, error) {
	unitPrice, err := decimal.NewFromString(fi.UnitPrice)
	if err != nil {
		return PurchaseOrderItem{}, err
	}

	return PurchaseOrderItem{
		ProductCode: fi.ProductCode,
		ProductName: fi.ProductName,
		Quantity:    fi.Quantity,
		UnitPrice:   unitPrice,
	}, nil
}

func (po *PurchaseOrder) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   po.ID,
		ResourceType: "purchase_order",
	}
}
