package models

import (
	"encoding/json"
	"time"
)

type LotStatus string

const (
	LotStatusPendingValidation LotStatus = "pending_validation"
	LotStatusActive            LotStatus = "active"
	LotStatusRejected          LotStatus = "rejected"
)

func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusPendingValidation, LotStatusActive, LotStatusRejected:
		return true
	}
	return false
}

// Lot is a single received batch of one product. Quantity only ever goes down
// after activation; status is fixed once validation finalizes it.
type Lot struct {
	ID               string          `json:"id"`
	ProductCode      string          `json:"product_code"`
	ProductName      string          `json:"product_name"`
	LotCode          string          `json:"lot_code"`
	Quantity         int             `json:"quantity"`
	OriginalQuantity int             `json:"original_quantity"`
	ExpirationDate   time.Time       `json:"expiration_date"`
	Supplier         string          `json:"supplier"`
	PurchaseOrderID  string          `json:"purchase_order_id"`
	RegisteredAt     time.Time       `json:"registered_at"`
	RegisteredBy     string          `json:"registered_by"`
	Status           LotStatus       `json:"status"`
	ValidationResult json.RawMessage `json:"validation_result,omitempty"`
	ValidatedAt      *time.Time      `json:"validated_at,omitempty"`
	ValidatedBy      *string         `json:"validated_by,omitempty"`
}

type FlatLotRecord struct {
	ID               string     `db:"id"`
	ProductCode      string     `db:"product_code"`
	ProductName      string     `db:"product_name"`
	LotCode          string     `db:"lot_code"`
	Quantity         int        `db:"quantity"`
	OriginalQuantity int        `db:"original_quantity"`
	ExpirationDate   time.Time  `db:"expiration_date"`
	Supplier         string     `db:"supplier"`
	PurchaseOrderID  string     `db:"purchase_order_id"`
	RegisteredAt     time.Time  `db:"registered_at"`
	RegisteredBy     string     `db:"registered_by"`
	Status           string     `db:"status"`
	ValidationRaw    []byte     `db:"validation_result"`
	ValidatedAt      *time.Time `db:"validated_at"`
	ValidatedBy      *string    `db:"validated_by"`
}

func (fl *FlatLotRecord) TransformToLot() Lot {
	lot := Lot{
		ID:               fl.ID,
		ProductCode:      fl.ProductCode,
		ProductName:      fl.ProductName,
		LotCode:          fl.LotCode,
		Quantity:         fl.Quantity,
		OriginalQuantity: fl.OriginalQuantity,
		ExpirationDate:   fl.ExpirationDate,
		Supplier:         fl.Supplier,
		PurchaseOrderID:  fl.PurchaseOrderID,
		RegisteredAt:     fl.RegisteredAt,
		RegisteredBy:     fl.RegisteredBy,
		Status:           LotStatus(fl.Status),
		ValidatedAt:      fl.ValidatedAt,
		ValidatedBy:      fl.ValidatedBy,
	}

	if len(fl.ValidationRaw) > 0 {
		lot.ValidationResult = json.RawMessage(fl.ValidationRaw)
	}

	return lot
}

func (l *Lot) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   l.ID,
		ResourceType: "lot",
	}
}
