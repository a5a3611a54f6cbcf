package lots

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"pharmhouse/internal/alerting"
	"pharmhouse/internal/validation"
	"pharmhouse/pkg/models"
)

type LotStore interface {
	CreateValidatedLot(lot models.Lot, verdictRaw []byte) error
}

type PurchaseOrderSource interface {
	GetPurchaseOrderList() ([]models.PurchaseOrder, error)
}

type AlertSink interface {
	UpsertAlert(alert models.Alert) error
}

type IntakeRequest struct {
	ProductCode     string              `json:"product_code" binding:"required"`
	ProductName     string              `json:"product_name" binding:"required"`
	LotCode         string              `json:"lot_code" binding:"required"`
	Quantity        int                 `json:"quantity" binding:"required,gt=0"`
	ExpirationDate  time.Time           `json:"expiration_date" binding:"required"`
	Supplier        string              `json:"supplier"`
	PurchaseOrderID string              `json:"purchase_order_id" binding:"required"`
	RegisteredBy    string              `json:"registered_by" binding:"required"`
	Documents       *models.DocumentSet `json:"documents"`
}

type IntakeService struct {
	lots      LotStore
	purchases PurchaseOrderSource
	alerts    AlertSink
	ids       alerting.IDGenerator
	now       func() time.Time
}

func NewIntakeService(lots LotStore, purchases PurchaseOrderSource, alerts AlertSink, ids alerting.IDGenerator) *IntakeService {
	return &IntakeService{
		lots:      lots,
		purchases: purchases,
		alerts:    alerts,
		ids:       ids,
		now:       time.Now,
	}
}

// RegisterLot runs the full intake: build the draft lot, validate it against
// the purchase orders and documents, and persist it with the status the
// verdict decided. Warnings never block; any error rejects the lot and raises
// a discrepancy alert.
func (s *IntakeService) RegisterLot(req IntakeRequest) (*models.Lot, validation.Verdict, error) {
	now := s.now()

	lot := models.Lot{
		ID:               s.ids.NewID(),
		ProductCode:      req.ProductCode,
		ProductName:      req.ProductName,
		LotCode:          req.LotCode,
		Quantity:         req.Quantity,
		OriginalQuantity: req.Quantity,
		ExpirationDate:   req.ExpirationDate,
		Supplier:         req.Supplier,
		PurchaseOrderID:  req.PurchaseOrderID,
		RegisteredAt:     now,
		RegisteredBy:     req.RegisteredBy,
		Status:           models.LotStatusPendingValidation,
	}

	purchaseOrders, err := s.purchases.GetPurchaseOrderList()
	if err != nil {
		return nil, validation.Verdict{}, fmt.Errorf("failed to load purchase orders: %w", err)
	}

	verdict := validation.Complete(lot, purchaseOrders, req.Documents, now)

	verdictRaw, err := json.Marshal(verdict)
	if err != nil {
		return nil, verdict, fmt.Errorf("failed to marshal validation verdict: %w", err)
	}

	if verdict.IsValid {
		lot.Status = models.LotStatusActive
	} else {
		lot.Status = models.LotStatusRejected
	}
	lot.ValidationResult = verdictRaw
	lot.ValidatedAt = &now
	validatedBy := req.RegisteredBy
	lot.ValidatedBy = &validatedBy

	if err := s.lots.CreateValidatedLot(lot, verdictRaw); err != nil {
		return nil, verdict, err
	}

	if !verdict.IsValid {
		alert := alerting.NewDiscrepancyAlert(s.ids, verdict, lot, now)
		if err := s.alerts.UpsertAlert(alert); err != nil {
			// the lot is already stored; a missed alert should not fail intake
			log.Println("Unable to persist discrepancy alert for lot ", lot.ID)
		}
	}

	return &lot, verdict, nil
}
