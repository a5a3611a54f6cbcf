package validation

import (
	"testing"
	"time"

	"pharmhouse/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func samplePurchaseOrders() []models.PurchaseOrder {
	return []models.PurchaseOrder{
		{
			ID:       "PO-001",
			Supplier: "Laboratorio Alpha",
			Status:   models.PurchaseOrderStatusPending,
			Items: []models.PurchaseOrderItem{
				{
					ProductCode: "MED-001",
					ProductName: "Paracetamol 500mg",
					Quantity:    1000,
					UnitPrice:   decimal.NewFromFloat(0.5),
				},
			},
		},
	}
}

func receivedLot(productCode string, quantity int, expiresIn time.Duration) models.Lot {
	return models.Lot{
		ProductCode:     productCode,
		ProductName:     "Paracetamol 500mg",
		LotCode:         "LOT-2025-001",
		Quantity:        quantity,
		PurchaseOrderID: "PO-001",
		ExpirationDate:  now.Add(expiresIn),
	}
}

func TestAgainstPurchaseOrder(t *testing.T) {
	tests := []struct {
		name        string
		received    models.Lot
		wantValid   bool
		wantError   string
		wantWarning string
	}{
		{
			name:      "exact match",
			received:  receivedLot("MED-001", 1000, 0),
			wantValid: true,
		},
		{
			name:      "over-delivery is an error",
			received:  receivedLot("MED-001", 1200, 0),
			wantValid: false,
			wantError: "received quantity (1200) exceeds ordered quantity (1000)",
		},
		{
			name:        "under-delivery is a warning",
			received:    receivedLot("MED-001", 800, 0),
			wantValid:   true,
			wantWarning: "received quantity (800) is less than ordered quantity (1000)",
		},
		{
			name:      "product not on order",
			received:  receivedLot("MED-999", 10, 0),
			wantValid: false,
			wantError: "product is not in the purchase order",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AgainstPurchaseOrder(tt.received, samplePurchaseOrders())

			assert.Equal(t, tt.wantValid, result.IsValid)
			if tt.wantError != "" {
				assert.Contains(t, result.Errors, tt.wantError)
			} else {
				assert.Empty(t, result.Errors)
			}
			if tt.wantWarning != "" {
				assert.Contains(t, result.Warnings, tt.wantWarning)
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestAgainstPurchaseOrderUnknownOrder(t *testing.T) {
	received := receivedLot("MED-001", 100, 0)
	received.PurchaseOrderID = "PO-404"

	result := AgainstPurchaseOrder(received, samplePurchaseOrders())

	assert.False(t, result.IsValid)
	assert.Equal(t, []string{"purchase order not found"}, result.Errors)
}

func TestExpirationDate(t *testing.T) {
	tests := []struct {
		name        string
		expiration  time.Time
		wantValid   bool
		wantError   string
		wantWarning string
	}{
		{
			name:       "expired yesterday",
			expiration: now.AddDate(0, 0, -1),
			wantValid:  false,
			wantError:  "product is already expired",
		},
		{
			name:       "expires exactly now",
			expiration: now,
			wantValid:  false,
			wantError:  "product is already expired",
		},
		{
			name:        "expires within three months",
			expiration:  now.AddDate(0, 2, 0),
			wantValid:   true,
			wantWarning: "product expires in less than 3 months",
		},
		{
			name:       "expires in 200 days, no intake diagnostic",
			expiration: now.AddDate(0, 0, 200),
			wantValid:  true,
		},
		{
			name:       "expires in a year",
			expiration: now.AddDate(1, 0, 0),
			wantValid:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExpirationDate(tt.expiration, now)

			assert.Equal(t, tt.wantValid, result.IsValid)
			if tt.wantError != "" {
				assert.Contains(t, result.Errors, tt.wantError)
			}
			if tt.wantWarning != "" {
				assert.Contains(t, result.Warnings, tt.wantWarning)
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestDocuments(t *testing.T) {
	tests := []struct {
		name        string
		docs        models.DocumentSet
		wantValid   bool
		wantError   string
		wantWarning string
	}{
		{
			name: "matching documents",
			docs: models.DocumentSet{
				Invoice:      &models.Document{Supplier: "Laboratorio Alpha", TotalQuantity: 1000},
				DeliveryNote: &models.Document{Supplier: "Laboratorio Alpha", TotalQuantity: 1000},
			},
			wantValid: true,
		},
		{
			name: "missing delivery note",
			docs: models.DocumentSet{
				Invoice: &models.Document{Supplier: "Laboratorio Alpha", TotalQuantity: 1000},
			},
			wantValid: false,
			wantError: "missing invoice or delivery note",
		},
		{
			name: "quantity mismatch",
			docs: models.DocumentSet{
				Invoice:      &models.Document{Supplier: "Laboratorio Alpha", TotalQuantity: 1000},
				DeliveryNote: &models.Document{Supplier: "Laboratorio Alpha", TotalQuantity: 900},
			},
			wantValid: false,
			wantError: "invoice and delivery note quantities do not match",
		},
		{
			name: "supplier mismatch is only a warning",
			docs: models.DocumentSet{
				Invoice:      &models.Document{Supplier: "Laboratorio Alpha", TotalQuantity: 1000},
				DeliveryNote: &models.Document{Supplier: "Lab Alpha S.A.", TotalQuantity: 1000},
			},
			wantValid:   true,
			wantWarning: "invoice supplier differs from delivery note",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Documents(tt.docs)

			assert.Equal(t, tt.wantValid, result.IsValid)
			if tt.wantError != "" {
				assert.Contains(t, result.Errors, tt.wantError)
			}
			if tt.wantWarning != "" {
				assert.Contains(t, result.Warnings, tt.wantWarning)
			}
		})
	}
}

func TestCompleteCleanIntake(t *testing.T) {
	docs := &models.DocumentSet{
		Invoice:      &models.Document{Supplier: "Laboratorio Alpha", TotalQuantity: 1000},
		DeliveryNote: &models.Document{Supplier: "Laboratorio Alpha", TotalQuantity: 1000},
	}

	verdict := Complete(receivedLot("MED-001", 1000, 365*24*time.Hour), samplePurchaseOrders(), docs, now)

	assert.True(t, verdict.IsValid)
	assert.Empty(t, verdict.Errors)
	assert.Empty(t, verdict.Warnings)
	assert.True(t, verdict.Details.PurchaseOrder.IsValid)
	assert.True(t, verdict.Details.Expiration.IsValid)
	assert.True(t, verdict.Details.Documents.IsValid)
}

func TestCompleteOverDelivery(t *testing.T) {
	verdict := Complete(receivedLot("MED-001", 1200, 365*24*time.Hour), samplePurchaseOrders(), nil, now)

	assert.False(t, verdict.IsValid)
	assert.Contains(t, verdict.Errors, "received quantity (1200) exceeds ordered quantity (1000)")
}

func TestCompleteMergesDiagnosticsInCheckOrder(t *testing.T) {
	docs := &models.DocumentSet{
		Invoice:      &models.Document{Supplier: "Laboratorio Alpha", TotalQuantity: 1000},
		DeliveryNote: &models.Document{Supplier: "Laboratorio Alpha", TotalQuantity: 900},
	}

	verdict := Complete(receivedLot("MED-001", 1200, -24*time.Hour), samplePurchaseOrders(), docs, now)

	assert.False(t, verdict.IsValid)
	assert.Equal(t, []string{
		"received quantity (1200) exceeds ordered quantity (1000)",
		"product is already expired",
		"invoice and delivery note quantities do not match",
	}, verdict.Errors)
}

func TestCompleteSkipsDocumentCheckWithoutDocuments(t *testing.T) {
	verdict := Complete(receivedLot("MED-001", 1000, 365*24*time.Hour), samplePurchaseOrders(), nil, now)

	assert.True(t, verdict.IsValid)
	assert.True(t, verdict.Details.Documents.IsValid)
	assert.Empty(t, verdict.Details.Documents.Errors)
}
