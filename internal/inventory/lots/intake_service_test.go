package lots

import (
	"errors"
	"testing"
	"time"

	"pharmhouse/pkg/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockLotStore struct {
	mock.Mock
}

func (m *MockLotStore) CreateValidatedLot(lot models.Lot, verdictRaw []byte) error {
	args := m.Called(lot, verdictRaw)
	return args.Error(0)
}

type MockPurchaseOrderSource struct {
	mock.Mock
}

func (m *MockPurchaseOrderSource) GetPurchaseOrderList() ([]models.PurchaseOrder, error) {
	args := m.Called()
	return args.Get(0).([]models.PurchaseOrder), args.Error(1)
}

type MockAlertSink struct {
	mock.Mock
}

func (m *MockAlertSink) UpsertAlert(alert models.Alert) error {
	args := m.Called(alert)
	return args.Error(0)
}

type stubIDGenerator struct {
	id string
}

func (g stubIDGenerator) NewID() string {
	return g.id
}

var intakeNow = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestService(lots *MockLotStore, purchases *MockPurchaseOrderSource, alerts *MockAlertSink) *IntakeService {
	service := NewIntakeService(lots, purchases, alerts, stubIDGenerator{id: "lot-1"})
	service.now = func() time.Time { return intakeNow }
	return service
}

func testPurchaseOrders() []models.PurchaseOrder {
	return []models.PurchaseOrder{
		{
			ID:       "PO-001",
			Supplier: "Laboratorio Alpha",
			Status:   models.PurchaseOrderStatusPending,
			Items: []models.PurchaseOrderItem{
				{ProductCode: "MED-001", ProductName: "Paracetamol 500mg", Quantity: 1000, UnitPrice: decimal.NewFromFloat(0.5)},
			},
		},
	}
}

func intakeRequest(quantity int) IntakeRequest {
	return IntakeRequest{
		ProductCode:     "MED-001",
		ProductName:     "Paracetamol 500mg",
		LotCode:         "LOT-2025-001",
		Quantity:        quantity,
		ExpirationDate:  intakeNow.AddDate(1, 0, 0),
		Supplier:        "Laboratorio Alpha",
		PurchaseOrderID: "PO-001",
		RegisteredBy:    "warehouse.clerk",
	}
}

func TestRegisterLotCleanIntakeActivates(t *testing.T) {
	mockLots := new(MockLotStore)
	mockPurchases := new(MockPurchaseOrderSource)
	mockAlerts := new(MockAlertSink)
	service := newTestService(mockLots, mockPurchases, mockAlerts)

	mockPurchases.On("GetPurchaseOrderList").Return(testPurchaseOrders(), nil).Once()
	mockLots.On("CreateValidatedLot", mock.MatchedBy(func(lot models.Lot) bool {
		return lot.Status == models.LotStatusActive && lot.ID == "lot-1" && lot.OriginalQuantity == 1000
	}), mock.Anything).Return(nil).Once()

	lot, verdict, err := service.RegisterLot(intakeRequest(1000))

	assert.NoError(t, err)
	assert.True(t, verdict.IsValid)
	assert.Empty(t, verdict.Errors)
	assert.Empty(t, verdict.Warnings)
	assert.Equal(t, models.LotStatusActive, lot.Status)
	assert.Equal(t, intakeNow, *lot.ValidatedAt)

	mockLots.AssertExpectations(t)
	mockPurchases.AssertExpectations(t)
	mockAlerts.AssertNotCalled(t, "UpsertAlert", mock.Anything)
}

func TestRegisterLotOverDeliveryRejectsAndRaisesAlert(t *testing.T) {
	mockLots := new(MockLotStore)
	mockPurchases := new(MockPurchaseOrderSource)
	mockAlerts := new(MockAlertSink)
	service := newTestService(mockLots, mockPurchases, mockAlerts)

	mockPurchases.On("GetPurchaseOrderList").Return(testPurchaseOrders(), nil).Once()
	mockLots.On("CreateValidatedLot", mock.MatchedBy(func(lot models.Lot) bool {
		return lot.Status == models.LotStatusRejected
	}), mock.Anything).Return(nil).Once()
	mockAlerts.On("UpsertAlert", mock.MatchedBy(func(alert models.Alert) bool {
		return alert.Type == models.AlertTypeDiscrepancy && alert.ItemID == "lot-1"
	})).Return(nil).Once()

	lot, verdict, err := service.RegisterLot(intakeRequest(1200))

	assert.NoError(t, err)
	assert.False(t, verdict.IsValid)
	assert.Contains(t, verdict.Errors, "received quantity (1200) exceeds ordered quantity (1000)")
	assert.Equal(t, models.LotStatusRejected, lot.Status)

	mockLots.AssertExpectations(t)
	mockAlerts.AssertExpectations(t)
}

func TestRegisterLotUnderDeliveryWarnsButActivates(t *testing.T) {
	mockLots := new(MockLotStore)
	mockPurchases := new(MockPurchaseOrderSource)
	mockAlerts := new(MockAlertSink)
	service := newTestService(mockLots, mockPurchases, mockAlerts)

	mockPurchases.On("GetPurchaseOrderList").Return(testPurchaseOrders(), nil).Once()
	mockLots.On("CreateValidatedLot", mock.Anything, mock.Anything).Return(nil).Once()

	lot, verdict, err := service.RegisterLot(intakeRequest(800))

	assert.NoError(t, err)
	assert.True(t, verdict.IsValid)
	assert.Contains(t, verdict.Warnings, "received quantity (800) is less than ordered quantity (1000)")
	assert.Equal(t, models.LotStatusActive, lot.Status)

	mockAlerts.AssertNotCalled(t, "UpsertAlert", mock.Anything)
}

func TestRegisterLotStoreFailure(t *testing.T) {
	mockLots := new(MockLotStore)
	mockPurchases := new(MockPurchaseOrderSource)
	mockAlerts := new(MockAlertSink)
	service := newTestService(mockLots, mockPurchases, mockAlerts)

	mockPurchases.On("GetPurchaseOrderList").Return(testPurchaseOrders(), nil).Once()
	mockLots.On("CreateValidatedLot", mock.Anything, mock.Anything).
		Return(errors.New("failed to insert lot record")).Once()

	_, _, err := service.RegisterLot(intakeRequest(1000))

	assert.Error(t, err)
	mockLots.AssertExpectations(t)
}
