package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeTotalSumsItemLines(t *testing.T) {
	po := PurchaseOrder{
		Items: []PurchaseOrderItem{
			{ProductCode: "MED-001", Quantity: 100, UnitPrice: decimal.RequireFromString("0.45")},
			{ProductCode: "MED-002", Quantity: 3, UnitPrice: decimal.RequireFromString("12.50")},
		},
	}

	assert.Equal(t, "82.5", po.ComputeTotal().String())
}

func TestComputeTotalOfEmptyOrderIsZero(t *testing.T) {
	po := PurchaseOrder{}

	assert.True(t, po.ComputeTotal().IsZero())
}

func TestFindItemMatchesByProductCode(t *testing.T) {
	po := PurchaseOrder{
		Items: []PurchaseOrderItem{
			{ProductCode: "MED-001", Quantity: 100},
			{ProductCode: "MED-002", Quantity: 3},
		},
	}

	item := po.FindItem("MED-002")
	assert.NotNil(t, item)
	assert.Equal(t, 3, item.Quantity)

	assert.Nil(t, po.FindItem("MED-999"))
}
