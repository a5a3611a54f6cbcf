package fefo

import (
	"testing"
	"time"

	"pharmhouse/pkg/models"

	"github.com/stretchr/testify/assert"
)

var day = 24 * time.Hour

func activeLot(id, productCode string, quantity int, expiresIn time.Duration, registeredAt time.Time) models.Lot {
	return models.Lot{
		ID:             id,
		ProductCode:    productCode,
		ProductName:    "Paracetamol 500mg",
		LotCode:        "LOT-" + id,
		Quantity:       quantity,
		ExpirationDate: baseTime.Add(expiresIn),
		RegisteredAt:   registeredAt,
		Status:         models.LotStatusActive,
	}
}

var baseTime = time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)

func sampleLots() []models.Lot {
	return []models.Lot{
		activeLot("a", "MED-001", 100, 10*day, baseTime.Add(-3*day)),
		activeLot("b", "MED-001", 200, 5*day, baseTime.Add(-2*day)),
		activeLot("c", "MED-001", 300, 20*day, baseTime.Add(-1*day)),
	}
}

func TestSortOrdersByExpirationDate(t *testing.T) {
	lots := sampleLots()
	sorted := Sort(lots)

	assert.Equal(t, []string{"b", "a", "c"}, lotIDs(sorted))
	// input untouched
	assert.Equal(t, []string{"a", "b", "c"}, lotIDs(lots))
}

func TestSortTieBreaksByRegistrationTime(t *testing.T) {
	lots := []models.Lot{
		activeLot("late", "MED-001", 10, 5*day, baseTime.Add(-1*day)),
		activeLot("early", "MED-001", 10, 5*day, baseTime.Add(-10*day)),
		activeLot("middle", "MED-001", 10, 5*day, baseTime.Add(-5*day)),
	}

	sorted := Sort(lots)

	assert.Equal(t, []string{"early", "middle", "late"}, lotIDs(sorted))
}

func TestNextBatch(t *testing.T) {
	lots := sampleLots()

	next := NextBatch("MED-001", lots)
	assert.NotNil(t, next)
	assert.Equal(t, "b", next.ID)

	assert.Nil(t, NextBatch("MED-999", lots))
}

func TestNextBatchSkipsIneligibleLots(t *testing.T) {
	drained := activeLot("drained", "MED-001", 0, 1*day, baseTime.Add(-5*day))
	rejected := activeLot("rejected", "MED-001", 50, 2*day, baseTime.Add(-4*day))
	rejected.Status = models.LotStatusRejected
	usable := activeLot("usable", "MED-001", 50, 8*day, baseTime.Add(-3*day))

	next := NextBatch("MED-001", []models.Lot{drained, rejected, usable})

	assert.NotNil(t, next)
	assert.Equal(t, "usable", next.ID)
}

func TestAllocateForDispatchPartialLot(t *testing.T) {
	plan := AllocateForDispatch("MED-001", 250, sampleLots())

	assert.True(t, plan.Fulfilled)
	assert.Equal(t, 0, plan.Shortfall)
	assert.Len(t, plan.Allocations, 2)
	assert.Equal(t, "b", plan.Allocations[0].Lot.ID)
	assert.Equal(t, 200, plan.Allocations[0].Quantity)
	assert.Equal(t, "a", plan.Allocations[1].Lot.ID)
	assert.Equal(t, 50, plan.Allocations[1].Quantity)
}

func TestAllocateForDispatchShortfall(t *testing.T) {
	plan := AllocateForDispatch("MED-001", 1000, sampleLots())

	assert.False(t, plan.Fulfilled)
	assert.Equal(t, 400, plan.Shortfall)
	assert.Len(t, plan.Allocations, 3)
	assert.Equal(t, 200, plan.Allocations[0].Quantity)
	assert.Equal(t, 100, plan.Allocations[1].Quantity)
	assert.Equal(t, 300, plan.Allocations[2].Quantity)
}

func TestAllocateForDispatchAccounting(t *testing.T) {
	tests := []struct {
		name      string
		requested int
	}{
		{name: "exact single lot", requested: 200},
		{name: "spans two lots", requested: 250},
		{name: "everything", requested: 600},
		{name: "more than everything", requested: 900},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := AllocateForDispatch("MED-001", tt.requested, sampleLots())

			allocated := 0
			for _, alloc := range plan.Allocations {
				assert.LessOrEqual(t, alloc.Quantity, alloc.Lot.Quantity)
				allocated += alloc.Quantity
			}

			assert.Equal(t, tt.requested, allocated+plan.Shortfall)
			assert.Equal(t, plan.Shortfall == 0, plan.Fulfilled)
		})
	}
}

func TestAllocateForDispatchNoEligibleLots(t *testing.T) {
	plan := AllocateForDispatch("MED-404", 50, sampleLots())

	assert.Empty(t, plan.Allocations)
	assert.False(t, plan.Fulfilled)
	assert.Equal(t, 50, plan.Shortfall)
}

func TestCheckAvailability(t *testing.T) {
	lots := sampleLots()

	tests := []struct {
		name      string
		requested int
		available bool
		shortfall int
	}{
		{name: "covered", requested: 600, available: true, shortfall: 0},
		{name: "short", requested: 700, available: false, shortfall: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			availability := CheckAvailability("MED-001", tt.requested, lots)

			assert.Equal(t, tt.available, availability.Available)
			assert.Equal(t, 600, availability.TotalAvailable)
			assert.Equal(t, tt.shortfall, availability.Shortfall)

			// availability must agree with the allocation plan
			plan := AllocateForDispatch("MED-001", tt.requested, lots)
			assert.Equal(t, availability.Available, plan.Shortfall == 0)
		})
	}
}

func TestCheckAvailabilityIgnoresInactiveLots(t *testing.T) {
	pending := activeLot("pending", "MED-001", 500, 30*day, baseTime)
	pending.Status = models.LotStatusPendingValidation

	availability := CheckAvailability("MED-001", 100, append(sampleLots(), pending))

	assert.Equal(t, 600, availability.TotalAvailable)
}

func lotIDs(lots []models.Lot) []string {
	ids := make([]string, len(lots))
	for i, lot := range lots {
		ids[i] = lot.ID
	}
	return ids
}
