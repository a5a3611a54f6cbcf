package fefo

import (
	"sort"

	"pharmhouse/pkg/models"
)

// Sort orders lots by ascending expiration date; lots expiring the same day
// keep arrival order (ascending registration time). The input is never mutated.
func Sort(lots []models.Lot) []models.Lot {
	sorted := make([]models.Lot, len(lots))
	copy(sorted, lots)

	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].ExpirationDate.Equal(sorted[j].ExpirationDate) {
			return sorted[i].ExpirationDate.Before(sorted[j].ExpirationDate)
		}
		return sorted[i].RegisteredAt.Before(sorted[j].RegisteredAt)
	})

	return sorted
}

// NextBatch returns the lot to draw from next for the given product, or nil
// when no active lot with remaining quantity exists.
func NextBatch(productCode string, lots []models.Lot) *models.Lot {
	eligible := eligibleLots(productCode, lots)
	if len(eligible) == 0 {
		return nil
	}

	sorted := Sort(eligible)
	return &sorted[0]
}

type Allocation struct {
	Lot      models.Lot `json:"lot"`
	Quantity int        `json:"quantity"`
}

type Plan struct {
	Allocations []Allocation `json:"allocations"`
	Fulfilled   bool         `json:"fulfilled"`
	Shortfall   int          `json:"shortfall"`
}

// AllocateForDispatch proposes which lots satisfy a dispatch of the requested
// quantity, consuming eligible lots front to back in expiration order. Lot
// quantities are not touched; committing the plan is the caller's job, and the
// caller must reject non-positive requests before calling.
func AllocateForDispatch(productCode string, requestedQuantity int, lots []models.Lot) Plan {
	sorted := Sort(eligibleLots(productCode, lots))

	var allocations []Allocation
	remaining := requestedQuantity

	for _, lot := range sorted {
		if remaining <= 0 {
			break
		}

		taken := lot.Quantity
		if remaining < taken {
			taken = remaining
		}

		allocations = append(allocations, Allocation{Lot: lot, Quantity: taken})
		remaining -= taken
	}

	shortfall := remaining
	if shortfall < 0 {
		shortfall = 0
	}

	return Plan{
		Allocations: allocations,
		Fulfilled:   remaining == 0,
		Shortfall:   shortfall,
	}
}

type Availability struct {
	Available      bool `json:"available"`
	TotalAvailable int  `json:"total_available"`
	Requested      int  `json:"requested"`
	Shortfall      int  `json:"shortfall"`
}

// CheckAvailability sums active stock of the product and compares it against
// the requested quantity.
func CheckAvailability(productCode string, requestedQuantity int, lots []models.Lot) Availability {
	totalAvailable := 0
	for _, lot := range lots {
		if lot.ProductCode == productCode && lot.Status == models.LotStatusActive {
			totalAvailable += lot.Quantity
		}
	}

	shortfall := requestedQuantity - totalAvailable
	if shortfall < 0 {
		shortfall = 0
	}

	return Availability{
		Available:      totalAvailable >= requestedQuantity,
		TotalAvailable: totalAvailable,
		Requested:      requestedQuantity,
		Shortfall:      shortfall,
	}
}

func eligibleLots(productCode string, lots []models.Lot) []models.Lot {
	var eligible []models.Lot
	for _, lot := range lots {
		if lot.ProductCode == productCode && lot.Status == models.LotStatusActive && lot.Quantity > 0 {
			eligible = append(eligible, lot)
		}
	}
	return eligible
}
