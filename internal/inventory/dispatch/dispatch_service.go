package dispatch

import (
	"fmt"
	"sync"

	"pharmhouse/internal/fefo"
	"pharmhouse/pkg/models"
)

type LotSource interface {
	GetActiveLots(productCode string) ([]models.Lot, error)
	CommitAllocations(allocations []fefo.Allocation) error
}

// DispatchService serializes compute-then-commit per product code. Two
// concurrent dispatches of the same product must not both allocate against the
// same snapshot and then both commit.
type DispatchService struct {
	lots LotSource

	mu           sync.Mutex
	productLocks map[string]*sync.Mutex
}

func NewDispatchService(lots LotSource) *DispatchService {
	return &DispatchService{
		lots:         lots,
		productLocks: make(map[string]*sync.Mutex),
	}
}

// Plan proposes a FEFO allocation without touching stock.
func (s *DispatchService) Plan(productCode string, quantity int) (fefo.Plan, error) {
	lots, err := s.lots.GetActiveLots(productCode)
	if err != nil {
		return fefo.Plan{}, fmt.Errorf("failed to load lots for product %s: %w", productCode, err)
	}

	return fefo.AllocateForDispatch(productCode, quantity, lots), nil
}

func (s *DispatchService) Availability(productCode string, quantity int) (fefo.Availability, error) {
	lots, err := s.lots.GetActiveLots(productCode)
	if err != nil {
		return fefo.Availability{}, fmt.Errorf("failed to load lots for product %s: %w", productCode, err)
	}

	return fefo.CheckAvailability(productCode, quantity, lots), nil
}

// Dispatch computes an allocation and commits it under the product lock. A
// shortfall is not an error; the returned plan reports how much could be
// served and the caller decides whether partial fulfillment is acceptable.
func (s *DispatchService) Dispatch(productCode string, quantity int) (fefo.Plan, error) {
	lock := s.productLock(productCode)
	lock.Lock()
	defer lock.Unlock()

	plan, err := s.Plan(productCode, quantity)
	if err != nil {
		return fefo.Plan{}, err
	}

	if len(plan.Allocations) > 0 {
		if err := s.lots.CommitAllocations(plan.Allocations); err != nil {
			return fefo.Plan{}, fmt.Errorf("failed to commit dispatch for product %s: %w", productCode, err)
		}
	}

	return plan, nil
}

func (s *DispatchService) productLock(productCode string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.productLocks[productCode]
	if !ok {
		lock = &sync.Mutex{}
		s.productLocks[productCode] = lock
	}

	return lock
}
