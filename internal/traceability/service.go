package traceability

import (
	"fmt"
	"time"

	"pharmhouse/pkg/models"
)

type LotSource interface {
	GetLotsByProduct(productCode string) ([]models.Lot, error)
	GetLotsByLotCode(lotCode string) ([]models.Lot, error)
	GetLotsRegisteredBetween(start, end time.Time) ([]models.Lot, error)
}

type LogSource interface {
	GetResourceLog(id string, resourceType string) ([]models.AuditLog, error)
	GetLogsBetween(start, end time.Time) ([]models.AuditLog, error)
}

type Movement struct {
	Action    string                 `json:"action"`
	Actor     string                 `json:"actor"`
	Timestamp time.Time              `json:"timestamp"`
	Details   map[string]interface{} `json:"details"`
}

type ProductTrace struct {
	ProductCode   string       `json:"product_code"`
	TotalBatches  int          `json:"total_batches"`
	ActiveBatches int          `json:"active_batches"`
	TotalQuantity int          `json:"total_quantity"`
	Batches       []models.Lot `json:"batches"`
	History       []Movement   `json:"history"`
}

type LotTrace struct {
	LotCode   string       `json:"lot_code"`
	Batches   []models.Lot `json:"batches"`
	Movements []Movement   `json:"movements"`
}

type PeriodReport struct {
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	TotalIntakes     int       `json:"total_intakes"`
	TotalValidations int       `json:"total_validations"`
	TotalDispatches  int       `json:"total_dispatches"`
	UniqueProducts   int       `json:"unique_products"`
}

type TraceabilityService struct {
	lots LotSource
	logs LogSource
}

func NewTraceabilityService(lots LotSource, logs LogSource) *TraceabilityService {
	return &TraceabilityService{
		lots: lots,
		logs: logs,
	}
}

// TraceProduct assembles the full batch picture of one product: every lot
// ever received plus the audit history of each.
func (s *TraceabilityService) TraceProduct(productCode string) (*ProductTrace, error) {
	lots, err := s.lots.GetLotsByProduct(productCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load lots for product %s: %w", productCode, err)
	}

	trace := ProductTrace{
		ProductCode: productCode,
		Batches:     lots,
	}

	for _, lot := range lots {
		trace.TotalBatches++
		if lot.Status == models.LotStatusActive {
			trace.ActiveBatches++
		}
		trace.TotalQuantity += lot.Quantity

		entries, err := s.logs.GetResourceLog(lot.ID, "lot")
		if err != nil {
			return nil, fmt.Errorf("failed to load audit history for lot %s: %w", lot.ID, err)
		}
		trace.History = append(trace.History, toMovements(entries)...)
	}

	return &trace, nil
}

// TraceLot collects every batch registered under the code. Lot codes are
// reissued, so the trace can span several physical batches.
func (s *TraceabilityService) TraceLot(lotCode string) (*LotTrace, error) {
	lots, err := s.lots.GetLotsByLotCode(lotCode)
	if err != nil {
		return nil, fmt.Errorf("failed to load lots with code %s: %w", lotCode, err)
	}
	if len(lots) == 0 {
		return nil, nil
	}

	trace := LotTrace{
		LotCode: lotCode,
		Batches: lots,
	}

	for _, lot := range lots {
		entries, err := s.logs.GetResourceLog(lot.ID, "lot")
		if err != nil {
			return nil, fmt.Errorf("failed to load audit history for lot %s: %w", lot.ID, err)
		}
		trace.Movements = append(trace.Movements, toMovements(entries)...)
	}

	return &trace, nil
}

// PeriodReport summarizes intake and dispatch activity inside a date range.
func (s *TraceabilityService) PeriodReport(start, end time.Time) (*PeriodReport, error) {
	lots, err := s.lots.GetLotsRegisteredBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load lots for report: %w", err)
	}

	entries, err := s.logs.GetLogsBetween(start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load audit logs for report: %w", err)
	}

	report := PeriodReport{
		Start:        start,
		End:          end,
		TotalIntakes: len(lots),
	}

	products := map[string]struct{}{}
	for _, lot := range lots {
		products[lot.ProductCode] = struct{}{}
	}
	report.UniqueProducts = len(products)

	for _, entry := range entries {
		switch entry.Action {
		case "validate_item":
			report.TotalValidations++
		case "dispatch":
			report.TotalDispatches++
		}
	}

	return &report, nil
}

func toMovements(entries []models.AuditLog) []Movement {
	var movements []Movement
	for _, entry := range entries {
		movements = append(movements, Movement{
			Action:    entry.Action,
			Actor:     entry.Actor,
			Timestamp: entry.CreatedAt,
			Details:   entry.Data,
		})
	}
	return movements
}
