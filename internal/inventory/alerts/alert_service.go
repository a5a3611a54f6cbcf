package alerts

import (
	"fmt"
	"time"

	"pharmhouse/internal/alerting"
	"pharmhouse/pkg/models"
)

type LotSource interface {
	GetLotList() ([]models.Lot, error)
}

type ThresholdSource interface {
	GetThresholds() (map[string]int, error)
}

type AlertStore interface {
	UpsertAlert(alert models.Alert) error
}

type AlertService struct {
	lots       LotSource
	thresholds ThresholdSource
	alerts     AlertStore
	now        func() time.Time
}

func NewAlertService(lots LotSource, thresholds ThresholdSource, alerts AlertStore) *AlertService {
	return &AlertService{
		lots:       lots,
		thresholds: thresholds,
		alerts:     alerts,
		now:        time.Now,
	}
}

// Scan runs the expiration and low-stock checks over the current lot snapshot
// and persists the derived alerts. The upsert keeps the operation idempotent;
// scanning an unchanged snapshot twice changes nothing.
func (s *AlertService) Scan() ([]models.Alert, error) {
	lots, err := s.lots.GetLotList()
	if err != nil {
		return nil, fmt.Errorf("failed to load lots for alert scan: %w", err)
	}

	thresholds, err := s.thresholds.GetThresholds()
	if err != nil {
		return nil, fmt.Errorf("failed to load low-stock thresholds: %w", err)
	}

	now := s.now()

	scanned := alerting.CheckExpiration(lots, now)
	scanned = append(scanned, alerting.CheckLowStock(lots, thresholds, now)...)

	for _, alert := range scanned {
		if err := s.alerts.UpsertAlert(alert); err != nil {
			return nil, err
		}
	}

	return scanned, nil
}
