package alerting

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"pharmhouse/internal/validation"
	"pharmhouse/pkg/models"

	"github.com/google/uuid"
)

// DefaultLowStockThreshold applies to products without a configured threshold.
const DefaultLowStockThreshold = 100

const expirationHorizonDays = 180

// IDGenerator supplies identifiers for caller-raised alerts. Scan alerts use
// deterministic IDs instead so regeneration is idempotent.
type IDGenerator interface {
	NewID() string
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.New().String()
}

// CheckExpiration scans active lots against the 6-month shelf horizon.
// Alert IDs derive from the lot ID so rescanning an unchanged snapshot
// produces the same (item, type) keys.
func CheckExpiration(lots []models.Lot, now time.Time) []models.Alert {
	var alerts []models.Alert

	for _, lot := range lots {
		if lot.Status != models.LotStatusActive {
			continue
		}

		daysUntilExpiration := int(lot.ExpirationDate.Sub(now).Hours() / 24)

		if daysUntilExpiration <= 0 {
			alerts = append(alerts, models.Alert{
				ID:          "EXPIRED-" + lot.ID,
				Type:        models.AlertTypeExpired,
				Severity:    models.AlertSeverityDanger,
				Title:       "Expired Product",
				Message:     fmt.Sprintf("%s (lot %s) has expired", lot.ProductName, lot.LotCode),
				ProductCode: lot.ProductCode,
				LotCode:     lot.LotCode,
				ItemID:      lot.ID,
				CreatedAt:   now,
			})
			continue
		}

		if daysUntilExpiration > expirationHorizonDays {
			continue
		}

		severity := models.AlertSeverityInfo
		if daysUntilExpiration <= 30 {
			severity = models.AlertSeverityDanger
		} else if daysUntilExpiration <= 90 {
			severity = models.AlertSeverityWarning
		}

		alerts = append(alerts, models.Alert{
			ID:                  "EXP-" + lot.ID,
			Type:                models.AlertTypeExpiration,
			Severity:            severity,
			Title:               "Expiration Alert",
			Message:             fmt.Sprintf("%s (lot %s) expires in %d days", lot.ProductName, lot.LotCode, daysUntilExpiration),
			ProductCode:         lot.ProductCode,
			LotCode:             lot.LotCode,
			ItemID:              lot.ID,
			DaysUntilExpiration: daysUntilExpiration,
			CreatedAt:           now,
		})
	}

	return alerts
}

// CheckLowStock sums active quantity per product and flags products at or
// below their threshold. Zero stock is danger, anything else warning.
func CheckLowStock(lots []models.Lot, thresholds map[string]int, now time.Time) []models.Alert {
	stockByProduct := map[string]int{}
	nameByProduct := map[string]string{}

	for _, lot := range lots {
		if lot.Status != models.LotStatusActive {
			continue
		}
		stockByProduct[lot.ProductCode] += lot.Quantity
		if _, ok := nameByProduct[lot.ProductCode]; !ok {
			nameByProduct[lot.ProductCode] = lot.ProductName
		}
	}

	productCodes := make([]string, 0, len(stockByProduct))
	for code := range stockByProduct {
		productCodes = append(productCodes, code)
	}
	sort.Strings(productCodes)

	var alerts []models.Alert
	for _, code := range productCodes {
		quantity := stockByProduct[code]

		threshold, ok := thresholds[code]
		if !ok {
			threshold = DefaultLowStockThreshold
		}

		if quantity > threshold {
			continue
		}

		severity := models.AlertSeverityWarning
		if quantity == 0 {
			severity = models.AlertSeverityDanger
		}

		alerts = append(alerts, models.Alert{
			ID:           "LOW-" + code,
			Type:         models.AlertTypeLowStock,
			Severity:     severity,
			Title:        "Low Stock",
			Message:      fmt.Sprintf("%s: only %d units remaining", nameByProduct[code], quantity),
			ProductCode:  code,
			ItemID:       code,
			CurrentStock: quantity,
			Threshold:    threshold,
			CreatedAt:    now,
		})
	}

	return alerts
}

// NewDiscrepancyAlert captures a failed validation verdict at intake time.
// This one is raised by the caller, not by a scan.
func NewDiscrepancyAlert(gen IDGenerator, verdict validation.Verdict, lot models.Lot, now time.Time) models.Alert {
	return models.Alert{
		ID:          gen.NewID(),
		Type:        models.AlertTypeDiscrepancy,
		Severity:    models.AlertSeverityWarning,
		Title:       "Discrepancy Detected",
		Message:     fmt.Sprintf("validation errors for %s: %s", lot.ProductName, strings.Join(verdict.Errors, ", ")),
		ProductCode: lot.ProductCode,
		LotCode:     lot.LotCode,
		ItemID:      lot.ID,
		Errors:      verdict.Errors,
		CreatedAt:   now,
	}
}
