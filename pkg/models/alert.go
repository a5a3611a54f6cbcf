package models

import (
	"encoding/json"
	"time"
)

type AlertType string

const (
	AlertTypeExpiration  AlertType = "expiration"
	AlertTypeExpired     AlertType = "expired"
	AlertTypeDiscrepancy AlertType = "discrepancy"
	AlertTypeLowStock    AlertType = "low_stock"
)

type AlertSeverity string

const (
	AlertSeverityInfo    AlertSeverity = "info"
	AlertSeverityWarning AlertSeverity = "warning"
	AlertSeverityDanger  AlertSeverity = "danger"
)

// Alert is derived data regenerated on every scan. The (ItemID, Type) pair is
// the dedup key; a rescan must not multiply alerts for the same condition.
type Alert struct {
	ID                  string        `json:"id"`
	Type                AlertType     `json:"type"`
	Severity            AlertSeverity `json:"severity"`
	Title               string        `json:"title"`
	Message             string        `json:"message"`
	ProductCode         string        `json:"product_code,omitempty"`
	LotCode             string        `json:"lot_code,omitempty"`
	ItemID              string        `json:"item_id"`
	DaysUntilExpiration int           `json:"days_until_expiration,omitempty"`
	CurrentStock        int           `json:"current_stock,omitempty"`
	Threshold           int           `json:"threshold,omitempty"`
	Errors              []string      `json:"errors,omitempty"`
	Read                bool          `json:"read"`
	CreatedAt           time.Time     `json:"created_at"`
}

type FlatAlertRecord struct {
	ID                  string    `db:"id"`
	Type                string    `db:"alert_type"`
	Severity            string    `db:"severity"`
	Title               string    `db:"title"`
	Message             string    `db:"message"`
	ProductCode         string    `db:"product_code"`
	LotCode             string    `db:"lot_code"`
	ItemID              string    `db:"item_id"`
	DaysUntilExpiration int       `db:"days_until_expiration"`
	CurrentStock        int       `db:"current_stock"`
	Threshold           int       `db:"threshold"`
	ErrorsRaw           []byte    `db:"errors"`
	Read                bool      `db:"read"`
	CreatedAt           time.Time `db:"created_at"`
}

func (fa *FlatAlertRecord) TransformToAlert() Alert {
	alert := Alert{
		ID:                  fa.ID,
		Type:                AlertType(fa.Type),
		Severity:            AlertSeverity(fa.Severity),
		Title:               fa.Title,
		Message:             fa.Message,
		ProductCode:         fa.ProductCode,
		LotCode:             fa.LotCode,
		ItemID:              fa.ItemID,
		DaysUntilExpiration: fa.DaysUntilExpiration,
		CurrentStock:        fa.CurrentStock,
		Threshold:           fa.Threshold,
		Read:                fa.Read,
		CreatedAt:           fa.CreatedAt,
	}

	if len(fa.ErrorsRaw) > 0 {
		_ = json.Unmarshal(fa.ErrorsRaw, &alert.Errors)
	}

	return alert
}
