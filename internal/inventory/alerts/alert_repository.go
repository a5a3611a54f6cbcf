package alerts

import (
	"encoding/json"
	"fmt"

	"pharmhouse/internal/repository"
	"pharmhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type AlertRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AlertRepository {
	return &AlertRepository{repository: r}
}

// UpsertAlert stores an alert keyed on (item_id, alert_type). Rescans refresh
// the condition fields but keep the row, its id and its read flag, so repeated
// scans never multiply alerts.
func (r *AlertRepository) UpsertAlert(alert models.Alert) error {
	errorsJSON, err := json.Marshal(alert.Errors)
	if err != nil {
		return fmt.Errorf("failed to marshal alert errors: %w", err)
	}

	query := r.repository.GoquDBWrapper.Insert("alerts").
		Rows(goqu.Record{
			"id":                    alert.ID,
			"item_id":               alert.ItemID,
			"alert_type":            string(alert.Type),
			"severity":              string(alert.Severity),
			"title":                 alert.Title,
			"message":               alert.Message,
			"product_code":          alert.ProductCode,
			"lot_code":              alert.LotCode,
			"days_until_expiration": alert.DaysUntilExpiration,
			"current_stock":         alert.CurrentStock,
			"threshold":             alert.Threshold,
			"errors":                errorsJSON,
			"read":                  alert.Read,
			"created_at":            alert.CreatedAt,
		}).
		OnConflict(
			goqu.DoUpdate(
				"item_id, alert_type",
				goqu.Record{
					"severity":              string(alert.Severity),
					"message":               alert.Message,
					"days_until_expiration": alert.DaysUntilExpiration,
					"current_stock":         alert.CurrentStock,
					"threshold":             alert.Threshold,
					"errors":                errorsJSON,
				},
			),
		)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to upsert alert for item %s: %w", alert.ItemID, err)
	}

	return nil
}

func (r *AlertRepository) GetAlertList(unreadOnly bool) ([]models.Alert, error) {
	query := r.getAlertQuery().Order(goqu.I("created_at").Desc())
	if unreadOnly {
		query = query.Where(goqu.Ex{"read": false})
	}

	var flatAlerts []models.FlatAlertRecord
	if err := query.Executor().ScanStructs(&flatAlerts); err != nil {
		return nil, fmt.Errorf("unable to select alerts from database: %w", err)
	}

	var alerts []models.Alert
	for _, flatAlert := range flatAlerts {
		alerts = append(alerts, flatAlert.TransformToAlert())
	}

	return alerts, nil
}

// MarkRead flips the read flag. The flag only ever goes false to true.
func (r *AlertRepository) MarkRead(alertID string) error {
	result, err := r.repository.GoquDBWrapper.Update("alerts").
		Set(goqu.Record{"read": true}).
		Where(goqu.Ex{"id": alertID}).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to mark alert as read: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("no alert found with id: %s", alertID)
	}

	return nil
}

func (r *AlertRepository) getAlertQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		"id",
		"item_id",
		goqu.C("alert_type"),
		"severity",
		"title",
		"message",
		"product_code",
		"lot_code",
		"days_until_expiration",
		"current_stock",
		"threshold",
		goqu.C("errors"),
		goqu.C("read"),
		"created_at",
	).From("alerts")
}
