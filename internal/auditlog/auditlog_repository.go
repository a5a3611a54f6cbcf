package auditlog

import (
	"encoding/json"
	"fmt"
	"time"

	"pharmhouse/internal/repository"
	"pharmhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type AuditLogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AuditLogRepository {
	return &AuditLogRepository{repository: r}
}

func (r *AuditLogRepository) PersistLog(entry models.AuditLog, data interface{}) error {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal audit log data: %w", err)
	}

	query := r.repository.GoquDBWrapper.Insert("audit_logs").
		Rows(goqu.Record{
			"resource_id":   entry.ResourceID,
			"resource_type": entry.ResourceType,
			"action":        entry.Action,
			"actor":         entry.Actor,
			"data":          dataJSON,
		})

	_, err = query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *AuditLogRepository) GetResourceLog(id string, resourceType string) ([]models.AuditLog, error) {
	query := r.logQuery().Where(goqu.Ex{
		"a.resource_id":   id,
		"a.resource_type": resourceType,
	})

	return r.scanLogs(query)
}

// GetLogsBetween returns every audit entry created inside the period,
// inclusive on both ends. Used by the traceability report.
func (r *AuditLogRepository) GetLogsBetween(start, end time.Time) ([]models.AuditLog, error) {
	query := r.logQuery().
		Where(goqu.C("created_at").Table("a").Gte(start)).
		Where(goqu.C("created_at").Table("a").Lte(end)).
		Order(goqu.I("a.created_at").Asc())

	return r.scanLogs(query)
}

func (r *AuditLogRepository) logQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.
		From(goqu.T("audit_logs").As("a")).
		Select(
			goqu.I("a.id").As("id"),
			goqu.I("a.resource_id").As("resource_id"),
			goqu.I("a.resource_type").As("resource_type"),
			goqu.I("a.action").As("action"),
			goqu.I("a.actor").As("actor"),
			goqu.I("a.data").As("data"),
			goqu.I("a.created_at").As("created_at"),
		)
}

func (r *AuditLogRepository) scanLogs(query *goqu.SelectDataset) ([]models.AuditLog, error) {
	rows, err := query.Executor().Query()
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}
	defer rows.Close()

	var auditLogs []models.AuditLog
	for rows.Next() {
		var entry models.AuditLog
		if err := rows.Scan(
			&entry.ID,
			&entry.ResourceID,
			&entry.ResourceType,
			&entry.Action,
			&entry.Actor,
			&entry.DataRaw,
			&entry.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entry.LoadFromDB()
		auditLogs = append(auditLogs, entry)
	}

	return auditLogs, nil
}
