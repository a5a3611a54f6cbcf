package lots

import (
	"fmt"
	"time"

	"pharmhouse/internal/fefo"
	"pharmhouse/internal/repository"
	custom_error "pharmhouse/pkg/errors"
	"pharmhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type LotRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *LotRepository {
	return &LotRepository{repository: r}
}

func (r *LotRepository) GetLot(id string) (*models.Lot, error) {
	return r.fetchFlatLotByCondition(goqu.Ex{"id": id})
}

// GetLotsByLotCode returns every batch registered under the code, oldest
// first. Suppliers reissue lot codes, so one code can name several batches.
func (r *LotRepository) GetLotsByLotCode(lotCode string) ([]models.Lot, error) {
	return r.GetLotsBy(goqu.Ex{"lot_code": lotCode})
}

func (r *LotRepository) GetLotList() ([]models.Lot, error) {
	return r.scanLots(r.getLotQuery())
}

func (r *LotRepository) GetLotsBy(conditions goqu.Ex) ([]models.Lot, error) {
	query := r.getLotQuery().
		Where(conditions).
		Order(goqu.I("registered_at").Asc())

	return r.scanLots(query)
}

func (r *LotRepository) GetLotsByProduct(productCode string) ([]models.Lot, error) {
	return r.GetLotsBy(goqu.Ex{"product_code": productCode})
}

func (r *LotRepository) GetActiveLots(productCode string) ([]models.Lot, error) {
	return r.GetLotsBy(goqu.Ex{
		"product_code": productCode,
		"status":       string(models.LotStatusActive),
	})
}

func (r *LotRepository) GetLotsRegisteredBetween(start, end time.Time) ([]models.Lot, error) {
	query := r.getLotQuery().
		Where(goqu.C("registered_at").Gte(start)).
		Where(goqu.C("registered_at").Lte(end)).
		Order(goqu.I("registered_at").Asc())

	return r.scanLots(query)
}

// CreateValidatedLot persists an intake in one transaction: the lot is stored
// as pending_validation first, then finalized to the status the verdict
// produced, so the lifecycle in the lots table matches what actually happened.
func (r *LotRepository) CreateValidatedLot(lot models.Lot, verdictRaw []byte) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		if err := r.InsertLot(tx, lot); err != nil {
			return err
		}

		return r.FinalizeValidation(tx, lot.ID, lot.Status, verdictRaw, lot.ValidatedAt, lot.ValidatedBy)
	})
}

func (r *LotRepository) InsertLot(tx *goqu.TxDatabase, lot models.Lot) error {
	query := tx.Insert("lots").
		Rows(goqu.Record{
			"id":                lot.ID,
			"product_code":      lot.ProductCode,
			"product_name":      lot.ProductName,
			"lot_code":          lot.LotCode,
			"quantity":          lot.Quantity,
			"original_quantity": lot.OriginalQuantity,
			"expiration_date":   lot.ExpirationDate,
			"supplier":          lot.Supplier,
			"purchase_order_id": lot.PurchaseOrderID,
			"registered_at":     lot.RegisteredAt,
			"registered_by":     lot.RegisteredBy,
			"status":            string(models.LotStatusPendingValidation),
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Duplicate lot id", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert lot record: %w", err)
	}

	return nil
}

// FinalizeValidation flips a pending lot to active or rejected. The status
// guard makes the transition single-shot; finalized lots are never re-entered.
func (r *LotRepository) FinalizeValidation(tx *goqu.TxDatabase, lotID string, status models.LotStatus, verdictRaw []byte, validatedAt *time.Time, validatedBy *string) error {
	if status != models.LotStatusActive && status != models.LotStatusRejected {
		return fmt.Errorf("invalid validation outcome status: %s", status)
	}

	result, err := tx.Update("lots").
		Set(goqu.Record{
			"status":            string(status),
			"validation_result": verdictRaw,
			"validated_at":      validatedAt,
			"validated_by":      validatedBy,
		}).
		Where(goqu.Ex{
			"id":     lotID,
			"status": string(models.LotStatusPendingValidation),
		}).
		Executor().
		Exec()

	if err != nil {
		return fmt.Errorf("failed to finalize lot validation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("lot %s is not pending validation", lotID)
	}

	return nil
}

// CommitAllocations decrements lot quantities for an accepted dispatch plan.
// Every decrement carries a quantity guard, so a plan computed against stale
// stock rolls the whole transaction back instead of overselling.
func (r *LotRepository) CommitAllocations(allocations []fefo.Allocation) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		for _, allocation := range allocations {
			result, err := tx.Update("lots").
				Set(goqu.Record{
					"quantity": goqu.L("quantity - ?", allocation.Quantity),
				}).
				Where(goqu.Ex{"id": allocation.Lot.ID}).
				Where(goqu.C("quantity").Gte(allocation.Quantity)).
				Executor().
				Exec()

			if err != nil {
				return fmt.Errorf("failed to decrement quantity for lot %s: %w", allocation.Lot.ID, err)
			}

			rowsAffected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("failed to check rows affected for lot %s: %w", allocation.Lot.ID, err)
			}

			if rowsAffected == 0 {
				return fmt.Errorf("insufficient quantity in lot %s", allocation.Lot.ID)
			}
		}

		return nil
	})
}

func (r *LotRepository) fetchFlatLotByCondition(condition goqu.Expression) (*models.Lot, error) {
	query := r.getLotQuery().Where(condition)

	var flatLot models.FlatLotRecord
	found, err := query.Executor().ScanStruct(&flatLot)

	if err != nil {
		return nil, fmt.Errorf("unable to select lot from database: %w", err)
	}
	if !found {
		return nil, nil
	}

	lot := flatLot.TransformToLot()
	return &lot, nil
}

func (r *LotRepository) scanLots(query *goqu.SelectDataset) ([]models.Lot, error) {
	var flatLots []models.FlatLotRecord
	if err := query.Executor().ScanStructs(&flatLots); err != nil {
		return nil, fmt.Errorf("unable to select lots from database: %w", err)
	}

	var lots []models.Lot
	for _, flatLot := range flatLots {
		lots = append(lots, flatLot.TransformToLot())
	}

	return lots, nil
}

func (r *LotRepository) getLotQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		"id",
		"product_code",
		"product_name",
		"lot_code",
		"quantity",
		"original_quantity",
		"expiration_date",
		"supplier",
		"purchase_order_id",
		"registered_at",
		"registered_by",
		"status",
		"validation_result",
		"validated_at",
		"validated_by",
	).From("lots")
}
