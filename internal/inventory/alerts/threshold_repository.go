package alerts

import (
	"fmt"

	"pharmhouse/internal/repository"

	"github.com/doug-martin/goqu/v9"
)

// ThresholdRepository stores the per-product low-stock thresholds. Products
// without a row fall back to the engine default.
type ThresholdRepository struct {
	repository *repository.Repository
}

func NewThresholdRepository(r *repository.Repository) *ThresholdRepository {
	return &ThresholdRepository{repository: r}
}

type thresholdRecord struct {
	ProductCode string `db:"product_code"`
	Threshold   int    `db:"threshold"`
}

func (r *ThresholdRepository) GetThresholds() (map[string]int, error) {
	var records []thresholdRecord
	err := r.repository.GoquDBWrapper.
		Select("product_code", "threshold").
		From("product_thresholds").
		Executor().
		ScanStructs(&records)

	if err != nil {
		return nil, fmt.Errorf("unable to select product thresholds from database: %w", err)
	}

	thresholds := make(map[string]int, len(records))
	for _, record := range records {
		thresholds[record.ProductCode] = record.Threshold
	}

	return thresholds, nil
}

func (r *ThresholdRepository) SetThreshold(productCode string, threshold int) error {
	query := r.repository.GoquDBWrapper.Insert("product_thresholds").
		Rows(goqu.Record{
			"product_code": productCode,
			"threshold":    threshold,
		}).
		OnConflict(
			goqu.DoUpdate("product_code", goqu.Record{"threshold": threshold}),
		)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to set threshold for product %s: %w", productCode, err)
	}

	return nil
}
