package purchases

import (
	"fmt"

	"pharmhouse/internal/repository"
	custom_error "pharmhouse/pkg/errors"
	"pharmhouse/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"
)

type PurchaseRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *PurchaseRepository {
	return &PurchaseRepository{repository: r}
}

func (r *PurchaseRepository) PersistPurchaseOrder(po models.PurchaseOrder) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		query := tx.Insert("purchase_orders").
			Rows(goqu.Record{
				"id":         po.ID,
				"supplier":   po.Supplier,
				"ordered_at": po.OrderedAt,
				"status":     string(po.Status),
				"total":      po.Total.String(),
				"created_by": po.CreatedBy,
			})

		if _, err := query.Executor().Exec(); err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				return custom_error.WrapDBError("Duplicate purchase order id", string(pqErr.Code))
			}
			return fmt.Errorf("failed to insert purchase order record: %w", err)
		}

		for _, item := range po.Items {
			itemQuery := tx.Insert("purchase_order_items").
				Rows(goqu.Record{
					"purchase_order_id": po.ID,
					"product_code":      item.ProductCode,
					"product_name":      item.ProductName,
					"quantity":          item.Quantity,
					"unit_price":        item.UnitPrice.String(),
				})

			if _, err := itemQuery.Executor().Exec(); err != nil {
				return fmt.Errorf("failed to insert purchase order item %s: %w", item.ProductCode, err)
			}
		}

		return nil
	})
}

func (r *PurchaseRepository) GetPurchaseOrder(id string) (*models.PurchaseOrder, error) {
	var flatOrder models.FlatPurchaseOrderRecord
	found, err := r.getOrderQuery().
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanStruct(&flatOrder)

	if err != nil {
		return nil, fmt.Errorf("unable to select purchase order from database: %w", err)
	}
	if !found {
		return nil, nil
	}

	po, err := flatOrder.TransformToPurchaseOrder()
	if err != nil {
		return nil, fmt.Errorf("malformed purchase order record %s: %w", id, err)
	}

	items, err := r.getItems([]string{po.ID})
	if err != nil {
		return nil, err
	}
	po.Items = items[po.ID]

	return &po, nil
}

func (r *PurchaseRepository) GetPurchaseOrderList() ([]models.PurchaseOrder, error) {
	var flatOrders []models.FlatPurchaseOrderRecord
	err := r.getOrderQuery().
		Order(goqu.I("ordered_at").Asc()).
		Executor().
		ScanStructs(&flatOrders)

	if err != nil {
		return nil, fmt.Errorf("unable to select purchase orders from database: %w", err)
	}

	if len(flatOrders) == 0 {
		return nil, nil
	}

	ids := make([]string, len(flatOrders))
	orders := make([]models.PurchaseOrder, len(flatOrders))
	for i, flatOrder := range flatOrders {
		po, err := flatOrder.TransformToPurchaseOrder()
		if err != nil {
			return nil, fmt.Errorf("malformed purchase order record %s: %w", flatOrder.ID, err)
		}
		orders[i] = po
		ids[i] = po.ID
	}

	itemsByOrder, err := r.getItems(ids)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items = itemsByOrder[orders[i].ID]
	}

	return orders, nil
}

func (r *PurchaseRepository) getItems(orderIDs []string) (map[string][]models.PurchaseOrderItem, error) {
	var flatItems []models.FlatPurchaseOrderItemRecord
	err := r.repository.GoquDBWrapper.Select(
		"purchase_order_id",
		"product_code",
		"product_name",
		"quantity",
		"unit_price",
	).
		From("purchase_order_items").
		Where(goqu.Ex{"purchase_order_id": orderIDs}).
		Order(goqu.I("product_code").Asc()).
		Executor().
		ScanStructs(&flatItems)

	if err != nil {
		return nil, fmt.Errorf("unable to select purchase order items from database: %w", err)
	}

	itemsByOrder := make(map[string][]models.PurchaseOrderItem)
	for _, flatItem := range flatItems {
		item, err := flatItem.TransformToItem()
		if err != nil {
			return nil, fmt.Errorf("malformed purchase order item record: %w", err)
		}
		itemsByOrder[flatItem.PurchaseOrderID] = append(itemsByOrder[flatItem.PurchaseOrderID], item)
	}

	return itemsByOrder, nil
}

func (r *PurchaseRepository) getOrderQuery() *goqu.SelectDataset {
	return r.repository.GoquDBWrapper.Select(
		"id",
		"supplier",
		"ordered_at",
		"status",
		"total",
		"created_by",
	).From("purchase_orders")
}
