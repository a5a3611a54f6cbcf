package validation

import (
	"fmt"
	"time"

	"pharmhouse/pkg/models"
)

// Result is the outcome of a single rule check. Errors block intake, warnings
// are advisory only.
type Result struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

type Details struct {
	PurchaseOrder Result `json:"po_validation"`
	Expiration    Result `json:"date_validation"`
	Documents     Result `json:"doc_validation"`
}

// Verdict aggregates every rule check. It is immutable once produced; the
// caller commits or rejects the lot based on IsValid.
type Verdict struct {
	IsValid  bool     `json:"is_valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Details  Details  `json:"details"`
}

// AgainstPurchaseOrder cross-checks the received lot with its purchase order.
// Receiving more than ordered is an error; receiving less is only a warning,
// partial deliveries are normal business.
func AgainstPurchaseOrder(received models.Lot, purchaseOrders []models.PurchaseOrder) Result {
	var po *models.PurchaseOrder
	for i := range purchaseOrders {
		if purchaseOrders[i].ID == received.PurchaseOrderID {
			po = &purchaseOrders[i]
			break
		}
	}

	if po == nil {
		return Result{
			IsValid: false,
			Errors:  []string{"purchase order not found"},
		}
	}

	var errors, warnings []string

	poItem := po.FindItem(received.ProductCode)
	if poItem == nil {
		errors = append(errors, "product is not in the purchase order")
	} else {
		if received.Quantity > poItem.Quantity {
			errors = append(errors, fmt.Sprintf(
				"received quantity (%d) exceeds ordered quantity (%d)",
				received.Quantity, poItem.Quantity))
		} else if received.Quantity < poItem.Quantity {
			warnings = append(warnings, fmt.Sprintf(
				"received quantity (%d) is less than ordered quantity (%d)",
				received.Quantity, poItem.Quantity))
		}
	}

	return Result{
		IsValid:  len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}

// ExpirationDate applies the intake-time horizon: expired stock is rejected,
// stock expiring within three calendar months is flagged. The ongoing shelf
// monitoring in the alerting engine uses its own, wider horizon.
func ExpirationDate(expiration, now time.Time) Result {
	var errors, warnings []string

	if !expiration.After(now) {
		errors = append(errors, "product is already expired")
	} else if !expiration.After(now.AddDate(0, 3, 0)) {
		warnings = append(warnings, "product expires in less than 3 months")
	}

	return Result{
		IsValid:  len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}

// Documents cross-checks the invoice against the delivery note. A supplier
// name mismatch is a warning, not an error: paperwork names regularly differ
// from master-data names.
func Documents(docs models.DocumentSet) Result {
	var errors, warnings []string

	if docs.Invoice == nil || docs.DeliveryNote == nil {
		return Result{
			IsValid: false,
			Errors:  []string{"missing invoice or delivery note"},
		}
	}

	if docs.Invoice.TotalQuantity != docs.DeliveryNote.TotalQuantity {
		errors = append(errors, "invoice and delivery note quantities do not match")
	}

	if docs.Invoice.Supplier != docs.DeliveryNote.Supplier {
		warnings = append(warnings, "invoice supplier differs from delivery note")
	}

	return Result{
		IsValid:  len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}

// Complete runs all rule checks and merges their diagnostics in fixed order:
// purchase order, expiration, documents. The document check is skipped when no
// documents were supplied.
func Complete(received models.Lot, purchaseOrders []models.PurchaseOrder, docs *models.DocumentSet, now time.Time) Verdict {
	poResult := AgainstPurchaseOrder(received, purchaseOrders)
	dateResult := ExpirationDate(received.ExpirationDate, now)

	docResult := Result{IsValid: true}
	if docs != nil {
		docResult = Documents(*docs)
	}

	var errors, warnings []string
	errors = append(errors, poResult.Errors...)
	errors = append(errors, dateResult.Errors...)
	errors = append(errors, docResult.Errors...)
	warnings = append(warnings, poResult.Warnings...)
	warnings = append(warnings, dateResult.Warnings...)
	warnings = append(warnings, docResult.Warnings...)

	return Verdict{
		IsValid:  len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
		Details: Details{
			PurchaseOrder: poResult,
			Expiration:    dateResult,
			Documents:     docResult,
		},
	}
}
