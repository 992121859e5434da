package services

import "errors"

var (
	ErrItemNotFound     = errors.New("inventory item not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrMovementNotFound = errors.New("stock movement not found")
	ErrOrderNotFound    = errors.New("purchase order not found")

	// ErrInsufficientStock rejects an exit movement that would drive stock
	// negative. The item is untouched when this is returned.
	ErrInsufficientStock = errors.New("insufficient stock for exit movement")

	ErrInvalidMovementType = errors.New("unknown movement type")
	ErrInvalidQuantity     = errors.New("quantity must be greater than zero")

	// ErrInvalidThresholds rejects items violating 0 <= min <= reorder <= max.
	ErrInvalidThresholds = errors.New("stock thresholds must satisfy 0 <= minStock <= reorderPoint <= maxStock")

	// ErrStockFieldsLocked rejects catalog updates to ledger-owned fields
	// without the explicit override flag.
	ErrStockFieldsLocked = errors.New("stock and cost fields are owned by the ledger; set allowStockOverride for manual correction")

	// ErrOrderReconciled guards orders that already posted stock entries:
	// their lines cannot change and the record cannot be deleted.
	ErrOrderReconciled = errors.New("purchase order already reconciled into stock")

	ErrPaymentExceedsTotal = errors.New("payment exceeds order total")

	// ErrReversalOfReversal keeps reversal chains one level deep.
	ErrReversalOfReversal = errors.New("movement is itself a reversal and cannot be reversed")
)
