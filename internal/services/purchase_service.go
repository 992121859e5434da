package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"inventory-ledger-service/internal/events"
	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/repository"
)

// MovementPoster is the slice of the ledger the purchase workflow needs.
type MovementPoster interface {
	PostMovement(ctx context.Context, req models.PostMovementRequest) (*models.StockMovement, error)
}

// PurchaseService drives the purchase order lifecycle. Moving an order into
// PARTIAL or RECEIVED reconciles it: one PURCHASE ledger entry per tracked
// line, claimed through a status compare-and-swap so reconciliation happens
// at most once per order no matter how many updates race.
type PurchaseService struct {
	repo      repository.PurchaseRepositoryInterface
	catalog   repository.CatalogRepositoryInterface
	ledger    MovementPoster
	publisher *events.Publisher
	logger    *logrus.Logger
}

func NewPurchaseService(
	repo repository.PurchaseRepositoryInterface,
	catalog repository.CatalogRepositoryInterface,
	ledger MovementPoster,
	publisher *events.Publisher,
	logger *logrus.Logger,
) *PurchaseService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PurchaseService{
		repo:      repo,
		catalog:   catalog,
		ledger:    ledger,
		publisher: publisher,
		logger:    logger,
	}
}

// recalculate rebuilds the money fields from the line items:
// total = subtotal + taxAmount - discount + shipping + otherCharges.
func recalculate(order *models.PurchaseOrder) {
	subtotal := 0.0
	for i := range order.Items {
		order.Items[i].Total = order.Items[i].UnitCost * order.Items[i].Quantity
		subtotal += order.Items[i].Total
	}
	order.Subtotal = subtotal
	order.TaxAmount = subtotal * order.TaxRate / 100
	order.Total = order.Subtotal + order.TaxAmount - order.Discount + order.Shipping + order.OtherCharges
	order.PendingAmount = order.Total - order.PaidAmount
}

func itemsFromInputs(inputs []models.PurchaseItemInput) []models.PurchaseItem {
	items := make([]models.PurchaseItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, models.PurchaseItem{
			InventoryItemID:  in.InventoryItemID,
			ItemName:         in.ItemName,
			Quantity:         in.Quantity,
			ReceivedQuantity: in.ReceivedQuantity,
			Unit:             in.Unit,
			UnitCost:         in.UnitCost,
			Total:            in.UnitCost * in.Quantity,
		})
	}
	return items
}

// CreateOrder assigns the next PO number and persists the order as DRAFT.
func (s *PurchaseService) CreateOrder(ctx context.Context, req models.CreatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	supplier, err := s.catalog.GetSupplierByID(ctx, req.SupplierID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}

	order := &models.PurchaseOrder{
		Status:        models.PurchaseStatusDraft,
		SupplierID:    supplier.ID,
		SupplierName:  supplier.Name,
		PurchaseDate:  time.Now(),
		PaymentStatus: models.PaymentStatusPending,
		InvoiceNumber: req.InvoiceNumber,
		Notes:         req.Notes,
		Items:         itemsFromInputs(req.Items),
	}
	if req.PurchaseDate != nil {
		order.PurchaseDate = *req.PurchaseDate
	}
	order.ExpectedDeliveryDate = req.ExpectedDeliveryDate
	if req.TaxRate != nil {
		order.TaxRate = *req.TaxRate
	}
	if req.Discount != nil {
		order.Discount = *req.Discount
	}
	if req.Shipping != nil {
		order.Shipping = *req.Shipping
	}
	if req.OtherCharges != nil {
		order.OtherCharges = *req.OtherCharges
	}
	recalculate(order)

	err = s.repo.WithTransaction(ctx, func(tx repository.PurchaseRepositoryInterface) error {
		year := time.Now().Year()
		seq, err := tx.NextSequence(ctx, fmt.Sprintf("PO-%d", year))
		if err != nil {
			return err
		}
		order.PurchaseNumber = fmt.Sprintf("PO-%d-%04d", year, seq)
		return tx.CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"purchaseNumber": order.PurchaseNumber,
		"supplier":       order.SupplierName,
		"total":          order.Total,
	}).Info("Purchase order created")
	return order, nil
}

func (s *PurchaseService) GetOrder(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	order, err := s.repo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *PurchaseService) ListOrders(ctx context.Context, filter models.PurchaseOrderListFilter) ([]models.PurchaseOrder, int64, error) {
	return s.repo.ListOrders(ctx, filter)
}

// UpdateOrder patches an order. Line and charge changes recompute the money
// fields and are rejected once the order has reconciled. A status change into
// PARTIAL or RECEIVED claims reconciliation through the CAS; only the
// claiming update posts stock entries.
func (s *PurchaseService) UpdateOrder(ctx context.Context, id uuid.UUID, req models.UpdatePurchaseOrderRequest) (*models.PurchaseOrder, error) {
	var claimed bool
	var claimedStatus models.PurchaseOrderStatus

	err := s.repo.WithTransaction(ctx, func(tx repository.PurchaseRepositoryInterface) error {
		order, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		// Once reconciled, only payment fields, delivery metadata and the
		// PARTIAL -> RECEIVED flip remain editable.
		moneyPatched := req.TaxRate != nil || req.Discount != nil ||
			req.Shipping != nil || req.OtherCharges != nil
		if (req.Items != nil || moneyPatched) && order.Reconciled() {
			return ErrOrderReconciled
		}

		if req.Items != nil {
			order.Items = itemsFromInputs(req.Items)
			if err := tx.ReplaceOrderItems(ctx, order.ID, order.Items); err != nil {
				return err
			}
		}
		if req.TaxRate != nil {
			order.TaxRate = *req.TaxRate
		}
		if req.Discount != nil {
			order.Discount = *req.Discount
		}
		if req.Shipping != nil {
			order.Shipping = *req.Shipping
		}
		if req.OtherCharges != nil {
			order.OtherCharges = *req.OtherCharges
		}
		recalculate(order)

		updates := map[string]interface{}{
			"subtotal":       order.Subtotal,
			"tax_rate":       order.TaxRate,
			"tax_amount":     order.TaxAmount,
			"discount":       order.Discount,
			"shipping":       order.Shipping,
			"other_charges":  order.OtherCharges,
			"total":          order.Total,
			"pending_amount": order.PendingAmount,
		}
		if req.ExpectedDeliveryDate != nil {
			updates["expected_delivery_date"] = *req.ExpectedDeliveryDate
		}
		if req.ActualDeliveryDate != nil {
			updates["actual_delivery_date"] = *req.ActualDeliveryDate
		}
		if req.InvoiceNumber != nil {
			updates["invoice_number"] = *req.InvoiceNumber
		}
		if req.ReceiptNumber != nil {
			updates["receipt_number"] = *req.ReceiptNumber
		}
		if req.Notes != nil {
			updates["notes"] = *req.Notes
		}
		if err := tx.UpdateOrderFields(ctx, id, updates); err != nil {
			return err
		}

		if req.Status != nil && *req.Status != order.Status {
			switch *req.Status {
			case models.PurchaseStatusReceived, models.PurchaseStatusPartial:
				claimed, err = tx.ClaimForReconciliation(ctx, id, *req.Status)
				if err != nil {
					return err
				}
				claimedStatus = *req.Status
				// Already-reconciled orders may still advance PARTIAL ->
				// RECEIVED, but that flip posts nothing.
				if !claimed && order.Status == models.PurchaseStatusPartial && *req.Status == models.PurchaseStatusReceived {
					if err := tx.UpdateOrderFields(ctx, id, map[string]interface{}{"status": *req.Status}); err != nil {
						return err
					}
				}
			default:
				if order.Reconciled() {
					return ErrOrderReconciled
				}
				if err := tx.UpdateOrderFields(ctx, id, map[string]interface{}{"status": *req.Status}); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}

	if claimed {
		if err := s.reconcile(ctx, order); err != nil {
			return order, err
		}
		s.logger.WithFields(logrus.Fields{
			"purchaseNumber": order.PurchaseNumber,
			"status":         claimedStatus,
		}).Info("Purchase order reconciled into stock")
		s.publisher.OrderReceived(order)
	}

	return order, nil
}

// reconcile posts one PURCHASE entry per tracked line. Quantity is the
// received quantity when recorded, otherwise the ordered quantity. Lines
// whose item is unknown to the catalog are skipped, not failed: the
// restaurant simply does not track them.
func (s *PurchaseService) reconcile(ctx context.Context, order *models.PurchaseOrder) error {
	refType := models.ReferencePurchase
	for _, line := range order.Items {
		if line.InventoryItemID == nil {
			s.logger.WithFields(logrus.Fields{
				"purchaseNumber": order.PurchaseNumber,
				"line":           line.ItemName,
			}).Debug("Skipping untracked purchase line")
			continue
		}

		quantity := line.Quantity
		if line.ReceivedQuantity != nil {
			quantity = *line.ReceivedQuantity
		}
		if quantity <= 0 {
			continue
		}

		unitCost := line.UnitCost
		_, err := s.ledger.PostMovement(ctx, models.PostMovementRequest{
			InventoryItemID: *line.InventoryItemID,
			Type:            models.MovementTypePurchase,
			Quantity:        quantity,
			IsEntry:         true,
			UnitCost:        &unitCost,
			Reason:          fmt.Sprintf("Purchase Order %s", order.PurchaseNumber),
			ReferenceType:   &refType,
			ReferenceID:     &order.ID,
		})
		if err != nil {
			if errors.Is(err, ErrItemNotFound) {
				s.logger.WithFields(logrus.Fields{
					"purchaseNumber": order.PurchaseNumber,
					"line":           line.ItemName,
				}).Warn("Purchase line references unknown catalog item, skipping")
				continue
			}
			return fmt.Errorf("failed to post entry for line %q: %w", line.ItemName, err)
		}
	}
	return nil
}

// RecordPayment applies a payment and derives the payment status.
func (s *PurchaseService) RecordPayment(ctx context.Context, id uuid.UUID, req models.RecordPaymentRequest) (*models.PurchaseOrder, error) {
	err := s.repo.WithTransaction(ctx, func(tx repository.PurchaseRepositoryInterface) error {
		order, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		newPaid := order.PaidAmount + req.Amount
		if newPaid > order.Total {
			return ErrPaymentExceedsTotal
		}

		status := models.PaymentStatusPartial
		if newPaid >= order.Total {
			status = models.PaymentStatusPaid
		}

		updates := map[string]interface{}{
			"paid_amount":    newPaid,
			"pending_amount": order.Total - newPaid,
			"payment_status": status,
		}
		if req.ReceiptNumber != nil {
			updates["receipt_number"] = *req.ReceiptNumber
		}
		return tx.UpdateOrderFields(ctx, id, updates)
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

// DeleteOrder removes an order that has not reconciled. Reconciled orders are
// part of the audit trail: deleting one would orphan its ledger entries.
func (s *PurchaseService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return s.repo.WithTransaction(ctx, func(tx repository.PurchaseRepositoryInterface) error {
		order, err := tx.GetOrderForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Reconciled() {
			return ErrOrderReconciled
		}
		return tx.DeleteOrder(ctx, id)
	})
}
