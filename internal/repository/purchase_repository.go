package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inventory-ledger-service/internal/models"
)

// PurchaseRepositoryInterface is the persistence contract for purchase orders.
// ClaimForReconciliation is the compare-and-swap that makes receiving
// idempotent: it flips the status only when the order has never been received,
// so exactly one concurrent updater triggers the stock postings.
type PurchaseRepositoryInterface interface {
	WithTransaction(ctx context.Context, fn func(txRepo PurchaseRepositoryInterface) error) error
	NextSequence(ctx context.Context, scope string) (int64, error)
	CreateOrder(ctx context.Context, order *models.PurchaseOrder) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error)
	ListOrders(ctx context.Context, filter models.PurchaseOrderListFilter) ([]models.PurchaseOrder, int64, error)
	UpdateOrderFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	ReplaceOrderItems(ctx context.Context, orderID uuid.UUID, items []models.PurchaseItem) error
	ClaimForReconciliation(ctx context.Context, id uuid.UUID, target models.PurchaseOrderStatus) (bool, error)
	DeleteOrder(ctx context.Context, id uuid.UUID) error
	ListOrdersInPeriod(ctx context.Context, from, to time.Time) ([]models.PurchaseOrder, error)
	CountOrdersByStatus(ctx context.Context, status models.PurchaseOrderStatus) (int64, error)
}

type PurchaseRepository struct {
	db *gorm.DB
}

var _ PurchaseRepositoryInterface = (*PurchaseRepository)(nil)

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) WithTransaction(ctx context.Context, fn func(txRepo PurchaseRepositoryInterface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PurchaseRepository{db: tx})
	})
}

// NextSequence shares the document_sequences table with the ledger.
func (r *PurchaseRepository) NextSequence(ctx context.Context, scope string) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO document_sequences (scope, last_value) VALUES (?, 1)
		 ON CONFLICT (scope) DO UPDATE SET last_value = document_sequences.last_value + 1
		 RETURNING last_value`, scope,
	).Scan(&next).Error
	return next, err
}

func (r *PurchaseRepository) CreateOrder(ctx context.Context, order *models.PurchaseOrder) error {
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].CreatedAt = time.Now()
		order.Items[i].UpdatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *PurchaseRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Preload("Items").
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// GetOrderForUpdate locks the order row for the duration of the transaction.
func (r *PurchaseRepository) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var items []models.PurchaseItem
	if err := r.db.WithContext(ctx).Where("purchase_order_id = ?", id).Find(&items).Error; err != nil {
		return nil, err
	}
	order.Items = items
	return &order, nil
}

func (r *PurchaseRepository) ListOrders(ctx context.Context, filter models.PurchaseOrderListFilter) ([]models.PurchaseOrder, int64, error) {
	var orders []models.PurchaseOrder
	var total int64

	query := r.db.WithContext(ctx).Model(&models.PurchaseOrder{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.SupplierID != nil {
		query = query.Where("supplier_id = ?", *filter.SupplierID)
	}
	if filter.From != nil {
		query = query.Where("purchase_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("purchase_date <= ?", *filter.To)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		query = query.Offset(offset).Limit(filter.Limit)
	}

	err := query.Preload("Items").Order("purchase_date DESC").Find(&orders).Error
	return orders, total, err
}

func (r *PurchaseRepository) UpdateOrderFields(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceOrderItems swaps the full line set of a draft/ordered order.
func (r *PurchaseRepository) ReplaceOrderItems(ctx context.Context, orderID uuid.UUID, items []models.PurchaseItem) error {
	if err := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", orderID).
		Delete(&models.PurchaseItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].PurchaseOrderID = orderID
		items[i].CreatedAt = time.Now()
		items[i].UpdatedAt = time.Now()
	}
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// ClaimForReconciliation flips the status to target only if the order has
// never reconciled before. Returns false when another updater got there first.
func (r *PurchaseRepository) ClaimForReconciliation(ctx context.Context, id uuid.UUID, target models.PurchaseOrderStatus) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Where("id = ? AND status NOT IN ?", id,
			[]models.PurchaseOrderStatus{models.PurchaseStatusReceived, models.PurchaseStatusPartial}).
		Updates(map[string]interface{}{
			"status":               target,
			"actual_delivery_date": time.Now(),
			"updated_at":           time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PurchaseRepository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PurchaseOrder{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PurchaseRepository) ListOrdersInPeriod(ctx context.Context, from, to time.Time) ([]models.PurchaseOrder, error) {
	var orders []models.PurchaseOrder
	err := r.db.WithContext(ctx).
		Where("purchase_date >= ? AND purchase_date <= ?", from, to).
		Find(&orders).Error
	return orders, err
}

func (r *PurchaseRepository) CountOrdersByStatus(ctx context.Context, status models.PurchaseOrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PurchaseOrder{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}
