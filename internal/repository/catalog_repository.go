package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"inventory-ledger-service/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// CatalogRepositoryInterface is the persistence contract for items and
// suppliers. Stock and cost columns are written only through the ledger
// repository; SaveItemOverride exists for explicit manual corrections.
type CatalogRepositoryInterface interface {
	CreateItem(ctx context.Context, item *models.InventoryItem) error
	GetItemByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ListItems(ctx context.Context, filter models.ItemListFilter) ([]models.InventoryItem, int64, error)
	UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeactivateItem(ctx context.Context, id uuid.UUID) error

	CreateSupplier(ctx context.Context, supplier *models.Supplier) error
	GetSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context, filter models.SupplierListFilter) ([]models.Supplier, int64, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	DeactivateSupplier(ctx context.Context, id uuid.UUID) error
	CountActiveSuppliers(ctx context.Context) (int64, error)
}

type CatalogRepository struct {
	db *gorm.DB
}

var _ CatalogRepositoryInterface = (*CatalogRepository)(nil)

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ========== Item operations ==========

func (r *CatalogRepository) CreateItem(ctx context.Context, item *models.InventoryItem) error {
	item.CreatedAt = time.Now()
	item.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *CatalogRepository) GetItemByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// ListItems applies catalog filters. The lowStock filter matches the
// dashboard's low band: above minStock, at or below the reorder point.
func (r *CatalogRepository) ListItems(ctx context.Context, filter models.ItemListFilter) ([]models.InventoryItem, int64, error) {
	var items []models.InventoryItem
	var total int64

	query := r.db.WithContext(ctx).Model(&models.InventoryItem{})

	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.LowStock {
		query = query.Where("current_stock > min_stock AND current_stock <= reorder_point")
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		query = query.Offset(offset).Limit(filter.Limit)
	}

	err := query.Order("name ASC").Find(&items).Error
	return items, total, err
}

func (r *CatalogRepository) UpdateItem(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.InventoryItem{}).
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

// DeactivateItem soft-deletes: the record stays for ledger history.
func (r *CatalogRepository) DeactivateItem(ctx context.Context, id uuid.UUID) error {
	return r.UpdateItem(ctx, id, map[string]interface{}{"is_active": false})
}

// ========== Supplier operations ==========

func (r *CatalogRepository) CreateSupplier(ctx context.Context, supplier *models.Supplier) error {
	supplier.CreatedAt = time.Now()
	supplier.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Create(supplier).Error
}

func (r *CatalogRepository) GetSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *CatalogRepository) ListSuppliers(ctx context.Context, filter models.SupplierListFilter) ([]models.Supplier, int64, error) {
	var suppliers []models.Supplier
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Supplier{})

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page > 0 && filter.Limit > 0 {
		offset := (filter.Page - 1) * filter.Limit
		query = query.Offset(offset).Limit(filter.Limit)
	}

	err := query.Order("name ASC").Find(&suppliers).Error
	return suppliers, total, err
}

func (r *CatalogRepository) UpdateSupplier(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	result := r.db.WithContext(ctx).Model(&models.Supplier{}).
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

func (r *CatalogRepository) DeactivateSupplier(ctx context.Context, id uuid.UUID) error {
	return r.UpdateSupplier(ctx, id, map[string]interface{}{"is_active": false})
}

func (r *CatalogRepository) CountActiveSuppliers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Supplier{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}
