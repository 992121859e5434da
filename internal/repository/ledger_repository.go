package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"inventory-ledger-service/internal/models"
)

// LedgerRepositoryInterface is the persistence contract for the stock ledger.
// PostMovement-style read-validate-write sequences run inside WithTransaction,
// where GetItemForUpdate takes a row lock so concurrent postings against the
// same item serialize instead of racing.
type LedgerRepositoryInterface interface {
	WithTransaction(ctx context.Context, fn func(txRepo LedgerRepositoryInterface) error) error
	GetItemForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	SaveItemStock(ctx context.Context, item *models.InventoryItem) error
	NextSequence(ctx context.Context, scope string) (int64, error)
	CreateMovement(ctx context.Context, movement *models.StockMovement) error
	GetMovementByID(ctx context.Context, id uuid.UUID) (*models.StockMovement, error)
	ListMovements(ctx context.Context, filter models.MovementListFilter) ([]models.StockMovement, error)
	CountMovementsSince(ctx context.Context, since time.Time) (int64, error)
}

type LedgerRepository struct {
	db *gorm.DB
}

var _ LedgerRepositoryInterface = (*LedgerRepository)(nil)

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// WithTransaction runs fn against a transaction-scoped repository.
func (r *LedgerRepository) WithTransaction(ctx context.Context, fn func(txRepo LedgerRepositoryInterface) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&LedgerRepository{db: tx})
	})
}

// GetItemForUpdate loads an item with SELECT ... FOR UPDATE. Only meaningful
// inside WithTransaction; outside one it degrades to a plain read.
func (r *LedgerRepository) GetItemForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// SaveItemStock writes the ledger-owned columns of an item.
func (r *LedgerRepository) SaveItemStock(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Model(&models.InventoryItem{}).
		Where("id = ?", item.ID).
		Updates(map[string]interface{}{
			"current_stock": item.CurrentStock,
			"last_cost":     item.LastCost,
			"average_cost":  item.AverageCost,
			"updated_at":    time.Now(),
		}).Error
}

// NextSequence atomically increments the counter for a scope (e.g. "MOV-2025")
// and returns the new value. The upsert makes concurrent callers draw distinct
// numbers; counting rows, the obvious alternative, races.
func (r *LedgerRepository) NextSequence(ctx context.Context, scope string) (int64, error) {
	var next int64
	err := r.db.WithContext(ctx).Raw(
		`INSERT INTO document_sequences (scope, last_value) VALUES (?, 1)
		 ON CONFLICT (scope) DO UPDATE SET last_value = document_sequences.last_value + 1
		 RETURNING last_value`, scope,
	).Scan(&next).Error
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence %s: %w", scope, err)
	}
	return next, nil
}

func (r *LedgerRepository) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	movement.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(movement).Error
}

func (r *LedgerRepository) GetMovementByID(ctx context.Context, id uuid.UUID) (*models.StockMovement, error) {
	var movement models.StockMovement
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&movement).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &movement, nil
}

// ListMovements returns ledger entries newest first, capped by filter.Limit.
func (r *LedgerRepository) ListMovements(ctx context.Context, filter models.MovementListFilter) ([]models.StockMovement, error) {
	var movements []models.StockMovement

	query := r.db.WithContext(ctx).Model(&models.StockMovement{})

	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.InventoryItemID != nil {
		query = query.Where("inventory_item_id = ?", *filter.InventoryItemID)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Order("created_at DESC").Find(&movements).Error
	return movements, err
}

func (r *LedgerRepository) CountMovementsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.StockMovement{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}
