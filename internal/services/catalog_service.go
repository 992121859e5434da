package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/repository"
)

// CatalogService manages items and suppliers. It enforces the threshold
// invariant and keeps ledger-owned stock fields out of normal updates.
type CatalogService struct {
	repo   repository.CatalogRepositoryInterface
	logger *logrus.Logger
}

func NewCatalogService(repo repository.CatalogRepositoryInterface, logger *logrus.Logger) *CatalogService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CatalogService{repo: repo, logger: logger}
}

func validThresholds(min, reorder, max float64) bool {
	return min >= 0 && min <= reorder && reorder <= max
}

// ========== Items ==========

func (s *CatalogService) CreateItem(ctx context.Context, req models.CreateItemRequest) (*models.InventoryItem, error) {
	item := &models.InventoryItem{
		Name:                req.Name,
		Category:            models.CategoryOther,
		Unit:                req.Unit,
		PreferredSupplierID: req.PreferredSupplierID,
		IsActive:            true,
		Notes:               req.Notes,
		Metadata:            req.Metadata,
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.CurrentStock != nil {
		item.CurrentStock = *req.CurrentStock
	}
	if req.MinStock != nil {
		item.MinStock = *req.MinStock
	}
	if req.MaxStock != nil {
		item.MaxStock = *req.MaxStock
	}
	if req.ReorderPoint != nil {
		item.ReorderPoint = *req.ReorderPoint
	}
	if req.LastCost != nil {
		item.LastCost = *req.LastCost
	}
	if req.AverageCost != nil {
		item.AverageCost = *req.AverageCost
	} else if req.LastCost != nil {
		item.AverageCost = *req.LastCost
	}
	if req.IsPerishable != nil {
		item.IsPerishable = *req.IsPerishable
	}

	if !validThresholds(item.MinStock, item.ReorderPoint, item.MaxStock) {
		return nil, ErrInvalidThresholds
	}

	if item.PreferredSupplierID != nil {
		if _, err := s.repo.GetSupplierByID(ctx, *item.PreferredSupplierID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrSupplierNotFound
			}
			return nil, err
		}
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"item":     item.Name,
		"category": item.Category,
	}).Info("Inventory item created")
	return item, nil
}

func (s *CatalogService) GetItem(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}
	return item, nil
}

func (s *CatalogService) ListItems(ctx context.Context, filter models.ItemListFilter) ([]models.InventoryItem, int64, error) {
	return s.repo.ListItems(ctx, filter)
}

// UpdateItem patches an item. Threshold fields are validated against the
// merged result; stock/cost fields require AllowStockOverride.
func (s *CatalogService) UpdateItem(ctx context.Context, id uuid.UUID, req models.UpdateItemRequest) (*models.InventoryItem, error) {
	item, err := s.repo.GetItemByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, err
	}

	touchesStock := req.CurrentStock != nil || req.LastCost != nil || req.AverageCost != nil
	if touchesStock && !req.AllowStockOverride {
		return nil, ErrStockFieldsLocked
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Category != nil {
		updates["category"] = *req.Category
	}
	if req.Unit != nil {
		updates["unit"] = *req.Unit
	}

	minStock, maxStock, reorder := item.MinStock, item.MaxStock, item.ReorderPoint
	if req.MinStock != nil {
		minStock = *req.MinStock
		updates["min_stock"] = minStock
	}
	if req.MaxStock != nil {
		maxStock = *req.MaxStock
		updates["max_stock"] = maxStock
	}
	if req.ReorderPoint != nil {
		reorder = *req.ReorderPoint
		updates["reorder_point"] = reorder
	}
	if !validThresholds(minStock, reorder, maxStock) {
		return nil, ErrInvalidThresholds
	}

	if req.PreferredSupplierID != nil {
		if _, err := s.repo.GetSupplierByID(ctx, *req.PreferredSupplierID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrSupplierNotFound
			}
			return nil, err
		}
		updates["preferred_supplier_id"] = *req.PreferredSupplierID
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.IsPerishable != nil {
		updates["is_perishable"] = *req.IsPerishable
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}
	if req.Metadata != nil {
		updates["metadata"] = *req.Metadata
	}

	if req.AllowStockOverride {
		if req.CurrentStock != nil {
			updates["current_stock"] = *req.CurrentStock
		}
		if req.LastCost != nil {
			updates["last_cost"] = *req.LastCost
		}
		if req.AverageCost != nil {
			updates["average_cost"] = *req.AverageCost
		}
		if touchesStock {
			s.logger.WithField("item", item.Name).Warn("Manual stock override applied outside the ledger")
		}
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateItem(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.GetItem(ctx, id)
}

// DeleteItem soft-deletes; movement history keeps referencing the record.
func (s *CatalogService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeactivateItem(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrItemNotFound
	}
	return err
}

// ========== Suppliers ==========

func (s *CatalogService) CreateSupplier(ctx context.Context, req models.CreateSupplierRequest) (*models.Supplier, error) {
	supplier := &models.Supplier{
		Name:         req.Name,
		ContactName:  req.ContactName,
		Email:        req.Email,
		Phone:        req.Phone,
		Address:      req.Address,
		Categories:   req.Categories,
		LeadTimeDays: req.LeadTimeDays,
		Rating:       req.Rating,
		IsActive:     true,
		Notes:        req.Notes,
	}
	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, err
	}
	s.logger.WithField("supplier", supplier.Name).Info("Supplier created")
	return supplier, nil
}

func (s *CatalogService) GetSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.repo.GetSupplierByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSupplierNotFound
		}
		return nil, err
	}
	return supplier, nil
}

func (s *CatalogService) ListSuppliers(ctx context.Context, filter models.SupplierListFilter) ([]models.Supplier, int64, error) {
	return s.repo.ListSuppliers(ctx, filter)
}

func (s *CatalogService) UpdateSupplier(ctx context.Context, id uuid.UUID, req models.UpdateSupplierRequest) (*models.Supplier, error) {
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.ContactName != nil {
		updates["contact_name"] = *req.ContactName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Categories != nil {
		updates["categories"] = *req.Categories
	}
	if req.LeadTimeDays != nil {
		updates["lead_time_days"] = *req.LeadTimeDays
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Notes != nil {
		updates["notes"] = *req.Notes
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateSupplier(ctx, id, updates); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrSupplierNotFound
			}
			return nil, err
		}
	}
	return s.GetSupplier(ctx, id)
}

func (s *CatalogService) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	err := s.repo.DeactivateSupplier(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrSupplierNotFound
	}
	return err
}
