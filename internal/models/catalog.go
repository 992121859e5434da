package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ItemCategory groups catalog items for filtering and reporting.
type ItemCategory string

const (
	CategoryProduce   ItemCategory = "PRODUCE"
	CategoryMeat      ItemCategory = "MEAT"
	CategorySeafood   ItemCategory = "SEAFOOD"
	CategoryDairy     ItemCategory = "DAIRY"
	CategoryDryGoods  ItemCategory = "DRY_GOODS"
	CategoryBeverage  ItemCategory = "BEVERAGE"
	CategoryPackaging ItemCategory = "PACKAGING"
	CategoryCleaning  ItemCategory = "CLEANING"
	CategoryOther     ItemCategory = "OTHER"
)

// InventoryItem is the durable record of a trackable item. CurrentStock,
// LastCost and AverageCost are owned by the stock ledger: every posted
// movement rewrites them inside the posting transaction, and the catalog
// update API refuses to touch them unless the caller explicitly overrides.
type InventoryItem struct {
	ID       uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name     string       `json:"name" gorm:"type:varchar(255);not null;index"`
	Category ItemCategory `json:"category" gorm:"type:varchar(30);not null;default:'OTHER';index"`
	Unit     string       `json:"unit" gorm:"type:varchar(20);not null"`

	// Stock state, ledger-owned
	CurrentStock float64 `json:"currentStock" gorm:"type:decimal(12,3);not null;default:0"`
	LastCost     float64 `json:"lastCost" gorm:"type:decimal(12,2);not null;default:0"`
	AverageCost  float64 `json:"averageCost" gorm:"type:decimal(12,4);not null;default:0"`

	// Replenishment thresholds: 0 <= minStock <= reorderPoint <= maxStock
	MinStock     float64 `json:"minStock" gorm:"type:decimal(12,3);not null;default:0"`
	MaxStock     float64 `json:"maxStock" gorm:"type:decimal(12,3);not null;default:0"`
	ReorderPoint float64 `json:"reorderPoint" gorm:"type:decimal(12,3);not null;default:0"`

	PreferredSupplierID *uuid.UUID `json:"preferredSupplierId,omitempty" gorm:"type:uuid;index"`

	IsActive     bool            `json:"isActive" gorm:"not null;default:true;index"`
	IsPerishable bool            `json:"isPerishable" gorm:"not null;default:false"`
	Notes        *string         `json:"notes,omitempty" gorm:"type:text"`
	Metadata     *datatypes.JSON `json:"metadata,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (InventoryItem) TableName() string {
	return "inventory_items"
}

// IsLowStock reports whether the item sits in the low band:
// above minStock but at or below the reorder point.
func (i *InventoryItem) IsLowStock() bool {
	return i.CurrentStock > i.MinStock && i.CurrentStock <= i.ReorderPoint
}

// IsCriticalStock reports whether the item is above zero but at or below minStock.
func (i *InventoryItem) IsCriticalStock() bool {
	return i.CurrentStock > 0 && i.CurrentStock <= i.MinStock
}

// Supplier is a vendor record. Purchase orders snapshot the supplier name;
// items hold a weak reference via PreferredSupplierID.
type Supplier struct {
	ID   uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name string    `json:"name" gorm:"type:varchar(255);not null;index"`

	ContactName *string `json:"contactName,omitempty" gorm:"type:varchar(255)"`
	Email       *string `json:"email,omitempty" gorm:"type:varchar(255)"`
	Phone       *string `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Address     *string `json:"address,omitempty" gorm:"type:varchar(500)"`

	// Category tags, e.g. ["PRODUCE","DAIRY"]
	Categories   *datatypes.JSON `json:"categories,omitempty" gorm:"type:jsonb"`
	LeadTimeDays *int            `json:"leadTimeDays,omitempty"`
	Rating       *float64        `json:"rating,omitempty" gorm:"type:decimal(3,2)"`

	IsActive bool    `json:"isActive" gorm:"not null;default:true;index"`
	Notes    *string `json:"notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// ========== Request models ==========

type CreateItemRequest struct {
	Name                string          `json:"name" binding:"required,min=1,max=255"`
	Category            *ItemCategory   `json:"category,omitempty"`
	Unit                string          `json:"unit" binding:"required,min=1,max=20"`
	CurrentStock        *float64        `json:"currentStock,omitempty" binding:"omitempty,gte=0"`
	MinStock            *float64        `json:"minStock,omitempty" binding:"omitempty,gte=0"`
	MaxStock            *float64        `json:"maxStock,omitempty" binding:"omitempty,gte=0"`
	ReorderPoint        *float64        `json:"reorderPoint,omitempty" binding:"omitempty,gte=0"`
	LastCost            *float64        `json:"lastCost,omitempty" binding:"omitempty,gte=0"`
	AverageCost         *float64        `json:"averageCost,omitempty" binding:"omitempty,gte=0"`
	PreferredSupplierID *uuid.UUID      `json:"preferredSupplierId,omitempty"`
	IsPerishable        *bool           `json:"isPerishable,omitempty"`
	Notes               *string         `json:"notes,omitempty"`
	Metadata            *datatypes.JSON `json:"metadata,omitempty"`
}

// UpdateItemRequest patches an item. Stock and cost fields are only applied
// when AllowStockOverride is set; normal callers go through the ledger.
type UpdateItemRequest struct {
	Name                *string         `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Category            *ItemCategory   `json:"category,omitempty"`
	Unit                *string         `json:"unit,omitempty" binding:"omitempty,min=1,max=20"`
	MinStock            *float64        `json:"minStock,omitempty" binding:"omitempty,gte=0"`
	MaxStock            *float64        `json:"maxStock,omitempty" binding:"omitempty,gte=0"`
	ReorderPoint        *float64        `json:"reorderPoint,omitempty" binding:"omitempty,gte=0"`
	PreferredSupplierID *uuid.UUID      `json:"preferredSupplierId,omitempty"`
	IsActive            *bool           `json:"isActive,omitempty"`
	IsPerishable        *bool           `json:"isPerishable,omitempty"`
	Notes               *string         `json:"notes,omitempty"`
	Metadata            *datatypes.JSON `json:"metadata,omitempty"`

	// Manual correction escape hatch
	AllowStockOverride bool     `json:"allowStockOverride,omitempty"`
	CurrentStock       *float64 `json:"currentStock,omitempty" binding:"omitempty,gte=0"`
	LastCost           *float64 `json:"lastCost,omitempty" binding:"omitempty,gte=0"`
	AverageCost        *float64 `json:"averageCost,omitempty" binding:"omitempty,gte=0"`
}

// ItemListFilter narrows catalog listings.
type ItemListFilter struct {
	Category *ItemCategory
	IsActive *bool
	LowStock bool
	Search   string
	Page     int
	Limit    int
}

type CreateSupplierRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=255"`
	ContactName  *string         `json:"contactName,omitempty"`
	Email        *string         `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string         `json:"phone,omitempty"`
	Address      *string         `json:"address,omitempty"`
	Categories   *datatypes.JSON `json:"categories,omitempty"`
	LeadTimeDays *int            `json:"leadTimeDays,omitempty" binding:"omitempty,gt=0"`
	Rating       *float64        `json:"rating,omitempty" binding:"omitempty,gte=0,lte=5"`
	Notes        *string         `json:"notes,omitempty"`
}

type UpdateSupplierRequest struct {
	Name         *string         `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	ContactName  *string         `json:"contactName,omitempty"`
	Email        *string         `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string         `json:"phone,omitempty"`
	Address      *string         `json:"address,omitempty"`
	Categories   *datatypes.JSON `json:"categories,omitempty"`
	LeadTimeDays *int            `json:"leadTimeDays,omitempty" binding:"omitempty,gt=0"`
	Rating       *float64        `json:"rating,omitempty" binding:"omitempty,gte=0,lte=5"`
	IsActive     *bool           `json:"isActive,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
}

// SupplierListFilter narrows supplier listings.
type SupplierListFilter struct {
	IsActive *bool
	Search   string
	Page     int
	Limit    int
}

// ========== Response models ==========

type ItemResponse struct {
	Success bool           `json:"success"`
	Data    *InventoryItem `json:"data,omitempty"`
	Message *string        `json:"message,omitempty"`
}

type ItemListResponse struct {
	Success    bool            `json:"success"`
	Data       []InventoryItem `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}

type SupplierResponse struct {
	Success bool      `json:"success"`
	Data    *Supplier `json:"data,omitempty"`
	Message *string   `json:"message,omitempty"`
}

type SupplierListResponse struct {
	Success    bool            `json:"success"`
	Data       []Supplier      `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}
