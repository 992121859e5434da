package models

import (
	"time"

	"github.com/google/uuid"
)

// MovementType classifies a stock-affecting event.
type MovementType string

const (
	MovementTypePurchase   MovementType = "PURCHASE"
	MovementTypeSale       MovementType = "SALE"
	MovementTypeWaste      MovementType = "WASTE"
	MovementTypeAdjustment MovementType = "ADJUSTMENT"
	MovementTypeTransfer   MovementType = "TRANSFER"
	MovementTypeReturn     MovementType = "RETURN"
)

// ValidMovementType reports whether t is a known movement type.
func ValidMovementType(t MovementType) bool {
	switch t {
	case MovementTypePurchase, MovementTypeSale, MovementTypeWaste,
		MovementTypeAdjustment, MovementTypeTransfer, MovementTypeReturn:
		return true
	}
	return false
}

// ReferenceType identifies the document that originated a movement.
type ReferenceType string

const (
	ReferencePurchase ReferenceType = "PURCHASE"
	ReferenceOrder    ReferenceType = "ORDER"
	ReferenceManual   ReferenceType = "MANUAL"
	ReferenceReversal ReferenceType = "REVERSAL"
)

// StockMovement is one immutable entry in the stock ledger. Movements are
// never updated; a posted movement is undone only by a compensating reversal
// movement that points back at it via ReferenceReversal/ReferenceID.
type StockMovement struct {
	ID             uuid.UUID    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	MovementNumber string       `json:"movementNumber" gorm:"type:varchar(50);not null;uniqueIndex"`
	Type           MovementType `json:"type" gorm:"type:varchar(20);not null;index"`

	InventoryItemID uuid.UUID `json:"inventoryItemId" gorm:"type:uuid;not null;index"`
	ItemName        string    `json:"itemName" gorm:"type:varchar(255);not null"` // snapshot at posting time
	Unit            string    `json:"unit" gorm:"type:varchar(20);not null"`

	Quantity float64 `json:"quantity" gorm:"type:decimal(12,3);not null"`
	IsEntry  bool    `json:"isEntry" gorm:"not null"`

	UnitCost  float64 `json:"unitCost" gorm:"type:decimal(12,2);not null;default:0"`
	TotalCost float64 `json:"totalCost" gorm:"type:decimal(12,2);not null;default:0"`

	// Stock captured around the posting; stockAfter = stockBefore +/- quantity.
	StockBefore float64 `json:"stockBefore" gorm:"type:decimal(12,3);not null"`
	StockAfter  float64 `json:"stockAfter" gorm:"type:decimal(12,3);not null"`

	ReferenceType ReferenceType `json:"referenceType" gorm:"type:varchar(20);not null;default:'MANUAL'"`
	ReferenceID   *uuid.UUID    `json:"referenceId,omitempty" gorm:"type:uuid;index"`
	Reason        string        `json:"reason" gorm:"type:varchar(500)"`

	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

// DocumentSequence backs year-scoped human-readable numbering. The row is
// incremented with an atomic upsert inside the posting transaction, so two
// concurrent postings can never draw the same number.
type DocumentSequence struct {
	Scope     string `gorm:"type:varchar(30);primary_key"` // e.g. "MOV-2025"
	LastValue int64  `gorm:"not null;default:0"`
}

func (DocumentSequence) TableName() string {
	return "document_sequences"
}

// ========== Request models ==========

type PostMovementRequest struct {
	InventoryItemID uuid.UUID      `json:"inventoryItemId" binding:"required"`
	Type            MovementType   `json:"type" binding:"required"`
	Quantity        float64        `json:"quantity" binding:"required,gt=0"`
	IsEntry         bool           `json:"isEntry"`
	UnitCost        *float64       `json:"unitCost,omitempty" binding:"omitempty,gte=0"`
	Reason          string         `json:"reason" binding:"required,min=1,max=500"`
	ReferenceType   *ReferenceType `json:"referenceType,omitempty"`
	ReferenceID     *uuid.UUID     `json:"referenceId,omitempty"`
}

type ReverseMovementRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// MovementListFilter narrows ledger queries. Limit caps the result set;
// results are always newest first.
type MovementListFilter struct {
	Type            *MovementType
	InventoryItemID *uuid.UUID
	From            *time.Time
	To              *time.Time
	Limit           int
}

// ========== Response models ==========

type MovementResponse struct {
	Success bool           `json:"success"`
	Data    *StockMovement `json:"data,omitempty"`
	Message *string        `json:"message,omitempty"`
}

type MovementListResponse struct {
	Success bool            `json:"success"`
	Data    []StockMovement `json:"data"`
}
