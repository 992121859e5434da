package models

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseOrderStatus tracks the order lifecycle:
// DRAFT -> ORDERED -> PARTIAL|RECEIVED (CANCELLED from any pre-received state).
type PurchaseOrderStatus string

const (
	PurchaseStatusDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseStatusOrdered   PurchaseOrderStatus = "ORDERED"
	PurchaseStatusPartial   PurchaseOrderStatus = "PARTIAL"
	PurchaseStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// PaymentStatus runs parallel to the order status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// PurchaseOrder models a supplier order. Moving into RECEIVED or PARTIAL
// reconciles the order: one PURCHASE ledger entry per line item, at most once
// per order. A reconciled order is immutable except for payment fields.
type PurchaseOrder struct {
	ID             uuid.UUID           `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PurchaseNumber string              `json:"purchaseNumber" gorm:"type:varchar(50);not null;uniqueIndex"`
	Status         PurchaseOrderStatus `json:"status" gorm:"type:varchar(20);not null;default:'DRAFT';index"`

	SupplierID   uuid.UUID `json:"supplierId" gorm:"type:uuid;not null;index"`
	SupplierName string    `json:"supplierName" gorm:"type:varchar(255);not null"` // snapshot

	PurchaseDate         time.Time  `json:"purchaseDate" gorm:"not null;index"`
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate,omitempty"`
	ActualDeliveryDate   *time.Time `json:"actualDeliveryDate,omitempty"`

	// Money: total = subtotal + taxAmount - discount + shipping + otherCharges
	Subtotal     float64 `json:"subtotal" gorm:"type:decimal(12,2);not null;default:0"`
	TaxRate      float64 `json:"taxRate" gorm:"type:decimal(5,2);not null;default:0"`
	TaxAmount    float64 `json:"taxAmount" gorm:"type:decimal(12,2);not null;default:0"`
	Discount     float64 `json:"discount" gorm:"type:decimal(12,2);not null;default:0"`
	Shipping     float64 `json:"shipping" gorm:"type:decimal(12,2);not null;default:0"`
	OtherCharges float64 `json:"otherCharges" gorm:"type:decimal(12,2);not null;default:0"`
	Total        float64 `json:"total" gorm:"type:decimal(12,2);not null;default:0"`

	PaymentStatus PaymentStatus `json:"paymentStatus" gorm:"type:varchar(20);not null;default:'PENDING'"`
	PaidAmount    float64       `json:"paidAmount" gorm:"type:decimal(12,2);not null;default:0"`
	PendingAmount float64       `json:"pendingAmount" gorm:"type:decimal(12,2);not null;default:0"`

	InvoiceNumber *string `json:"invoiceNumber,omitempty" gorm:"type:varchar(100)"`
	ReceiptNumber *string `json:"receiptNumber,omitempty" gorm:"type:varchar(100)"`
	Notes         *string `json:"notes,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []PurchaseItem `json:"items,omitempty" gorm:"foreignKey:PurchaseOrderID;constraint:OnDelete:CASCADE"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// Reconciled reports whether the order has already posted stock entries.
func (po *PurchaseOrder) Reconciled() bool {
	return po.Status == PurchaseStatusReceived || po.Status == PurchaseStatusPartial
}

// PurchaseItem is one ordered line. InventoryItemID may be nil for lines the
// restaurant does not track in the catalog; reconciliation skips those.
type PurchaseItem struct {
	ID              uuid.UUID  `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PurchaseOrderID uuid.UUID  `json:"purchaseOrderId" gorm:"type:uuid;not null;index"`
	InventoryItemID *uuid.UUID `json:"inventoryItemId,omitempty" gorm:"type:uuid;index"`

	ItemName         string   `json:"itemName" gorm:"type:varchar(255);not null"`
	Quantity         float64  `json:"quantity" gorm:"type:decimal(12,3);not null"`
	ReceivedQuantity *float64 `json:"receivedQuantity,omitempty" gorm:"type:decimal(12,3)"`
	Unit             string   `json:"unit" gorm:"type:varchar(20);not null"`
	UnitCost         float64  `json:"unitCost" gorm:"type:decimal(12,2);not null"`
	Total            float64  `json:"total" gorm:"type:decimal(12,2);not null"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (PurchaseItem) TableName() string {
	return "purchase_items"
}

// ========== Request models ==========

type PurchaseItemInput struct {
	InventoryItemID  *uuid.UUID `json:"inventoryItemId,omitempty"`
	ItemName         string     `json:"itemName" binding:"required,min=1,max=255"`
	Quantity         float64    `json:"quantity" binding:"required,gt=0"`
	ReceivedQuantity *float64   `json:"receivedQuantity,omitempty" binding:"omitempty,gte=0"`
	Unit             string     `json:"unit" binding:"required,min=1,max=20"`
	UnitCost         float64    `json:"unitCost" binding:"required,gte=0"`
}

type CreatePurchaseOrderRequest struct {
	SupplierID           uuid.UUID           `json:"supplierId" binding:"required"`
	PurchaseDate         *time.Time          `json:"purchaseDate,omitempty"`
	ExpectedDeliveryDate *time.Time          `json:"expectedDeliveryDate,omitempty"`
	TaxRate              *float64            `json:"taxRate,omitempty" binding:"omitempty,gte=0"`
	Discount             *float64            `json:"discount,omitempty" binding:"omitempty,gte=0"`
	Shipping             *float64            `json:"shipping,omitempty" binding:"omitempty,gte=0"`
	OtherCharges         *float64            `json:"otherCharges,omitempty" binding:"omitempty,gte=0"`
	InvoiceNumber        *string             `json:"invoiceNumber,omitempty"`
	Notes                *string             `json:"notes,omitempty"`
	Items                []PurchaseItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest patches an order. A status change into RECEIVED
// or PARTIAL triggers reconciliation when the order has not reconciled before.
type UpdatePurchaseOrderRequest struct {
	Status               *PurchaseOrderStatus `json:"status,omitempty"`
	ExpectedDeliveryDate *time.Time           `json:"expectedDeliveryDate,omitempty"`
	ActualDeliveryDate   *time.Time           `json:"actualDeliveryDate,omitempty"`
	TaxRate              *float64             `json:"taxRate,omitempty" binding:"omitempty,gte=0"`
	Discount             *float64             `json:"discount,omitempty" binding:"omitempty,gte=0"`
	Shipping             *float64             `json:"shipping,omitempty" binding:"omitempty,gte=0"`
	OtherCharges         *float64             `json:"otherCharges,omitempty" binding:"omitempty,gte=0"`
	InvoiceNumber        *string              `json:"invoiceNumber,omitempty"`
	ReceiptNumber        *string              `json:"receiptNumber,omitempty"`
	Notes                *string              `json:"notes,omitempty"`
	Items                []PurchaseItemInput  `json:"items,omitempty" binding:"omitempty,min=1,dive"`
}

type RecordPaymentRequest struct {
	Amount        float64 `json:"amount" binding:"required,gt=0"`
	ReceiptNumber *string `json:"receiptNumber,omitempty"`
}

// PurchaseOrderListFilter narrows order listings.
type PurchaseOrderListFilter struct {
	Status     *PurchaseOrderStatus
	SupplierID *uuid.UUID
	From       *time.Time
	To         *time.Time
	Page       int
	Limit      int
}

// ========== Response models ==========

type PurchaseOrderResponse struct {
	Success bool           `json:"success"`
	Data    *PurchaseOrder `json:"data,omitempty"`
	Message *string        `json:"message,omitempty"`
}

type PurchaseOrderListResponse struct {
	Success    bool            `json:"success"`
	Data       []PurchaseOrder `json:"data"`
	Pagination *PaginationMeta `json:"pagination,omitempty"`
}
