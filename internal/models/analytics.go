package models

import (
	"time"

	"github.com/google/uuid"
)

// DashboardSnapshot is the operational overview computed on demand from the
// current catalog, ledger and purchase state. Nothing here is cached.
type DashboardSnapshot struct {
	TotalItems      int `json:"totalItems"`
	ActiveItems     int `json:"activeItems"`
	LowStockItems   int `json:"lowStockItems"`
	CriticalItems   int `json:"criticalItems"`
	OutOfStockItems int `json:"outOfStockItems"`

	TotalInventoryValue float64 `json:"totalInventoryValue"`
	PurchasesThisMonth  float64 `json:"purchasesThisMonth"`
	WasteThisMonth      float64 `json:"wasteThisMonth"`

	ActiveSuppliers   int `json:"activeSuppliers"`
	MovementsToday    int `json:"movementsToday"`
	MovementsThisWeek int `json:"movementsThisWeek"`

	PendingPurchaseOrders int `json:"pendingPurchaseOrders"`
	PartialPurchaseOrders int `json:"partialPurchaseOrders"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// ItemValuation is one row of the average-cost valuation report.
type ItemValuation struct {
	InventoryItemID uuid.UUID    `json:"inventoryItemId"`
	Name            string       `json:"name"`
	Category        ItemCategory `json:"category"`
	Unit            string       `json:"unit"`
	CurrentStock    float64      `json:"currentStock"`
	AverageCost     float64      `json:"averageCost"`
	TotalValue      float64      `json:"totalValue"`
}

type ValuationReport struct {
	Items      []ItemValuation `json:"items"`
	TotalValue float64         `json:"totalValue"`
	Method     string          `json:"method"` // always "AVERAGE_COST"
	AsOf       time.Time       `json:"asOf"`
}

// TurnoverReport relates period consumption to inventory value.
type TurnoverReport struct {
	PeriodStart              time.Time `json:"periodStart"`
	PeriodEnd                time.Time `json:"periodEnd"`
	ConsumedValue            float64   `json:"consumedValue"`
	TotalInventoryValue      float64   `json:"totalInventoryValue"`
	TurnoverRatio            float64   `json:"turnoverRatio"`
	DaysInventoryOutstanding float64   `json:"daysInventoryOutstanding"`
}

// ABCCategory is one of the three value tiers of an ABC analysis.
type ABCCategory struct {
	Category   string          `json:"category"` // "A", "B" or "C"
	Items      []ItemValuation `json:"items"`
	ItemCount  int             `json:"itemCount"`
	TotalValue float64         `json:"totalValue"`
}

// ABCAnalysis partitions items by cumulative value share:
// A holds the first 80%, B up to 95%, C the remainder.
type ABCAnalysis struct {
	A          ABCCategory `json:"a"`
	B          ABCCategory `json:"b"`
	C          ABCCategory `json:"c"`
	TotalValue float64     `json:"totalValue"`
}

// ItemActivity aggregates sale exits for top/slow mover reporting.
type ItemActivity struct {
	InventoryItemID uuid.UUID `json:"inventoryItemId"`
	Name            string    `json:"name"`
	Quantity        float64   `json:"quantity"`
	TotalCost       float64   `json:"totalCost"`
	MovementCount   int       `json:"movementCount"`
	CurrentStock    float64   `json:"currentStock"`
}

// SupplierSpend aggregates purchase totals per supplier within a period.
type SupplierSpend struct {
	SupplierID        uuid.UUID `json:"supplierId"`
	SupplierName      string    `json:"supplierName"`
	OrderCount        int       `json:"orderCount"`
	TotalSpent        float64   `json:"totalSpent"`
	AverageOrderValue float64   `json:"averageOrderValue"`
}

// FullReport is the complete analytics bundle for a period.
type FullReport struct {
	PeriodStart  time.Time          `json:"periodStart"`
	PeriodEnd    time.Time          `json:"periodEnd"`
	Dashboard    *DashboardSnapshot `json:"dashboard"`
	Valuation    *ValuationReport   `json:"valuation"`
	Turnover     *TurnoverReport    `json:"turnover"`
	ABC          *ABCAnalysis       `json:"abc"`
	TopMovers    []ItemActivity     `json:"topMovers"`
	SlowMovers   []ItemActivity     `json:"slowMovers"`
	TopSuppliers []SupplierSpend    `json:"topSuppliers"`
}

// UrgencyLevel ranks how soon an item needs restocking.
type UrgencyLevel string

const (
	UrgencyCritical UrgencyLevel = "CRITICAL" // out of stock
	UrgencyHigh     UrgencyLevel = "HIGH"     // at or below minStock
	UrgencyMedium   UrgencyLevel = "MEDIUM"   // at or below reorderPoint
	UrgencyLow      UrgencyLevel = "LOW"
)

// ReorderSuggestion is derived on demand and never persisted.
type ReorderSuggestion struct {
	InventoryItemID        uuid.UUID    `json:"inventoryItemId"`
	Name                   string       `json:"name"`
	Unit                   string       `json:"unit"`
	CurrentStock           float64      `json:"currentStock"`
	MinStock               float64      `json:"minStock"`
	MaxStock               float64      `json:"maxStock"`
	ReorderPoint           float64      `json:"reorderPoint"`
	AverageDailyUsage      float64      `json:"averageDailyUsage"`
	LeadTimeDays           int          `json:"leadTimeDays"`
	SafetyStock            float64      `json:"safetyStock"`
	SuggestedOrderQuantity float64      `json:"suggestedOrderQuantity"`
	EstimatedCost          float64      `json:"estimatedCost"`
	PreferredSupplier      *Supplier    `json:"preferredSupplier,omitempty"`
	UrgencyLevel           UrgencyLevel `json:"urgencyLevel"`
	CalculatedAt           time.Time    `json:"calculatedAt"`
}

// ========== Response models ==========

type DashboardResponse struct {
	Success bool               `json:"success"`
	Data    *DashboardSnapshot `json:"data,omitempty"`
}

type ValuationResponse struct {
	Success bool             `json:"success"`
	Data    *ValuationReport `json:"data,omitempty"`
}

type TurnoverResponse struct {
	Success bool            `json:"success"`
	Data    *TurnoverReport `json:"data,omitempty"`
}

type FullReportResponse struct {
	Success bool        `json:"success"`
	Data    *FullReport `json:"data,omitempty"`
}

type ReorderSuggestionsResponse struct {
	Success bool                `json:"success"`
	Data    []ReorderSuggestion `json:"data"`
}
