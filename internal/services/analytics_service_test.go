package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"inventory-ledger-service/internal/models"
)

func valuedItem(name string, stock, avgCost float64) models.InventoryItem {
	return models.InventoryItem{
		ID:           uuid.New(),
		Name:         name,
		Category:     models.CategoryDryGoods,
		Unit:         "kg",
		CurrentStock: stock,
		AverageCost:  avgCost,
		IsActive:     true,
	}
}

func newAnalyticsService(catalog *MockCatalogRepository, ledger *MockLedgerRepository, purchases *MockPurchaseRepository) *AnalyticsService {
	return NewAnalyticsService(catalog, ledger, purchases, nil)
}

// ===========================================
// Dashboard Tests
// ===========================================

func TestDashboard_PurchasesFromOrderTotals(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	mockLedger := new(MockLedgerRepository)
	mockPurchases := new(MockPurchaseRepository)
	service := newAnalyticsService(mockCatalog, mockLedger, mockPurchases)

	mockCatalog.On("ListItems", ctx, mock.Anything).Return([]models.InventoryItem{
		valuedItem("Flour", 100, 1.5),
		valuedItem("Sold Out", 0, 2),
	}, int64(2), nil)

	// An order placed this month counts at its full total even before any
	// stock is received; cancelled orders never count.
	mockPurchases.On("ListOrdersInPeriod", ctx, mock.Anything, mock.Anything).Return([]models.PurchaseOrder{
		{SupplierID: uuid.New(), Total: 110, Status: models.PurchaseStatusOrdered},
		{SupplierID: uuid.New(), Total: 50, Status: models.PurchaseStatusReceived},
		{SupplierID: uuid.New(), Total: 999, Status: models.PurchaseStatusCancelled},
	}, nil)

	mockLedger.On("ListMovements", ctx, mock.Anything).Return([]models.StockMovement{
		{IsEntry: false, TotalCost: 20},
	}, nil)
	mockLedger.On("CountMovementsSince", ctx, mock.Anything).Return(int64(6), nil)
	mockCatalog.On("CountActiveSuppliers", ctx).Return(int64(4), nil)
	mockPurchases.On("CountOrdersByStatus", ctx, models.PurchaseStatusOrdered).Return(int64(2), nil)
	mockPurchases.On("CountOrdersByStatus", ctx, models.PurchaseStatusPartial).Return(int64(1), nil)

	snapshot, err := service.Dashboard(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 160.0, snapshot.PurchasesThisMonth)
	assert.Equal(t, 20.0, snapshot.WasteThisMonth)
	assert.Equal(t, 150.0, snapshot.TotalInventoryValue)
	assert.Equal(t, 1, snapshot.OutOfStockItems)
	assert.Equal(t, 4, snapshot.ActiveSuppliers)
	assert.Equal(t, 2, snapshot.PendingPurchaseOrders)
	assert.Equal(t, 1, snapshot.PartialPurchaseOrders)
}

// ===========================================
// Valuation Tests
// ===========================================

func TestValuation_SumsStockTimesAverageCost(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	service := newAnalyticsService(mockCatalog, new(MockLedgerRepository), new(MockPurchaseRepository))

	items := []models.InventoryItem{
		valuedItem("Flour", 100, 1.5), // 150
		valuedItem("Saffron", 2, 400), // 800
		valuedItem("Salt", 50, 1),     // 50
	}
	mockCatalog.On("ListItems", ctx, mock.Anything).Return(items, int64(3), nil)

	report, err := service.Valuation(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1000.0, report.TotalValue)
	assert.Equal(t, "AVERAGE_COST", report.Method)
	// Sorted by value, highest first
	assert.Equal(t, "Saffron", report.Items[0].Name)
	assert.Equal(t, 800.0, report.Items[0].TotalValue)
}

// ===========================================
// ABC Tests
// ===========================================

func TestABC_PartitionsByCumulativeShare(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	service := newAnalyticsService(mockCatalog, new(MockLedgerRepository), new(MockPurchaseRepository))

	// 800 + 150 + 50 = 1000: cumulative shares 80%, 95%, 100%
	items := []models.InventoryItem{
		valuedItem("Saffron", 2, 400),
		valuedItem("Flour", 100, 1.5),
		valuedItem("Salt", 50, 1),
	}
	mockCatalog.On("ListItems", ctx, mock.Anything).Return(items, int64(3), nil)

	analysis, err := service.ABC(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, analysis.A.ItemCount)
	assert.Equal(t, "Saffron", analysis.A.Items[0].Name)
	assert.Equal(t, 1, analysis.B.ItemCount)
	assert.Equal(t, "Flour", analysis.B.Items[0].Name)
	assert.Equal(t, 1, analysis.C.ItemCount)
	assert.Equal(t, "Salt", analysis.C.Items[0].Name)

	// Every item lands in exactly one tier and the values add back up
	assert.Equal(t, 3, analysis.A.ItemCount+analysis.B.ItemCount+analysis.C.ItemCount)
	assert.Equal(t, analysis.TotalValue, analysis.A.TotalValue+analysis.B.TotalValue+analysis.C.TotalValue)
}

func TestABC_DominantItemStaysInA(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	service := newAnalyticsService(mockCatalog, new(MockLedgerRepository), new(MockPurchaseRepository))

	// One item holds 90% of the value; it still opens category A
	items := []models.InventoryItem{
		valuedItem("Truffles", 9, 100),
		valuedItem("Flour", 100, 1),
	}
	mockCatalog.On("ListItems", ctx, mock.Anything).Return(items, int64(2), nil)

	analysis, err := service.ABC(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, analysis.A.ItemCount)
	assert.Equal(t, "Truffles", analysis.A.Items[0].Name)
	assert.Equal(t, 1, analysis.B.ItemCount)
	assert.Equal(t, "Flour", analysis.B.Items[0].Name)
	assert.Equal(t, 0, analysis.C.ItemCount)
}

func TestABC_ZeroValueItemsLandInC(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	service := newAnalyticsService(mockCatalog, new(MockLedgerRepository), new(MockPurchaseRepository))

	items := []models.InventoryItem{
		valuedItem("Saffron", 2, 400),
		valuedItem("Empty Bin", 0, 10),
	}
	mockCatalog.On("ListItems", ctx, mock.Anything).Return(items, int64(2), nil)

	analysis, err := service.ABC(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, analysis.C.ItemCount)
	assert.Equal(t, "Empty Bin", analysis.C.Items[0].Name)
}

// ===========================================
// Turnover Tests
// ===========================================

func TestTurnover_RatioAndDaysOutstanding(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	mockLedger := new(MockLedgerRepository)
	service := newAnalyticsService(mockCatalog, mockLedger, new(MockPurchaseRepository))

	from := time.Now().AddDate(0, 0, -30)
	to := time.Now()

	movements := []models.StockMovement{
		{IsEntry: false, TotalCost: 300},
		{IsEntry: false, TotalCost: 200},
		{IsEntry: true, TotalCost: 999}, // entries never count as consumption
	}
	mockLedger.On("ListMovements", ctx, mock.Anything).Return(movements, nil)
	mockCatalog.On("ListItems", ctx, mock.Anything).Return([]models.InventoryItem{
		valuedItem("Flour", 100, 10), // value 1000
	}, int64(1), nil)

	report, err := service.Turnover(ctx, from, to)

	assert.NoError(t, err)
	assert.Equal(t, 500.0, report.ConsumedValue)
	assert.Equal(t, 1000.0, report.TotalInventoryValue)
	assert.InDelta(t, 0.5, report.TurnoverRatio, 1e-9)
	assert.InDelta(t, 730.0, report.DaysInventoryOutstanding, 1e-9)
}

func TestTurnover_EmptyInventoryGuardsDivision(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	mockLedger := new(MockLedgerRepository)
	service := newAnalyticsService(mockCatalog, mockLedger, new(MockPurchaseRepository))

	mockLedger.On("ListMovements", ctx, mock.Anything).Return([]models.StockMovement{}, nil)
	mockCatalog.On("ListItems", ctx, mock.Anything).Return([]models.InventoryItem{}, int64(0), nil)

	report, err := service.Turnover(ctx, time.Now().AddDate(0, 0, -30), time.Now())

	assert.NoError(t, err)
	assert.Equal(t, 0.0, report.TurnoverRatio)
	assert.Equal(t, 0.0, report.DaysInventoryOutstanding)
}

// ===========================================
// Mover Tests
// ===========================================

func TestTopMovers_RanksSaleExitsByQuantity(t *testing.T) {
	ctx := context.Background()
	mockLedger := new(MockLedgerRepository)
	service := newAnalyticsService(new(MockCatalogRepository), mockLedger, new(MockPurchaseRepository))

	fastID := uuid.New()
	slowID := uuid.New()
	movements := []models.StockMovement{
		{InventoryItemID: fastID, ItemName: "Fries", Quantity: 30, TotalCost: 60, IsEntry: false},
		{InventoryItemID: fastID, ItemName: "Fries", Quantity: 25, TotalCost: 50, IsEntry: false},
		{InventoryItemID: slowID, ItemName: "Caviar", Quantity: 1, TotalCost: 90, IsEntry: false},
	}
	mockLedger.On("ListMovements", ctx, mock.Anything).Return(movements, nil)

	movers, err := service.TopMovers(ctx, time.Now().AddDate(0, 0, -30), time.Now())

	assert.NoError(t, err)
	assert.Len(t, movers, 2)
	assert.Equal(t, "Fries", movers[0].Name)
	assert.Equal(t, 55.0, movers[0].Quantity)
	assert.Equal(t, 2, movers[0].MovementCount)
}

func TestSlowMovers_RequiresStockOnHand(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	mockLedger := new(MockLedgerRepository)
	service := newAnalyticsService(mockCatalog, mockLedger, new(MockPurchaseRepository))

	idle := valuedItem("Dusty Spice", 10, 5)
	empty := valuedItem("Sold Out", 0, 5)
	busy := valuedItem("Fries", 40, 1)

	mockCatalog.On("ListItems", ctx, mock.Anything).Return([]models.InventoryItem{idle, empty, busy}, int64(3), nil)
	// A receiving entry counts as activity just like an exit
	mockLedger.On("ListMovements", ctx, mock.Anything).Return([]models.StockMovement{
		{InventoryItemID: busy.ID, IsEntry: false, Quantity: 1},
		{InventoryItemID: busy.ID, IsEntry: false, Quantity: 1},
		{InventoryItemID: busy.ID, IsEntry: true, Quantity: 10},
	}, nil)

	slow, err := service.SlowMovers(ctx, time.Now().AddDate(0, 0, -30), time.Now())

	assert.NoError(t, err)
	// Dusty Spice idles with stock; Sold Out has nothing to act on; Fries moved
	assert.Len(t, slow, 1)
	assert.Equal(t, "Dusty Spice", slow[0].Name)
}

// ===========================================
// Supplier Spend Tests
// ===========================================

func TestTopSuppliers_AggregatesSpend(t *testing.T) {
	ctx := context.Background()
	mockPurchases := new(MockPurchaseRepository)
	service := newAnalyticsService(new(MockCatalogRepository), new(MockLedgerRepository), mockPurchases)

	supplierA := uuid.New()
	supplierB := uuid.New()
	orders := []models.PurchaseOrder{
		{SupplierID: supplierA, SupplierName: "Fresh Farms", Total: 300, Status: models.PurchaseStatusReceived},
		{SupplierID: supplierA, SupplierName: "Fresh Farms", Total: 100, Status: models.PurchaseStatusOrdered},
		{SupplierID: supplierB, SupplierName: "Ocean Catch", Total: 250, Status: models.PurchaseStatusReceived},
		{SupplierID: supplierB, SupplierName: "Ocean Catch", Total: 999, Status: models.PurchaseStatusCancelled},
	}
	mockPurchases.On("ListOrdersInPeriod", ctx, mock.Anything, mock.Anything).Return(orders, nil)

	spend, err := service.TopSuppliers(ctx, time.Now().AddDate(0, 0, -30), time.Now())

	assert.NoError(t, err)
	assert.Len(t, spend, 2)
	assert.Equal(t, "Fresh Farms", spend[0].SupplierName)
	assert.Equal(t, 400.0, spend[0].TotalSpent)
	assert.Equal(t, 2, spend[0].OrderCount)
	assert.Equal(t, 200.0, spend[0].AverageOrderValue)
	// Cancelled orders never count
	assert.Equal(t, 250.0, spend[1].TotalSpent)
}
