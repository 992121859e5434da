package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"inventory-ledger-service/internal/models"
)

func reorderItem(name string, stock float64) models.InventoryItem {
	return models.InventoryItem{
		ID:           uuid.New(),
		Name:         name,
		Unit:         "kg",
		CurrentStock: stock,
		MinStock:     5,
		ReorderPoint: 10,
		MaxStock:     50,
		LastCost:     2,
		IsActive:     true,
	}
}

func TestSuggestions_OnlyItemsAtOrBelowReorderPoint(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	mockLedger := new(MockLedgerRepository)
	service := NewReorderService(mockCatalog, mockLedger, nil)

	items := []models.InventoryItem{
		reorderItem("At Reorder", 10),
		reorderItem("Healthy", 30),
	}
	mockCatalog.On("ListItems", ctx, mock.Anything).Return(items, int64(2), nil)
	mockLedger.On("ListMovements", ctx, mock.Anything).Return([]models.StockMovement{}, nil)

	suggestions, err := service.Suggestions(ctx)

	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)
	assert.Equal(t, "At Reorder", suggestions[0].Name)
}

func TestSuggestions_UrgencyBoundaries(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	mockLedger := new(MockLedgerRepository)
	service := NewReorderService(mockCatalog, mockLedger, nil)

	items := []models.InventoryItem{
		reorderItem("Medium", 10),  // at reorder point
		reorderItem("High", 5),     // at min
		reorderItem("Critical", 0), // out of stock
	}
	mockCatalog.On("ListItems", ctx, mock.Anything).Return(items, int64(3), nil)
	mockLedger.On("ListMovements", ctx, mock.Anything).Return([]models.StockMovement{}, nil)

	suggestions, err := service.Suggestions(ctx)

	assert.NoError(t, err)
	assert.Len(t, suggestions, 3)
	// Most urgent first
	assert.Equal(t, models.UrgencyCritical, suggestions[0].UrgencyLevel)
	assert.Equal(t, "Critical", suggestions[0].Name)
	assert.Equal(t, models.UrgencyHigh, suggestions[1].UrgencyLevel)
	assert.Equal(t, models.UrgencyMedium, suggestions[2].UrgencyLevel)
}

func TestSuggestions_QuantityFromUsageAndLeadTime(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	mockLedger := new(MockLedgerRepository)
	service := NewReorderService(mockCatalog, mockLedger, nil)

	item := reorderItem("Tomatoes", 0)
	mockCatalog.On("ListItems", ctx, mock.Anything).Return([]models.InventoryItem{item}, int64(1), nil)

	// 60 units consumed over the trailing window: 2 per day
	mockLedger.On("ListMovements", ctx, mock.Anything).Return([]models.StockMovement{
		{InventoryItemID: item.ID, IsEntry: false, Quantity: 40},
		{InventoryItemID: item.ID, IsEntry: false, Quantity: 20},
		{InventoryItemID: item.ID, IsEntry: true, Quantity: 100}, // entries are not usage
	}, nil)

	suggestions, err := service.Suggestions(ctx)

	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)
	s := suggestions[0]
	assert.InDelta(t, 2.0, s.AverageDailyUsage, 1e-9)
	assert.Equal(t, 7, s.LeadTimeDays) // default without a preferred supplier
	assert.InDelta(t, 14.0, s.SafetyStock, 1e-9)
	// refill-to-max (50) beats lead-time demand (7*2 + 14 = 28)
	assert.Equal(t, 50.0, s.SuggestedOrderQuantity)
	assert.Equal(t, 100.0, s.EstimatedCost)
}

func TestSuggestions_FullItemAtReorderPointStillListed(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	mockLedger := new(MockLedgerRepository)
	service := NewReorderService(mockCatalog, mockLedger, nil)

	// Stocked to the brim but still at the reorder point: nothing to order,
	// yet the item keeps its row
	item := reorderItem("Vacuum Bags", 10)
	item.MaxStock = 10
	mockCatalog.On("ListItems", ctx, mock.Anything).Return([]models.InventoryItem{item}, int64(1), nil)
	mockLedger.On("ListMovements", ctx, mock.Anything).Return([]models.StockMovement{}, nil)

	suggestions, err := service.Suggestions(ctx)

	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)
	assert.Equal(t, 0.0, suggestions[0].SuggestedOrderQuantity)
	assert.Equal(t, 0.0, suggestions[0].EstimatedCost)
	assert.Equal(t, models.UrgencyMedium, suggestions[0].UrgencyLevel)
}

func TestSuggestions_PreferredSupplierLeadTime(t *testing.T) {
	ctx := context.Background()
	mockCatalog := new(MockCatalogRepository)
	mockLedger := new(MockLedgerRepository)
	service := NewReorderService(mockCatalog, mockLedger, nil)

	leadTime := 3
	supplier := &models.Supplier{
		ID:           uuid.New(),
		Name:         "Fresh Farms Co.",
		LeadTimeDays: &leadTime,
		IsActive:     true,
	}

	item := reorderItem("Tomatoes", 4)
	item.PreferredSupplierID = &supplier.ID

	mockCatalog.On("ListItems", ctx, mock.Anything).Return([]models.InventoryItem{item}, int64(1), nil)
	mockCatalog.On("GetSupplierByID", ctx, supplier.ID).Return(supplier, nil)
	mockLedger.On("ListMovements", ctx, mock.Anything).Return([]models.StockMovement{}, nil)

	suggestions, err := service.Suggestions(ctx)

	assert.NoError(t, err)
	assert.Len(t, suggestions, 1)
	assert.Equal(t, 3, suggestions[0].LeadTimeDays)
	assert.NotNil(t, suggestions[0].PreferredSupplier)
	assert.Equal(t, "Fresh Farms Co.", suggestions[0].PreferredSupplier.Name)
}
