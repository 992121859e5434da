package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/repository"
)

// MockLedgerRepository is a mock implementation of LedgerRepositoryInterface
type MockLedgerRepository struct {
	mock.Mock
}

var _ repository.LedgerRepositoryInterface = (*MockLedgerRepository)(nil)

// WithTransaction executes the callback with the mock itself, simulating a transaction
func (m *MockLedgerRepository) WithTransaction(ctx context.Context, fn func(txRepo repository.LedgerRepositoryInterface) error) error {
	return fn(m)
}

func (m *MockLedgerRepository) GetItemForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockLedgerRepository) SaveItemStock(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockLedgerRepository) NextSequence(ctx context.Context, scope string) (int64, error) {
	args := m.Called(ctx, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerRepository) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	args := m.Called(ctx, movement)
	if args.Error(0) == nil {
		movement.ID = uuid.New()
		movement.CreatedAt = time.Now()
	}
	return args.Error(0)
}

func (m *MockLedgerRepository) GetMovementByID(ctx context.Context, id uuid.UUID) (*models.StockMovement, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockMovement), args.Error(1)
}

func (m *MockLedgerRepository) ListMovements(ctx context.Context, filter models.MovementListFilter) ([]models.StockMovement, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.StockMovement), args.Error(1)
}

func (m *MockLedgerRepository) CountMovementsSince(ctx context.Context, since time.Time) (int64, error) {
	args := m.Called(ctx, since)
	return args.Get(0).(int64), args.Error(1)
}

func createTestItem(stock, avgCost float64) *models.InventoryItem {
	return &models.InventoryItem{
		ID:           uuid.New(),
		Name:         "Roma Tomatoes",
		Category:     models.CategoryProduce,
		Unit:         "kg",
		CurrentStock: stock,
		AverageCost:  avgCost,
		LastCost:     avgCost,
		MinStock:     5,
		ReorderPoint: 10,
		MaxStock:     50,
		IsActive:     true,
	}
}

func floatPtr(f float64) *float64 {
	return &f
}

// ===========================================
// Posting Tests
// ===========================================

func TestPostMovement_EntryUpdatesWeightedAverage(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := NewLedgerService(mockRepo, nil, nil)

	// 10 units at avg 2.00, receiving 5 more at 5.00 -> 15 units at 3.00
	item := createTestItem(10, 2.0)
	scope := fmt.Sprintf("MOV-%d", time.Now().Year())

	mockRepo.On("GetItemForUpdate", ctx, item.ID).Return(item, nil)
	mockRepo.On("NextSequence", ctx, scope).Return(int64(1), nil)
	mockRepo.On("CreateMovement", ctx, mock.AnythingOfType("*models.StockMovement")).Return(nil)
	mockRepo.On("SaveItemStock", ctx, item).Return(nil)

	movement, err := service.PostMovement(ctx, models.PostMovementRequest{
		InventoryItemID: item.ID,
		Type:            models.MovementTypePurchase,
		Quantity:        5,
		IsEntry:         true,
		UnitCost:        floatPtr(5.0),
		Reason:          "Weekly delivery",
	})

	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("MOV-%d-000001", time.Now().Year()), movement.MovementNumber)
	assert.Equal(t, 10.0, movement.StockBefore)
	assert.Equal(t, 15.0, movement.StockAfter)
	assert.Equal(t, 25.0, movement.TotalCost)
	assert.Equal(t, 15.0, item.CurrentStock)
	assert.InDelta(t, 3.0, item.AverageCost, 1e-9)
	assert.Equal(t, 5.0, item.LastCost)
	mockRepo.AssertExpectations(t)
}

func TestPostMovement_EntryWithoutCostKeepsAverage(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := NewLedgerService(mockRepo, nil, nil)

	item := createTestItem(10, 2.0)
	scope := fmt.Sprintf("MOV-%d", time.Now().Year())

	mockRepo.On("GetItemForUpdate", ctx, item.ID).Return(item, nil)
	mockRepo.On("NextSequence", ctx, scope).Return(int64(7), nil)
	mockRepo.On("CreateMovement", ctx, mock.AnythingOfType("*models.StockMovement")).Return(nil)
	mockRepo.On("SaveItemStock", ctx, item).Return(nil)

	movement, err := service.PostMovement(ctx, models.PostMovementRequest{
		InventoryItemID: item.ID,
		Type:            models.MovementTypeReturn,
		Quantity:        3,
		IsEntry:         true,
		Reason:          "Customer return",
	})

	assert.NoError(t, err)
	// No cost on the request: priced at the current average, average untouched
	assert.Equal(t, 2.0, movement.UnitCost)
	assert.Equal(t, 2.0, item.AverageCost)
	assert.Equal(t, 13.0, item.CurrentStock)
	mockRepo.AssertExpectations(t)
}

func TestPostMovement_ExitConsumesAtAverage(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := NewLedgerService(mockRepo, nil, nil)

	item := createTestItem(15, 3.0)
	scope := fmt.Sprintf("MOV-%d", time.Now().Year())

	mockRepo.On("GetItemForUpdate", ctx, item.ID).Return(item, nil)
	mockRepo.On("NextSequence", ctx, scope).Return(int64(2), nil)
	mockRepo.On("CreateMovement", ctx, mock.AnythingOfType("*models.StockMovement")).Return(nil)
	mockRepo.On("SaveItemStock", ctx, item).Return(nil)

	movement, err := service.PostMovement(ctx, models.PostMovementRequest{
		InventoryItemID: item.ID,
		Type:            models.MovementTypeSale,
		Quantity:        6,
		IsEntry:         false,
		Reason:          "Dinner service",
	})

	assert.NoError(t, err)
	assert.False(t, movement.IsEntry)
	assert.Equal(t, 3.0, movement.UnitCost)
	assert.Equal(t, 18.0, movement.TotalCost)
	assert.Equal(t, 9.0, item.CurrentStock)
	// Exits never move the average
	assert.Equal(t, 3.0, item.AverageCost)
	mockRepo.AssertExpectations(t)
}

func TestPostMovement_ExitInsufficientStock(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := NewLedgerService(mockRepo, nil, nil)

	item := createTestItem(4, 3.0)
	mockRepo.On("GetItemForUpdate", ctx, item.ID).Return(item, nil)

	movement, err := service.PostMovement(ctx, models.PostMovementRequest{
		InventoryItemID: item.ID,
		Type:            models.MovementTypeSale,
		Quantity:        5,
		IsEntry:         false,
		Reason:          "Dinner service",
	})

	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, movement)
	// Item state untouched, nothing appended
	assert.Equal(t, 4.0, item.CurrentStock)
	mockRepo.AssertNotCalled(t, "CreateMovement", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "SaveItemStock", mock.Anything, mock.Anything)
}

func TestPostMovement_ExactExitReachesZero(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := NewLedgerService(mockRepo, nil, nil)

	item := createTestItem(4, 3.0)
	scope := fmt.Sprintf("MOV-%d", time.Now().Year())

	mockRepo.On("GetItemForUpdate", ctx, item.ID).Return(item, nil)
	mockRepo.On("NextSequence", ctx, scope).Return(int64(3), nil)
	mockRepo.On("CreateMovement", ctx, mock.AnythingOfType("*models.StockMovement")).Return(nil)
	mockRepo.On("SaveItemStock", ctx, item).Return(nil)

	movement, err := service.PostMovement(ctx, models.PostMovementRequest{
		InventoryItemID: item.ID,
		Type:            models.MovementTypeWaste,
		Quantity:        4,
		IsEntry:         false,
		Reason:          "Spoiled batch",
	})

	assert.NoError(t, err)
	assert.Equal(t, 0.0, movement.StockAfter)
	assert.Equal(t, 0.0, item.CurrentStock)
	mockRepo.AssertExpectations(t)
}

func TestPostMovement_RejectsInvalidInput(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := NewLedgerService(mockRepo, nil, nil)

	_, err := service.PostMovement(ctx, models.PostMovementRequest{
		InventoryItemID: uuid.New(),
		Type:            models.MovementTypeSale,
		Quantity:        0,
		Reason:          "x",
	})
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = service.PostMovement(ctx, models.PostMovementRequest{
		InventoryItemID: uuid.New(),
		Type:            models.MovementType("TELEPORT"),
		Quantity:        1,
		Reason:          "x",
	})
	assert.ErrorIs(t, err, ErrInvalidMovementType)
}

func TestPostMovement_UnknownItem(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := NewLedgerService(mockRepo, nil, nil)

	itemID := uuid.New()
	mockRepo.On("GetItemForUpdate", ctx, itemID).Return(nil, repository.ErrNotFound)

	_, err := service.PostMovement(ctx, models.PostMovementRequest{
		InventoryItemID: itemID,
		Type:            models.MovementTypeSale,
		Quantity:        1,
		Reason:          "x",
	})
	assert.ErrorIs(t, err, ErrItemNotFound)
}

// ===========================================
// Reversal Tests
// ===========================================

func TestReverseMovement_PostsOppositeEntry(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := NewLedgerService(mockRepo, nil, nil)

	item := createTestItem(9, 3.0)
	original := &models.StockMovement{
		ID:              uuid.New(),
		MovementNumber:  "MOV-2026-000002",
		Type:            models.MovementTypeSale,
		InventoryItemID: item.ID,
		ItemName:        item.Name,
		Unit:            item.Unit,
		Quantity:        6,
		IsEntry:         false,
		UnitCost:        3.0,
		TotalCost:       18.0,
		ReferenceType:   models.ReferenceManual,
	}
	scope := fmt.Sprintf("MOV-%d", time.Now().Year())

	mockRepo.On("GetMovementByID", ctx, original.ID).Return(original, nil)
	mockRepo.On("GetItemForUpdate", ctx, item.ID).Return(item, nil)
	mockRepo.On("NextSequence", ctx, scope).Return(int64(4), nil)
	mockRepo.On("CreateMovement", ctx, mock.AnythingOfType("*models.StockMovement")).Return(nil)
	mockRepo.On("SaveItemStock", ctx, item).Return(nil)

	reversal, err := service.ReverseMovement(ctx, original.ID, "Posted against wrong item")

	assert.NoError(t, err)
	assert.True(t, reversal.IsEntry)
	assert.Equal(t, original.Quantity, reversal.Quantity)
	assert.Equal(t, original.UnitCost, reversal.UnitCost)
	assert.Equal(t, models.ReferenceReversal, reversal.ReferenceType)
	assert.Equal(t, &original.ID, reversal.ReferenceID)
	assert.Contains(t, reversal.Reason, original.MovementNumber)
	assert.Equal(t, 15.0, item.CurrentStock)
	// Reversing an exit restores quantity without touching the average
	assert.Equal(t, 3.0, item.AverageCost)
	mockRepo.AssertExpectations(t)
}

func TestReverseMovement_RejectsReversalOfReversal(t *testing.T) {
	ctx := context.Background()
	mockRepo := new(MockLedgerRepository)
	service := NewLedgerService(mockRepo, nil, nil)

	original := &models.StockMovement{
		ID:            uuid.New(),
		ReferenceType: models.ReferenceReversal,
	}
	mockRepo.On("GetMovementByID", ctx, original.ID).Return(original, nil)

	_, err := service.ReverseMovement(ctx, original.ID, "again")
	assert.ErrorIs(t, err, ErrReversalOfReversal)
}
