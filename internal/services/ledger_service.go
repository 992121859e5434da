package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"inventory-ledger-service/internal/events"
	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/repository"
)

// LedgerService is the single authority over stock. Every stock-affecting
// event goes through PostMovement; nothing else mutates currentStock or the
// running average cost.
type LedgerService struct {
	repo      repository.LedgerRepositoryInterface
	publisher *events.Publisher
	logger    *logrus.Logger
}

func NewLedgerService(repo repository.LedgerRepositoryInterface, publisher *events.Publisher, logger *logrus.Logger) *LedgerService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LedgerService{repo: repo, publisher: publisher, logger: logger}
}

// PostMovement validates, prices and appends one ledger entry, then updates
// the item snapshot — all inside a single transaction holding the item's row
// lock, so concurrent postings against one item serialize.
//
// Costing (weighted average, entries only): when an entry carries a unit
// cost, newAverage = (oldAverage*stockBefore + unitCost*quantity)/stockAfter
// and lastCost is refreshed. Exits never change the average; they consume at
// the current average cost.
func (s *LedgerService) PostMovement(ctx context.Context, req models.PostMovementRequest) (*models.StockMovement, error) {
	if req.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !models.ValidMovementType(req.Type) {
		return nil, ErrInvalidMovementType
	}

	var movement *models.StockMovement
	var item *models.InventoryItem

	err := s.repo.WithTransaction(ctx, func(tx repository.LedgerRepositoryInterface) error {
		var err error
		item, err = tx.GetItemForUpdate(ctx, req.InventoryItemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrItemNotFound
			}
			return err
		}

		stockBefore := item.CurrentStock
		var stockAfter float64
		if req.IsEntry {
			stockAfter = stockBefore + req.Quantity
		} else {
			if req.Quantity > stockBefore {
				return ErrInsufficientStock
			}
			stockAfter = stockBefore - req.Quantity
		}

		unitCost := item.AverageCost
		if req.UnitCost != nil {
			unitCost = *req.UnitCost
		}

		year := time.Now().Year()
		seq, err := tx.NextSequence(ctx, fmt.Sprintf("MOV-%d", year))
		if err != nil {
			return err
		}

		refType := models.ReferenceManual
		if req.ReferenceType != nil {
			refType = *req.ReferenceType
		}

		movement = &models.StockMovement{
			MovementNumber:  fmt.Sprintf("MOV-%d-%06d", year, seq),
			Type:            req.Type,
			InventoryItemID: item.ID,
			ItemName:        item.Name,
			Unit:            item.Unit,
			Quantity:        req.Quantity,
			IsEntry:         req.IsEntry,
			UnitCost:        unitCost,
			TotalCost:       unitCost * req.Quantity,
			StockBefore:     stockBefore,
			StockAfter:      stockAfter,
			ReferenceType:   refType,
			ReferenceID:     req.ReferenceID,
			Reason:          req.Reason,
		}

		if req.IsEntry && req.UnitCost != nil && stockAfter > 0 {
			item.AverageCost = (item.AverageCost*stockBefore + *req.UnitCost*req.Quantity) / stockAfter
			item.LastCost = *req.UnitCost
		}
		item.CurrentStock = stockAfter

		if err := tx.CreateMovement(ctx, movement); err != nil {
			return fmt.Errorf("failed to append movement: %w", err)
		}
		return tx.SaveItemStock(ctx, item)
	})
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"movementNumber": movement.MovementNumber,
		"type":           movement.Type,
		"item":           movement.ItemName,
		"quantity":       movement.Quantity,
		"isEntry":        movement.IsEntry,
		"stockAfter":     movement.StockAfter,
	}).Info("Stock movement posted")

	s.publisher.MovementPosted(movement)
	if item.CurrentStock == 0 {
		s.publisher.StockOut(item)
	} else if item.CurrentStock <= item.ReorderPoint {
		s.publisher.StockLow(item)
	}

	return movement, nil
}

// ReverseMovement compensates a posted movement with an opposite one of the
// same type, quantity and unit cost. The original record stays in the log;
// this is the only supported way to undo a posting.
func (s *LedgerService) ReverseMovement(ctx context.Context, movementID uuid.UUID, reason string) (*models.StockMovement, error) {
	original, err := s.repo.GetMovementByID(ctx, movementID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, err
	}
	if original.ReferenceType == models.ReferenceReversal {
		return nil, ErrReversalOfReversal
	}

	refType := models.ReferenceReversal
	unitCost := original.UnitCost
	return s.PostMovement(ctx, models.PostMovementRequest{
		InventoryItemID: original.InventoryItemID,
		Type:            original.Type,
		Quantity:        original.Quantity,
		IsEntry:         !original.IsEntry,
		UnitCost:        &unitCost,
		Reason:          fmt.Sprintf("Reversal of %s: %s", original.MovementNumber, reason),
		ReferenceType:   &refType,
		ReferenceID:     &original.ID,
	})
}

// GetMovement returns one ledger entry.
func (s *LedgerService) GetMovement(ctx context.Context, id uuid.UUID) (*models.StockMovement, error) {
	movement, err := s.repo.GetMovementByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrMovementNotFound
		}
		return nil, err
	}
	return movement, nil
}

// ListMovements queries the ledger, newest first.
func (s *LedgerService) ListMovements(ctx context.Context, filter models.MovementListFilter) ([]models.StockMovement, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 100
	}
	return s.repo.ListMovements(ctx, filter)
}
