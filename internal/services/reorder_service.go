package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/repository"
)

const (
	usageWindowDays    = 30
	safetyStockDays    = 7
	defaultLeadTimeDay = 7
)

// ReorderService derives purchase suggestions for items at or below their
// reorder point. Suggestions are computed from trailing consumption and the
// preferred supplier's lead time; nothing is persisted.
type ReorderService struct {
	catalog repository.CatalogRepositoryInterface
	ledger  repository.LedgerRepositoryInterface
	logger  *logrus.Logger
}

func NewReorderService(catalog repository.CatalogRepositoryInterface, ledger repository.LedgerRepositoryInterface, logger *logrus.Logger) *ReorderService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &ReorderService{catalog: catalog, ledger: ledger, logger: logger}
}

// Suggestions returns one entry per active item whose stock sits at or below
// its reorder point, most urgent first.
//
// For each item: averageDailyUsage is exit quantity over the trailing 30
// days divided by 30, safetyStock covers 7 days of usage, and the suggested
// quantity is the larger of refill-to-max and lead-time demand plus safety
// stock, rounded up to a whole unit.
func (s *ReorderService) Suggestions(ctx context.Context) ([]models.ReorderSuggestion, error) {
	active := true
	items, _, err := s.catalog.ListItems(ctx, models.ItemListFilter{IsActive: &active})
	if err != nil {
		return nil, err
	}

	now := time.Now()
	windowStart := now.AddDate(0, 0, -usageWindowDays)
	movements, err := s.ledger.ListMovements(ctx, models.MovementListFilter{From: &windowStart})
	if err != nil {
		return nil, err
	}

	usage := make(map[string]float64)
	for _, m := range movements {
		if !m.IsEntry {
			usage[m.InventoryItemID.String()] += m.Quantity
		}
	}

	suggestions := []models.ReorderSuggestion{}
	for _, item := range items {
		if item.CurrentStock > item.ReorderPoint {
			continue
		}

		dailyUsage := usage[item.ID.String()] / usageWindowDays

		leadTime := defaultLeadTimeDay
		var preferred *models.Supplier
		if item.PreferredSupplierID != nil {
			supplier, err := s.catalog.GetSupplierByID(ctx, *item.PreferredSupplierID)
			switch {
			case err == nil:
				preferred = supplier
				if supplier.LeadTimeDays != nil && *supplier.LeadTimeDays > 0 {
					leadTime = *supplier.LeadTimeDays
				}
			case errors.Is(err, repository.ErrNotFound):
				s.logger.WithFields(logrus.Fields{
					"item":     item.Name,
					"supplier": item.PreferredSupplierID,
				}).Warn("Preferred supplier no longer exists")
			default:
				return nil, err
			}
		}

		safetyStock := float64(safetyStockDays) * dailyUsage
		refillToMax := item.MaxStock - item.CurrentStock
		leadDemand := float64(leadTime)*dailyUsage + safetyStock
		// Every item at or below its reorder point gets a row, even when
		// there is nothing to order right now.
		quantity := math.Ceil(math.Max(refillToMax, leadDemand))
		if quantity < 0 {
			quantity = 0
		}

		suggestions = append(suggestions, models.ReorderSuggestion{
			InventoryItemID:        item.ID,
			Name:                   item.Name,
			Unit:                   item.Unit,
			CurrentStock:           item.CurrentStock,
			MinStock:               item.MinStock,
			MaxStock:               item.MaxStock,
			ReorderPoint:           item.ReorderPoint,
			AverageDailyUsage:      dailyUsage,
			LeadTimeDays:           leadTime,
			SafetyStock:            safetyStock,
			SuggestedOrderQuantity: quantity,
			EstimatedCost:          quantity * item.LastCost,
			PreferredSupplier:      preferred,
			UrgencyLevel:           urgencyFor(item),
			CalculatedAt:           now,
		})
	}

	sort.Slice(suggestions, func(i, j int) bool {
		return urgencyRank(suggestions[i].UrgencyLevel) < urgencyRank(suggestions[j].UrgencyLevel)
	})
	return suggestions, nil
}

func urgencyFor(item models.InventoryItem) models.UrgencyLevel {
	switch {
	case item.CurrentStock <= 0:
		return models.UrgencyCritical
	case item.CurrentStock <= item.MinStock:
		return models.UrgencyHigh
	case item.CurrentStock <= item.ReorderPoint:
		return models.UrgencyMedium
	default:
		return models.UrgencyLow
	}
}

func urgencyRank(level models.UrgencyLevel) int {
	switch level {
	case models.UrgencyCritical:
		return 0
	case models.UrgencyHigh:
		return 1
	case models.UrgencyMedium:
		return 2
	default:
		return 3
	}
}
