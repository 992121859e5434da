package services

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"inventory-ledger-service/internal/models"
	"inventory-ledger-service/internal/repository"
)

// AnalyticsService computes reporting views on demand. Every report is
// derived from the catalog, the ledger and the purchase tables at call time;
// no snapshots are stored.
type AnalyticsService struct {
	catalog   repository.CatalogRepositoryInterface
	ledger    repository.LedgerRepositoryInterface
	purchases repository.PurchaseRepositoryInterface
	logger    *logrus.Logger
}

func NewAnalyticsService(
	catalog repository.CatalogRepositoryInterface,
	ledger repository.LedgerRepositoryInterface,
	purchases repository.PurchaseRepositoryInterface,
	logger *logrus.Logger,
) *AnalyticsService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &AnalyticsService{catalog: catalog, ledger: ledger, purchases: purchases, logger: logger}
}

// Dashboard builds the operational overview: stock level bands, inventory
// value at average cost, month-to-date purchase and waste totals, recent
// movement counts and open purchase orders.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*models.DashboardSnapshot, error) {
	items, _, err := s.catalog.ListItems(ctx, models.ItemListFilter{})
	if err != nil {
		return nil, err
	}

	snapshot := &models.DashboardSnapshot{GeneratedAt: time.Now()}
	snapshot.TotalItems = len(items)
	for _, item := range items {
		if !item.IsActive {
			continue
		}
		snapshot.ActiveItems++
		snapshot.TotalInventoryValue += item.CurrentStock * item.AverageCost
		switch {
		case item.CurrentStock <= 0:
			snapshot.OutOfStockItems++
		case item.IsCriticalStock():
			snapshot.CriticalItems++
		case item.IsLowStock():
			snapshot.LowStockItems++
		}
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	// Purchases this month come from order totals, not ledger postings: an
	// order placed but not yet received still counts, and so do tax and
	// shipping that never reach the ledger.
	monthOrders, err := s.purchases.ListOrdersInPeriod(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	for _, order := range monthOrders {
		if order.Status == models.PurchaseStatusCancelled {
			continue
		}
		snapshot.PurchasesThisMonth += order.Total
	}

	wasteType := models.MovementTypeWaste
	waste, err := s.ledger.ListMovements(ctx, models.MovementListFilter{
		Type: &wasteType,
		From: &monthStart,
	})
	if err != nil {
		return nil, err
	}
	for _, m := range waste {
		if !m.IsEntry {
			snapshot.WasteThisMonth += m.TotalCost
		}
	}

	suppliers, err := s.catalog.CountActiveSuppliers(ctx)
	if err != nil {
		return nil, err
	}
	snapshot.ActiveSuppliers = int(suppliers)

	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	today, err := s.ledger.CountMovementsSince(ctx, dayStart)
	if err != nil {
		return nil, err
	}
	snapshot.MovementsToday = int(today)

	week, err := s.ledger.CountMovementsSince(ctx, dayStart.AddDate(0, 0, -6))
	if err != nil {
		return nil, err
	}
	snapshot.MovementsThisWeek = int(week)

	ordered, err := s.purchases.CountOrdersByStatus(ctx, models.PurchaseStatusOrdered)
	if err != nil {
		return nil, err
	}
	snapshot.PendingPurchaseOrders = int(ordered)

	partial, err := s.purchases.CountOrdersByStatus(ctx, models.PurchaseStatusPartial)
	if err != nil {
		return nil, err
	}
	snapshot.PartialPurchaseOrders = int(partial)

	return snapshot, nil
}

// Valuation reports every active item at stock * averageCost.
func (s *AnalyticsService) Valuation(ctx context.Context) (*models.ValuationReport, error) {
	active := true
	items, _, err := s.catalog.ListItems(ctx, models.ItemListFilter{IsActive: &active})
	if err != nil {
		return nil, err
	}

	report := &models.ValuationReport{
		Items:  make([]models.ItemValuation, 0, len(items)),
		Method: "AVERAGE_COST",
		AsOf:   time.Now(),
	}
	for _, item := range items {
		value := item.CurrentStock * item.AverageCost
		report.Items = append(report.Items, models.ItemValuation{
			InventoryItemID: item.ID,
			Name:            item.Name,
			Category:        item.Category,
			Unit:            item.Unit,
			CurrentStock:    item.CurrentStock,
			AverageCost:     item.AverageCost,
			TotalValue:      value,
		})
		report.TotalValue += value
	}
	sort.Slice(report.Items, func(i, j int) bool {
		return report.Items[i].TotalValue > report.Items[j].TotalValue
	})
	return report, nil
}

// Turnover relates what the period consumed to what is currently on the
// shelf. Consumption is the summed cost of exit movements in the period;
// ratio and days-outstanding guard against division by zero.
func (s *AnalyticsService) Turnover(ctx context.Context, from, to time.Time) (*models.TurnoverReport, error) {
	movements, err := s.ledger.ListMovements(ctx, models.MovementListFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	var consumed float64
	for _, m := range movements {
		if !m.IsEntry {
			consumed += m.TotalCost
		}
	}

	valuation, err := s.Valuation(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.TurnoverReport{
		PeriodStart:         from,
		PeriodEnd:           to,
		ConsumedValue:       consumed,
		TotalInventoryValue: valuation.TotalValue,
	}
	if valuation.TotalValue > 0 {
		report.TurnoverRatio = consumed / valuation.TotalValue
	}
	if report.TurnoverRatio > 0 {
		report.DaysInventoryOutstanding = 365 / report.TurnoverRatio
	}
	return report, nil
}

// ABC partitions the valuation by cumulative value share: items covering the
// first 80% are A, up to 95% are B, the tail is C. Zero-value items always
// land in C.
func (s *AnalyticsService) ABC(ctx context.Context) (*models.ABCAnalysis, error) {
	valuation, err := s.Valuation(ctx)
	if err != nil {
		return nil, err
	}

	analysis := &models.ABCAnalysis{
		A:          models.ABCCategory{Category: "A", Items: []models.ItemValuation{}},
		B:          models.ABCCategory{Category: "B", Items: []models.ItemValuation{}},
		C:          models.ABCCategory{Category: "C", Items: []models.ItemValuation{}},
		TotalValue: valuation.TotalValue,
	}

	// A row is classified by the share accumulated before it, so the most
	// valuable item always opens category A even when it alone exceeds 80%.
	var cumulative float64
	for _, row := range valuation.Items {
		share := 0.0
		if valuation.TotalValue > 0 {
			share = cumulative / valuation.TotalValue
		}
		cumulative += row.TotalValue
		var bucket *models.ABCCategory
		switch {
		case row.TotalValue <= 0:
			bucket = &analysis.C
		case share < 0.80:
			bucket = &analysis.A
		case share < 0.95:
			bucket = &analysis.B
		default:
			bucket = &analysis.C
		}
		bucket.Items = append(bucket.Items, row)
		bucket.ItemCount++
		bucket.TotalValue += row.TotalValue
	}
	return analysis, nil
}

// TopMovers ranks items by sale exit quantity within the period, top 10.
func (s *AnalyticsService) TopMovers(ctx context.Context, from, to time.Time) ([]models.ItemActivity, error) {
	saleType := models.MovementTypeSale
	movements, err := s.ledger.ListMovements(ctx, models.MovementListFilter{
		Type: &saleType,
		From: &from,
		To:   &to,
	})
	if err != nil {
		return nil, err
	}

	activity := s.aggregateExits(movements)
	sort.Slice(activity, func(i, j int) bool { return activity[i].Quantity > activity[j].Quantity })
	if len(activity) > 10 {
		activity = activity[:10]
	}
	return activity, nil
}

// SlowMovers lists active items holding stock that moved at most twice in the
// period. Items with no stock on hand are excluded; there is nothing to act on.
func (s *AnalyticsService) SlowMovers(ctx context.Context, from, to time.Time) ([]models.ItemActivity, error) {
	active := true
	items, _, err := s.catalog.ListItems(ctx, models.ItemListFilter{IsActive: &active})
	if err != nil {
		return nil, err
	}
	movements, err := s.ledger.ListMovements(ctx, models.MovementListFilter{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	// Entries and exits both count as activity
	counts := make(map[string]int)
	for _, m := range movements {
		counts[m.InventoryItemID.String()]++
	}

	var slow []models.ItemActivity
	for _, item := range items {
		if item.CurrentStock <= 0 {
			continue
		}
		if counts[item.ID.String()] <= 2 {
			slow = append(slow, models.ItemActivity{
				InventoryItemID: item.ID,
				Name:            item.Name,
				MovementCount:   counts[item.ID.String()],
				CurrentStock:    item.CurrentStock,
			})
		}
	}
	sort.Slice(slow, func(i, j int) bool { return slow[i].MovementCount < slow[j].MovementCount })
	return slow, nil
}

// TopSuppliers ranks suppliers by purchase order spend in the period, top 5.
func (s *AnalyticsService) TopSuppliers(ctx context.Context, from, to time.Time) ([]models.SupplierSpend, error) {
	orders, err := s.purchases.ListOrdersInPeriod(ctx, from, to)
	if err != nil {
		return nil, err
	}

	bySupplier := make(map[string]*models.SupplierSpend)
	for _, order := range orders {
		if order.Status == models.PurchaseStatusCancelled {
			continue
		}
		key := order.SupplierID.String()
		spend, ok := bySupplier[key]
		if !ok {
			spend = &models.SupplierSpend{
				SupplierID:   order.SupplierID,
				SupplierName: order.SupplierName,
			}
			bySupplier[key] = spend
		}
		spend.OrderCount++
		spend.TotalSpent += order.Total
	}

	ranked := make([]models.SupplierSpend, 0, len(bySupplier))
	for _, spend := range bySupplier {
		if spend.OrderCount > 0 {
			spend.AverageOrderValue = spend.TotalSpent / float64(spend.OrderCount)
		}
		ranked = append(ranked, *spend)
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].TotalSpent > ranked[j].TotalSpent })
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	return ranked, nil
}

// FullReport bundles every analytics view for one period.
func (s *AnalyticsService) FullReport(ctx context.Context, from, to time.Time) (*models.FullReport, error) {
	dashboard, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	valuation, err := s.Valuation(ctx)
	if err != nil {
		return nil, err
	}
	turnover, err := s.Turnover(ctx, from, to)
	if err != nil {
		return nil, err
	}
	abc, err := s.ABC(ctx)
	if err != nil {
		return nil, err
	}
	topMovers, err := s.TopMovers(ctx, from, to)
	if err != nil {
		return nil, err
	}
	slowMovers, err := s.SlowMovers(ctx, from, to)
	if err != nil {
		return nil, err
	}
	topSuppliers, err := s.TopSuppliers(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return &models.FullReport{
		PeriodStart:  from,
		PeriodEnd:    to,
		Dashboard:    dashboard,
		Valuation:    valuation,
		Turnover:     turnover,
		ABC:          abc,
		TopMovers:    topMovers,
		SlowMovers:   slowMovers,
		TopSuppliers: topSuppliers,
	}, nil
}

func (s *AnalyticsService) aggregateExits(movements []models.StockMovement) []models.ItemActivity {
	byItem := make(map[string]*models.ItemActivity)
	for _, m := range movements {
		if m.IsEntry {
			continue
		}
		key := m.InventoryItemID.String()
		row, ok := byItem[key]
		if !ok {
			row = &models.ItemActivity{
				InventoryItemID: m.InventoryItemID,
				Name:            m.ItemName,
			}
			byItem[key] = row
		}
		row.Quantity += m.Quantity
		row.TotalCost += m.TotalCost
		row.MovementCount++
	}
	out := make([]models.ItemActivity, 0, len(byItem))
	for _, row := range byItem {
		out = append(out, *row)
	}
	return out
}
