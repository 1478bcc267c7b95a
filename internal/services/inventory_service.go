package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"mica-backend/internal/cache"
	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
)

// summaryTTL is how long a built inventory summary stays cached before a
// read rebuilds it.
const summaryTTL = 5 * time.Minute

type InventoryService struct {
	stockRepo        *repositories.StockRepository
	supplierRepo     *repositories.SupplierRepository
	categoryRepo     *repositories.CategoryRepository
	purchaseRepo     *repositories.PurchaseRepository
	productionRepo   *repositories.ProductionRepository
	orderRepo        *repositories.OrderRepository
	dailyStatRepo    *repositories.DailyStatRepository
	categoryStatRepo *repositories.CategoryStatRepository
	settingRepo      *repositories.SystemSettingRepository
	activityRepo     *repositories.ActivityLogRepository
}

func NewInventoryService(
	stockRepo *repositories.StockRepository,
	supplierRepo *repositories.SupplierRepository,
	categoryRepo *repositories.CategoryRepository,
	purchaseRepo *repositories.PurchaseRepository,
	productionRepo *repositories.ProductionRepository,
	orderRepo *repositories.OrderRepository,
	dailyStatRepo *repositories.DailyStatRepository,
	categoryStatRepo *repositories.CategoryStatRepository,
	settingRepo *repositories.SystemSettingRepository,
	activityRepo *repositories.ActivityLogRepository,
) *InventoryService {
	return &InventoryService{
		stockRepo:        stockRepo,
		supplierRepo:     supplierRepo,
		categoryRepo:     categoryRepo,
		purchaseRepo:     purchaseRepo,
		productionRepo:   productionRepo,
		orderRepo:        orderRepo,
		dailyStatRepo:    dailyStatRepo,
		categoryStatRepo: categoryStatRepo,
		settingRepo:      settingRepo,
		activityRepo:     activityRepo,
	}
}

// GetSummary returns the stock rollup the dashboard renders. Results are
// cached; forceRefresh bypasses the cache and rebuilds from the ledger. If
// the finished ledger was never initialized the summary is computed by
// replaying history instead, and Source says so.
func (s *InventoryService) GetSummary(ctx context.Context, forceRefresh bool) (*models.InventorySummary, error) {
	if !forceRefresh {
		if data, ok := cache.GetCached(ctx, cache.InventorySummaryKey); ok {
			var summary models.InventorySummary
			if err := json.Unmarshal(data, &summary); err == nil {
				// A cached empty summary gets one rebuild; genuinely empty
				// inventory comes back empty from the ledger anyway.
				if len(summary.RawStockPerSupplier) > 0 || len(summary.FinishedPerCategory) > 0 {
					return &summary, nil
				}
			}
		}
	}

	summary, err := s.buildSummary(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(summary); err == nil {
		cache.SetCached(ctx, cache.InventorySummaryKey, data, summaryTTL)
	}
	return summary, nil
}

func (s *InventoryService) buildSummary(ctx context.Context) (*models.InventorySummary, error) {
	suppliers, err := s.supplierRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	initialized, err := s.ledgerInitialized(ctx)
	if err != nil {
		return nil, err
	}

	var balances map[string]float64
	source := "ledger"
	if initialized {
		entries, err := s.stockRepo.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		balances = make(map[string]float64, len(entries))
		for _, e := range entries {
			balances[e.Key] = e.StockKg
		}
	} else {
		// Ledger never initialized: derive balances by replaying history.
		balances, err = s.replayHistory(ctx)
		if err != nil {
			return nil, err
		}
		source = "history"
	}

	summary := AssembleSummary(balances, suppliers, categories)
	summary.Source = source
	return summary, nil
}

func (s *InventoryService) ledgerInitialized(ctx context.Context) (bool, error) {
	setting, err := s.settingRepo.Get(ctx, "ledger_initialized")
	if err != nil {
		return false, err
	}
	return setting.SettingValue == "true", nil
}

// replayHistory folds every purchase, production batch and completed order
// into per-bucket balances, oldest records first.
func (s *InventoryService) replayHistory(ctx context.Context) (map[string]float64, error) {
	purchases, err := s.purchaseRepo.List(ctx, models.PurchaseFilter{Limit: 1 << 30})
	if err != nil {
		return nil, err
	}
	batches, err := s.productionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListCompleted(ctx)
	if err != nil {
		return nil, err
	}

	return ReplayBalances(purchases, batches, orders), nil
}

// ReconstructFromHistory rebuilds the stock ledger and both aggregate
// tables by replaying every recorded purchase, batch and completed order,
// then marks the ledger initialized. Operator-triggered recovery path for
// when derived data is known or suspected to lag the event history.
func (s *InventoryService) ReconstructFromHistory(ctx context.Context) (*models.InventorySummary, error) {
	balances, err := s.replayHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("history replay failed: %w", err)
	}

	if err := s.stockRepo.ReplaceAll(ctx, balances); err != nil {
		return nil, fmt.Errorf("ledger rewrite failed: %w", err)
	}
	if err := s.settingRepo.Set(ctx, "ledger_initialized", "true"); err != nil {
		return nil, err
	}

	// Rebuild aggregates from the same batch history
	if err := s.dailyStatRepo.DeleteAll(ctx); err != nil {
		return nil, err
	}
	if err := s.categoryStatRepo.DeleteAll(ctx); err != nil {
		return nil, err
	}
	batches, err := s.productionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range batches {
		if err := s.dailyStatRepo.Fold(ctx, b); err != nil {
			log.Printf("[Inventory] daily stat replay failed for batch %d: %v", b.ID, err)
		}
		if err := s.categoryStatRepo.Fold(ctx, b); err != nil {
			log.Printf("[Inventory] category stat replay failed for batch %d: %v", b.ID, err)
		}
	}

	logActivity(ctx, s.activityRepo, "inventory", "reconstruct",
		fmt.Sprintf("Ledger reconstructed from history: %d buckets", len(balances)), nil, nil)

	cache.InvalidateInventoryCaches(ctx)
	cache.InvalidateStatsCaches(ctx)
	return s.GetSummary(ctx, true)
}

// AdjustRawStock applies a manual signed correction to a supplier's raw
// bucket. Corrections may deliberately drive the bucket below what the
// event history implies, so the non-negativity check is skipped.
func (s *InventoryService) AdjustRawStock(ctx context.Context, supplierID int, deltaKg float64, reason string) (float64, error) {
	if _, err := s.supplierRepo.Get(ctx, supplierID); err != nil {
		return 0, fmt.Errorf("supplier %d does not exist", supplierID)
	}

	newBalance, err := s.stockRepo.ApplyAdjustment(ctx, models.RawKey(supplierID), deltaKg)
	if err != nil {
		return 0, err
	}

	logActivity(ctx, s.activityRepo, "inventory", "adjust",
		fmt.Sprintf("Raw stock for supplier %d adjusted by %.2fkg (%s), now %.2fkg", supplierID, deltaKg, reason, newBalance),
		&supplierID, nil)

	cache.InvalidateInventoryCaches(ctx)
	return newBalance, nil
}

// ListLedger exposes the raw bucket rows for the admin stock screen.
func (s *InventoryService) ListLedger(ctx context.Context) ([]models.StockLedgerEntry, error) {
	return s.stockRepo.ListAll(ctx)
}

// ReplayBalances computes per-bucket balances from scratch: purchases
// credit raw buckets, batches move raw into finished, completed orders
// deduct finished.
func ReplayBalances(purchases []*models.Purchase, batches []*models.ProductionBatch, orders []*models.Order) map[string]float64 {
	balances := make(map[string]float64)

	for _, p := range purchases {
		balances[models.RawKey(p.SupplierID)] += p.QuantityKg
	}
	for _, b := range batches {
		if b.SupplierID != nil {
			balances[models.RawKey(*b.SupplierID)] -= b.RawUsedKg
		}
		for _, line := range b.Lines {
			balances[models.FinishedKey(line.SubProductID)] += line.QuantityKg
		}
	}
	for _, o := range orders {
		for _, item := range o.Items {
			balances[models.FinishedKey(item.SubProductID)] -= item.QuantityKg
		}
	}

	return balances
}

// AssembleSummary shapes raw bucket balances into the dashboard rollup.
// Buckets whose supplier or sub-product no longer exists are skipped; raw
// buckets still count toward the raw total.
func AssembleSummary(balances map[string]float64, suppliers []*models.Supplier, categories []*models.Category) *models.InventorySummary {
	summary := &models.InventorySummary{
		RawStockPerSupplier: []models.SupplierStock{},
		FinishedPerCategory: []models.CategoryStock{},
		FinishedPerSub:      []models.SubProductStock{},
	}

	for key, kg := range balances {
		if _, ok := models.ParseLedgerID(key, models.RawKeyPrefix); ok {
			summary.RawStockTotalKg += kg
		}
	}

	for _, sup := range suppliers {
		summary.RawStockPerSupplier = append(summary.RawStockPerSupplier, models.SupplierStock{
			SupplierID:   sup.ID,
			SupplierName: sup.Name,
			StockKg:      balances[models.RawKey(sup.ID)],
		})
	}

	for _, cat := range categories {
		var categoryTotal float64
		for _, sp := range cat.SubProducts {
			kg := balances[models.FinishedKey(sp.ID)]
			categoryTotal += kg
			summary.FinishedPerSub = append(summary.FinishedPerSub, models.SubProductStock{
				SubProductID:   sp.ID,
				SubProductName: sp.Name,
				CategoryID:     cat.ID,
				CategoryName:   cat.Name,
				StockKg:        kg,
			})
		}
		summary.FinishedPerCategory = append(summary.FinishedPerCategory, models.CategoryStock{
			CategoryID:   cat.ID,
			CategoryName: cat.Name,
			StockKg:      categoryTotal,
		})
	}

	return summary
}
