package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strconv"

	"mica-backend/internal/cache"
	"mica-backend/internal/metrics"
	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
	"mica-backend/internal/timeutil"
	"mica-backend/internal/units"
)

type ProductionService struct {
	productionRepo   *repositories.ProductionRepository
	categoryRepo     *repositories.CategoryRepository
	supplierRepo     *repositories.SupplierRepository
	stockRepo        *repositories.StockRepository
	dailyStatRepo    *repositories.DailyStatRepository
	categoryStatRepo *repositories.CategoryStatRepository
	settingRepo      *repositories.SystemSettingRepository
	activityRepo     *repositories.ActivityLogRepository
}

func NewProductionService(
	productionRepo *repositories.ProductionRepository,
	categoryRepo *repositories.CategoryRepository,
	supplierRepo *repositories.SupplierRepository,
	stockRepo *repositories.StockRepository,
	dailyStatRepo *repositories.DailyStatRepository,
	categoryStatRepo *repositories.CategoryStatRepository,
	settingRepo *repositories.SystemSettingRepository,
	activityRepo *repositories.ActivityLogRepository,
) *ProductionService {
	return &ProductionService{
		productionRepo:   productionRepo,
		categoryRepo:     categoryRepo,
		supplierRepo:     supplierRepo,
		stockRepo:        stockRepo,
		dailyStatRepo:    dailyStatRepo,
		categoryStatRepo: categoryStatRepo,
		settingRepo:      settingRepo,
		activityRepo:     activityRepo,
	}
}

// RecordBatch runs the full production pipeline: validate and normalize the
// request, persist the batch, apply stock deltas, fold aggregates. The batch
// row is the durable record; once it is saved, downstream ledger or stat
// failures are reported in the result flags but never undo the batch.
func (s *ProductionService) RecordBatch(ctx context.Context, req *models.CreateProductionBatchRequest) (*models.RecordBatchResult, error) {
	batch, err := s.buildBatch(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.productionRepo.Create(ctx, batch); err != nil {
		return nil, fmt.Errorf("failed to save production batch: %w", err)
	}
	metrics.ProductionBatchesRecorded.Inc()

	result := &models.RecordBatchResult{Batch: batch}

	// Ledger apply, one retry on failure. A batch whose deltas could not be
	// applied stays saved; the ledger catches up on reconstruction.
	deltas := BuildBatchDeltas(batch)
	if err := s.stockRepo.ApplyDeltas(ctx, deltas); err != nil {
		var stockErr *models.StockError
		if errors.As(err, &stockErr) {
			metrics.StockRejections.Inc()
			log.Printf("[Production] batch %d ledger apply rejected: %v", batch.ID, err)
		} else {
			metrics.LedgerRetries.Inc()
			log.Printf("[Production] batch %d ledger apply failed, retrying: %v", batch.ID, err)
			if retryErr := s.stockRepo.ApplyDeltas(ctx, deltas); retryErr != nil {
				log.Printf("[Production] batch %d ledger apply failed after retry: %v", batch.ID, retryErr)
			} else {
				result.StockUpdated = true
			}
		}
	} else {
		result.StockUpdated = true
	}

	// Aggregate folds, non-fatal
	statsOK := true
	if err := s.dailyStatRepo.Fold(ctx, batch); err != nil {
		statsOK = false
		log.Printf("[Production] batch %d daily stat fold failed: %v", batch.ID, err)
	}
	if err := s.categoryStatRepo.Fold(ctx, batch); err != nil {
		statsOK = false
		log.Printf("[Production] batch %d category stat fold failed: %v", batch.ID, err)
	}
	result.StatsUpdated = statsOK

	s.checkLossAlert(ctx, batch)

	logActivity(ctx, s.activityRepo, "production", "create",
		fmt.Sprintf("Recorded batch: %.2fkg raw, %.2fkg produced", batch.RawUsedKg, batch.TotalProducedKg),
		&batch.ID, result)

	cache.InvalidateProductionCaches(ctx)
	return result, nil
}

// buildBatch validates references and converts the request into a batch row
// with all quantities in canonical kilograms.
func (s *ProductionService) buildBatch(ctx context.Context, req *models.CreateProductionBatchRequest) (*models.ProductionBatch, error) {
	date := req.ProcessingDate
	if date == "" {
		date = timeutil.Today()
	} else if _, err := timeutil.ParseDate(date); err != nil {
		return nil, fmt.Errorf("invalid processing date %q: %w", date, err)
	}

	category, err := s.categoryRepo.Get(ctx, req.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("category %d does not exist", req.CategoryID)
	}

	if req.SupplierID != nil {
		if _, err := s.supplierRepo.Get(ctx, *req.SupplierID); err != nil {
			return nil, fmt.Errorf("supplier %d does not exist", *req.SupplierID)
		}
	}

	subIDs := make(map[int]bool, len(category.SubProducts))
	for _, sp := range category.SubProducts {
		subIDs[sp.ID] = true
	}

	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("production batch needs at least one line")
	}

	var lines []models.ProductionLine
	var producedKg float64
	for _, in := range req.Lines {
		if !subIDs[in.SubProductID] {
			return nil, fmt.Errorf("sub-product %d does not exist in category %d", in.SubProductID, req.CategoryID)
		}
		kg := units.ToCanonicalKg(in.Quantity.Value, in.Quantity.Unit)
		if kg < 0 {
			return nil, fmt.Errorf("negative quantity for sub-product %d", in.SubProductID)
		}
		lines = append(lines, models.ProductionLine{SubProductID: in.SubProductID, QuantityKg: kg})
		producedKg += kg
	}

	rawKg := units.ToCanonicalKg(req.RawUsed.Value, req.RawUsed.Unit)
	if rawKg <= 0 {
		return nil, fmt.Errorf("raw quantity must be positive")
	}

	lossKg, yieldPercent := ComputeBatchTotals(rawKg, producedKg)

	return &models.ProductionBatch{
		ProcessingDate:   date,
		SupplierID:       req.SupplierID,
		CategoryID:       req.CategoryID,
		RawUsedKg:        rawKg,
		TotalProducedKg:  producedKg,
		LossKg:           lossKg,
		YieldPercent:     yieldPercent,
		MaleWorkers:      req.MaleWorkers,
		FemaleWorkers:    req.FemaleWorkers,
		DieselUsedLiters: req.DieselUsedLiters,
		HammerChanges:    req.HammerChanges,
		KnifeChanges:     req.KnifeChanges,
		Notes:            req.Notes,
		Lines:            lines,
	}, nil
}

// checkLossAlert writes an alert record when a batch's loss exceeds the
// configured threshold percent.
func (s *ProductionService) checkLossAlert(ctx context.Context, batch *models.ProductionBatch) {
	setting, err := s.settingRepo.Get(ctx, "loss_alert_percent")
	if err != nil {
		return
	}
	threshold, err := strconv.ParseFloat(setting.SettingValue, 64)
	if err != nil || threshold <= 0 || batch.RawUsedKg <= 0 {
		return
	}

	lossPercent := batch.LossKg / batch.RawUsedKg * 100
	if lossPercent > threshold {
		logActivity(ctx, s.activityRepo, "alert", "high_loss",
			fmt.Sprintf("Batch %d loss %.1f%% exceeds %.1f%% threshold", batch.ID, lossPercent, threshold),
			&batch.ID, nil)
	}
}

func (s *ProductionService) GetBatch(ctx context.Context, id int) (*models.ProductionBatch, error) {
	return s.productionRepo.Get(ctx, id)
}

func (s *ProductionService) ListBatches(ctx context.Context, filter models.ProductionFilter) ([]*models.ProductionBatch, error) {
	return s.productionRepo.List(ctx, filter)
}

// ComputeBatchTotals derives loss and yield from raw and produced weights.
// Produced weight above raw input clamps loss to zero (a data-entry
// inconsistency, not an error); yield is still reported above 100%.
func ComputeBatchTotals(rawKg, producedKg float64) (lossKg, yieldPercent float64) {
	lossKg = rawKg - producedKg
	if lossKg < 0 {
		lossKg = 0
	}
	if rawKg > 0 {
		yieldPercent = producedKg / rawKg * 100
	}
	return lossKg, yieldPercent
}

// BuildBatchDeltas produces the ledger adjustments for one batch: a raw
// deduction against the supplier bucket (when the batch names a supplier)
// and a credit per produced sub-product, merged by key.
func BuildBatchDeltas(batch *models.ProductionBatch) []models.StockDelta {
	merged := make(map[string]float64)
	if batch.SupplierID != nil {
		merged[models.RawKey(*batch.SupplierID)] -= batch.RawUsedKg
	}
	for _, line := range batch.Lines {
		merged[models.FinishedKey(line.SubProductID)] += line.QuantityKg
	}
	return sortedDeltas(merged)
}

// sortedDeltas flattens a merged delta map in key order so multi-bucket
// applies always lock rows in the same order.
func sortedDeltas(merged map[string]float64) []models.StockDelta {
	keys := make([]string, 0, len(merged))
	for key := range merged {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	deltas := make([]models.StockDelta, 0, len(keys))
	for _, key := range keys {
		deltas = append(deltas, models.StockDelta{Key: key, Delta: merged[key]})
	}
	return deltas
}
