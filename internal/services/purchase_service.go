package services

import (
	"context"
	"fmt"
	"log"

	"mica-backend/internal/cache"
	"mica-backend/internal/metrics"
	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
	"mica-backend/internal/timeutil"
	"mica-backend/internal/units"
)

type PurchaseService struct {
	purchaseRepo *repositories.PurchaseRepository
	supplierRepo *repositories.SupplierRepository
	stockRepo    *repositories.StockRepository
	activityRepo *repositories.ActivityLogRepository
}

func NewPurchaseService(
	purchaseRepo *repositories.PurchaseRepository,
	supplierRepo *repositories.SupplierRepository,
	stockRepo *repositories.StockRepository,
	activityRepo *repositories.ActivityLogRepository,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		supplierRepo: supplierRepo,
		stockRepo:    stockRepo,
		activityRepo: activityRepo,
	}
}

// CreatePurchase records a raw delivery and credits the supplier's raw
// bucket with the canonical weight. The purchase row is durable first; a
// failed ledger credit is retried once and then logged.
func (s *PurchaseService) CreatePurchase(ctx context.Context, req *models.CreatePurchaseRequest) (*models.Purchase, error) {
	supplier, err := s.supplierRepo.Get(ctx, req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("supplier %d does not exist", req.SupplierID)
	}

	if req.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}

	date := req.PurchaseDate
	if date == "" {
		date = timeutil.Today()
	} else if _, err := timeutil.ParseDate(date); err != nil {
		return nil, fmt.Errorf("invalid purchase date %q: %w", date, err)
	}

	unit := req.Unit
	if unit == "" {
		unit = supplier.DefaultUnit
	}
	quantityKg := units.ToCanonicalKg(req.Quantity, unit)

	purchase := &models.Purchase{
		SupplierID:    req.SupplierID,
		SupplierName:  supplier.Name,
		Quantity:      req.Quantity,
		Unit:          unit,
		QuantityKg:    quantityKg,
		InvoiceNumber: req.InvoiceNumber,
		Rate:          req.Rate,
		Amount:        req.Amount,
		Notes:         req.Notes,
		PurchaseDate:  date,
	}

	if err := s.purchaseRepo.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to save purchase: %w", err)
	}

	credit := []models.StockDelta{{Key: models.RawKey(req.SupplierID), Delta: quantityKg}}
	if err := s.stockRepo.ApplyDeltas(ctx, credit); err != nil {
		metrics.LedgerRetries.Inc()
		log.Printf("[Purchase] purchase %d raw credit failed, retrying: %v", purchase.ID, err)
		if retryErr := s.stockRepo.ApplyDeltas(ctx, credit); retryErr != nil {
			log.Printf("[Purchase] purchase %d raw credit failed after retry: %v", purchase.ID, retryErr)
		}
	}

	logActivity(ctx, s.activityRepo, "purchase", "create",
		fmt.Sprintf("Purchase from %s: %.2fkg", supplier.Name, quantityKg),
		&purchase.ID, nil)

	cache.InvalidatePurchaseCaches(ctx)
	return purchase, nil
}

// UpdatePurchase edits invoice metadata and may re-point the supplier. The
// new supplier is validated, but the ledger is not adjusted: the raw credit
// stays where the original delivery put it.
func (s *PurchaseService) UpdatePurchase(ctx context.Context, id int, req *models.UpdatePurchaseRequest) (*models.Purchase, error) {
	if _, err := s.purchaseRepo.Get(ctx, id); err != nil {
		return nil, err
	}
	if _, err := s.supplierRepo.Get(ctx, req.SupplierID); err != nil {
		return nil, fmt.Errorf("supplier %d does not exist", req.SupplierID)
	}
	if req.PurchaseDate != "" {
		if _, err := timeutil.ParseDate(req.PurchaseDate); err != nil {
			return nil, fmt.Errorf("invalid purchase date %q: %w", req.PurchaseDate, err)
		}
	}

	if err := s.purchaseRepo.Update(ctx, id, req); err != nil {
		return nil, err
	}

	logActivity(ctx, s.activityRepo, "purchase", "update",
		fmt.Sprintf("Purchase %d updated", id), &id, nil)

	cache.InvalidatePurchaseCaches(ctx)
	return s.purchaseRepo.Get(ctx, id)
}

// DeletePurchase removes a purchase and debits its credit back out of the
// supplier's raw bucket.
func (s *PurchaseService) DeletePurchase(ctx context.Context, id int) error {
	purchase, err := s.purchaseRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	debit := []models.StockDelta{{Key: models.RawKey(purchase.SupplierID), Delta: -purchase.QuantityKg}}
	if err := s.stockRepo.ApplyDeltas(ctx, debit); err != nil {
		return fmt.Errorf("cannot delete purchase %d: %w", id, err)
	}

	if err := s.purchaseRepo.Delete(ctx, id); err != nil {
		// Put the stock back; the purchase row survived.
		if _, adjErr := s.stockRepo.ApplyAdjustment(ctx, models.RawKey(purchase.SupplierID), purchase.QuantityKg); adjErr != nil {
			log.Printf("[Purchase] re-credit after failed delete also failed: %v", adjErr)
		}
		return err
	}

	logActivity(ctx, s.activityRepo, "purchase", "delete",
		fmt.Sprintf("Purchase %d deleted, %.2fkg debited", id, purchase.QuantityKg), &id, nil)

	cache.InvalidatePurchaseCaches(ctx)
	return nil
}

func (s *PurchaseService) GetPurchase(ctx context.Context, id int) (*models.Purchase, error) {
	return s.purchaseRepo.Get(ctx, id)
}

func (s *PurchaseService) ListPurchases(ctx context.Context, filter models.PurchaseFilter) ([]*models.Purchase, error) {
	return s.purchaseRepo.List(ctx, filter)
}
