package services

import (
	"context"
	"fmt"
	"math"

	"mica-backend/internal/cache"
	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
	"mica-backend/internal/units"
)

type SupplierService struct {
	supplierRepo *repositories.SupplierRepository
	stockRepo    *repositories.StockRepository
	activityRepo *repositories.ActivityLogRepository
}

func NewSupplierService(
	supplierRepo *repositories.SupplierRepository,
	stockRepo *repositories.StockRepository,
	activityRepo *repositories.ActivityLogRepository,
) *SupplierService {
	return &SupplierService{
		supplierRepo: supplierRepo,
		stockRepo:    stockRepo,
		activityRepo: activityRepo,
	}
}

func (s *SupplierService) CreateSupplier(ctx context.Context, req *models.CreateSupplierRequest) (*models.Supplier, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("supplier name is required")
	}

	spec := units.NormalizeBagSpec(req.DefaultBagWeight, req.DefaultUnit)
	supplier := &models.Supplier{
		Name:             req.Name,
		ContactPerson:    req.ContactPerson,
		Phone:            req.Phone,
		Address:          req.Address,
		DefaultBagWeight: spec.Weight,
		DefaultUnit:      spec.Unit,
	}

	if err := s.supplierRepo.Create(ctx, supplier); err != nil {
		return nil, err
	}

	logActivity(ctx, s.activityRepo, "supplier", "create",
		fmt.Sprintf("Supplier created: %s", supplier.Name), &supplier.ID, nil)

	cache.InvalidateSupplierCaches(ctx)
	return supplier, nil
}

func (s *SupplierService) GetSupplier(ctx context.Context, id int) (*models.Supplier, error) {
	return s.supplierRepo.Get(ctx, id)
}

func (s *SupplierService) ListSuppliers(ctx context.Context) ([]*models.Supplier, error) {
	return s.supplierRepo.List(ctx)
}

func (s *SupplierService) UpdateSupplier(ctx context.Context, id int, req *models.UpdateSupplierRequest) (*models.Supplier, error) {
	supplier, err := s.supplierRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("supplier name is required")
	}

	spec := units.NormalizeBagSpec(req.DefaultBagWeight, req.DefaultUnit)
	supplier.Name = req.Name
	supplier.ContactPerson = req.ContactPerson
	supplier.Phone = req.Phone
	supplier.Address = req.Address
	supplier.DefaultBagWeight = spec.Weight
	supplier.DefaultUnit = spec.Unit

	if err := s.supplierRepo.Update(ctx, supplier); err != nil {
		return nil, err
	}

	logActivity(ctx, s.activityRepo, "supplier", "update",
		fmt.Sprintf("Supplier updated: %s", supplier.Name), &id, nil)

	cache.InvalidateSupplierCaches(ctx)
	return supplier, nil
}

// DeleteSupplier refuses while any purchase still references the supplier
// or the raw bucket carries a balance, so history and stock never dangle.
func (s *SupplierService) DeleteSupplier(ctx context.Context, id int) error {
	if _, err := s.supplierRepo.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.supplierRepo.CountPurchases(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("supplier %d has %d purchases and cannot be deleted", id, count)
	}

	balance, err := s.stockRepo.Get(ctx, models.RawKey(id))
	if err != nil {
		return err
	}
	if math.Abs(balance) > 1e-6 {
		return fmt.Errorf("supplier %d still has %.2fkg raw stock and cannot be deleted", id, balance)
	}

	if err := s.supplierRepo.Delete(ctx, id); err != nil {
		return err
	}

	logActivity(ctx, s.activityRepo, "supplier", "delete",
		fmt.Sprintf("Supplier %d deleted", id), &id, nil)

	cache.InvalidateSupplierCaches(ctx)
	return nil
}
