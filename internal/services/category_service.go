package services

import (
	"context"
	"fmt"

	"mica-backend/internal/cache"
	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
	"mica-backend/internal/units"
)

type CategoryService struct {
	categoryRepo *repositories.CategoryRepository
	activityRepo *repositories.ActivityLogRepository
}

func NewCategoryService(categoryRepo *repositories.CategoryRepository, activityRepo *repositories.ActivityLogRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo, activityRepo: activityRepo}
}

func (s *CategoryService) CreateCategory(ctx context.Context, req *models.CreateCategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("category name is required")
	}

	category := &models.Category{Name: req.Name}
	for i, in := range req.SubProducts {
		if in.Name == "" {
			return nil, fmt.Errorf("sub-product name is required")
		}
		spec := units.NormalizeBagSpec(in.DefaultBagWeight, in.DefaultUnit)
		position := in.Position
		if position == 0 {
			position = i
		}
		category.SubProducts = append(category.SubProducts, models.SubProduct{
			Name:             in.Name,
			DefaultBagWeight: spec.Weight,
			DefaultUnit:      spec.Unit,
			Position:         position,
		})
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	logActivity(ctx, s.activityRepo, "category", "create",
		fmt.Sprintf("Category created: %s (%d sub-products)", category.Name, len(category.SubProducts)),
		&category.ID, nil)

	cache.InvalidateCategoryCaches(ctx)
	return category, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	return s.categoryRepo.Get(ctx, id)
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int, req *models.UpdateCategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("category name is required")
	}
	if err := s.categoryRepo.Update(ctx, id, req.Name); err != nil {
		return nil, err
	}

	cache.InvalidateCategoryCaches(ctx)
	return s.categoryRepo.Get(ctx, id)
}

// DeleteCategory removes the category and, through the schema cascade, all
// its sub-products. Finished ledger buckets for those sub-products keep
// their rows but stop appearing in summaries.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int) error {
	if _, err := s.categoryRepo.Get(ctx, id); err != nil {
		return err
	}
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}

	logActivity(ctx, s.activityRepo, "category", "delete",
		fmt.Sprintf("Category %d deleted with its sub-products", id), &id, nil)

	cache.InvalidateCategoryCaches(ctx)
	return nil
}

func (s *CategoryService) AddSubProduct(ctx context.Context, categoryID int, req *models.CreateSubProductRequest) (*models.SubProduct, error) {
	if _, err := s.categoryRepo.Get(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("category %d does not exist", categoryID)
	}
	if req.Name == "" {
		return nil, fmt.Errorf("sub-product name is required")
	}

	spec := units.NormalizeBagSpec(req.DefaultBagWeight, req.DefaultUnit)
	sp := &models.SubProduct{
		CategoryID:       categoryID,
		Name:             req.Name,
		DefaultBagWeight: spec.Weight,
		DefaultUnit:      spec.Unit,
		Position:         req.Position,
	}
	if err := s.categoryRepo.AddSubProduct(ctx, sp); err != nil {
		return nil, err
	}

	cache.InvalidateCategoryCaches(ctx)
	return sp, nil
}

func (s *CategoryService) UpdateSubProduct(ctx context.Context, id int, req *models.UpdateSubProductRequest) (*models.SubProduct, error) {
	sp, err := s.categoryRepo.GetSubProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("sub-product name is required")
	}

	spec := units.NormalizeBagSpec(req.DefaultBagWeight, req.DefaultUnit)
	sp.Name = req.Name
	sp.DefaultBagWeight = spec.Weight
	sp.DefaultUnit = spec.Unit
	sp.Position = req.Position

	if err := s.categoryRepo.UpdateSubProduct(ctx, sp); err != nil {
		return nil, err
	}

	cache.InvalidateCategoryCaches(ctx)
	return sp, nil
}

func (s *CategoryService) DeleteSubProduct(ctx context.Context, id int) error {
	if err := s.categoryRepo.DeleteSubProduct(ctx, id); err != nil {
		return err
	}

	cache.InvalidateCategoryCaches(ctx)
	return nil
}
