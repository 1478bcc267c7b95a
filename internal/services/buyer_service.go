package services

import (
	"context"
	"fmt"

	"mica-backend/internal/cache"
	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
)

type BuyerService struct {
	buyerRepo    *repositories.BuyerRepository
	activityRepo *repositories.ActivityLogRepository
}

func NewBuyerService(buyerRepo *repositories.BuyerRepository, activityRepo *repositories.ActivityLogRepository) *BuyerService {
	return &BuyerService{buyerRepo: buyerRepo, activityRepo: activityRepo}
}

func (s *BuyerService) CreateBuyer(ctx context.Context, req *models.CreateBuyerRequest) (*models.Buyer, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("buyer name is required")
	}

	buyer := &models.Buyer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := s.buyerRepo.Create(ctx, buyer); err != nil {
		return nil, err
	}

	logActivity(ctx, s.activityRepo, "buyer", "create",
		fmt.Sprintf("Buyer created: %s", buyer.Name), &buyer.ID, nil)

	cache.InvalidateBuyerCaches(ctx)
	return buyer, nil
}

func (s *BuyerService) GetBuyer(ctx context.Context, id int) (*models.Buyer, error) {
	return s.buyerRepo.Get(ctx, id)
}

func (s *BuyerService) ListBuyers(ctx context.Context) ([]*models.Buyer, error) {
	return s.buyerRepo.List(ctx)
}

func (s *BuyerService) UpdateBuyer(ctx context.Context, id int, req *models.UpdateBuyerRequest) (*models.Buyer, error) {
	buyer, err := s.buyerRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name == "" {
		return nil, fmt.Errorf("buyer name is required")
	}

	buyer.Name = req.Name
	buyer.Phone = req.Phone
	buyer.Address = req.Address
	if err := s.buyerRepo.Update(ctx, buyer); err != nil {
		return nil, err
	}

	cache.InvalidateBuyerCaches(ctx)
	return buyer, nil
}

func (s *BuyerService) DeleteBuyer(ctx context.Context, id int) error {
	if err := s.buyerRepo.Delete(ctx, id); err != nil {
		return err
	}

	logActivity(ctx, s.activityRepo, "buyer", "delete",
		fmt.Sprintf("Buyer %d deleted", id), &id, nil)

	cache.InvalidateBuyerCaches(ctx)
	return nil
}
