package services

import (
	"context"
	"fmt"
	"strconv"

	"mica-backend/internal/cache"
	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
)

type SystemSettingService struct {
	settingRepo  *repositories.SystemSettingRepository
	activityRepo *repositories.ActivityLogRepository
}

func NewSystemSettingService(settingRepo *repositories.SystemSettingRepository, activityRepo *repositories.ActivityLogRepository) *SystemSettingService {
	return &SystemSettingService{settingRepo: settingRepo, activityRepo: activityRepo}
}

func (s *SystemSettingService) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	return s.settingRepo.Get(ctx, key)
}

func (s *SystemSettingService) List(ctx context.Context) ([]*models.SystemSetting, error) {
	return s.settingRepo.List(ctx)
}

// Update validates known numeric settings before writing. ledger_initialized
// is owned by the reconstruction flow and cannot be set by hand.
func (s *SystemSettingService) Update(ctx context.Context, key, value string) (*models.SystemSetting, error) {
	if key == "ledger_initialized" {
		return nil, fmt.Errorf("setting %q is managed by ledger reconstruction", key)
	}
	if key == "loss_alert_percent" {
		pct, err := strconv.ParseFloat(value, 64)
		if err != nil || pct < 0 || pct > 100 {
			return nil, fmt.Errorf("loss_alert_percent must be a number between 0 and 100")
		}
	}

	if err := s.settingRepo.Set(ctx, key, value); err != nil {
		return nil, err
	}

	logActivity(ctx, s.activityRepo, "setting", "update",
		fmt.Sprintf("Setting %s changed to %s", key, value), nil, nil)

	cache.InvalidateSettingCaches(ctx)
	return s.settingRepo.Get(ctx, key)
}
