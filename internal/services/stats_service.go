package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mica-backend/internal/cache"
	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
	"mica-backend/internal/timeutil"
)

const statsCacheTTL = 5 * time.Minute

type StatsService struct {
	dailyStatRepo    *repositories.DailyStatRepository
	categoryStatRepo *repositories.CategoryStatRepository
	categoryRepo     *repositories.CategoryRepository
}

func NewStatsService(
	dailyStatRepo *repositories.DailyStatRepository,
	categoryStatRepo *repositories.CategoryStatRepository,
	categoryRepo *repositories.CategoryRepository,
) *StatsService {
	return &StatsService{
		dailyStatRepo:    dailyStatRepo,
		categoryStatRepo: categoryStatRepo,
		categoryRepo:     categoryRepo,
	}
}

// GetDailyRange returns daily aggregates for [startDate, endDate], cached
// per range unless forceRefresh.
func (s *StatsService) GetDailyRange(ctx context.Context, startDate, endDate string, forceRefresh bool) ([]*models.DailyStat, error) {
	if _, err := timeutil.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	if _, err := timeutil.ParseDate(endDate); err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}

	cacheKey := fmt.Sprintf(cache.DailyStatsKeyFmt, startDate, endDate)
	if !forceRefresh {
		if data, ok := cache.GetCached(ctx, cacheKey); ok {
			var stats []*models.DailyStat
			if err := json.Unmarshal(data, &stats); err == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.dailyStatRepo.GetRange(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []*models.DailyStat{}
	}

	if data, err := json.Marshal(stats); err == nil {
		cache.SetCached(ctx, cacheKey, data, statsCacheTTL)
	}
	return stats, nil
}

// GetToday returns today's aggregate, zero-valued if no batch has been
// recorded yet.
func (s *StatsService) GetToday(ctx context.Context) (*models.DailyStat, error) {
	today := timeutil.Today()
	stat, err := s.dailyStatRepo.Get(ctx, today)
	if err != nil {
		return &models.DailyStat{StatDate: today}, nil
	}
	return stat, nil
}

// GetCategoryRecent returns the newest retained stat rows for one category.
func (s *StatsService) GetCategoryRecent(ctx context.Context, categoryID, limit int) ([]*models.DailyCategoryStat, error) {
	if _, err := s.categoryRepo.Get(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("category %d does not exist", categoryID)
	}
	stats, err := s.categoryStatRepo.GetRecent(ctx, categoryID, limit)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []*models.DailyCategoryStat{}
	}
	return stats, nil
}

// GetCategoryRange returns a category's stat rows for [startDate, endDate].
// Only the newest retained dates exist, so old ranges may come back short.
func (s *StatsService) GetCategoryRange(ctx context.Context, categoryID int, startDate, endDate string) ([]*models.DailyCategoryStat, error) {
	if _, err := s.categoryRepo.Get(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("category %d does not exist", categoryID)
	}
	if _, err := timeutil.ParseDate(startDate); err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}
	if _, err := timeutil.ParseDate(endDate); err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}
	stats, err := s.categoryStatRepo.GetRange(ctx, categoryID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = []*models.DailyCategoryStat{}
	}
	return stats, nil
}

// GetStackedSeries returns a category's sub-product split per date as
// percentages, for the 100%-stacked chart.
func (s *StatsService) GetStackedSeries(ctx context.Context, categoryID int, startDate, endDate string) ([]models.StackedPoint, error) {
	if _, err := s.categoryRepo.Get(ctx, categoryID); err != nil {
		return nil, fmt.Errorf("category %d does not exist", categoryID)
	}
	stats, err := s.categoryStatRepo.GetRange(ctx, categoryID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	return BuildStackedSeries(stats), nil
}

// BuildStackedSeries converts per-date produced weights into percentage
// splits. Dates with zero produced weight come out as an empty map rather
// than dividing by zero.
func BuildStackedSeries(stats []*models.DailyCategoryStat) []models.StackedPoint {
	points := make([]models.StackedPoint, 0, len(stats))
	for _, stat := range stats {
		var total float64
		for _, kg := range stat.ProducedBySub {
			total += kg
		}

		point := models.StackedPoint{
			StatDate: stat.StatDate,
			Percent:  make(map[string]float64, len(stat.ProducedBySub)),
		}
		if total > 0 {
			for sub, kg := range stat.ProducedBySub {
				point.Percent[sub] = kg / total * 100
			}
		}
		points = append(points, point)
	}
	return points
}
