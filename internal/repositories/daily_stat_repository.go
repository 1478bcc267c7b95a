package repositories

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"mica-backend/internal/models"
)

type DailyStatRepository struct {
	DB *pgxpool.Pool
}

func NewDailyStatRepository(db *pgxpool.Pool) *DailyStatRepository {
	return &DailyStatRepository{DB: db}
}

// Fold adds one batch's figures into its date row. The increments happen
// server-side in a single upsert, so concurrent batch submissions for the
// same date cannot lose updates.
func (r *DailyStatRepository) Fold(ctx context.Context, b *models.ProductionBatch) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO daily_stats (
            stat_date, total_raw_used_kg, total_produced_kg, total_loss_kg,
            batches, hammer_changes, knife_changes, diesel_used_liters, workers, updated_at)
         VALUES ($1, $2, $3, $4, 1, $5, $6, $7, $8, CURRENT_TIMESTAMP)
         ON CONFLICT (stat_date) DO UPDATE SET
            total_raw_used_kg = daily_stats.total_raw_used_kg + EXCLUDED.total_raw_used_kg,
            total_produced_kg = daily_stats.total_produced_kg + EXCLUDED.total_produced_kg,
            total_loss_kg = daily_stats.total_loss_kg + EXCLUDED.total_loss_kg,
            batches = daily_stats.batches + 1,
            hammer_changes = daily_stats.hammer_changes + EXCLUDED.hammer_changes,
            knife_changes = daily_stats.knife_changes + EXCLUDED.knife_changes,
            diesel_used_liters = daily_stats.diesel_used_liters + EXCLUDED.diesel_used_liters,
            workers = daily_stats.workers + EXCLUDED.workers,
            updated_at = CURRENT_TIMESTAMP`,
		b.ProcessingDate, b.RawUsedKg, b.TotalProducedKg, b.LossKg,
		b.HammerChanges, b.KnifeChanges, b.DieselUsedLiters, b.Workers())
	return err
}

func (r *DailyStatRepository) Get(ctx context.Context, date string) (*models.DailyStat, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT stat_date::text, total_raw_used_kg, total_produced_kg, total_loss_kg,
                batches, hammer_changes, knife_changes, diesel_used_liters, workers, updated_at
         FROM daily_stats WHERE stat_date=$1`, date)

	var s models.DailyStat
	err := row.Scan(&s.StatDate, &s.TotalRawUsedKg, &s.TotalProducedKg, &s.TotalLossKg,
		&s.Batches, &s.HammerChanges, &s.KnifeChanges, &s.DieselUsedLiters, &s.Workers, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.ComputeYield()
	return &s, nil
}

// GetRange returns stat rows between two dates inclusive, oldest first.
func (r *DailyStatRepository) GetRange(ctx context.Context, startDate, endDate string) ([]*models.DailyStat, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT stat_date::text, total_raw_used_kg, total_produced_kg, total_loss_kg,
                batches, hammer_changes, knife_changes, diesel_used_liters, workers, updated_at
         FROM daily_stats
         WHERE stat_date >= $1 AND stat_date <= $2
         ORDER BY stat_date`, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*models.DailyStat
	for rows.Next() {
		var s models.DailyStat
		err := rows.Scan(&s.StatDate, &s.TotalRawUsedKg, &s.TotalProducedKg, &s.TotalLossKg,
			&s.Batches, &s.HammerChanges, &s.KnifeChanges, &s.DieselUsedLiters, &s.Workers, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		s.ComputeYield()
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

// DeleteAll clears the table ahead of a history replay.
func (r *DailyStatRepository) DeleteAll(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM daily_stats`)
	return err
}
