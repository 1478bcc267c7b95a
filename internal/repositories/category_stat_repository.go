package repositories

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mica-backend/internal/models"
)

// categoryStatRetention is how many distinct dates each category keeps;
// older rows are pruned after every fold.
const categoryStatRetention = 30

type CategoryStatRepository struct {
	DB *pgxpool.Pool
}

func NewCategoryStatRepository(db *pgxpool.Pool) *CategoryStatRepository {
	return &CategoryStatRepository{DB: db}
}

// Fold merges one batch into its (category, date) row. The row is locked
// for the duration so the JSONB sub-product map merge cannot race with a
// concurrent fold for the same cell. Pruning to the retention window runs
// in the same transaction.
func (r *CategoryStatRepository) Fold(ctx context.Context, b *models.ProductionBatch) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var rawUsed, loss float64
	var producedJSON []byte
	err = tx.QueryRow(ctx,
		`SELECT raw_used_kg, loss_kg, produced_by_sub
         FROM daily_category_stats
         WHERE category_id=$1 AND stat_date=$2
         FOR UPDATE`,
		b.CategoryID, b.ProcessingDate,
	).Scan(&rawUsed, &loss, &producedJSON)

	produced := make(map[string]float64)
	switch err {
	case nil:
		if err := json.Unmarshal(producedJSON, &produced); err != nil {
			return err
		}
	case pgx.ErrNoRows:
		// first batch for this cell
	default:
		return err
	}

	for _, line := range b.Lines {
		key := strconv.Itoa(line.SubProductID)
		produced[key] += line.QuantityKg
	}
	mergedJSON, err := json.Marshal(produced)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO daily_category_stats (category_id, stat_date, raw_used_kg, loss_kg, produced_by_sub, updated_at)
         VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP)
         ON CONFLICT (category_id, stat_date) DO UPDATE SET
            raw_used_kg = $3, loss_kg = $4, produced_by_sub = $5, updated_at = CURRENT_TIMESTAMP`,
		b.CategoryID, b.ProcessingDate, rawUsed+b.RawUsedKg, loss+b.LossKg, mergedJSON)
	if err != nil {
		return err
	}

	// Keep only the newest dates for this category
	_, err = tx.Exec(ctx,
		`DELETE FROM daily_category_stats
         WHERE category_id=$1 AND stat_date NOT IN (
            SELECT stat_date FROM daily_category_stats
            WHERE category_id=$1
            ORDER BY stat_date DESC
            LIMIT $2
         )`, b.CategoryID, categoryStatRetention)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// GetRecent returns the newest stat rows for a category, newest first.
func (r *CategoryStatRepository) GetRecent(ctx context.Context, categoryID, limit int) ([]*models.DailyCategoryStat, error) {
	if limit <= 0 || limit > categoryStatRetention {
		limit = categoryStatRetention
	}

	rows, err := r.DB.Query(ctx,
		`SELECT category_id, stat_date::text, raw_used_kg, loss_kg, produced_by_sub, updated_at
         FROM daily_category_stats
         WHERE category_id=$1
         ORDER BY stat_date DESC
         LIMIT $2`, categoryID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCategoryStats(rows)
}

// GetRange returns a category's stat rows between two dates, oldest first.
func (r *CategoryStatRepository) GetRange(ctx context.Context, categoryID int, startDate, endDate string) ([]*models.DailyCategoryStat, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT category_id, stat_date::text, raw_used_kg, loss_kg, produced_by_sub, updated_at
         FROM daily_category_stats
         WHERE category_id=$1 AND stat_date >= $2 AND stat_date <= $3
         ORDER BY stat_date`, categoryID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanCategoryStats(rows)
}

func scanCategoryStats(rows pgx.Rows) ([]*models.DailyCategoryStat, error) {
	var stats []*models.DailyCategoryStat
	for rows.Next() {
		var s models.DailyCategoryStat
		var producedJSON []byte
		err := rows.Scan(&s.CategoryID, &s.StatDate, &s.RawUsedKg, &s.LossKg, &producedJSON, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		s.ProducedBySub = make(map[string]float64)
		if err := json.Unmarshal(producedJSON, &s.ProducedBySub); err != nil {
			return nil, err
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

// DeleteAll clears the table ahead of a history replay.
func (r *CategoryStatRepository) DeleteAll(ctx context.Context) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM daily_category_stats`)
	return err
}
