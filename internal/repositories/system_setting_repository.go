package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"mica-backend/internal/models"
)

type SystemSettingRepository struct {
	DB *pgxpool.Pool
}

func NewSystemSettingRepository(db *pgxpool.Pool) *SystemSettingRepository {
	return &SystemSettingRepository{DB: db}
}

func (r *SystemSettingRepository) Get(ctx context.Context, key string) (*models.SystemSetting, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, setting_key, setting_value, updated_at FROM system_settings WHERE setting_key=$1`, key)

	var s models.SystemSetting
	if err := row.Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.UpdatedAt); err != nil {
		return nil, fmt.Errorf("setting %q not found: %w", key, err)
	}
	return &s, nil
}

func (r *SystemSettingRepository) List(ctx context.Context) ([]*models.SystemSetting, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, setting_key, setting_value, updated_at FROM system_settings ORDER BY setting_key`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.SystemSetting
	for rows.Next() {
		var s models.SystemSetting
		if err := rows.Scan(&s.ID, &s.SettingKey, &s.SettingValue, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, &s)
	}
	return settings, rows.Err()
}

// Set upserts a setting value.
func (r *SystemSettingRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO system_settings (setting_key, setting_value, updated_at)
         VALUES ($1, $2, CURRENT_TIMESTAMP)
         ON CONFLICT (setting_key) DO UPDATE
         SET setting_value = EXCLUDED.setting_value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	return err
}
