package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"mica-backend/internal/models"
)

type ActivityLogRepository struct {
	DB *pgxpool.Pool
}

func NewActivityLogRepository(db *pgxpool.Pool) *ActivityLogRepository {
	return &ActivityLogRepository{DB: db}
}

func (r *ActivityLogRepository) Create(ctx context.Context, l *models.ActivityLog) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO activity_logs(log_type, action, message, ref_id, data)
         VALUES($1, $2, $3, $4, $5)
         RETURNING id, created_at`,
		l.Type, l.Action, l.Message, l.RefID, l.Data,
	).Scan(&l.ID, &l.CreatedAt)
}

// List returns log entries newest first.
func (r *ActivityLogRepository) List(ctx context.Context, filter models.ActivityLogFilter) ([]*models.ActivityLog, error) {
	query := `
        SELECT id, log_type, action, message, ref_id, data, created_at
        FROM activity_logs
        WHERE 1=1`
	args := []interface{}{}
	argNum := 1

	if filter.Type != "" {
		query += fmt.Sprintf(" AND log_type = $%d", argNum)
		args = append(args, filter.Type)
		argNum++
	}
	if filter.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argNum)
		args = append(args, filter.Action)
		argNum++
	}

	query += " ORDER BY created_at DESC, id DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argNum, argNum+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.ActivityLog
	for rows.Next() {
		var l models.ActivityLog
		if err := rows.Scan(&l.ID, &l.Type, &l.Action, &l.Message, &l.RefID, &l.Data, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
