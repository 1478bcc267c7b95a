package services

import (
	"context"
	"encoding/json"
	"log"

	"mica-backend/internal/models"
	"mica-backend/internal/repositories"
)

// logActivity writes an audit record. Failures are logged and swallowed:
// audit logging never blocks or fails the operation that triggered it.
func logActivity(ctx context.Context, repo *repositories.ActivityLogRepository, logType, action, message string, refID *int, data interface{}) {
	if repo == nil {
		return
	}

	entry := &models.ActivityLog{
		Type:    logType,
		Action:  action,
		Message: message,
		RefID:   refID,
	}
	if data != nil {
		if raw, err := json.Marshal(data); err == nil {
			entry.Data = raw
		}
	}

	if err := repo.Create(ctx, entry); err != nil {
		log.Printf("[ActivityLog] write failed (%s/%s): %v", logType, action, err)
	}
}
