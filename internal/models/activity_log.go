package models

import (
	"encoding/json"
	"time"
)

// ActivityLog is an append-only audit record. Writes are fire-and-forget:
// a failed log write never blocks or fails the primary operation.
type ActivityLog struct {
	ID        int             `json:"id"`
	Type      string          `json:"type"`
	Action    string          `json:"action"`
	Message   string          `json:"message"`
	RefID     *int            `json:"ref_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// ActivityLogFilter narrows audit listings.
type ActivityLogFilter struct {
	Type   string
	Action string
	Limit  int
	Offset int
}
