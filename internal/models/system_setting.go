package models

import "time"

type SystemSetting struct {
	ID           int       `json:"id"`
	SettingKey   string    `json:"setting_key"`
	SettingValue string    `json:"setting_value"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type UpdateSettingRequest struct {
	SettingValue string `json:"setting_value"`
}
