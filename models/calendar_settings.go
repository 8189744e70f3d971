package models

import "time"

// CalendarSettings — настройки синхронизации с Google Calendar, одна запись на пользователя
type CalendarSettings struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	UserID uint `gorm:"uniqueIndex;not null" json:"user_id"`

	// Целевой календарь; "primary" — основной календарь пользователя
	CalendarID  string `gorm:"size:255;default:primary" json:"calendar_id"`
	SyncEnabled bool   `gorm:"default:false" json:"sync_enabled"`

	// Момент последней успешной ручной синхронизации; пусто до первого запуска
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CalendarSettings) TableName() string {
	return "google_calendar_settings"
}
