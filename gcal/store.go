package gcal

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wadepvenga/gerenciador-tarefas-familia/models"
)

/* ---------- GORM-реализации контрактов координатора ----------- */

// GormSettingsStore хранит настройки синхронизации в google_calendar_settings
type GormSettingsStore struct {
	DB *gorm.DB
}

func (s *GormSettingsStore) Get(userID uint) (*models.CalendarSettings, error) {
	var settings models.CalendarSettings
	err := s.DB.Where("user_id = ?", userID).First(&settings).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert создает или обновляет запись по user_id — максимум одна строка на пользователя.
// ID обнуляется, чтобы конфликт разрешался по user_id, а не по первичному ключу.
func (s *GormSettingsStore) Upsert(settings *models.CalendarSettings) error {
	row := *settings
	row.ID = 0
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"calendar_id", "sync_enabled", "last_sync_at", "updated_at",
		}),
	}).Create(&row).Error
	if err != nil {
		return err
	}
	settings.ID = row.ID
	return nil
}

// GormTaskSource выбирает задачи, назначенные пользователю, в порядке выдачи БД
type GormTaskSource struct {
	DB *gorm.DB
}

func (s *GormTaskSource) AssignedTo(userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.DB.
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks_familia.id").
		Where("task_assignments.user_id = ?", userID).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// GormTokenSource читает provider-токен из БД перед каждой операцией.
// Протухший access-токен обновляется через refresh-токен, если тот есть.
type GormTokenSource struct {
	DB *gorm.DB
}

func (s *GormTokenSource) ProviderToken(ctx context.Context, userID uint) (string, error) {
	var row models.ProviderToken
	err := s.DB.Where("user_id = ?", userID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	// Токен еще жив — используем как есть
	if row.Expiry.IsZero() || row.Expiry.After(time.Now().Add(time.Minute)) {
		return row.AccessToken, nil
	}

	// Пробуем обновить. Без refresh-токена пользователь считается отключенным.
	if row.RefreshToken == "" {
		return "", nil
	}
	fresh, err := refreshToken(ctx, &row)
	if err != nil {
		log.Printf("[gcal] не удалось обновить токен пользователя %d: %v", userID, err)
		return "", nil
	}

	row.AccessToken = fresh.AccessToken
	if fresh.RefreshToken != "" {
		row.RefreshToken = fresh.RefreshToken
	}
	row.Expiry = fresh.Expiry
	if err := s.DB.Save(&row).Error; err != nil {
		log.Printf("[gcal] не удалось сохранить обновленный токен пользователя %d: %v", userID, err)
	}
	return row.AccessToken, nil
}

// SaveProviderToken сохраняет токены, полученные в OAuth callback (одна строка на пользователя)
func (s *GormTokenSource) SaveProviderToken(userID uint, accessToken, refreshTok string, expiry time.Time) error {
	row := models.ProviderToken{
		UserID:       userID,
		AccessToken:  accessToken,
		RefreshToken: refreshTok,
		Expiry:       expiry,
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token", "expiry", "updated_at",
		}),
	}).Create(&row).Error
}
