package gcal

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/wadepvenga/gerenciador-tarefas-familia/models"
)

// EventSummaryPrefix — семейная эмблема в заголовке события календаря
const EventSummaryPrefix = "👨‍👩‍👧‍👦 "

/* ---------- Контракты хранилищ ----------- */

// SettingsStore — настройки синхронизации пользователя.
// Get возвращает (nil, nil), если записи еще нет.
type SettingsStore interface {
	Get(userID uint) (*models.CalendarSettings, error)
	Upsert(settings *models.CalendarSettings) error
}

// TaskSource — задачи, назначенные пользователю.
// Фильтр по сроку выполнения намеренно не входит в запрос: выборка шире, чем нужно,
// отсев задач без due_date делает координатор.
type TaskSource interface {
	AssignedTo(userID uint) ([]models.Task, error)
}

// TokenSource — provider-токен Google текущего пользователя.
// Возвращает пустую строку, если календарь не подключен.
type TokenSource interface {
	ProviderToken(ctx context.Context, userID uint) (string, error)
}

// EventInserter — запись одного события в календарь
type EventInserter interface {
	CreateEvent(calendarID string, ev Event) error
}

/* ---------- Результат синхронизации ----------- */

type SyncStatus string

const (
	// SyncSkipped — предусловия не выполнены (нет подключения или настроек), запуск не состоялся
	SyncSkipped SyncStatus = "skipped"
	// SyncCompleted — прогон состоялся, счетчик показывает успешные отправки
	SyncCompleted SyncStatus = "completed"
	// SyncFailed — прогон прерван до цикла отправки
	SyncFailed SyncStatus = "failed"
)

// SyncResult — итог одного запуска синхронизации.
// Детали по отдельным задачам не возвращаются, только агрегат.
type SyncResult struct {
	Status      SyncStatus `json:"status"`
	SyncedCount int        `json:"synced_count"`
	Reason      string     `json:"reason,omitempty"`
}

/* ---------- Координатор ----------- */

// Syncer — координатор ручной синхронизации задач с Google Calendar
type Syncer struct {
	Settings SettingsStore
	Tasks    TaskSource
	Tokens   TokenSource

	// Фабрика клиента календаря; в тестах подменяется фейком
	NewInserter func(ctx context.Context, token string) (EventInserter, error)

	// Часы; в тестах подменяются
	Now func() time.Time

	// Запущенные прогоны: userID → true. Второй одновременный запуск отклоняется.
	mu      sync.Mutex
	running map[uint]bool
}

// NewSyncer собирает координатор с реальным клиентом Google
func NewSyncer(settings SettingsStore, tasks TaskSource, tokens TokenSource) *Syncer {
	return &Syncer{
		Settings: settings,
		Tasks:    tasks,
		Tokens:   tokens,
		NewInserter: func(ctx context.Context, token string) (EventInserter, error) {
			return NewClient(ctx, token)
		},
		Now:     time.Now,
		running: make(map[uint]bool),
	}
}

func (s *Syncer) tryLock(userID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running[userID] {
		return false
	}
	s.running[userID] = true
	return true
}

func (s *Syncer) unlock(userID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, userID)
}

// SyncTasks выполняет один ручной прогон синхронизации для пользователя.
//
// Порядок: предусловия → выборка задач → последовательная отправка событий →
// отметка last_sync_at (безусловная, даже при нуле успешных отправок).
// Ошибка отправки одного события не прерывает цикл и не попадает в результат
// отдельно — только уменьшает счетчик успешных.
func (s *Syncer) SyncTasks(ctx context.Context, userID uint) SyncResult {
	if !s.tryLock(userID) {
		return SyncResult{Status: SyncFailed, Reason: "синхронизация уже выполняется"}
	}
	defer s.unlock(userID)

	// Предусловия: подключение + наличие настроек. Иначе — Skipped, не ошибка.
	token, err := s.Tokens.ProviderToken(ctx, userID)
	if err != nil {
		return SyncResult{Status: SyncFailed, Reason: "не удалось прочитать токен Google"}
	}
	settings, err := s.Settings.Get(userID)
	if err != nil {
		return SyncResult{Status: SyncFailed, Reason: "не удалось прочитать настройки"}
	}
	if token == "" || settings == nil {
		return SyncResult{Status: SyncSkipped}
	}

	inserter, err := s.NewInserter(ctx, token)
	if err != nil {
		// Токен отозван между проверкой и использованием — прерываемся до сетевых вызовов
		return SyncResult{Status: SyncFailed, Reason: "не авторизован в Google"}
	}

	tasks, err := s.Tasks.AssignedTo(userID)
	if err != nil {
		return SyncResult{Status: SyncFailed, Reason: "не удалось загрузить задачи"}
	}

	calendarID := settings.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}

	// Отправка последовательная, в порядке выдачи источника
	synced := 0
	for _, task := range tasks {
		if task.DueDate == nil {
			continue
		}

		ev := Event{
			Summary:     EventSummaryPrefix + task.Title,
			Description: task.Description,
			Start:       *task.DueDate,
			End:         *task.DueDate, // задачи — точечные события, без длительности
		}
		if err := inserter.CreateEvent(calendarID, ev); err != nil {
			log.Printf("[gcal] событие для задачи %d не создано: %v", task.ID, err)
			continue
		}
		synced++
	}

	// Отметка времени ставится даже при нуле успешных отправок:
	// защита от повторных запусков подряд
	now := s.Now()
	settings.UserID = userID
	settings.LastSyncAt = &now
	if err := s.Settings.Upsert(settings); err != nil {
		log.Printf("[gcal] не удалось обновить last_sync_at для %d: %v", userID, err)
	}

	return SyncResult{Status: SyncCompleted, SyncedCount: synced}
}

/* ---------- Настройки ----------- */

// SettingsPatch — частичное обновление настроек
type SettingsPatch struct {
	CalendarID  *string `json:"calendar_id"`
	SyncEnabled *bool   `json:"sync_enabled"`
}

// UpdateSettings сливает частичные поля с текущими настройками и сохраняет upsert-ом.
// Идемпотентно: повторное применение того же патча дает то же состояние.
// При ошибке сохранения текущее состояние не меняется.
func (s *Syncer) UpdateSettings(userID uint, patch SettingsPatch) (*models.CalendarSettings, error) {
	current, err := s.Settings.Get(userID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		current = &models.CalendarSettings{UserID: userID, CalendarID: "primary"}
	}

	merged := *current
	merged.UserID = userID
	if patch.CalendarID != nil {
		merged.CalendarID = *patch.CalendarID
	}
	if patch.SyncEnabled != nil {
		merged.SyncEnabled = *patch.SyncEnabled
	}

	if err := s.Settings.Upsert(&merged); err != nil {
		return nil, err
	}
	return &merged, nil
}

/* ---------- Автоматическая отправка ----------- */

// PushTask отправляет одну задачу в календарь назначенного пользователя,
// если у того включен sync_enabled и подключен Google. Лучшая попытка:
// любая неудача только логируется, создание задачи она не ломает.
func (s *Syncer) PushTask(ctx context.Context, userID uint, task models.Task) {
	if task.DueDate == nil {
		return
	}

	token, err := s.Tokens.ProviderToken(ctx, userID)
	if err != nil || token == "" {
		return
	}
	settings, err := s.Settings.Get(userID)
	if err != nil || settings == nil || !settings.SyncEnabled {
		return
	}

	inserter, err := s.NewInserter(ctx, token)
	if err != nil {
		return
	}

	calendarID := settings.CalendarID
	if calendarID == "" {
		calendarID = "primary"
	}
	ev := Event{
		Summary:     EventSummaryPrefix + task.Title,
		Description: task.Description,
		Start:       *task.DueDate,
		End:         *task.DueDate,
	}
	if err := inserter.CreateEvent(calendarID, ev); err != nil {
		log.Printf("[gcal] автоотправка задачи %d не удалась: %v", task.ID, err)
	}
}
