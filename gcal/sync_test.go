package gcal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadepvenga/gerenciador-tarefas-familia/models"
)

/* ---------- фейки хранилищ ----------- */

type fakeSettings struct {
	stored    *models.CalendarSettings
	getErr    error
	upsertErr error
}

func (f *fakeSettings) Get(userID uint) (*models.CalendarSettings, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.stored == nil {
		return nil, nil
	}
	cp := *f.stored
	return &cp, nil
}

func (f *fakeSettings) Upsert(s *models.CalendarSettings) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	cp := *s
	f.stored = &cp
	return nil
}

type fakeTasks struct {
	tasks []models.Task
	err   error
}

func (f *fakeTasks) AssignedTo(userID uint) ([]models.Task, error) {
	return f.tasks, f.err
}

type fakeTokens struct {
	token string
	err   error
}

func (f *fakeTokens) ProviderToken(ctx context.Context, userID uint) (string, error) {
	return f.token, f.err
}

type fakeInserter struct {
	mu      sync.Mutex
	created []Event
	calIDs  []string
	failFor map[string]error // по Summary без префикса

	// для теста параллельных запусков
	started chan struct{}
	release chan struct{}
}

func (f *fakeInserter) CreateEvent(calendarID string, ev Event) error {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	title := strings.TrimPrefix(ev.Summary, EventSummaryPrefix)
	if err, ok := f.failFor[title]; ok {
		return err
	}
	f.created = append(f.created, ev)
	f.calIDs = append(f.calIDs, calendarID)
	return nil
}

func newTestSyncer(settings *fakeSettings, tasks *fakeTasks, tokens *fakeTokens, inserter *fakeInserter, now time.Time) *Syncer {
	s := NewSyncer(settings, tasks, tokens)
	s.NewInserter = func(ctx context.Context, token string) (EventInserter, error) {
		return inserter, nil
	}
	s.Now = func() time.Time { return now }
	return s
}

func duePtr(t time.Time) *time.Time { return &t }

/* ---------- тесты координатора ----------- */

func TestSyncSkippedWhenNotConnected(t *testing.T) {
	settings := &fakeSettings{stored: &models.CalendarSettings{UserID: 1, CalendarID: "primary"}}
	inserter := &fakeInserter{}
	s := newTestSyncer(settings, &fakeTasks{}, &fakeTokens{token: ""}, inserter, time.Now())

	result := s.SyncTasks(context.Background(), 1)

	assert.Equal(t, SyncSkipped, result.Status)
	assert.Zero(t, result.SyncedCount)
	assert.Empty(t, inserter.created)
	// last_sync_at не трогаем, если прогон не состоялся
	assert.Nil(t, settings.stored.LastSyncAt)
}

func TestSyncSkippedWhenNoSettings(t *testing.T) {
	settings := &fakeSettings{stored: nil}
	inserter := &fakeInserter{}
	s := newTestSyncer(settings, &fakeTasks{}, &fakeTokens{token: "tok"}, inserter, time.Now())

	result := s.SyncTasks(context.Background(), 1)

	assert.Equal(t, SyncSkipped, result.Status)
	assert.Empty(t, inserter.created)
	assert.Nil(t, settings.stored)
}

func TestSyncFiltersTasksWithoutDueDate(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	due := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)

	settings := &fakeSettings{stored: &models.CalendarSettings{UserID: 1, CalendarID: "family"}}
	tasks := &fakeTasks{tasks: []models.Task{
		{ID: 1, Title: "Comprar mantimentos", Description: "mercado", DueDate: duePtr(due)},
		{ID: 2, Title: "Sem prazo"},
		{ID: 3, Title: "Levar ao médico", DueDate: duePtr(due.Add(24 * time.Hour))},
	}}
	inserter := &fakeInserter{}
	s := newTestSyncer(settings, tasks, &fakeTokens{token: "tok"}, inserter, now)

	result := s.SyncTasks(context.Background(), 1)

	require.Equal(t, SyncCompleted, result.Status)
	assert.Equal(t, 2, result.SyncedCount)
	require.Len(t, inserter.created, 2)

	// порядок источника сохраняется, заголовок получает эмблему
	assert.Equal(t, EventSummaryPrefix+"Comprar mantimentos", inserter.created[0].Summary)
	assert.Equal(t, EventSummaryPrefix+"Levar ao médico", inserter.created[1].Summary)
	assert.Equal(t, "mercado", inserter.created[0].Description)

	// точечное событие: начало == конец == срок задачи
	assert.Equal(t, due, inserter.created[0].Start)
	assert.Equal(t, due, inserter.created[0].End)

	// события уходят в выбранный календарь
	assert.Equal(t, []string{"family", "family"}, inserter.calIDs)

	require.NotNil(t, settings.stored.LastSyncAt)
	assert.Equal(t, now, *settings.stored.LastSyncAt)
}

func TestSyncPartialFailureKeepsGoing(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	due := now.Add(48 * time.Hour)

	settings := &fakeSettings{stored: &models.CalendarSettings{UserID: 1, CalendarID: "primary"}}
	tasks := &fakeTasks{tasks: []models.Task{
		{ID: 1, Title: "Первая", DueDate: duePtr(due)},
		{ID: 2, Title: "Вторая", DueDate: duePtr(due)},
	}}
	inserter := &fakeInserter{failFor: map[string]error{
		"Первая": errors.New("googleapi: Error 500"),
	}}
	s := newTestSyncer(settings, tasks, &fakeTokens{token: "tok"}, inserter, now)

	result := s.SyncTasks(context.Background(), 1)

	// одна ошибка не прерывает цикл и не всплывает наружу
	require.Equal(t, SyncCompleted, result.Status)
	assert.Equal(t, 1, result.SyncedCount)
	require.NotNil(t, settings.stored.LastSyncAt)
	assert.Equal(t, now, *settings.stored.LastSyncAt)
}

func TestSyncZeroEligibleStillStampsLastSync(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	settings := &fakeSettings{stored: &models.CalendarSettings{UserID: 1}}
	tasks := &fakeTasks{tasks: []models.Task{
		{ID: 1, Title: "Без срока"},
	}}
	inserter := &fakeInserter{}
	s := newTestSyncer(settings, tasks, &fakeTokens{token: "tok"}, inserter, now)

	result := s.SyncTasks(context.Background(), 1)

	require.Equal(t, SyncCompleted, result.Status)
	assert.Zero(t, result.SyncedCount)
	assert.Empty(t, inserter.created)
	// отметка ставится даже при нуле отправок
	require.NotNil(t, settings.stored.LastSyncAt)
	assert.Equal(t, now, *settings.stored.LastSyncAt)
}

func TestSyncDefaultsToPrimaryCalendar(t *testing.T) {
	now := time.Now()
	settings := &fakeSettings{stored: &models.CalendarSettings{UserID: 1, CalendarID: ""}}
	tasks := &fakeTasks{tasks: []models.Task{
		{ID: 1, Title: "Задача", DueDate: duePtr(now.Add(time.Hour))},
	}}
	inserter := &fakeInserter{}
	s := newTestSyncer(settings, tasks, &fakeTokens{token: "tok"}, inserter, now)

	result := s.SyncTasks(context.Background(), 1)

	require.Equal(t, SyncCompleted, result.Status)
	require.Len(t, inserter.calIDs, 1)
	assert.Equal(t, "primary", inserter.calIDs[0])
}

func TestSyncRejectsOverlappingRun(t *testing.T) {
	now := time.Now()
	settings := &fakeSettings{stored: &models.CalendarSettings{UserID: 1, CalendarID: "primary"}}
	tasks := &fakeTasks{tasks: []models.Task{
		{ID: 1, Title: "Долгая", DueDate: duePtr(now.Add(time.Hour))},
	}}
	inserter := &fakeInserter{
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	s := newTestSyncer(settings, tasks, &fakeTokens{token: "tok"}, inserter, now)

	first := make(chan SyncResult, 1)
	go func() {
		first <- s.SyncTasks(context.Background(), 1)
	}()

	// первый прогон завис в отправке события
	<-inserter.started

	second := s.SyncTasks(context.Background(), 1)
	assert.Equal(t, SyncFailed, second.Status)

	close(inserter.release)
	result := <-first
	assert.Equal(t, SyncCompleted, result.Status)
	assert.Equal(t, 1, result.SyncedCount)

	// после завершения прогона блокировка снята
	inserter.started = nil
	third := s.SyncTasks(context.Background(), 1)
	assert.Equal(t, SyncCompleted, third.Status)
}

func TestSyncIndependentUsersDoNotBlockEachOther(t *testing.T) {
	now := time.Now()
	settings := &fakeSettings{stored: &models.CalendarSettings{UserID: 1}}
	inserter := &fakeInserter{}
	s := newTestSyncer(settings, &fakeTasks{}, &fakeTokens{token: "tok"}, inserter, now)

	require.True(t, s.tryLock(1))
	defer s.unlock(1)

	result := s.SyncTasks(context.Background(), 2)
	assert.Equal(t, SyncCompleted, result.Status)
}

/* ---------- тесты настроек ----------- */

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func TestUpdateSettingsCreatesRowOnFirstUse(t *testing.T) {
	settings := &fakeSettings{}
	s := newTestSyncer(settings, &fakeTasks{}, &fakeTokens{}, &fakeInserter{}, time.Now())

	merged, err := s.UpdateSettings(7, SettingsPatch{SyncEnabled: boolPtr(true)})
	require.NoError(t, err)

	assert.Equal(t, uint(7), merged.UserID)
	assert.True(t, merged.SyncEnabled)
	// незаданный calendar_id получает дефолт
	assert.Equal(t, "primary", merged.CalendarID)
	require.NotNil(t, settings.stored)
	assert.True(t, settings.stored.SyncEnabled)
}

func TestUpdateSettingsIsIdempotent(t *testing.T) {
	settings := &fakeSettings{}
	s := newTestSyncer(settings, &fakeTasks{}, &fakeTokens{}, &fakeInserter{}, time.Now())

	patch := SettingsPatch{CalendarID: strPtr("family"), SyncEnabled: boolPtr(true)}
	first, err := s.UpdateSettings(7, patch)
	require.NoError(t, err)
	second, err := s.UpdateSettings(7, patch)
	require.NoError(t, err)

	assert.Equal(t, first.CalendarID, second.CalendarID)
	assert.Equal(t, first.SyncEnabled, second.SyncEnabled)
	assert.Equal(t, "family", settings.stored.CalendarID)
}

func TestUpdateSettingsMergesPartialFields(t *testing.T) {
	settings := &fakeSettings{stored: &models.CalendarSettings{
		UserID:      7,
		CalendarID:  "family",
		SyncEnabled: true,
	}}
	s := newTestSyncer(settings, &fakeTasks{}, &fakeTokens{}, &fakeInserter{}, time.Now())

	merged, err := s.UpdateSettings(7, SettingsPatch{SyncEnabled: boolPtr(false)})
	require.NoError(t, err)

	// нетронутое поле сохраняется
	assert.Equal(t, "family", merged.CalendarID)
	assert.False(t, merged.SyncEnabled)
}

func TestUpdateSettingsErrorLeavesStateUnchanged(t *testing.T) {
	settings := &fakeSettings{
		stored:    &models.CalendarSettings{UserID: 7, CalendarID: "family"},
		upsertErr: errors.New("db down"),
	}
	s := newTestSyncer(settings, &fakeTasks{}, &fakeTokens{}, &fakeInserter{}, time.Now())

	_, err := s.UpdateSettings(7, SettingsPatch{CalendarID: strPtr("other")})
	require.Error(t, err)
	assert.Equal(t, "family", settings.stored.CalendarID)
}

/* ---------- тесты автоотправки ----------- */

func TestPushTaskRespectsSyncEnabled(t *testing.T) {
	due := time.Now().Add(time.Hour)
	task := models.Task{ID: 1, Title: "Tarefa", DueDate: &due}

	inserter := &fakeInserter{}
	settings := &fakeSettings{stored: &models.CalendarSettings{UserID: 1, SyncEnabled: false}}
	s := newTestSyncer(settings, &fakeTasks{}, &fakeTokens{token: "tok"}, inserter, time.Now())

	s.PushTask(context.Background(), 1, task)
	assert.Empty(t, inserter.created)

	settings.stored.SyncEnabled = true
	s.PushTask(context.Background(), 1, task)
	require.Len(t, inserter.created, 1)
	assert.Equal(t, EventSummaryPrefix+"Tarefa", inserter.created[0].Summary)
}

func TestPushTaskIgnoresTasksWithoutDueDate(t *testing.T) {
	inserter := &fakeInserter{}
	settings := &fakeSettings{stored: &models.CalendarSettings{UserID: 1, SyncEnabled: true}}
	s := newTestSyncer(settings, &fakeTasks{}, &fakeTokens{token: "tok"}, inserter, time.Now())

	s.PushTask(context.Background(), 1, models.Task{ID: 1, Title: "Sem prazo"})
	assert.Empty(t, inserter.created)
}
