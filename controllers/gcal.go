package controllers

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/wadepvenga/gerenciador-tarefas-familia/config"
	"github.com/wadepvenga/gerenciador-tarefas-familia/gcal"
	"github.com/wadepvenga/gerenciador-tarefas-familia/models"
	"github.com/wadepvenga/gerenciador-tarefas-familia/utils"
)

// Sync — координатор синхронизации, собирается в InitSync после подключения БД
var Sync *gcal.Syncer

// tokens — источник provider-токенов (нужен и напрямую: status, callback)
var tokens *gcal.GormTokenSource

// InitSync связывает координатор с GORM-хранилищами
func InitSync() {
	tokens = &gcal.GormTokenSource{DB: config.DB}
	Sync = gcal.NewSyncer(
		&gcal.GormSettingsStore{DB: config.DB},
		&gcal.GormTaskSource{DB: config.DB},
		tokens,
	)
}

/* ---------- Handlers для Google Calendar ------------------ */

// GetCalendarStatus сообщает, подключен ли Google-календарь
func GetCalendarStatus(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	token, err := tokens.ProviderToken(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка проверки подключения"})
	}

	return c.JSON(fiber.Map{"connected": token != ""})
}

// GetCalendarSettings возвращает настройки синхронизации (или дефолтные, если записи нет)
func GetCalendarSettings(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	settings, err := Sync.Settings.Get(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки настроек"})
	}
	if settings == nil {
		settings = &models.CalendarSettings{UserID: user.ID, CalendarID: "primary"}
	}

	return c.JSON(fiber.Map{"settings": settings})
}

// UpdateCalendarSettings применяет частичное обновление настроек (upsert)
func UpdateCalendarSettings(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	var patch gcal.SettingsPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}

	settings, err := Sync.UpdateSettings(user.ID, patch)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения настроек"})
	}

	return c.JSON(fiber.Map{
		"message":  "Настройки сохранены",
		"settings": settings,
	})
}

// ListGoogleCalendars возвращает календари пользователя из Google
func ListGoogleCalendars(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	token, err := tokens.ProviderToken(c.Context(), user.ID)
	if err != nil || token == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Google-календарь не подключен"})
	}

	client, err := gcal.NewClient(c.Context(), token)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Не авторизован в Google"})
	}

	calendars, err := client.ListCalendars()
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Ошибка запроса календарей: " + err.Error()})
	}

	return c.JSON(fiber.Map{"calendars": calendars})
}

// SyncTasks запускает ручную синхронизацию задач пользователя с календарем
func SyncTasks(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	result := Sync.SyncTasks(c.Context(), user.ID)

	switch result.Status {
	case gcal.SyncSkipped:
		return c.JSON(fiber.Map{
			"status":  result.Status,
			"message": "Синхронизация пропущена: подключите Google-календарь и сохраните настройки",
		})
	case gcal.SyncFailed:
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"status": result.Status,
			"error":  result.Reason,
		})
	default:
		return c.JSON(fiber.Map{
			"status":       result.Status,
			"synced_count": result.SyncedCount,
			"message":      "Синхронизация завершена",
		})
	}
}

// ConnectGoogle отправляет пользователя на страницу согласия Google
func ConnectGoogle(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	// state несет user_id: callback приходит без авторизации
	state, err := utils.GenerateStateToken(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации state"})
	}

	return c.JSON(fiber.Map{"url": gcal.AuthURL(state)})
}

// GoogleCallback обменивает authorization code на токены и сохраняет их
func GoogleCallback(c *fiber.Ctx) error {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Не хватает параметров state/code"})
	}

	claims, err := utils.ParseAccessToken(state)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Невалидный state"})
	}
	userID, ok := utils.UserIDFromClaims(claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный user_id"})
	}

	tok, err := gcal.Exchange(c.Context(), code)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Ошибка обмена кода авторизации"})
	}

	if err := tokens.SaveProviderToken(userID, tok.AccessToken, tok.RefreshToken, tok.Expiry); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения токена"})
	}

	// Возвращаем пользователя в приложение
	return c.Redirect(os.Getenv("CLIENT_URL") + "/settings/calendar")
}
