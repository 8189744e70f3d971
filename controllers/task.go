package controllers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/wadepvenga/gerenciador-tarefas-familia/config"
	"github.com/wadepvenga/gerenciador-tarefas-familia/models"
	"github.com/wadepvenga/gerenciador-tarefas-familia/utils"
)

/* ---------- Структуры для JSON (Task) ----------- */

// CreateTaskInput — структура для создания новой задачи
type CreateTaskInput struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Status        string `json:"status"`
	Priority      string `json:"priority"`
	DueDate       string `json:"due_date"` // RFC3339, пустая строка — без срока
	AssignedUsers []uint `json:"assigned_users"`
}

// UpdateTaskInput — структура для обновления задачи
type UpdateTaskInput struct {
	Title         string  `json:"title"`
	Description   *string `json:"description"`
	Status        string  `json:"status"`
	Priority      string  `json:"priority"`
	DueDate       *string `json:"due_date"` // nil — не менять, "" — убрать срок
	AssignedUsers *[]uint `json:"assigned_users"`
}

/* ---------- helpers ------------------ */

// loadAssignments заполняет AssignedUsers для списка задач
func loadAssignments(tasks []models.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(tasks))
	for i := range tasks {
		tasks[i].AssignedUsers = []uint{}
		ids = append(ids, tasks[i].ID)
	}

	var assignments []models.TaskAssignment
	if err := config.DB.Where("task_id IN ?", ids).Find(&assignments).Error; err != nil {
		return err
	}

	byTask := make(map[uint][]uint)
	for _, a := range assignments {
		byTask[a.TaskID] = append(byTask[a.TaskID], a.UserID)
	}
	for i := range tasks {
		if users, ok := byTask[tasks[i].ID]; ok {
			tasks[i].AssignedUsers = users
		}
	}
	return nil
}

// replaceAssignments перезаписывает назначения задачи.
// Назначать можно только участников того же ядра.
func replaceAssignments(task *models.Task, userIDs []uint) error {
	if err := config.DB.Where("task_id = ?", task.ID).Delete(&models.TaskAssignment{}).Error; err != nil {
		return err
	}

	task.AssignedUsers = []uint{}
	for _, uid := range userIDs {
		var member models.User
		if err := config.DB.First(&member, uid).Error; err != nil {
			continue
		}
		if member.NucleusID == nil || *member.NucleusID != task.NucleusID {
			continue
		}
		if err := config.DB.Create(&models.TaskAssignment{TaskID: task.ID, UserID: uid}).Error; err != nil {
			return err
		}
		task.AssignedUsers = append(task.AssignedUsers, uid)
	}
	return nil
}

func parseDueDate(raw string) (*time.Time, bool) {
	if raw == "" {
		return nil, true
	}
	due, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &due, true
}

/* ---------- Handlers для Task ------------------ */

// CreateTask создает новую задачу в ядре пользователя
func CreateTask(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if user.NucleusID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вы не состоите в ядре"})
	}

	var input CreateTaskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка парсинга JSON"})
	}

	input.Title = utils.SanitizeInput(input.Title)
	if input.Title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название задачи обязательно"})
	}
	if input.Status == "" {
		input.Status = models.StatusPendente
	}
	if !models.ValidStatus(input.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неизвестный статус"})
	}
	if input.Priority == "" {
		input.Priority = models.PriorityMedia
	}
	if !models.ValidPriority(input.Priority) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неизвестный приоритет"})
	}

	due, ok := parseDueDate(input.DueDate)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректный формат due_date"})
	}

	task := models.Task{
		NucleusID:   *user.NucleusID,
		Title:       input.Title,
		Description: input.Description,
		Status:      input.Status,
		Priority:    input.Priority,
		DueDate:     due,
		CreatedBy:   user.ID,
	}
	if err := config.DB.Create(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сохранения задачи"})
	}

	if err := replaceAssignments(&task, input.AssignedUsers); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка назначения пользователей"})
	}

	BroadcastTaskEvent(task.NucleusID, "task_created", task)

	// Автоотправка в календарь назначенных (если у них включена синхронизация)
	if Sync != nil {
		for _, uid := range task.AssignedUsers {
			go Sync.PushTask(context.Background(), uid, task)
		}
	}

	return c.JSON(fiber.Map{"task": task})
}

// GetTasks возвращает все задачи ядра, ближайшие сроки первыми
func GetTasks(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if user.NucleusID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вы не состоите в ядре"})
	}

	var tasks []models.Task
	if err := config.DB.
		Where("nucleus_id = ?", *user.NucleusID).
		Order("due_date ASC NULLS LAST, created_at ASC").
		Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки задач"})
	}
	if err := loadAssignments(tasks); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки назначений"})
	}

	return c.JSON(tasks)
}

// GetMyTasks возвращает задачи, назначенные текущему пользователю
func GetMyTasks(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	var tasks []models.Task
	if err := config.DB.
		Joins("JOIN task_assignments ON task_assignments.task_id = tasks_familia.id").
		Where("task_assignments.user_id = ?", user.ID).
		Order("due_date ASC NULLS LAST, tasks_familia.created_at ASC").
		Find(&tasks).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки задач"})
	}
	if err := loadAssignments(tasks); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки назначений"})
	}

	return c.JSON(tasks)
}

// UpdateTask меняет поля и назначения задачи
func UpdateTask(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	var task models.Task
	if err := config.DB.First(&task, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Задача не найдена"})
	}
	if user.NucleusID == nil || *user.NucleusID != task.NucleusID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Нет доступа к задаче"})
	}

	var input UpdateTaskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Ошибка парсинга JSON"})
	}

	if input.Title != "" {
		task.Title = utils.SanitizeInput(input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Status != "" {
		if !models.ValidStatus(input.Status) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неизвестный статус"})
		}
		task.Status = input.Status
	}
	if input.Priority != "" {
		if !models.ValidPriority(input.Priority) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неизвестный приоритет"})
		}
		task.Priority = input.Priority
	}
	if input.DueDate != nil {
		due, ok := parseDueDate(*input.DueDate)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректный формат due_date"})
		}
		task.DueDate = due
	}

	if err := config.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления задачи"})
	}

	if input.AssignedUsers != nil {
		if err := replaceAssignments(&task, *input.AssignedUsers); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка назначения пользователей"})
		}
	} else {
		var assignments []models.TaskAssignment
		config.DB.Where("task_id = ?", task.ID).Find(&assignments)
		task.AssignedUsers = []uint{}
		for _, a := range assignments {
			task.AssignedUsers = append(task.AssignedUsers, a.UserID)
		}
	}

	BroadcastTaskEvent(task.NucleusID, "task_updated", task)

	return c.JSON(fiber.Map{"task": task})
}

// CompleteTask отмечает задачу выполненной
func CompleteTask(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	var task models.Task
	if err := config.DB.First(&task, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Задача не найдена"})
	}
	if user.NucleusID == nil || *user.NucleusID != task.NucleusID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Нет доступа к задаче"})
	}

	task.Status = models.StatusConcluida
	if err := config.DB.Save(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления задачи"})
	}

	BroadcastTaskEvent(task.NucleusID, "task_updated", task)

	return c.JSON(fiber.Map{"message": "Задача выполнена", "task": task})
}

// DeleteTask мягко удаляет задачу
func DeleteTask(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	var task models.Task
	if err := config.DB.First(&task, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Задача не найдена"})
	}
	if user.NucleusID == nil || *user.NucleusID != task.NucleusID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Нет доступа к задаче"})
	}

	if err := config.DB.Delete(&task).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления задачи"})
	}

	BroadcastTaskEvent(task.NucleusID, "task_deleted", task)

	return c.JSON(fiber.Map{"message": "Задача удалена"})
}
