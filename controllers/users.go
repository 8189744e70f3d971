package controllers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/wadepvenga/gerenciador-tarefas-familia/config"
	"github.com/wadepvenga/gerenciador-tarefas-familia/mail"
	"github.com/wadepvenga/gerenciador-tarefas-familia/models"
	"github.com/wadepvenga/gerenciador-tarefas-familia/utils"
)

/* ---------- Структуры для JSON (Users) ----------- */

type CreateUserInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	NucleusID *uint  `json:"nucleus_id"`
}

type UpdateUserInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	NucleusID *uint  `json:"nucleus_id"`
}

/* ---------- Handlers для администрирования ------------------ */

// GetUsers возвращает пользователей: админ видит всех,
// остальные — только свое семейное ядро (изоляция по ядру)
func GetUsers(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	var users []models.User
	query := config.DB.Order("name ASC")
	if user.Role != models.RoleAdmin {
		if user.NucleusID == nil {
			return c.JSON([]models.User{})
		}
		query = query.Where("nucleus_id = ?", *user.NucleusID)
	}
	if err := query.Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки пользователей"})
	}

	return c.JSON(users)
}

// CreateUser создает пользователя со сгенерированным паролем и отправляет доступы почтой.
// Доступно только администратору.
func CreateUser(c *fiber.Ctx) error {
	admin, status, msg := currentUser(c)
	if admin == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if admin.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Нет доступа"})
	}

	var input CreateUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}

	input.Name = utils.SanitizeInput(input.Name)
	if !utils.ValidateName(input.Name) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Имя должно быть от 2 до 100 символов"})
	}
	if !utils.ValidateEmail(input.Email) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректный email"})
	}
	if input.Role == "" {
		input.Role = models.RolePai
	}
	if !models.ValidRole(input.Role) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неизвестная роль"})
	}

	var existing models.User
	if err := config.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пользователь с таким email уже существует"})
	}

	// Выдаем пользователю временный пароль
	password := utils.GenerateSecurePassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обработки пароля"})
	}

	user := models.User{
		Name:                input.Name,
		Email:               input.Email,
		PasswordHash:        string(hash),
		Role:                input.Role,
		NucleusID:           input.NucleusID,
		IsActive:            true,
		FirstLoginCompleted: false,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания пользователя"})
	}

	// Почта — не критична для создания аккаунта
	mailService := mail.NewMailService()
	if err := mailService.SendCredentialsMail(user.Email, user.Name, password); err != nil {
		log.Println("send credentials mail:", err)
	}

	return c.JSON(fiber.Map{"user": user})
}

// UpdateUser меняет имя/email/роль/ядро пользователя (только админ)
func UpdateUser(c *fiber.Ctx) error {
	admin, status, msg := currentUser(c)
	if admin == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if admin.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Нет доступа"})
	}

	var user models.User
	if err := config.DB.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
	}

	var input UpdateUserInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}

	if input.Name != "" {
		input.Name = utils.SanitizeInput(input.Name)
		if !utils.ValidateName(input.Name) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Имя должно быть от 2 до 100 символов"})
		}
		user.Name = input.Name
	}
	if input.Email != "" {
		if !utils.ValidateEmail(input.Email) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Некорректный email"})
		}
		user.Email = input.Email
	}
	if input.Role != "" {
		if !models.ValidRole(input.Role) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неизвестная роль"})
		}
		user.Role = input.Role
	}
	if input.NucleusID != nil {
		user.NucleusID = input.NucleusID
	}

	if err := config.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обновления пользователя"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// ToggleUserStatus активирует/деактивирует аккаунт. Себя деактивировать нельзя.
func ToggleUserStatus(c *fiber.Ctx) error {
	admin, status, msg := currentUser(c)
	if admin == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if admin.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Нет доступа"})
	}

	var user models.User
	if err := config.DB.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
	}
	if user.ID == admin.ID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Нельзя изменить статус собственного аккаунта"})
	}

	user.IsActive = !user.IsActive
	if err := config.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка изменения статуса"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// ResetUserPassword выдает пользователю новый сгенерированный пароль
func ResetUserPassword(c *fiber.Ctx) error {
	admin, status, msg := currentUser(c)
	if admin == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if admin.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Нет доступа"})
	}

	var user models.User
	if err := config.DB.First(&user, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
	}

	password := utils.GenerateSecurePassword()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обработки пароля"})
	}

	user.PasswordHash = string(hash)
	user.FirstLoginCompleted = false
	if err := config.DB.Save(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка сброса пароля"})
	}

	mailService := mail.NewMailService()
	if err := mailService.SendCredentialsMail(user.Email, user.Name, password); err != nil {
		log.Println("send credentials mail:", err)
	}

	return c.JSON(fiber.Map{"message": "Пароль сброшен и отправлен на почту"})
}
