package controllers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/wadepvenga/gerenciador-tarefas-familia/config"
	"github.com/wadepvenga/gerenciador-tarefas-familia/models"
	"github.com/wadepvenga/gerenciador-tarefas-familia/utils"
)

/* ---------- Структуры для JSON (Auth) ----------- */

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token"`
}

/* ---------- Handlers ------------------ */

// Register создает нового пользователя с ролью по умолчанию
func Register(c *fiber.Ctx) error {
	var input RegisterInput
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
	if msg := utils.ValidatePassword(input.Password); msg != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
	}

	// Email должен быть свободен
	var existing models.User
	if err := config.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пользователь с таким email уже существует"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка обработки пароля"})
	}

	user := models.User{
		Name:                input.Name,
		Email:               input.Email,
		PasswordHash:        string(hash),
		Role:                models.RolePai,
		IsActive:            true,
		FirstLoginCompleted: true, // сам задал пароль при регистрации
	}
	if err := config.DB.Create(&user).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания пользователя"})
	}

	return c.JSON(fiber.Map{"user": user})
}

// Login проверяет учетные данные и выдает пару токенов
func Login(c *fiber.Ctx) error {
	var input LoginInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}

	var user models.User
	if err := config.DB.Where("email = ?", input.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Аккаунт деактивирован"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный email или пароль"})
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}

	now := time.Now()
	user.LastLogin = &now
	config.DB.Save(&user)

	return c.JSON(fiber.Map{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          user,
	})
}

// Refresh выдает новый access токен по refresh токену
func Refresh(c *fiber.Ctx) error {
	var input RefreshInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}

	claims, err := utils.ParseRefreshToken(input.RefreshToken)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Невалидный refresh токен"})
	}
	userID, ok := utils.UserIDFromClaims(claims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Неверный user_id"})
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Пользователь не найден"})
	}
	if !user.IsActive {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Аккаунт деактивирован"})
	}

	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка генерации токена"})
	}

	return c.JSON(fiber.Map{"access_token": accessToken})
}

// Logout — токены живут на клиенте, серверная часть только подтверждает выход
func Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Выход выполнен"})
}

/* ---------- helpers ------------------ */

// currentUser достает пользователя по claims из JWT-middleware.
// При nil-пользователе возвращает статус и текст ошибки для ответа.
func currentUser(c *fiber.Ctx) (*models.User, int, string) {
	claims, ok := c.Locals("user").(jwt.MapClaims)
	if !ok {
		return nil, fiber.StatusUnauthorized, "Нет JWT claims"
	}
	userID, ok := utils.UserIDFromClaims(claims)
	if !ok {
		return nil, fiber.StatusUnauthorized, "Неверный user_id"
	}

	var user models.User
	if err := config.DB.First(&user, userID).Error; err != nil {
		return nil, fiber.StatusBadRequest, "Пользователь не найден"
	}
	return &user, 0, ""
}
