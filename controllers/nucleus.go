package controllers

import (
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/wadepvenga/gerenciador-tarefas-familia/config"
	"github.com/wadepvenga/gerenciador-tarefas-familia/mail"
	"github.com/wadepvenga/gerenciador-tarefas-familia/models"
	"github.com/wadepvenga/gerenciador-tarefas-familia/utils"
)

/* ---------- Структуры для JSON (Nucleus) ----------- */

// CreateNucleusInput — структура для создания семейного ядра
type CreateNucleusInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// InviteInput — структура для приглашения члена ядра
type InviteInput struct {
	Email string `json:"email"`
}

/* ---------- Handlers ------------------ */

// CreateNucleus создает новое семейное ядро и привязывает к нему создателя,
// если тот еще не состоит ни в одном ядре
func CreateNucleus(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	var input CreateNucleusInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}

	input.Name = utils.SanitizeInput(input.Name)
	if !utils.ValidateName(input.Name) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Название должно быть от 2 до 100 символов"})
	}

	nucleus := models.FamilyNucleus{
		Name:        input.Name,
		Description: utils.SanitizeInput(input.Description),
		CreatedBy:   user.ID,
	}
	if err := config.DB.Create(&nucleus).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания ядра"})
	}

	// Создатель без ядра сразу вступает в новое
	if user.NucleusID == nil {
		user.NucleusID = &nucleus.ID
		config.DB.Save(user)
	}

	return c.JSON(fiber.Map{"nucleus": nucleus})
}

// GetNuclei возвращает все ядра, отсортированные по названию
func GetNuclei(c *fiber.Ctx) error {
	var nuclei []models.FamilyNucleus
	if err := config.DB.Order("name ASC").Find(&nuclei).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки ядер"})
	}
	return c.JSON(nuclei)
}

// DeleteNucleus удаляет ядро. Главное ядро семьи удалить нельзя.
// Участники отвязываются, но не удаляются.
func DeleteNucleus(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if user.Role != models.RoleAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Нет доступа"})
	}

	var nucleus models.FamilyNucleus
	if err := config.DB.First(&nucleus, c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ядро не найдено"})
	}

	// Основное ядро защищено от удаления
	if strings.Contains(strings.ToLower(nucleus.Name), "venga") {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Главное ядро нельзя удалить"})
	}

	if err := config.DB.Model(&models.User{}).
		Where("nucleus_id = ?", nucleus.ID).
		Update("nucleus_id", nil).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка отвязки участников"})
	}
	if err := config.DB.Delete(&nucleus).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка удаления ядра"})
	}

	return c.JSON(fiber.Map{"message": "Ядро удалено"})
}

// InviteMember создает приглашение в ядро для указанного email и отправляет письмо
func InviteMember(c *fiber.Ctx) error {
	inviter, status, msg := currentUser(c)
	if inviter == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if inviter.NucleusID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вы не состоите в ядре, не можете приглашать"})
	}

	var input InviteInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Невозможно разобрать JSON"})
	}

	// Проверяем, существует ли пользователь с данным email
	var invitee models.User
	if err := config.DB.Where("email = ?", input.Email).First(&invitee).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь с таким email не найден"})
	}
	if invitee.NucleusID != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Пользователь уже состоит в ядре"})
	}

	// Генерируем токен приглашения
	inviteToken := uuid.New().String()

	invitation := models.NucleusInvitation{
		NucleusID: *inviter.NucleusID,
		Email:     invitee.Email,
		Token:     inviteToken,
	}
	if err := config.DB.Create(&invitation).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка создания приглашения"})
	}

	inviteLink := os.Getenv("CLIENT_URL") + "/nuclei/invite/" + inviteToken
	mailService := mail.NewMailService()
	if err := mailService.SendNucleusInviteMail(invitee.Email, inviteLink); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка отправки приглашения"})
	}

	return c.JSON(fiber.Map{"message": "Приглашение отправлено"})
}

// AcceptInvitation принимает приглашение и привязывает пользователя к ядру
func AcceptInvitation(c *fiber.Ctx) error {
	token := c.Params("token")
	var invitation models.NucleusInvitation
	if err := config.DB.Where("token = ?", token).First(&invitation).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Неверный токен приглашения"})
	}

	var user models.User
	if err := config.DB.Where("email = ?", invitation.Email).First(&user).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Пользователь не найден"})
	}

	user.NucleusID = &invitation.NucleusID
	config.DB.Save(&user)

	// Приглашение одноразовое
	config.DB.Delete(&invitation)

	return c.JSON(fiber.Map{"message": "Приглашение принято. Вы вступили в семейное ядро."})
}

// GetNucleusDetails возвращает ядро текущего пользователя и его участников
func GetNucleusDetails(c *fiber.Ctx) error {
	user, status, msg := currentUser(c)
	if user == nil {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if user.NucleusID == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Вы не состоите в ядре"})
	}

	var nucleus models.FamilyNucleus
	if err := config.DB.First(&nucleus, *user.NucleusID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Ядро не найдено"})
	}

	var members []models.User
	if err := config.DB.Where("nucleus_id = ?", *user.NucleusID).Find(&members).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Ошибка загрузки участников"})
	}

	return c.JSON(fiber.Map{
		"nucleus": nucleus,
		"members": members,
	})
}
