package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/wadepvenga/gerenciador-tarefas-familia/utils"
)

// JWTProtected проверяет заголовок Authorization и кладет claims в c.Locals("user")
func JWTProtected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := c.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Нет токена авторизации"})
		}

		claims, err := utils.ParseAccessToken(strings.TrimPrefix(auth, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Невалидный токен"})
		}

		c.Locals("user", claims)
		return c.Next()
	}
}
